package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/api/handlers"
	"github.com/eshaffer321/beerbudget/internal/api/middleware"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
)

// Config holds API server configuration.
type Config struct {
	Port             int
	AllowedOrigins   []string
	DefaultAlgorithm optimizer.Algorithm
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:             8080,
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		DefaultAlgorithm: optimizer.AlgorithmKnapsack,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	planner    *planner.Service
	products   *catalog.Store
	gatherer   prometheus.Gatherer
}

// NewServer creates a new API server.
// If products is nil, catalog search is not served. If gatherer is nil,
// /metrics is not served.
func NewServer(cfg Config, svc *planner.Service, products *catalog.Store, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		config:   cfg,
		router:   gin.New(),
		logger:   logger,
		planner:  svc,
		products: products,
		gatherer: gatherer,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	// Request logging
	s.router.Use(middleware.Logging(s.logger, "/health", "/metrics"))

	// CORS
	s.router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
	}))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", handlers.Health)

	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api")
	{
		// Plans
		plansHandler := handlers.NewPlansHandler(s.planner, s.config.DefaultAlgorithm)
		api.POST("/plans", plansHandler.Create)
		api.GET("/plans", plansHandler.List)
		api.GET("/plans/:id", plansHandler.Get)

		// Compare
		compareHandler := handlers.NewCompareHandler(s.planner)
		api.POST("/compare", compareHandler.Compare)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.planner)
		api.GET("/stats", statsHandler.Get)

		// Catalog
		if s.products != nil {
			catalogHandler := handlers.NewCatalogHandler(s.products)
			api.GET("/catalog/search", catalogHandler.Search)
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the HTTP handler for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
