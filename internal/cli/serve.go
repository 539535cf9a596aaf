package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/api"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/config"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int // 0 uses the configured port
}

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags ServeFlags, logger *slog.Logger) error {
	// Initialize storage
	store, err := storage.NewStorageWithLogger(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	svc := planner.NewService(store, logger, collector, solverOptions(cfg, 0))

	port := cfg.API.Port
	if flags.Port != 0 {
		port = flags.Port
	}
	apiCfg := api.Config{
		Port:             port,
		AllowedOrigins:   cfg.API.AllowedOrigins,
		DefaultAlgorithm: optimizer.ParseAlgorithm(cfg.Solver.Algorithm),
	}

	products := catalog.NewStore(newCatalogCache(cfg, logger.With("component", "catalog")))

	server := api.NewServer(apiCfg, svc, products, reg, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// solverOptions builds optimizer options from config; depth overrides the
// configured limit when positive.
func solverOptions(cfg *config.Config, depth int) optimizer.Options {
	opts := optimizer.Options{
		DepthLimit:    cfg.Solver.DepthLimit,
		MaxTableCells: cfg.Solver.MaxTableCells,
	}
	if depth > 0 {
		opts.DepthLimit = depth
	}
	return opts
}
