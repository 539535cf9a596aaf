package dto

import (
	"sort"
	"time"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a healthy response with the current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// AllocationResponse is one line of a plan.
type AllocationResponse struct {
	Name      string       `json:"name"`
	CatalogID string       `json:"catalog_id,omitempty"`
	UnitPrice money.Amount `json:"unit_price"`
	Count     int          `json:"count"`
	Spend     money.Amount `json:"spend"`
}

// PlanResponse represents a plan in API responses.
type PlanResponse struct {
	ID          string               `json:"id"`
	CreatedAt   string               `json:"created_at"`
	Source      string               `json:"source,omitempty"`
	Algorithm   string               `json:"algorithm"`
	Status      string               `json:"status"`
	StatusText  string               `json:"status_text"`
	Budget      money.Amount         `json:"budget"`
	TotalSpend  money.Amount         `json:"total_spend"`
	Remaining   money.Amount         `json:"remaining"`
	Units       int                  `json:"units"`
	ElapsedMS   int64                `json:"elapsed_ms"`
	Saved       bool                 `json:"saved"`
	Allocations []AllocationResponse `json:"allocations"`
}

// PlanFromResult converts a fresh solve.
func PlanFromResult(p *planner.Plan) PlanResponse {
	allocs := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocs[i] = AllocationResponse{
			Name:      a.Item.Name,
			CatalogID: a.Item.CatalogID,
			UnitPrice: a.Item.UnitPrice,
			Count:     a.Count,
			Spend:     a.Spend(),
		}
	}

	return PlanResponse{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		Algorithm:   p.Algorithm.String(),
		Status:      string(p.Status),
		StatusText:  p.Status.Describe(),
		Budget:      p.Budget,
		TotalSpend:  p.TotalSpend,
		Remaining:   p.Remaining(),
		Units:       p.Units(),
		ElapsedMS:   p.Elapsed.Milliseconds(),
		Saved:       p.Saved,
		Allocations: allocs,
	}
}

// PlanFromRecord converts a stored plan.
func PlanFromRecord(r *storage.PlanRecord) PlanResponse {
	allocs := make([]AllocationResponse, len(r.Lines))
	for i, l := range r.Lines {
		allocs[i] = AllocationResponse{
			Name:      l.Name,
			CatalogID: l.CatalogID,
			UnitPrice: l.UnitPrice,
			Count:     l.Count,
			Spend:     l.UnitPrice.Mul(l.Count),
		}
	}

	return PlanResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Source:      r.Source,
		Algorithm:   r.Algorithm,
		Status:      r.Status,
		StatusText:  statusText(r.Status),
		Budget:      r.Budget,
		TotalSpend:  r.TotalSpend,
		Remaining:   r.Budget - r.TotalSpend,
		Units:       r.Units(),
		ElapsedMS:   r.ElapsedMS,
		Saved:       true,
		Allocations: allocs,
	}
}

func statusText(status string) string {
	return optimizer.Status(status).Describe()
}

// PlanListResponse is returned when listing plans.
type PlanListResponse struct {
	Plans      []PlanResponse `json:"plans"`
	TotalCount int            `json:"total_count"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// ComparisonResponse is one algorithm's outcome.
type ComparisonResponse struct {
	Algorithm string        `json:"algorithm"`
	Plan      *PlanResponse `json:"plan,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
}

// CompareResponse is returned by POST /api/compare.
type CompareResponse struct {
	Budget  money.Amount         `json:"budget"`
	Best    string               `json:"best,omitempty"`
	Results []ComparisonResponse `json:"results"`
}

// AlgorithmStatsResponse contains per-algorithm statistics.
type AlgorithmStatsResponse struct {
	Algorithm          string  `json:"algorithm"`
	Count              int     `json:"count"`
	ExactCount         int     `json:"exact_count"`
	AverageUtilization float64 `json:"average_utilization"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	TotalPlans         int                      `json:"total_plans"`
	ExactCount         int                      `json:"exact_count"`
	TotalBudget        money.Amount             `json:"total_budget"`
	TotalSpend         money.Amount             `json:"total_spend"`
	AverageUtilization float64                  `json:"average_utilization"`
	Algorithms         []AlgorithmStatsResponse `json:"algorithms"`
}

// StatsFromStorage converts aggregate statistics. Algorithms are sorted by name.
func StatsFromStorage(stats *storage.Stats) StatsResponse {
	algs := make([]AlgorithmStatsResponse, 0, len(stats.AlgorithmStats))
	for name, as := range stats.AlgorithmStats {
		algs = append(algs, AlgorithmStatsResponse{
			Algorithm:          name,
			Count:              as.Count,
			ExactCount:         as.ExactCount,
			AverageUtilization: as.AverageUtilization,
		})
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i].Algorithm < algs[j].Algorithm })

	return StatsResponse{
		TotalPlans:         stats.TotalPlans,
		ExactCount:         stats.ExactCount,
		TotalBudget:        stats.TotalBudget,
		TotalSpend:         stats.TotalSpend,
		AverageUtilization: stats.AverageUtilization,
		Algorithms:         algs,
	}
}

// ProductResponse is one catalog article.
type ProductResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	VolumeML string       `json:"volume_ml,omitempty"`
}

// SearchResultResponse holds the candidates for one query.
type SearchResultResponse struct {
	Query    string            `json:"query"`
	Unique   bool              `json:"unique"`
	Products []ProductResponse `json:"products"`
}

// CatalogSearchResponse is returned by the catalog search endpoint.
type CatalogSearchResponse struct {
	Results []SearchResultResponse `json:"results"`
}

// CatalogSearchFromMatches converts search matches, keeping query order.
func CatalogSearchFromMatches(matches []catalog.Match) CatalogSearchResponse {
	results := make([]SearchResultResponse, len(matches))
	for i, m := range matches {
		products := make([]ProductResponse, len(m.Products))
		for j, p := range m.Products {
			products[j] = ProductResponse{
				ID:    p.ID,
				Name:  p.DisplayName(),
				Price: p.Price,
			}
			if !p.VolumeML.IsZero() {
				products[j].VolumeML = p.VolumeML.String()
			}
		}
		results[i] = SearchResultResponse{
			Query:    m.Query,
			Unique:   m.Unique(),
			Products: products,
		}
	}
	return CatalogSearchResponse{Results: results}
}
