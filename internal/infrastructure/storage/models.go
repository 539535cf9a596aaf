package storage

import (
	"errors"
	"time"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// ErrPlanNotFound is returned when a plan ID does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRecord is a persisted solve result
type PlanRecord struct {
	ID         string       `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	Source     string       `json:"source"` // "cli", "api"
	Algorithm  string       `json:"algorithm"`
	Status     string       `json:"status"`
	Budget     money.Amount `json:"budget"`
	TotalSpend money.Amount `json:"total_spend"`
	ElapsedMS  int64        `json:"elapsed_ms"`

	// Detailed data stored as JSON
	Lines     []PlanLine `json:"lines"`
	LinesJSON string     `json:"-"` // For DB storage
}

// PlanLine is one item of a plan, zero counts included
type PlanLine struct {
	Name      string       `json:"name"`
	CatalogID string       `json:"catalog_id,omitempty"`
	UnitPrice money.Amount `json:"unit_price"`
	Count     int          `json:"count"`
}

// Utilization is the fraction of the budget that was spent.
func (p *PlanRecord) Utilization() float64 {
	if p.Budget <= 0 {
		return 0
	}
	return float64(p.TotalSpend) / float64(p.Budget)
}

// Units is the number of purchased units across all lines.
func (p *PlanRecord) Units() int {
	n := 0
	for _, l := range p.Lines {
		n += l.Count
	}
	return n
}

// Stats contains aggregate plan statistics
type Stats struct {
	TotalPlans         int                       `json:"total_plans"`
	ExactCount         int                       `json:"exact_count"` // plans spending the budget exactly
	TotalBudget        money.Amount              `json:"total_budget"`
	TotalSpend         money.Amount              `json:"total_spend"`
	AverageUtilization float64                   `json:"average_utilization"`
	AlgorithmStats     map[string]AlgorithmStats `json:"algorithm_stats"`
}

// AlgorithmStats contains statistics for a single algorithm
type AlgorithmStats struct {
	Count              int     `json:"count"`
	ExactCount         int     `json:"exact_count"`
	AverageUtilization float64 `json:"average_utilization"`
}
