package planner

import (
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// ToRecord converts a plan into its stored form. Every allocation becomes
// a line, zero counts included, so the record mirrors the input order.
func ToRecord(plan *Plan, source string) *storage.PlanRecord {
	lines := make([]storage.PlanLine, len(plan.Allocations))
	for i, a := range plan.Allocations {
		lines[i] = storage.PlanLine{
			Name:      a.Item.Name,
			CatalogID: a.Item.CatalogID,
			UnitPrice: a.Item.UnitPrice,
			Count:     a.Count,
		}
	}

	return &storage.PlanRecord{
		ID:         plan.ID,
		CreatedAt:  plan.CreatedAt,
		Source:     source,
		Algorithm:  plan.Algorithm.String(),
		Status:     string(plan.Status),
		Budget:     plan.Budget,
		TotalSpend: plan.TotalSpend,
		ElapsedMS:  plan.Elapsed.Milliseconds(),
		Lines:      lines,
	}
}

// GetPlan loads a stored plan.
func (s *Service) GetPlan(id string) (*storage.PlanRecord, error) {
	if s.repo == nil {
		return nil, ErrNoStorage
	}
	return s.repo.GetPlan(id)
}

// ListPlans lists stored plans, newest first.
func (s *Service) ListPlans(filters storage.PlanFilters) (*storage.PlanListResult, error) {
	if s.repo == nil {
		return nil, ErrNoStorage
	}
	return s.repo.ListPlans(filters)
}

// Stats aggregates stored plans.
func (s *Service) Stats() (*storage.Stats, error) {
	if s.repo == nil {
		return nil, ErrNoStorage
	}
	return s.repo.GetStats()
}
