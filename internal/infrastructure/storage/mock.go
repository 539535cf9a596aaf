package storage

import (
	"fmt"
	"sort"
	"sync"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu    sync.Mutex
	plans map[string]*PlanRecord
	order []string // insertion order, used as the newest-first tie-break

	// Hooks for test assertions
	SavePlanCalled bool
	LastSavedPlan  *PlanRecord
	GetPlanCalled  bool
	Closed         bool

	// Error injection for testing error paths
	SavePlanErr  error
	GetPlanErr   error
	ListPlansErr error
	GetStatsErr  error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		plans: make(map[string]*PlanRecord),
	}
}

// Ensure MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) SavePlan(plan *PlanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SavePlanCalled = true
	m.LastSavedPlan = plan
	if m.SavePlanErr != nil {
		return m.SavePlanErr
	}
	if plan.ID == "" {
		return fmt.Errorf("plan ID is required")
	}
	if _, exists := m.plans[plan.ID]; !exists {
		m.order = append(m.order, plan.ID)
	}
	cp := *plan
	cp.Lines = append([]PlanLine(nil), plan.Lines...)
	m.plans[plan.ID] = &cp
	return nil
}

func (m *MockRepository) GetPlan(id string) (*PlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetPlanCalled = true
	if m.GetPlanErr != nil {
		return nil, m.GetPlanErr
	}
	plan, ok := m.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return plan, nil
}

func (m *MockRepository) ListPlans(filters PlanFilters) (*PlanListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListPlansErr != nil {
		return nil, m.ListPlansErr
	}

	var matched []*PlanRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		plan := m.plans[m.order[i]]
		if filters.Algorithm != "" && plan.Algorithm != filters.Algorithm {
			continue
		}
		matched = append(matched, plan)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := &PlanListResult{
		Plans:      []*PlanRecord{},
		TotalCount: len(matched),
		Limit:      filters.limit(),
		Offset:     filters.Offset,
	}
	if filters.Offset < len(matched) {
		end := filters.Offset + result.Limit
		if end > len(matched) {
			end = len(matched)
		}
		result.Plans = append(result.Plans, matched[filters.Offset:end]...)
	}
	return result, nil
}

func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &Stats{AlgorithmStats: make(map[string]AlgorithmStats)}
	var utilSum float64
	var utilN int
	algUtil := make(map[string][2]float64)
	for _, id := range m.order {
		plan := m.plans[id]
		stats.TotalPlans++
		stats.TotalBudget += plan.Budget
		stats.TotalSpend += plan.TotalSpend

		as := stats.AlgorithmStats[plan.Algorithm]
		as.Count++
		if plan.TotalSpend == plan.Budget {
			stats.ExactCount++
			as.ExactCount++
		}
		if plan.Budget > 0 {
			u := plan.Utilization()
			utilSum += u
			utilN++
			acc := algUtil[plan.Algorithm]
			algUtil[plan.Algorithm] = [2]float64{acc[0] + u, acc[1] + 1}
		}
		stats.AlgorithmStats[plan.Algorithm] = as
	}
	if utilN > 0 {
		stats.AverageUtilization = utilSum / float64(utilN)
	}
	for alg, acc := range algUtil {
		as := stats.AlgorithmStats[alg]
		as.AverageUtilization = acc[0] / acc[1]
		stats.AlgorithmStats[alg] = as
	}
	return stats, nil
}

func (m *MockRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
