package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	PlanRepository
	Close() error
}

// PlanRepository handles plan history
type PlanRepository interface {
	// SavePlan inserts or replaces a plan by ID
	SavePlan(plan *PlanRecord) error

	// GetPlan retrieves a plan by ID, returning ErrPlanNotFound if missing
	GetPlan(id string) (*PlanRecord, error)

	// ListPlans returns plans matching the given filters, newest first
	ListPlans(filters PlanFilters) (*PlanListResult, error)

	// GetStats returns aggregate statistics
	GetStats() (*Stats, error)
}

// PlanFilters defines filters for listing plans
type PlanFilters struct {
	Algorithm string // Filter by algorithm (empty = all)
	Limit     int    // Max results (0 = default 50)
	Offset    int    // Pagination offset
}

// DefaultListLimit is used when PlanFilters.Limit is zero
const DefaultListLimit = 50

func (f PlanFilters) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// PlanListResult contains paginated plan results
type PlanListResult struct {
	Plans      []*PlanRecord `json:"plans"`
	TotalCount int           `json:"total_count"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}
