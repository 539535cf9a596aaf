package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides database access for plan history
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	return NewStorageWithLogger(dbPath, slog.Default())
}

// NewStorageWithLogger is NewStorage with an explicit logger for migration output.
func NewStorageWithLogger(dbPath string, logger *slog.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; serialize through one connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	s := &Storage{db: db, logger: logger}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Ensure Storage implements Repository
var _ Repository = (*Storage)(nil)

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SavePlan inserts or replaces a plan by ID
func (s *Storage) SavePlan(plan *PlanRecord) error {
	if plan.ID == "" {
		return errors.New("plan ID is required")
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	linesJSON, err := json.Marshal(plan.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode plan lines: %w", err)
	}
	plan.LinesJSON = string(linesJSON)

	query := `
	INSERT OR REPLACE INTO plans
	(id, created_at, source, algorithm, status, budget, total_spend,
	 elapsed_ms, line_count, lines_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		plan.ID,
		plan.CreatedAt,
		plan.Source,
		plan.Algorithm,
		plan.Status,
		int64(plan.Budget),
		int64(plan.TotalSpend),
		plan.ElapsedMS,
		len(plan.Lines),
		plan.LinesJSON,
	)

	return err
}

const planColumns = `id, created_at, source, algorithm, status, budget, total_spend,
	       elapsed_ms, lines_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*PlanRecord, error) {
	plan := &PlanRecord{}
	var source sql.NullString
	err := row.Scan(
		&plan.ID,
		&plan.CreatedAt,
		&source,
		&plan.Algorithm,
		&plan.Status,
		&plan.Budget,
		&plan.TotalSpend,
		&plan.ElapsedMS,
		&plan.LinesJSON,
	)
	if err != nil {
		return nil, err
	}
	plan.Source = source.String

	if plan.LinesJSON != "" {
		if err := json.Unmarshal([]byte(plan.LinesJSON), &plan.Lines); err != nil {
			return nil, fmt.Errorf("plan %s: corrupt lines: %w", plan.ID, err)
		}
	}
	return plan, nil
}

// GetPlan retrieves a plan by ID
func (s *Storage) GetPlan(id string) (*PlanRecord, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	plan, err := scanPlan(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns plans newest first
func (s *Storage) ListPlans(filters PlanFilters) (*PlanListResult, error) {
	where := ""
	var args []any
	if filters.Algorithm != "" {
		where = " WHERE algorithm = ?"
		args = append(args, filters.Algorithm)
	}

	result := &PlanListResult{
		Plans:  []*PlanRecord{},
		Limit:  filters.limit(),
		Offset: filters.Offset,
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM plans`+where, args...).Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}

	query := `SELECT ` + planColumns + ` FROM plans` + where +
		` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, append(args, result.Limit, result.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		result.Plans = append(result.Plans, plan)
	}

	return result, rows.Err()
}

// GetStats returns aggregate statistics over all stored plans
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{
		AlgorithmStats: make(map[string]AlgorithmStats),
	}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN total_spend = budget THEN 1 END) as exact,
		COALESCE(SUM(budget), 0) as total_budget,
		COALESCE(SUM(total_spend), 0) as total_spend,
		COALESCE(AVG(CASE WHEN budget > 0 THEN CAST(total_spend AS REAL) / budget END), 0) as utilization
	FROM plans
	`

	err := s.db.QueryRow(query).Scan(
		&stats.TotalPlans,
		&stats.ExactCount,
		&stats.TotalBudget,
		&stats.TotalSpend,
		&stats.AverageUtilization,
	)
	if err != nil {
		return nil, err
	}

	algQuery := `
	SELECT
		algorithm,
		COUNT(*) as count,
		COUNT(CASE WHEN total_spend = budget THEN 1 END) as exact,
		COALESCE(AVG(CASE WHEN budget > 0 THEN CAST(total_spend AS REAL) / budget END), 0) as utilization
	FROM plans
	GROUP BY algorithm
	`

	rows, err := s.db.Query(algQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var algorithm string
		var as AlgorithmStats
		if err := rows.Scan(&algorithm, &as.Count, &as.ExactCount, &as.AverageUtilization); err != nil {
			return nil, err
		}
		stats.AlgorithmStats[algorithm] = as
	}

	return stats, rows.Err()
}
