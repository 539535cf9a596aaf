// Package planner runs budget solves on behalf of the CLI and the HTTP API.
// It adds what the optimizer deliberately leaves out: timing, metrics,
// logging and plan history.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// ErrNoStorage is returned by history operations when no repository is configured.
var ErrNoStorage = errors.New("plan history is not configured")

// Request holds parameters for a single solve.
type Request struct {
	Budget    money.Amount
	Items     []optimizer.Item
	Algorithm optimizer.Algorithm
	Save      bool   // persist the plan when a repository is configured
	Source    string // "cli", "api"
}

// Plan is a solve result with an identity.
type Plan struct {
	ID        string
	CreatedAt time.Time
	Elapsed   time.Duration
	Saved     bool
	*optimizer.Result
}

// Comparison is one algorithm's outcome in Compare.
// Err is set when that algorithm alone could not run, e.g. capacity exceeded.
type Comparison struct {
	Algorithm optimizer.Algorithm
	Plan      *Plan
	Err       error
}

// Service orchestrates solves.
type Service struct {
	repo    storage.Repository
	logger  *slog.Logger
	metrics *metrics.Collector
	opts    optimizer.Options
	now     func() time.Time
}

// NewService creates a planner. repo and collector may be nil.
func NewService(repo storage.Repository, logger *slog.Logger, collector *metrics.Collector, opts optimizer.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: collector,
		opts:    opts,
		now:     time.Now,
	}
}

// Options returns the solver options in use.
func (s *Service) Options() optimizer.Options {
	return s.opts
}

// Plan solves req and, when requested, stores the result.
func (s *Service) Plan(ctx context.Context, req Request) (*Plan, error) {
	plan, err := s.solve(ctx, req.Budget, req.Items, req.Algorithm)
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan solved",
		"id", plan.ID,
		"algorithm", plan.Algorithm.String(),
		"status", string(plan.Status),
		"budget", plan.Budget.String(),
		"spend", plan.TotalSpend.String(),
		"items", len(req.Items),
		"elapsed", plan.Elapsed,
	)

	if req.Save {
		if s.repo == nil {
			return nil, ErrNoStorage
		}
		if err := s.repo.SavePlan(ToRecord(plan, req.Source)); err != nil {
			return nil, fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
		}
		plan.Saved = true
		s.logger.Debug("plan saved", "id", plan.ID)
	}

	return plan, nil
}

// Compare runs every algorithm on the same input concurrently. Nothing is
// stored. Input errors abort the comparison; capacity errors are reported
// on the affected algorithm only.
func (s *Service) Compare(ctx context.Context, budget money.Amount, items []optimizer.Item) ([]Comparison, error) {
	results := make([]Comparison, len(optimizer.Algorithms))
	g, gctx := errgroup.WithContext(ctx)

	for i, alg := range optimizer.Algorithms {
		i, alg := i, alg // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		results[i].Algorithm = alg
		g.Go(func() error {
			plan, err := s.solve(gctx, budget, items, alg)
			if errors.Is(err, optimizer.ErrCapacityExceeded) {
				results[i].Err = err
				return nil
			}
			if err != nil {
				return err
			}
			results[i].Plan = plan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("comparison complete", "budget", budget.String(), "items", len(items))
	return results, nil
}

// Best returns the comparison with the highest spend. Earlier algorithms
// win ties. ok is false when every algorithm failed.
func Best(comparisons []Comparison) (best Comparison, ok bool) {
	for _, c := range comparisons {
		if c.Plan == nil {
			continue
		}
		if !ok || c.Plan.TotalSpend > best.Plan.TotalSpend {
			best, ok = c, true
		}
	}
	return best, ok
}

func (s *Service) solve(ctx context.Context, budget money.Amount, items []optimizer.Item, alg optimizer.Algorithm) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	result, err := optimizer.Solve(budget, items, alg, s.opts)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.ObserveFailure(alg.String(), failureReason(err))
		s.logger.Warn("solve rejected", "algorithm", alg.String(), "error", err)
		return nil, err
	}

	utilization := 1.0
	if budget > 0 {
		utilization = float64(result.TotalSpend) / float64(budget)
	}
	s.metrics.ObserveSolve(alg.String(), string(result.Status), elapsed, utilization)

	return &Plan{
		ID:        uuid.NewString(),
		CreatedAt: start.UTC(),
		Elapsed:   elapsed,
		Result:    result,
	}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, optimizer.ErrInvalidBudget):
		return "invalid_budget"
	case errors.Is(err, optimizer.ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, optimizer.ErrCapacityExceeded):
		return "capacity_exceeded"
	default:
		return "error"
	}
}
