package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

func beers() []optimizer.Item {
	return []optimizer.Item{
		{Name: "Pilsner", UnitPrice: money.FromUnits(29), CatalogID: "1234"},
		{Name: "Porter", UnitPrice: money.FromUnits(200)},
	}
}

func newTestService(t *testing.T, opts optimizer.Options) (*Service, *storage.MockRepository, *metrics.Collector) {
	t.Helper()
	repo := storage.NewMockRepository()
	collector, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewService(repo, logging.Discard(), collector, opts), repo, collector
}

func TestService_Plan(t *testing.T) {
	svc, repo, _ := newTestService(t, optimizer.DefaultOptions())

	plan, err := svc.Plan(context.Background(), Request{
		Budget:    money.FromUnits(1000),
		Items:     beers(),
		Algorithm: optimizer.AlgorithmKnapsack,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())
	assert.Equal(t, optimizer.AlgorithmKnapsack, plan.Algorithm)
	assert.Equal(t, optimizer.StatusOptimal, plan.Status)
	assert.Equal(t, money.FromUnits(1000), plan.TotalSpend)
	assert.False(t, plan.Saved)
	assert.False(t, repo.SavePlanCalled, "nothing stored unless asked")
}

func TestService_Plan_Save(t *testing.T) {
	svc, repo, _ := newTestService(t, optimizer.DefaultOptions())

	plan, err := svc.Plan(context.Background(), Request{
		Budget:    money.FromUnits(1000),
		Items:     beers(),
		Algorithm: optimizer.AlgorithmRoundRobin,
		Save:      true,
		Source:    "api",
	})
	require.NoError(t, err)
	assert.True(t, plan.Saved)

	stored, err := svc.GetPlan(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "api", stored.Source)
	assert.Equal(t, "roundrobin", stored.Algorithm)
	assert.Equal(t, "baseline", stored.Status)
	assert.Equal(t, money.FromUnits(974), stored.TotalSpend)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, storage.PlanLine{Name: "Pilsner", CatalogID: "1234", UnitPrice: money.FromUnits(29), Count: 6}, stored.Lines[0])
	assert.Equal(t, 4, stored.Lines[1].Count)

	list, err := svc.ListPlans(storage.PlanFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPlans)
	assert.True(t, repo.SavePlanCalled)
}

func TestService_Plan_SaveError(t *testing.T) {
	svc, repo, _ := newTestService(t, optimizer.DefaultOptions())
	repo.SavePlanErr = errors.New("disk full")

	_, err := svc.Plan(context.Background(), Request{Budget: 1000, Items: beers(), Save: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestService_Plan_NoStorage(t *testing.T) {
	svc := NewService(nil, logging.Discard(), nil, optimizer.DefaultOptions())

	_, err := svc.Plan(context.Background(), Request{Budget: 1000, Items: beers(), Save: true})
	assert.ErrorIs(t, err, ErrNoStorage)

	// Solving without history still works with nil metrics and repo.
	plan, err := svc.Plan(context.Background(), Request{Budget: 1000, Items: beers()})
	require.NoError(t, err)
	assert.NotNil(t, plan)

	_, err = svc.GetPlan("x")
	assert.ErrorIs(t, err, ErrNoStorage)
	_, err = svc.ListPlans(storage.PlanFilters{})
	assert.ErrorIs(t, err, ErrNoStorage)
	_, err = svc.Stats()
	assert.ErrorIs(t, err, ErrNoStorage)
}

func TestService_Plan_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t, optimizer.DefaultOptions())

	_, err := svc.Plan(context.Background(), Request{Budget: -1, Items: beers()})
	assert.ErrorIs(t, err, optimizer.ErrInvalidBudget)

	_, err = svc.Plan(context.Background(), Request{
		Budget: 1000,
		Items:  []optimizer.Item{{Name: "Free", UnitPrice: 0}},
	})
	assert.ErrorIs(t, err, optimizer.ErrInvalidItem)
}

func TestService_Plan_CancelledContext(t *testing.T) {
	svc, _, _ := newTestService(t, optimizer.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Plan(ctx, Request{Budget: 1000, Items: beers()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Plan_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	require.NoError(t, err)
	svc := NewService(nil, logging.Discard(), collector, optimizer.DefaultOptions())

	_, err = svc.Plan(context.Background(), Request{Budget: money.FromUnits(1000), Items: beers(), Algorithm: optimizer.AlgorithmKnapsack})
	require.NoError(t, err)
	_, err = svc.Plan(context.Background(), Request{Budget: -1, Items: beers(), Algorithm: optimizer.AlgorithmNaive})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "beerbudget_solves_total", "beerbudget_solve_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_Compare(t *testing.T) {
	svc, repo, _ := newTestService(t, optimizer.DefaultOptions())

	results, err := svc.Compare(context.Background(), money.FromUnits(1000), beers())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, optimizer.AlgorithmRoundRobin, results[0].Algorithm)
	assert.Equal(t, optimizer.AlgorithmKnapsack, results[1].Algorithm)
	assert.Equal(t, optimizer.AlgorithmNaive, results[2].Algorithm)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Plan)
	}
	assert.Equal(t, money.FromUnits(974), results[0].Plan.TotalSpend)
	assert.Equal(t, money.FromUnits(1000), results[1].Plan.TotalSpend)
	assert.LessOrEqual(t, results[2].Plan.TotalSpend, results[1].Plan.TotalSpend)

	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, optimizer.AlgorithmKnapsack, best.Algorithm)
	assert.False(t, repo.SavePlanCalled)
}

func TestService_Compare_CapacityExceeded(t *testing.T) {
	opts := optimizer.DefaultOptions()
	opts.MaxTableCells = 10
	svc, _, _ := newTestService(t, opts)

	results, err := svc.Compare(context.Background(), money.FromUnits(1000), beers())
	require.NoError(t, err)

	assert.ErrorIs(t, results[1].Err, optimizer.ErrCapacityExceeded)
	assert.Nil(t, results[1].Plan)
	assert.NotNil(t, results[0].Plan)
	assert.NotNil(t, results[2].Plan)

	best, ok := Best(results)
	require.True(t, ok)
	assert.NotEqual(t, optimizer.AlgorithmKnapsack, best.Algorithm)
}

func TestService_Compare_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t, optimizer.DefaultOptions())

	_, err := svc.Compare(context.Background(), money.FromUnits(10), []optimizer.Item{{Name: "Free"}})
	assert.ErrorIs(t, err, optimizer.ErrInvalidItem)
}

func TestBest_Empty(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	_, ok = Best([]Comparison{{Err: optimizer.ErrCapacityExceeded}})
	assert.False(t, ok)
}

func TestToRecord(t *testing.T) {
	result, err := optimizer.RoundRobin(money.FromUnits(1000), beers())
	require.NoError(t, err)

	rec := ToRecord(&Plan{ID: "id-1", Result: result}, "cli")
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "cli", rec.Source)
	assert.Equal(t, money.FromUnits(1000), rec.Budget)
	assert.Equal(t, result.Units(), rec.Units())
}
