package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/api"
	"github.com/eshaffer321/beerbudget/internal/api/dto"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/metrics"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

const planBody = `{
	"budget": 1000,
	"algorithm": "knapsack",
	"items": [
		{"name": "Pilsner", "price": "29.00", "catalog_id": "1234"},
		{"name": "Porter", "price": 200}
	]
}`

func newTestServer(t *testing.T, opts optimizer.Options) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	require.NoError(t, err)

	svc := planner.NewService(repo, logging.Discard(), collector, opts)
	server := api.NewServer(api.DefaultConfig(), svc, nil, reg, logging.Discard())
	return server, repo
}

func do(t *testing.T, server *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, optimizer.DefaultOptions())

	rec := do(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	response := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)
}

func TestServer_PlansEndpoints(t *testing.T) {
	server, repo := newTestServer(t, optimizer.DefaultOptions())

	rec := do(t, server, http.MethodPost, "/api/plans", planBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[dto.PlanResponse](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "knapsack", created.Algorithm)
	assert.Equal(t, "optimal", created.Status)
	assert.Equal(t, money.FromUnits(1000), created.Budget)
	assert.Equal(t, money.FromUnits(1000), created.TotalSpend)
	assert.Equal(t, money.Amount(0), created.Remaining)
	assert.True(t, created.Saved)
	require.Len(t, created.Allocations, 2)
	assert.Equal(t, "1234", created.Allocations[0].CatalogID)
	assert.Equal(t, 5, created.Allocations[1].Count)
	assert.Equal(t, money.FromUnits(1000), created.Allocations[1].Spend)
	assert.Equal(t, "api", repo.LastSavedPlan.Source)

	t.Run("GET /api/plans lists stored plans", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/plans?limit=10", "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[dto.PlanListResponse](t, rec)
		assert.Equal(t, 1, list.TotalCount)
		assert.Equal(t, 10, list.Limit)
		require.Len(t, list.Plans, 1)
		assert.Equal(t, created.ID, list.Plans[0].ID)
		assert.Equal(t, "api", list.Plans[0].Source)
	})

	t.Run("GET /api/plans filters by algorithm", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/plans?algorithm=naive", "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[dto.PlanListResponse](t, rec)
		assert.Equal(t, 0, list.TotalCount)
		assert.Empty(t, list.Plans)
	})

	t.Run("GET /api/plans rejects negative offset", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/plans?offset=-1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET /api/plans/:id returns plan", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/plans/"+created.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[dto.PlanResponse](t, rec)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.TotalSpend, got.TotalSpend)
		assert.Equal(t, "optimal", got.StatusText)
		require.Len(t, got.Allocations, 2)
		assert.Equal(t, created.Allocations, got.Allocations)
	})

	t.Run("GET /api/plans/:id returns 404 for unknown", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/plans/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		apiErr := decode[dto.APIError](t, rec)
		assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
	})
}

func TestServer_CreatePlan_Variants(t *testing.T) {
	t.Run("save false is not stored", func(t *testing.T) {
		server, repo := newTestServer(t, optimizer.DefaultOptions())
		body := `{"budget": "100", "save": false, "items": [{"name": "A", "price": 30}]}`

		rec := do(t, server, http.MethodPost, "/api/plans", body)
		require.Equal(t, http.StatusOK, rec.Code)

		plan := decode[dto.PlanResponse](t, rec)
		assert.False(t, plan.Saved)
		// default algorithm is knapsack
		assert.Equal(t, "knapsack", plan.Algorithm)
		assert.Equal(t, money.FromUnits(90), plan.TotalSpend)
		assert.False(t, repo.SavePlanCalled)
	})

	t.Run("invalid json", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		rec := do(t, server, http.MethodPost, "/api/plans", `{"budget":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[dto.APIError](t, rec).Code)
	})

	t.Run("missing item name", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		rec := do(t, server, http.MethodPost, "/api/plans", `{"budget": 10, "items": [{"price": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative budget", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		rec := do(t, server, http.MethodPost, "/api/plans", `{"budget": -5, "items": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[dto.APIError](t, rec).Code)
	})

	t.Run("budget out of range", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		rec := do(t, server, http.MethodPost, "/api/plans", `{"budget": "100000000000000000000", "items": [{"name": "A", "price": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "out of range")
	})

	t.Run("large budget with a cheap item", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		body := `{"budget": "100000000", "items": [{"name": "x", "price": "0.01"}]}`

		rec := do(t, server, http.MethodPost, "/api/compare", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, server, http.MethodPost, "/api/plans", `{"budget": "100000000", "algorithm": "rr", "save": false, "items": [{"name": "x", "price": "0.01"}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, money.Amount(10_000_000_000), decode[dto.PlanResponse](t, rec).TotalSpend)
	})

	t.Run("zero price", func(t *testing.T) {
		server, _ := newTestServer(t, optimizer.DefaultOptions())
		rec := do(t, server, http.MethodPost, "/api/plans", `{"budget": 5, "items": [{"name": "Free", "price": 0}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		opts := optimizer.DefaultOptions()
		opts.MaxTableCells = 10
		server, _ := newTestServer(t, opts)

		rec := do(t, server, http.MethodPost, "/api/plans", planBody)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeCapacityExceeded, decode[dto.APIError](t, rec).Code)
	})
}

func TestServer_Compare(t *testing.T) {
	opts := optimizer.DefaultOptions()
	opts.MaxTableCells = 10
	server, repo := newTestServer(t, opts)

	rec := do(t, server, http.MethodPost, "/api/compare", planBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[dto.CompareResponse](t, rec)
	assert.Equal(t, money.FromUnits(1000), resp.Budget)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "roundrobin", resp.Results[0].Algorithm)
	require.NotNil(t, resp.Results[0].Plan)
	assert.Equal(t, money.FromUnits(974), resp.Results[0].Plan.TotalSpend)

	assert.Equal(t, "knapsack", resp.Results[1].Algorithm)
	assert.Nil(t, resp.Results[1].Plan)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, dto.ErrCodeCapacityExceeded, resp.Results[1].Error.Code)

	assert.Equal(t, "naive", resp.Results[2].Algorithm)
	require.NotNil(t, resp.Results[2].Plan)
	assert.NotEmpty(t, resp.Best)
	assert.NotEqual(t, "knapsack", resp.Best)

	assert.False(t, repo.SavePlanCalled)
}

func TestServer_Stats(t *testing.T) {
	server, _ := newTestServer(t, optimizer.DefaultOptions())

	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/api/plans", planBody).Code)
	rr := strings.Replace(planBody, `"knapsack"`, `"rr"`, 1)
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/api/plans", rr).Code)

	rec := do(t, server, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[dto.StatsResponse](t, rec)
	assert.Equal(t, 2, stats.TotalPlans)
	assert.Equal(t, 1, stats.ExactCount)
	assert.Equal(t, money.FromUnits(2000), stats.TotalBudget)
	assert.Equal(t, money.FromUnits(1974), stats.TotalSpend)
	require.Len(t, stats.Algorithms, 2)
	assert.Equal(t, "knapsack", stats.Algorithms[0].Algorithm)
	assert.Equal(t, "roundrobin", stats.Algorithms[1].Algorithm)
}

func TestServer_Metrics(t *testing.T) {
	server, _ := newTestServer(t, optimizer.DefaultOptions())
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/api/plans", planBody).Code)

	rec := do(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `beerbudget_solves_total{algorithm="knapsack",status="optimal"} 1`)
}

func TestServer_NoStorage(t *testing.T) {
	svc := planner.NewService(nil, logging.Discard(), nil, optimizer.DefaultOptions())
	server := api.NewServer(api.DefaultConfig(), svc, nil, nil, logging.Discard())

	rec := do(t, server, http.MethodGet, "/api/plans", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, dto.ErrCodeUnavailable, decode[dto.APIError](t, rec).Code)

	// saving is the default for POST /api/plans
	rec = do(t, server, http.MethodPost, "/api/plans", planBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CatalogSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<artiklar>
		<artikel><nr>1</nr><Namn>Pistonhead</Namn><Namn2>Kustom Lager</Namn2><Prisinklmoms>15.90</Prisinklmoms><Volymiml>330.00</Volymiml></artikel>
		<artikel><nr>2</nr><Namn>Pistonhead</Namn><Namn2>Flat Tire</Namn2><Prisinklmoms>17.90</Prisinklmoms></artikel>
		<artikel><nr>3</nr><Namn>Porter</Namn><Prisinklmoms>200.00</Prisinklmoms></artikel>
	</artiklar>`), 0o644))
	products := catalog.NewStore(catalog.NewCache(path, time.Hour, nil))

	svc := planner.NewService(nil, logging.Discard(), nil, optimizer.DefaultOptions())
	server := api.NewServer(api.DefaultConfig(), svc, products, nil, logging.Discard())

	rec := do(t, server, http.MethodGet, "/api/catalog/search?q=piston&q=porter", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[dto.CatalogSearchResponse](t, rec)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "piston", resp.Results[0].Query)
	assert.False(t, resp.Results[0].Unique)
	require.Len(t, resp.Results[0].Products, 2)
	assert.Equal(t, "Pistonhead Kustom Lager", resp.Results[0].Products[0].Name)
	assert.Equal(t, "330", resp.Results[0].Products[0].VolumeML)
	assert.Equal(t, money.Amount(1590), resp.Results[0].Products[0].Price)

	assert.True(t, resp.Results[1].Unique)
	assert.Equal(t, "3", resp.Results[1].Products[0].ID)

	rec = do(t, server, http.MethodGet, "/api/catalog/search?q=stout", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, server, http.MethodGet, "/api/catalog/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CatalogSearchDisabled(t *testing.T) {
	server, _ := newTestServer(t, optimizer.DefaultOptions())
	rec := do(t, server, http.MethodGet, "/api/catalog/search?q=porter", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
