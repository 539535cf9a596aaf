package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAssortment = `<?xml version="1.0" encoding="utf-8"?>
<artiklar>
  <artikel><nr>1</nr><Namn>Pilsner Urquell</Namn><Prisinklmoms>29.90</Prisinklmoms></artikel>
  <artikel><nr>2</nr><Namn>Pistonhead</Namn><Namn2>Lager</Namn2><Prisinklmoms>15.90</Prisinklmoms></artikel>
  <artikel><nr>3</nr><Namn>Porter</Namn><Namn2>Carnegie</Namn2><Prisinklmoms>200</Prisinklmoms></artikel>
</artiklar>`

type testEnv struct {
	dir        string
	configPath string
	downloads  atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{dir: t.TempDir()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.downloads.Add(1)
		_, _ = io.WriteString(w, testAssortment)
	}))
	t.Cleanup(srv.Close)

	env.configPath = filepath.Join(env.dir, "config.yaml")
	cfg := fmt.Sprintf(`solver:
  algorithm: knapsack
catalog:
  url: %s
  cache_path: %s
storage:
  database_path: %s
observability:
  logging:
    level: error
`, srv.URL, filepath.Join(env.dir, "cache.xml"), filepath.Join(env.dir, "plans.db"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(strings.NewReader(stdin), &out, &errOut)
	err := app.Run(append([]string{"beerbudget", "--config", e.configPath}, args...))
	return out.String(), err
}

func TestApp_Plan(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "plan", "--beer", "Pilsner 29", "--beer", "Porter 200", "1000")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out,
		"0 bottles of Pilsner (0:-)\n"+
			"5 bottles of Porter (1000:-)\n"+
			"Total: 1000:-\n"), out)
	assert.Contains(t, out, "Algorithm: knapsack | Status: optimal")
}

func TestApp_Plan_RoundRobin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "plan", "-a", "rr", "--beer", "Pilsner 29", "--beer", "Porter 200", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "6 bottles of Pilsner (174:-)\n")
	assert.Contains(t, out, "4 bottles of Porter (800:-)\n")
	assert.Contains(t, out, "Total: 974:-\n")
}

func TestApp_Plan_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "plan", "--beer", "Pilsner 29")
	assert.Error(t, err, "missing budget")

	_, err = env.run(t, "", "plan", "1000")
	assert.Error(t, err, "no items")

	_, err = env.run(t, "", "plan", "--beer", "Pilsner", "1000")
	assert.ErrorIs(t, err, ErrInvalidBeer)

	_, err = env.run(t, "", "plan", "--beer", "Pilsner 29", "-5")
	assert.Error(t, err)
}

func TestApp_SaveAndHistory(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No plans saved yet.\n", out)

	out, err = env.run(t, "", "plan", "--save", "--beer", "Pilsner 29", "--beer", "Porter 200", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved as ")

	out, err = env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "knapsack")
	assert.Contains(t, out, "5x Porter")
	assert.Contains(t, out, "Showing 1 of 1")

	out, err = env.run(t, "", "history", "-a", "naive")
	require.NoError(t, err)
	assert.Equal(t, "No plans saved yet.\n", out)
}

func TestApp_Compare(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "compare", "--beer", "Pilsner 29", "--beer", "Porter 200", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "roundrobin")
	assert.Contains(t, out, "knapsack")
	assert.Contains(t, out, "naive")
	assert.Contains(t, out, "Best: knapsack\n")
}

func TestApp_Search(t *testing.T) {
	env := newTestEnv(t)

	// "pi" is ambiguous, pick Pistonhead; "porter" is unique
	out, err := env.run(t, "1\n", "plan", "--search", "pi", "--search", "porter", "231.80")
	require.NoError(t, err)

	assert.Contains(t, out, "Multiple matches for \"pi\"! Choose one of\n")
	assert.Contains(t, out, "2 bottles of Pistonhead Lager (31.80:-)\n")
	assert.Contains(t, out, "1 bottle of Porter Carnegie (200:-)\n")
	assert.Contains(t, out, "Total: 231.80:-\n")
	assert.Equal(t, int32(1), env.downloads.Load())

	// the cached catalog is reused
	_, err = env.run(t, "", "plan", "--search", "porter", "200")
	require.NoError(t, err)
	assert.Equal(t, int32(1), env.downloads.Load())
}

func TestApp_Search_LogsCatalogSystem(t *testing.T) {
	env := newTestEnv(t)

	var out, errOut bytes.Buffer
	app := NewApp(strings.NewReader(""), &out, &errOut)
	err := app.Run([]string{"beerbudget", "--config", env.configPath, "-v", "plan", "--search", "porter", "200"})
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "[INFO] [catalog]")
	assert.Contains(t, errOut.String(), "catalog downloaded")
	assert.NotContains(t, out.String(), "catalog downloaded", "logs stay off stdout")
}

func TestApp_Search_NoMatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "plan", "--search", "ipa", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no product matches")
}

func TestApp_BadConfig(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(strings.NewReader(""), &out, &out)
	err := app.Run([]string{"beerbudget", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "plan", "--beer", "A 1", "10"})
	assert.Error(t, err)
}
