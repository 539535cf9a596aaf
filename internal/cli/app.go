// Package cli implements the beerbudget command line: flag parsing for
// items, interactive disambiguation of catalog searches and plan output.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/config"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/logging"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// runner carries state shared by all commands once Before has run.
type runner struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logCfg config.LoggingConfig
	logger *slog.Logger
}

// NewApp builds the command line application. Prompts and plans go to
// out, logs to errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *urfave.App {
	r := &runner{in: in, out: out, errOut: errOut}

	return &urfave.App{
		Name:      "beerbudget",
		Usage:     "Spend a budget on beer as exactly as possible",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		// Beer names may contain commas
		DisableSliceFlagSeparator: true,
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:  "config",
				Usage: "path to config.yaml (environment variables are used when unset and ./config.yaml is missing)",
			},
			&urfave.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Before: r.setup,
		Commands: []*urfave.Command{
			r.planCommand(),
			r.compareCommand(),
			r.historyCommand(),
			r.serveCommand(),
		},
	}
}

func (r *runner) setup(c *urfave.Context) error {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		r.cfg = cfg
	} else {
		r.cfg = config.LoadOrEnv()
	}

	logCfg := r.cfg.Observability.Logging
	if c.Bool("verbose") {
		logCfg.Level = "debug"
	}
	r.logCfg = logCfg
	r.logger = logging.NewLoggerTo(r.errOut, logCfg)
	return nil
}

func itemFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringSliceFlag{
			Name:    "beer",
			Aliases: []string{"b"},
			Usage:   `a beer as "NAME... PRICE", repeatable`,
		},
		&urfave.StringSliceFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "search the Systembolaget catalog, a case-insensitive regex anchored at the start of the name; repeatable",
		},
	}
}

func (r *runner) planCommand() *urfave.Command {
	return &urfave.Command{
		Name:      "plan",
		Usage:     "Find how many of each beer to buy",
		ArgsUsage: "BUDGET",
		Flags: append([]urfave.Flag{
			&urfave.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Usage:   "roundrobin|rr, knapsack|ks or naive|nks (default from config)",
			},
			&urfave.IntFlag{
				Name:  "depth",
				Usage: "refinement rounds for the naive algorithm (default from config)",
			},
			&urfave.BoolFlag{
				Name:  "save",
				Usage: "store the plan in the history database",
			},
		}, itemFlags()...),
		Action: r.plan,
	}
}

func (r *runner) plan(c *urfave.Context) error {
	budget, err := budgetArg(c)
	if err != nil {
		return err
	}
	items, err := r.collectItems(c)
	if err != nil {
		return err
	}

	alg := optimizer.ParseAlgorithm(r.cfg.Solver.Algorithm)
	if name := c.String("algorithm"); name != "" {
		alg = optimizer.ParseAlgorithm(name)
	}

	var repo storage.Repository
	if c.Bool("save") {
		store, err := storage.NewStorageWithLogger(r.cfg.Storage.DatabasePath, r.logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		repo = store
	}

	svc := planner.NewService(repo, r.logger, nil, solverOptions(r.cfg, c.Int("depth")))
	plan, err := svc.Plan(c.Context, planner.Request{
		Budget:    budget,
		Items:     items,
		Algorithm: alg,
		Save:      c.Bool("save"),
		Source:    "cli",
	})
	if err != nil {
		return err
	}

	PrintPlan(r.out, plan.Result)
	PrintPlanSummary(r.out, plan)
	return nil
}

func (r *runner) compareCommand() *urfave.Command {
	return &urfave.Command{
		Name:      "compare",
		Usage:     "Run every algorithm on the same beers",
		ArgsUsage: "BUDGET",
		Flags: append([]urfave.Flag{
			&urfave.IntFlag{
				Name:  "depth",
				Usage: "refinement rounds for the naive algorithm (default from config)",
			},
		}, itemFlags()...),
		Action: func(c *urfave.Context) error {
			budget, err := budgetArg(c)
			if err != nil {
				return err
			}
			items, err := r.collectItems(c)
			if err != nil {
				return err
			}

			svc := planner.NewService(nil, r.logger, nil, solverOptions(r.cfg, c.Int("depth")))
			comparisons, err := svc.Compare(c.Context, budget, items)
			if err != nil {
				return err
			}
			PrintComparison(r.out, comparisons)
			return nil
		},
	}
}

func (r *runner) historyCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "history",
		Usage: "List saved plans",
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "maximum number of plans",
			},
			&urfave.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Usage:   "only plans made by this algorithm",
			},
		},
		Action: func(c *urfave.Context) error {
			store, err := storage.NewStorageWithLogger(r.cfg.Storage.DatabasePath, r.logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filters := storage.PlanFilters{Limit: c.Int("limit")}
			if name := c.String("algorithm"); name != "" {
				filters.Algorithm = optimizer.ParseAlgorithm(name).String()
			}

			svc := planner.NewService(store, r.logger, nil, solverOptions(r.cfg, 0))
			list, err := svc.ListPlans(filters)
			if err != nil {
				return err
			}
			PrintHistory(r.out, list)
			return nil
		},
	}
}

func (r *runner) serveCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:  "port",
				Usage: "port to listen on (default from config)",
			},
		},
		Action: func(c *urfave.Context) error {
			logger := logging.NewLoggerWithSystem(r.errOut, r.logCfg, "api")
			return RunServe(r.cfg, ServeFlags{Port: c.Int("port")}, logger)
		},
	}
}

func budgetArg(c *urfave.Context) (money.Amount, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one BUDGET argument, got %d (flags go before the budget)", c.NArg())
	}
	return ParseBudget(c.Args().First())
}

// collectItems gathers --beer items first, then resolved --search results.
func (r *runner) collectItems(c *urfave.Context) ([]optimizer.Item, error) {
	items, err := ParseBeers(c.StringSlice("beer"))
	if err != nil {
		return nil, err
	}

	if queries := c.StringSlice("search"); len(queries) > 0 {
		products, err := r.searchCatalog(c, queries)
		if err != nil {
			return nil, err
		}
		items = append(items, catalog.Items(products)...)
	}

	if len(items) == 0 {
		return nil, errors.New("no beers given, use --beer or --search")
	}
	return items, nil
}

func (r *runner) searchCatalog(c *urfave.Context, queries []string) ([]catalog.Product, error) {
	logger := logging.NewLoggerWithSystem(r.errOut, r.logCfg, "catalog")
	cache := newCatalogCache(r.cfg, logger)

	downloaded, err := cache.Ensure(c.Context)
	if err != nil {
		return nil, err
	}
	if downloaded {
		logger.Info("catalog downloaded", "path", cache.Path)
	} else {
		logger.Debug("catalog cache ok", "path", cache.Path)
	}

	products, err := cache.Load(c.Context)
	if err != nil {
		return nil, err
	}
	matches, err := catalog.Search(products, queries)
	if err != nil {
		return nil, err
	}
	return NewChooser(r.in, r.out).ChooseAll(matches)
}

func newCatalogCache(cfg *config.Config, logger *slog.Logger) *catalog.Cache {
	fetcher := catalog.NewHTTPFetcher(cfg.Catalog.URL, catalog.HTTPOptions{
		Timeout:  cfg.Catalog.TimeoutDuration(),
		RetryMax: cfg.Catalog.RetryMax,
		Logger:   logger,
	})
	return catalog.NewCache(cfg.Catalog.CachePath, cfg.Catalog.CacheTTLDuration(), fetcher)
}
