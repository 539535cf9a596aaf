// Command api runs the beerbudget HTTP API without the rest of the CLI.
// Configuration comes from the file named by BEERBUDGET_CONFIG (default
// config.yaml) or from BEERBUDGET_* environment variables.
package main

import (
	"log/slog"
	"os"

	"github.com/eshaffer321/beerbudget/internal/cli"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/config"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/logging"
)

func main() {
	path := os.Getenv("BEERBUDGET_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg := config.LoadOrEnvWithPath(path)

	logger := logging.NewLoggerWithSystem(os.Stderr, cfg.Observability.Logging, "api")
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := cli.RunServe(cfg, cli.ServeFlags{}, logger); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
