package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/qbx/internal/repositories"
	"github.com/desertthunder/qbx/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	config, err := shared.ResolveConfig(ctx, configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var history *repositories.SubmissionRepository
	db, err := shared.OpenHistory(config.Database)
	switch {
	case err == nil:
		defer db.Close()
		history = repositories.NewSubmissionRepository(db)
	case errors.Is(err, shared.ErrHistoryDisabled):
		logger.Debug("submission history disabled")
	default:
		logger.Warn("failed to open submission history, continuing without it", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		History:    history,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "qbx",
		Usage:    "Watch and feed a qBittorrent instance from the browser or the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
