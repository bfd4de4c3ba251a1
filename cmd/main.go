package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			logger.Error("not logged in, run 'playx auth login' first")
		case errors.Is(err, shared.ErrAuthFailed):
			logger.Error("login rejected", "error", err)
		default:
			logger.Error("application error", "error", err)
		}
		runner.Close()
		os.Exit(1)
	}
}

// newApp builds the root command. Global flags are read by [Runner.Before].
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playx",
		Usage:   "Search, stream and export a cloud music library",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}
