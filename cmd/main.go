// Command tournament-recorder serves the players, matches and tournaments API.
//
// Usage:
//
//	tournament-recorder               # same as "serve"
//	tournament-recorder serve
//	tournament-recorder schema print
//	tournament-recorder schema apply
//
// @title Tournament Recorder API
// @version 1.0
// @description Players, match results and bracket snapshots for tournament days.
// @BasePath /
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-recorder/config"
)

func main() {
	root := &cobra.Command{
		Use:           "tournament-recorder",
		Short:         "Tournament data-recording service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(schemaCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// loadConfig читает конфигурацию и строит JSON-логгер нужного уровня.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
