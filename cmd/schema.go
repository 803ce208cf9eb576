package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-recorder/config"
	"github.com/Dosada05/tournament-recorder/db"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect or apply the table bootstrap",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the CREATE TABLE IF NOT EXISTS statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create any missing tables in DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaApply(cmd.Context())
		},
	})
	return cmd
}

func runSchemaApply(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StorageBackend != config.StoragePostgres {
		return fmt.Errorf("schema apply requires STORAGE_BACKEND=%s, got %q", config.StoragePostgres, cfg.StorageBackend)
	}

	dbConn, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL, poolConfig(cfg), cfg.DBConnectTimeout)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("schema applied", slog.String("driver", cfg.DBDriver))
	return nil
}
