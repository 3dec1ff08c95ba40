// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/eatme/internal/config"
	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", migrations.Up),
		migrateStep("down", "Roll back the most recent migration", migrations.Down),
		migrateStep("status", "Print the state of every migration", migrations.Status),
	)
	rootCmd.AddCommand(migrateCmd)
}

func migrateStep(
	use, short string,
	step func(ctx context.Context, db *sql.DB) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rootFlags.ConfigFile)
			if err != nil {
				return err
			}
			slog.SetDefault(setupLogger(cfg.Log))

			db, err := core.NewDatabase(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits right after

			return step(cmd.Context(), db.DB.DB)
		},
	}
}
