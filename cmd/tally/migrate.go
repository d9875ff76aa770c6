package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tally/internal/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := database.New(cmd.Context(), cfg.ConnectionString())
			if err != nil {
				return err
			}
			defer pool.Close()

			if status, _ := cmd.Flags().GetBool("status"); status {
				return database.MigrationStatus(cmd.Context(), pool)
			}

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			slog.Info("database is up to date", "database", cfg.DB.Name)

			return nil
		},
	}

	cmd.Flags().Bool("status", false, "show migration status without applying anything")

	return cmd
}
