package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hr-timesheet/internal/config"
	"github.com/example/hr-timesheet/internal/persistence/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	versions, err := pool.AppliedVersions(cmd.Context())
	if err != nil {
		return fmt.Errorf("read applied versions: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, %d migrations applied\n", len(versions))
	return nil
}
