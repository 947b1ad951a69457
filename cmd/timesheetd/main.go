package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timesheetd",
	Short: "HR timesheet administration service",
	Long: `timesheetd serves the internal HR timesheet API: employee records,
per-day time entries with an approval workflow, period reports, and
file attachments. State lives in SQLite; file contents in a local
blob directory.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}
