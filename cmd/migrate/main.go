package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"starwars/internal/config"
	"starwars/internal/db"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Database schema migrations",
	Long:         `Apply or roll back the embedded schema migrations against DATABASE_DSN using DB_DRIVER.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Up())
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Down())
		})
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps [n]",
	Short: "Apply n migrations, or roll back when n is negative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("steps must be a non-zero integer, got %q", args[0])
		}
		return withMigrator(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Steps(n))
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error { return nil })
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withMigrator opens the configured database, runs fn and prints the resulting version.
func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.Load()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(gormDB)

	m, err := db.NewMigrator(gormDB, cfg.DBDriver)
	if err != nil {
		return err
	}

	if err := fn(m); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("Schema version: none")
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change.")
		return nil
	}
	return err
}
