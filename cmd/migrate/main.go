package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/pkg/database/migrations"

	"github.com/fatih/color"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

// openDB connects with database/sql; the caller closes it.
func openDB() (*sql.DB, error) {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	db, err := sql.Open("postgres", cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return err
		}
		st, err := migrations.GetStatus(db)
		if err != nil {
			return err
		}
		color.Green("✓ Database is at version %d", st.Version)
		return nil
	},
}

var downSteps int

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateDown(db, downSteps); err != nil {
			return err
		}
		color.Yellow("↓ Rolled back %d step(s)", downSteps)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := migrations.GetStatus(db)
		if err != nil {
			return err
		}
		switch {
		case st.Empty:
			color.Yellow("No schema version; %d migration(s) pending", st.Latest)
		case st.Dirty:
			color.Red("Dirty at version %d; fix the schema and run `migrate force %d`", st.Version, st.Version)
		case st.Pending() > 0:
			color.Yellow("Version %d of %d; %d pending", st.Version, st.Latest, st.Pending())
		default:
			color.Green("Up to date at version %d", st.Version)
		}
		return nil
	},
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Force(db, version); err != nil {
			return err
		}
		color.Cyan("Forced version %d", version)
		return nil
	},
}

func init() {
	downCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd, forceCmd)
}
