package cmd

import (
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nzoschke/organizer/internal/app"
	"github.com/nzoschke/organizer/internal/config"
	"github.com/nzoschke/organizer/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(db.RunMigrations)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(db.MigrateDown)
		},
	})

	return cmd
}

func SeedCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample habit with a five day streak and a pending reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if userID == "" {
				userID = cfg.DemoUserID
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.Seed(cmd.Context(), userID)
			if err != nil {
				return err
			}

			color.Green("seeded data for %s", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to seed (defaults to DEMO_USER_ID)")
	return cmd
}

func migrate(fn func(*sql.DB, string) error) error {
	cfg := config.Load()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	err = fn(database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}

	color.Green("migrations done (%s)", cfg.DBDriver)
	return nil
}
