package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/config"
	"github.com/shashiranjanraj/shashikala/database/seeders"
	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/migration"
)

// withDB loads config, opens the database and hands it to fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	logger.Setup(config.AppEnv())
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func printNames(verb string, names []string) {
	if len(names) == 0 {
		fmt.Printf("Nothing to %s.\n", verb)
		return
	}
	for _, n := range names {
		fmt.Printf("  %s: %s\n", verb, n)
	}
}

// shashikala migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			ran, err := migration.New(db).Run()
			printNames("migrate", ran)
			return err
		})
	},
}

// shashikala migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:     "migrate:rollback",
	Aliases: []string{"migrate:down"},
	Short:   "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			rolled, err := migration.New(db).Rollback()
			printNames("roll back", rolled)
			return err
		})
	},
}

// shashikala migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			statuses, err := migration.New(db).Status()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
			for _, s := range statuses {
				ran, batch := "no", "-"
				if s.Ran {
					ran, batch = "yes", fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
			}
			return w.Flush()
		})
	},
}

// shashikala seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			done, err := seeders.RunAll(db)
			printNames("seed", done)
			return err
		})
	},
}
