// Command shashikala runs the site's API and its maintenance tasks.
//
//	shashikala serve             # HTTP + gRPC + queue workers
//	shashikala migrate           # run pending migrations
//	shashikala migrate:rollback
//	shashikala migrate:status
//	shashikala seed              # demo catalogue and events
//	shashikala route:list
//	shashikala queue:work -w 4   # standalone mail workers (redis queue)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/shashikala/database/migrations"
	_ "github.com/shashiranjanraj/shashikala/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shashikala",
	Short:         "Shashikala donation and art marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
}
