package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shashikala/internal/kernel"
	"github.com/shashiranjanraj/shashikala/internal/server"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/cache"
	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
)

// shashikala serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP and gRPC servers with queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

// shashikala route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout())
	},
}

// printRoutes assembles the kernel over throwaway collaborators; only the
// route table is read.
func printRoutes(out io.Writer) error {
	db, err := database.OpenMemory("route-list")
	if err != nil {
		return err
	}
	defer database.Close(db)

	root, err := os.MkdirTemp("", "shashikala-routes")
	if err != nil {
		return err
	}
	defer os.RemoveAll(root)
	disk, err := storage.NewLocal(root, "/storage")
	if err != nil {
		return err
	}

	k, err := kernel.New(kernel.Options{
		DB:     db,
		Store:  cache.NewMemoryStore(),
		Disk:   disk,
		Signer: auth.NewSigner("route-list", time.Minute),
	})
	if err != nil {
		return err
	}
	defer k.Shutdown(context.Background())

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range k.Router.Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
