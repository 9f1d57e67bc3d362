package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shashikala/config"
	"github.com/shashiranjanraj/shashikala/internal/server"
)

var queueWorkersFlag int

// shashikala queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued mail without serving HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if config.QueueDriver() != "redis" {
			return fmt.Errorf("queue:work needs QUEUE_DRIVER=redis; the memory queue only lives inside serve")
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		app.Queue.Work(ctx, workers)
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "number of concurrent workers (default QUEUE_WORKERS)")
}
