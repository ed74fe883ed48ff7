package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/api"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the edge API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repos, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer repos.Close()

			server := api.NewServer(api.Config{
				Service: newEdgeService(repos),
				App:     cfg,
				DB:      repos,
				Logger:  log,
				Version: Version,
				Commit:  GitCommit,
			})
			server.SetReady(true)
			return server.Start(ctx)
		},
	}
}
