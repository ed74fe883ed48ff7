package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a JSON fixture of stats and prop lines into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			repos, err := openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.Close()

			loader, err := ingest.NewLoader(repos.Writer)
			if err != nil {
				return fmt.Errorf("database driver %q: %w", cfg.Database.Driver, err)
			}

			summary, err := loader.Load(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
