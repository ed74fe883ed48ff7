package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func newGateCmd() *cobra.Command {
	var (
		entity string
		week   int
		season int
	)

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Show the rate estimate and gate decision for one entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer repos.Close()

			report, err := newEdgeService(repos).Gate(cmd.Context(), entity, models.Period{Season: season, Week: week})
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Player or team name")
	cmd.Flags().IntVar(&week, "week", 0, "Regular season week (1-18)")
	cmd.Flags().IntVar(&season, "season", 0, "Season year")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("season")

	return cmd
}
