package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/export"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/service"
)

type runOptions struct {
	week       int
	season     int
	model      string
	threshold  float64
	strategy   string
	exportPath string
	identifier string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate edges for one week",
		Long: `Runs every registered strategy (or one with --strategy) for the given week and prints the ranked edges.
Without --model the rollout percentage decides between baseline (v1) and enhanced (v2) using --id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = cfg.Aggregation.DefaultMinEdge
			}
			return runAggregate(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.week, "week", 0, "Regular season week (1-18)")
	cmd.Flags().IntVar(&opts.season, "season", 0, "Season year")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model variant: v1 (baseline) or v2 (enhanced)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "Minimum edge percentage")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Run a single strategy by id")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "Write results to a .json or .csv file")
	cmd.Flags().StringVar(&opts.identifier, "id", "", "Rollout identifier (defaults to rollout.identifier)")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("season")

	return cmd
}

func runAggregate(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	identifier := opts.identifier
	if identifier == "" {
		identifier = cfg.Rollout.Identifier
	}
	variant, source, err := rollout.Resolve(opts.model, identifier, cfg.Rollout.Percentage)
	if err != nil {
		return err
	}
	audit := logger.NewAuditLogger(log)
	metrics.RecordRolloutAssignment(string(variant))
	audit.LogRolloutAssignment(identifier, cfg.Rollout.Percentage, string(variant), source)

	repos, err := openRepositories(ctx)
	if err != nil {
		return err
	}
	defer repos.Close()

	resp, aggErr := newEdgeService(repos).Aggregate(ctx, service.AggregateRequest{
		Week:     opts.week,
		Season:   opts.season,
		MinEdge:  opts.threshold,
		Strategy: opts.strategy,
		Variant:  variant,
	})

	if opts.exportPath != "" && aggErr == nil {
		format, err := export.Write(resp, opts.exportPath)
		if err != nil {
			return err
		}
		audit.LogExport(resp.RunID, opts.exportPath, string(format), resp.Count)
	}

	if err := printJSON(resp); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}
	return aggErr
}
