package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/pipegame/internal/api/response"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/storage/file"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Statistics commands",
	}

	cmd.AddCommand(newStatsShowCmd())
	cmd.AddCommand(newStatsFileCmd())

	return cmd
}

func newStatsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the server's statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Statistics

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newStatsFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Summarize a statistics file without a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}

			var w io.Writer = io.Discard
			if cfg.Verbose {
				w = cmd.ErrOrStderr()
			}
			logger := slog.New(slog.NewTextHandler(w, nil))

			svc := stats.New(file.NewStatisticsStore(args[0]), logger)
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cmd, cfg.Output).Print(response.StatisticsFromSummary(summary))
			return nil
		},
	}
}
