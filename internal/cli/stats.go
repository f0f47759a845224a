package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <course>",
		Short: "Show streaks and today's review count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Stats(cmd.Context(), args[0], time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "current streak: %d\n", s.Current)
			fmt.Fprintf(out, "best streak:    %d\n", s.Best)
			fmt.Fprintf(out, "today:          %d\n", s.Today)
			if s.Best > 0 {
				fmt.Fprintf(out, "last active:    %s\n", s.LastActiveDay)
			}
			return nil
		},
	}
}

func newHeatmapCommand(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "heatmap <course>",
		Short: "Show per-day review counts for the trailing window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = a.cfg.HeatmapDays
			}
			cells, err := a.svc.Heatmap(cmd.Context(), args[0], time.Now(), days)
			if err != nil {
				return err
			}
			for _, c := range cells {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %3d %s\n", c.Day, c.Count, strings.Repeat("#", c.Count))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window size in days (default from config)")
	return cmd
}
