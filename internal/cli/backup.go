package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/mnemo/internal/backup"
	"github.com/example/mnemo/internal/excel"
)

func newExportCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [course...]",
		Short: "Write a JSON snapshot of the progress ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := backup.ExportJSON(cmd.Context(), a.store, args...)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a snapshot and restore the courses it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := backup.Import(cmd.Context(), a.store, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s imported\n", args[0])
			return nil
		},
	}
}

func newReportCommand(a *app) *cobra.Command {
	var (
		out  string
		days int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a progress report spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = "mnemo-report.xlsx"
			}
			if days <= 0 {
				days = a.cfg.HeatmapDays
			}
			ledger, err := a.store.SnapshotCourses(cmd.Context())
			if err != nil {
				return err
			}
			if err := excel.WriteReport(out, ledger, time.Now(), days); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "report path (default mnemo-report.xlsx)")
	cmd.Flags().IntVar(&days, "days", 0, "activity window in days (default from config)")
	return cmd
}

func newClearCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear <course>",
		Short: "Wipe one course's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear %q without --yes", args[0])
			}
			if err := a.store.ClearCourse(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
