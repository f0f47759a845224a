// Package cli is the command-line driver for the engine. It renders
// item identifiers only; presenting question and answer content is
// the content side's job.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/mnemo/internal/catalog"
	"github.com/example/mnemo/internal/config"
	"github.com/example/mnemo/internal/database"
	"github.com/example/mnemo/internal/review"
)

// app holds the wired engine for the lifetime of one command.
type app struct {
	cfg      config.Config
	store    *database.Store
	catalogs map[string]*catalog.Course
	svc      *review.Service
}

func (a *app) open() error {
	a.cfg = config.Load()

	store, err := database.Open(database.Config{
		Driver: a.cfg.DBDriver,
		DSN:    a.cfg.DBDSN,
	})
	if err != nil {
		return err
	}
	a.store = store

	catalogs, err := catalog.LoadDir(a.cfg.CatalogDir)
	if err != nil {
		store.Close()
		return err
	}
	a.catalogs = catalogs
	a.svc = review.NewService(store, catalogs)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Execute runs the mnemo CLI.
func Execute() error {
	a := &app{}

	root := &cobra.Command{
		Use:           "mnemo",
		Short:         "Offline spaced-repetition scheduling and progress tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(
		newReviewCommand(a),
		newDueCommand(a),
		newStatsCommand(a),
		newHeatmapCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newReportCommand(a),
		newClearCommand(a),
		newStudyCommand(a),
	)
	return root.Execute()
}
