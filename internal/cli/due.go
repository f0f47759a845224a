package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
)

func newDueCommand(a *app) *cobra.Command {
	var (
		moduleID string
		shuffle  bool
	)
	cmd := &cobra.Command{
		Use:   "due <course>",
		Short: "List items due for review, including never-studied ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := dueIDs(a, cmd, args[0], moduleID, shuffle)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleID, "module", "", "restrict to one module")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle across all modules")
	return cmd
}

func dueIDs(a *app, cmd *cobra.Command, courseID, moduleID string, shuffle bool) ([]string, error) {
	now := time.Now()
	switch {
	case moduleID != "":
		return a.svc.DueByModule(cmd.Context(), courseID, moduleID, now)
	case shuffle:
		rng := rand.New(rand.NewSource(now.UnixNano()))
		return a.svc.DueShuffled(cmd.Context(), courseID, now, rng)
	default:
		return a.svc.Due(cmd.Context(), courseID, now)
	}
}
