package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/mnemo/internal/review"
	"github.com/example/mnemo/internal/spaced_repetition"
)

func newReviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review <course> <item> <peeked|struggled|recalled>",
		Short: "Record one review rating for an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := spaced_repetition.ParseRating(args[2])
			if err != nil {
				return err
			}
			item, err := a.svc.ProcessReview(cmd.Context(), review.Request{
				CourseID: args[0],
				ItemID:   args[1],
				Rating:   rating,
				At:       time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: next review %s (interval %dd, ease %.2f, reps %d)\n",
				item.ItemID, item.DueDate, item.IntervalDays, item.EaseFactor, item.Repetitions)
			return nil
		},
	}
}
