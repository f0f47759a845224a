package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/mnemo/internal/backup"
	"github.com/example/mnemo/internal/review"
	"github.com/example/mnemo/internal/scheduler"
	"github.com/example/mnemo/internal/spaced_repetition"
)

func newStudyCommand(a *app) *cobra.Command {
	var (
		moduleID string
		shuffle  bool
	)
	cmd := &cobra.Command{
		Use:   "study <course>",
		Short: "Review due items interactively",
		Long: `Walks the due queue one item at a time. For each item id, answer
r (recalled), s (struggled), p (peeked) or q (quit). While the session
runs, the ledger is backed up automatically in the background.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudy(a, cmd, args[0], moduleID, shuffle)
		},
	}
	cmd.Flags().StringVar(&moduleID, "module", "", "restrict to one module")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle across all modules")
	return cmd
}

func runStudy(a *app, cmd *cobra.Command, courseID, moduleID string, shuffle bool) error {
	ids, err := dueIDs(a, cmd, courseID, moduleID, shuffle)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "nothing due")
		return nil
	}

	auto := scheduler.New(&backup.FileBackup{Store: a.store, Dir: a.cfg.BackupDir}, a.cfg.BackupEvery)
	auto.Start()
	defer auto.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	reviewed := 0
	for _, id := range ids {
		fmt.Fprintf(out, "%s [r/s/p/q]: ", id)

	answer:
		for {
			var line string
			var open bool
			select {
			case <-sigChan:
				fmt.Fprintf(out, "\nsession interrupted after %d reviews\n", reviewed)
				return nil
			case line, open = <-lines:
				if !open {
					fmt.Fprintf(out, "\nsession ended after %d reviews\n", reviewed)
					return nil
				}
			}

			var rating spaced_repetition.Rating
			switch line {
			case "q":
				fmt.Fprintf(out, "session ended after %d reviews\n", reviewed)
				return nil
			case "r":
				rating = spaced_repetition.Recalled
			case "s":
				rating = spaced_repetition.Struggled
			case "p":
				rating = spaced_repetition.Peeked
			default:
				fmt.Fprintf(out, "%s [r/s/p/q]: ", id)
				continue
			}

			item, err := a.svc.ProcessReview(cmd.Context(), review.Request{
				CourseID: courseID,
				ItemID:   id,
				Rating:   rating,
				At:       time.Now(),
			})
			if err != nil {
				// The rating was not recorded; the user may retry.
				fmt.Fprintf(out, "not recorded: %v\n", err)
				fmt.Fprintf(out, "%s [r/s/p/q]: ", id)
				continue
			}
			reviewed++
			fmt.Fprintf(out, "  next review %s\n", item.DueDate)
			break answer
		}
	}

	fmt.Fprintf(out, "session complete: %d reviews\n", reviewed)
	return nil
}
