package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"downfileorg/internal/classifier"
	"downfileorg/internal/config"
	"downfileorg/internal/monitor"
	"downfileorg/internal/organizer"
	"downfileorg/internal/queue"
	"downfileorg/internal/workflow"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Classify and move files currently in the watch directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quietLogger()
			if !quiet {
				var err error
				logger, err = ctx.commandLogger()
				if err != nil {
					return err
				}
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				guard := organizer.NewPassGuard(cfg)
				if err := guard.Acquire(cmd.Context()); err != nil {
					return fmt.Errorf("another organize pass is running: %w", err)
				}
				defer guard.Release()

				mgr := workflow.NewManager(cfg, store, logger)
				mgr.ConfigureStages(workflow.StageSet{
					Classifier: classifier.NewClassifier(cfg, store, logger),
					Organizer:  organizer.NewOrganizer(cfg, store, logger),
				})

				mon := monitor.New(cfg, store, logger)
				queued, err := mon.ScanExisting(cmd.Context())
				if err != nil {
					return err
				}

				processed, err := mgr.RunOnce(cmd.Context())
				if err != nil {
					return err
				}

				items, err := store.ListByScan(cmd.Context(), mon.ScanID())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Queued %d files, processed %d items\n", queued, processed)
				printPassSummary(out, items)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output; print only the summary")
	return cmd
}

func printPassSummary(out io.Writer, items []*queue.Item) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Nothing to organize")
		return
	}

	counts := map[queue.Outcome]int{}
	review := 0
	for _, item := range items {
		if item.Outcome != "" {
			counts[item.Outcome]++
		}
		if item.NeedsReview {
			review++
		}
	}

	fmt.Fprintf(out, "Moved: %d  Review: %d  Skipped: %d  Failed: %d\n",
		counts[queue.OutcomeMoved],
		review,
		counts[queue.OutcomeSkipped],
		counts[queue.OutcomeFailed]+counts[queue.OutcomeRetriedThenFailed],
	)
}
