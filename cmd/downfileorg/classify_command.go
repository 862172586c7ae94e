package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"downfileorg/internal/classifier"
	"downfileorg/internal/config"
	"downfileorg/internal/queue"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <path> [path...]",
		Short: "Classify files without moving them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				svc := classifier.NewClassifier(cfg, store, quietLogger())
				out := cmd.OutOrStdout()

				if degraded, reason := svc.Degraded(); degraded {
					fmt.Fprintf(out, "Classifier degraded: %s\n", reason)
					fmt.Fprintln(out, "All files would be routed to Manual_Review")
				}

				rows := make([][]string, 0, len(args))
				for _, path := range args {
					record, err := classifier.RecordForPath(path)
					if err != nil {
						rows = append(rows, []string{path, "-", "-", fmt.Sprintf("error: %v", err)})
						continue
					}
					decision := svc.Decide(record)
					category := string(decision.Result.Category)
					confidence := fmt.Sprintf("%.1f%%", decision.Result.Confidence*100)
					if category == "" {
						category, confidence = "-", "-"
					}
					rows = append(rows, []string{path, category, confidence, decision.FolderName()})
				}

				table := renderTable(
					[]string{"Path", "Category", "Confidence", "Destination"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(out, table)
				fmt.Fprintf(out, "Threshold: %.2f (no files were moved)\n", svc.Threshold())
				return nil
			})
		},
	}
}
