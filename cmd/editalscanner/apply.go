package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"EditalScanner/internal/review"
)

var (
	applyWrite    bool
	applyReviewer string
)

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&applyWrite, "apply", false, "write the corrections (default is a dry run)")
	applyCmd.Flags().StringVar(&applyReviewer, "reviewer", "", "reviewer name recorded on corrected summaries")
}

var applyCmd = &cobra.Command{
	Use:   "apply <worksheet.csv>",
	Short: "Apply reviewed corrections from a worksheet",
	Long: `Read an edited review worksheet and reconcile it with the stored
summaries. Without --apply the command only prints the planned changes.
With --apply each affected summary is backed up, corrected, stamped
with the reviewer and recorded as a training example.

Examples:
  # See what would change
  editalscanner apply data/reviews/review_20260110_080000.csv

  # Write the corrections
  editalscanner apply --apply --reviewer ana data/reviews/review_20260110_080000.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open worksheet: %w", err)
	}
	defer f.Close()

	applier := review.NewApplier(application.Store())
	plans, applyErr := applier.Apply(f, applyReviewer, !applyWrite)

	changed := 0
	for _, plan := range plans {
		if len(plan.Changes) == 0 {
			continue
		}
		changed++
		verb := "would change"
		if plan.Applied {
			verb = "changed"
		}
		fmt.Printf("%s: %s %d field(s)\n", plan.SourceID, verb, len(plan.Changes))
		for _, change := range plan.Changes {
			fmt.Printf("  %s: %s -> %s\n", change.Field, cell(change.Old), cell(change.New))
		}
	}

	fmt.Printf("%d row(s) processed, %d with changes\n", len(plans), changed)
	return applyErr
}

func cell(v *string) string {
	if v == nil {
		return "(empty)"
	}
	return *v
}
