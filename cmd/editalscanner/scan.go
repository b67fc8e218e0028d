package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanDays int

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanDays, "days", 0, "lookback window in days (default from config)")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the gazette once and extract new notices",
	Long: `Scan the configured gazettes over the lookback window ending today,
extract a structured summary from every notice not seen before and
persist it for review.

Examples:
  # Scan with the configured window
  editalscanner scan

  # Scan the last two days only
  editalscanner scan --days 2`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	report, err := application.RunOnce(cmd.Context(), scanDays)
	if err != nil {
		return err
	}

	fmt.Printf("window %s to %s: found %d, new %d, skipped %d, failed %d\n",
		report.From.ISO(), report.To.ISO(),
		report.Found, len(report.Processed), report.Skipped, report.Failed)
	for _, sum := range report.Processed {
		fmt.Printf("  %s (confidence: %s, issues: %d)\n",
			sum.SourceID, sum.OverallConfidence, len(sum.Issues))
	}
	return nil
}
