package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/review"
)

var reviewMaxConfidence string

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVar(&reviewMaxConfidence, "max-confidence", "",
		"export only summaries graded below this level (low, medium, high)")
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Export summaries to a CSV worksheet for human review",
	Long: `Export stored summaries to a timestamped CSV worksheet under the
configured reviews directory. Edit the field columns in a spreadsheet
and feed the file back with "editalscanner apply".

Examples:
  # Everything
  editalscanner review

  # Only summaries needing attention
  editalscanner review --max-confidence high`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	sums, err := application.Store().List()
	if err != nil {
		return err
	}

	cutoff := application.Config().Review.MaxConfidence
	if reviewMaxConfidence != "" {
		cutoff = domain.Confidence(reviewMaxConfidence)
	}

	dir := application.Config().Data.ReviewsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reviews dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("review_%s.csv", time.Now().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create worksheet: %w", err)
	}

	n, err := review.Export(f, sums, review.ExportOptions{MaxConfidence: cutoff})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Printf("exported %d of %d summaries to %s\n", n, len(sums), path)
	return nil
}
