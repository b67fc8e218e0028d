package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract summaries from local notice text files",
	Long: `Extract a structured summary from each local text file and persist it
as if the notice had been scanned. The file name (without extension)
becomes the summary identity.

Examples:
  editalscanner extract notices/edital-12-2026.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sum, err := application.Pipeline().ProcessText(id, string(raw))
		if err != nil {
			return err
		}

		fmt.Printf("%s: confidence %s, issues %d\n",
			sum.SourceID, sum.OverallConfidence, len(sum.Issues))
	}
	return nil
}
