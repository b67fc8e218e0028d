package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"EditalScanner/internal/whitelist"
)

var (
	whitelistWrite     bool
	whitelistThreshold int
)

func init() {
	rootCmd.AddCommand(whitelistCmd)
	whitelistCmd.Flags().BoolVar(&whitelistWrite, "apply", false, "merge proposals into the whitelist files")
	whitelistCmd.Flags().IntVar(&whitelistThreshold, "threshold", 0,
		"corrections needed before a value is proposed (default from config)")
}

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Propose whitelist additions from reviewed corrections",
	Long: `Tally the corrections recorded by "editalscanner apply" and propose
board and job title values seen often enough to whitelist. Without
--apply the proposals are only printed.

Examples:
  editalscanner whitelist
  editalscanner whitelist --apply --threshold 2`,
	Args: cobra.NoArgs,
	RunE: runWhitelist,
}

func runWhitelist(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	examples, err := application.Store().ListExamples()
	if err != nil {
		return err
	}

	threshold := whitelistThreshold
	if threshold < 1 {
		threshold = application.Config().Whitelists.LearnThreshold
	}

	kinds := []struct {
		kind whitelist.Kind
		snap whitelist.Snapshot
		path string
	}{
		{whitelist.KindBoard, application.Boards(), application.Config().Whitelists.BoardsPath},
		{whitelist.KindJobTitle, application.JobTitles(), application.Config().Whitelists.JobTitlesPath},
	}

	for _, k := range kinds {
		proposals := whitelist.Propose(examples, k.kind, threshold)
		if len(proposals) == 0 {
			fmt.Printf("%s: nothing to propose\n", k.kind)
			continue
		}

		for _, p := range proposals {
			fmt.Printf("%s: %q seen %d time(s)\n", k.kind, p.Value, p.Count)
		}
		if !whitelistWrite {
			continue
		}

		merged, added := whitelist.Merge(k.snap, proposals)
		if len(added) == 0 {
			fmt.Printf("%s: all proposals already whitelisted\n", k.kind)
			continue
		}
		if err := whitelist.Save(k.path, merged); err != nil {
			return err
		}
		fmt.Printf("%s: added %d value(s) to %s\n", k.kind, len(added), k.path)
	}

	return nil
}
