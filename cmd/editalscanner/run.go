package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scanner on the configured schedule",
	Long: `Start the cron scheduler and scan the gazette on the configured
expression until interrupted. SIGINT and SIGTERM trigger a graceful
shutdown that waits for an in-flight run.`,
	Args: cobra.NoArgs,
	RunE: runScheduled,
}

func runScheduled(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.RunScheduled(ctx)
}
