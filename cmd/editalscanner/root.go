package main

import (
	"github.com/spf13/cobra"

	"EditalScanner/internal/app"
	"EditalScanner/internal/config"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "editalscanner",
	Short: "Scanner for public competition notices in the official gazette",
	Long: `editalscanner discovers public competition opening notices (editais)
in the Diário Oficial da União, extracts structured summaries from them
and keeps a human review loop whose corrections feed back into the
extraction vocabularies.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to YAML config (default $EDITAL_SCANNER_CONFIG)")
}

// buildApp loads configuration and wires the application graph.
func buildApp() (*app.Application, error) {
	cfg := config.Load(configPath)
	return app.New(cfg, nil)
}
