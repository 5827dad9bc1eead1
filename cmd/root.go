package cmd

import (
	"fmt"
	"os"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uibackup",
	Short: "Generate and deliver daily English practice reports",
	Long: `Daily reporting pipeline for an English practice chat platform.

The pipeline extracts yesterday's chat sessions from the platform
database, aggregates them per student, attaches an AI-generated
educational assessment to each session, writes structured report
records, and emails HTML reports to students and their teacher.

Quick Start:
  uibackup generate             # Build yesterday's report files
  uibackup send                 # Email the generated reports
  uibackup run                  # Generate then send
  uibackup check                # Inspect the report tree
  uibackup dashboard            # Serve the read-only report API
  uibackup schedule             # Run the daily scheduler`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./config.yaml)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
