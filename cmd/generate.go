package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/chrisyu-uiuc/uibackup/internal/export"
	"github.com/spf13/cobra"
)

var generateFormat string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate yesterday's practice reports",
	Long: `Query the platform database for yesterday's chat sessions, aggregate
them per student, attach AI assessments, and write the report records
under the configured reports directory.

The reporting window always covers the full local calendar day before
the moment of invocation; message filtering and folder naming share a
single window computation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if generateFormat != "" {
			cfg.Reports.Format = generateFormat
		}
		if err := cfg.RequireAssessment(); err != nil {
			return err
		}

		result, err := runGenerate(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		internal.PrintRunSummary(os.Stdout, result)
		return nil
	},
}

func runGenerate(ctx context.Context, cfg *internal.Config) (*internal.RunResult, error) {
	exporter, err := export.NewExporter(cfg.Reports.Format)
	if err != nil {
		return nil, err
	}

	provider := internal.NewChatCompletionProvider(
		cfg.Assessment.APIKey, cfg.Assessment.BaseURL, cfg.Assessment.Model)

	pipeline := internal.NewPipeline(cfg, provider, exporter)

	result, err := pipeline.Run(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}
	return result, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "", "Detail record format: json, md, yaml (default from config)")
}
