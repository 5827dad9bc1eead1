package cmd

import (
	"os"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate reports, then email them",
	Long: `Run the full daily chain once: generate yesterday's reports, then
email them. Sending is skipped when generation fails, so partial
output from an aborted generation is never delivered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RequireAssessment(); err != nil {
			return err
		}
		if err := cfg.RequireMail(); err != nil {
			return err
		}

		result, err := runGenerate(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		internal.PrintRunSummary(os.Stdout, result)

		if len(result.Users) == 0 {
			internal.LogInfo("nothing to send")
			return nil
		}

		return runSend(cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
