package cmd

import (
	"fmt"
	"time"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email yesterday's generated reports",
	Long: `Load the generated report tree for yesterday and email each student
their practice report, plus a progress report to the teacher.

Failures for one student never stop delivery for the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RequireMail(); err != nil {
			return err
		}

		return runSend(cfg)
	},
}

func runSend(cfg *internal.Config) error {
	date := internal.PreviousDay(time.Now()).Date

	results, err := internal.SendDailyReports(cfg, date)
	if err != nil {
		return fmt.Errorf("report delivery failed: %w", err)
	}

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Err != nil || !r.StudentSent || !r.TeacherSent {
			failed++
		} else {
			succeeded++
		}
	}
	internal.LogInfo("delivery complete for %s: %d succeeded, %d with failures", date, succeeded, failed)

	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
