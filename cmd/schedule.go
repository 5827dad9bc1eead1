package cmd

import (
	"context"
	"os"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

var scheduleAt string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily report chain on a schedule",
	Long: `Run forever, generating and emailing yesterday's reports once per
day at the configured local time. Sending is skipped on days where
generation fails. A master log of every run is appended under the
configured log directory.`,
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

		at := cfg.Schedule.At
		if scheduleAt != "" {
			at = scheduleAt
		}
		clock, err := internal.ParseClockTime(at)
		if err != nil {
			return err
		}

		generate := func(ctx context.Context) error {
			result, err := runGenerate(ctx, cfg)
			if err != nil {
				return err
			}
			internal.PrintRunSummary(os.Stdout, result)
			return nil
		}
		send := func(ctx context.Context) error {
			return runSend(cfg)
		}

		scheduler := internal.NewScheduler(clock, cfg.Schedule.LogDir, generate, send)
		return scheduler.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "local time of day to run (HH:MM, default from config)")
}
