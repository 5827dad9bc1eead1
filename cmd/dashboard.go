package cmd

import (
	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

var dashboardPort int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the report dashboard API",
	Long: `Serve a read-only HTTP API over the generated report tree:
available dates, students per date, summaries, and chat detail
records. Reports are read from disk per request, so new runs appear
without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port := cfg.Dashboard.Port
		if dashboardPort != 0 {
			port = dashboardPort
		}

		dashboard := internal.NewDashboard(cfg.Reports.Dir)
		return dashboard.ListenAndServe(port)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().IntVarP(&dashboardPort, "port", "p", 0, "port to listen on (default from config)")
}
