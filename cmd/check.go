package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chrisyu-uiuc/uibackup/internal"
	"github.com/spf13/cobra"
)

var checkDate string

var (
	checkHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				Padding(0, 1)

	checkOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	checkMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	checkPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check report status for a date",
	Long: `Check whether reports exist on disk for a date (yesterday by
default) and list the students that have a summary record. Useful
before sending to confirm generation produced something.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		date := checkDate
		if date == "" {
			date = internal.PreviousDay(time.Now()).Date
		}

		return runCheck(os.Stdout, cfg, date)
	},
}

func runCheck(w io.Writer, cfg *internal.Config, date string) error {
	store := internal.NewStore(cfg.Reports.Dir, date)

	fmt.Fprintln(w, checkHeaderStyle.Render(fmt.Sprintf("Report status for %s", date)))
	fmt.Fprintln(w, checkPathStyle.Render(store.DateDir()))
	fmt.Fprintln(w)

	if _, err := os.Stat(store.DateDir()); err != nil {
		fmt.Fprintln(w, checkMissingStyle.Render("No reports for this date."))
		fmt.Fprintln(w, "Run 'uibackup generate' to create them.")
		return nil
	}

	userIDs, err := store.ListReportUsers()
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		fmt.Fprintln(w, checkMissingStyle.Render("Date directory exists but holds no student summaries."))
		return nil
	}

	fmt.Fprintf(w, "%s %d student(s) with reports\n\n", checkOKStyle.Render("OK"), len(userIDs))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT\tEMAIL\tCHATS\tMESSAGES")
	for _, userID := range userIDs {
		summary, err := internal.ReadUserSummary(store.SummaryPath(userID))
		if err != nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\n", userID, "(summary unreadable)")
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n",
			summary.UserInfo.UserName,
			summary.UserInfo.UserEmail,
			summary.Summary.TotalChats,
			summary.Summary.StudentMessages)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ready to send. Run 'uibackup send' to deliver these reports.")
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkDate, "date", "d", "", "report date to check (YYYY-MM-DD, default yesterday)")
}
