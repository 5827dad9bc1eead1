package internal

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				Padding(0, 1)

	summaryNameStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	summaryCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	summaryWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)
)

// PrintRunSummary writes the human-facing summary of a generation run.
func PrintRunSummary(w io.Writer, result *RunResult) {
	fmt.Fprintln(w, summaryHeaderStyle.Render(fmt.Sprintf("Practice report summary for %s", result.Window.Date)))
	fmt.Fprintln(w)

	if len(result.Users) == 0 {
		fmt.Fprintln(w, summaryDimStyle.Render("No chat activity found for the reporting day."))
		return
	}

	for i, user := range result.Users {
		fmt.Fprintf(w, "%d. %s %s\n", i+1,
			summaryNameStyle.Render(user.UserName),
			summaryDimStyle.Render("<"+user.UserEmail+">"))
		fmt.Fprintf(w, "   Sessions: %s   Messages: %s (student %s / chatbot %s)   Tokens: %s\n",
			summaryCountStyle.Render(fmt.Sprintf("%d", user.TotalChats)),
			summaryCountStyle.Render(fmt.Sprintf("%d", user.TotalMessages)),
			summaryCountStyle.Render(fmt.Sprintf("%d", user.UserMessages)),
			summaryCountStyle.Render(fmt.Sprintf("%d", user.AssistantMessages)),
			summaryCountStyle.Render(fmt.Sprintf("%d", user.TotalTokens)))
		fmt.Fprintf(w, "   Last active: %s\n", summaryDimStyle.Render(FormatUnixSeconds(user.LastActivity)))

		// Session previews, capped at three like the run log.
		shown := user.Chats
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, chat := range shown {
			status := "pending"
			if chat.Assessment != nil {
				status = "assessed"
			}
			fmt.Fprintf(w, "     - %q (%d messages) [%s]\n", chat.Title, chat.MessageCount, status)
		}
		if len(user.Chats) > 3 {
			fmt.Fprintf(w, "     %s\n", summaryDimStyle.Render(fmt.Sprintf("... and %d more sessions", len(user.Chats)-3)))
		}
		fmt.Fprintln(w)
	}

	totalChats, totalMessages, studentMessages := 0, 0, 0
	for _, user := range result.Users {
		totalChats += user.TotalChats
		totalMessages += user.TotalMessages
		studentMessages += user.UserMessages
	}

	fmt.Fprintf(w, "Active students: %s   Sessions: %s   Interactions: %s   Student contributions: %s\n",
		summaryCountStyle.Render(fmt.Sprintf("%d", len(result.Users))),
		summaryCountStyle.Render(fmt.Sprintf("%d", totalChats)),
		summaryCountStyle.Render(fmt.Sprintf("%d", totalMessages)),
		summaryCountStyle.Render(fmt.Sprintf("%d", studentMessages)))
	fmt.Fprintf(w, "Files created: %s\n", summaryCountStyle.Render(fmt.Sprintf("%d", result.FilesCreated)))

	if result.ChatsSkipped > 0 {
		fmt.Fprintln(w, summaryWarnStyle.Render(fmt.Sprintf("Skipped %d chat(s) with malformed payloads", result.ChatsSkipped)))
	}
}
