package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrisyu-uiuc/uibackup/internal"
)

// MarkdownExporter writes chat detail records as human-readable
// Markdown, handy for spot-checking a day's reports.
type MarkdownExporter struct{}

// Export writes a chat report to Markdown format
func (e *MarkdownExporter) Export(report *internal.ChatReport, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", report.ChatInfo.Title)
	_, _ = fmt.Fprintf(w, "**Student:** %s (%s)  \n", report.UserInfo.UserName, report.UserInfo.UserEmail)
	_, _ = fmt.Fprintf(w, "**Messages:** %d  \n", report.ChatInfo.MessageCount)
	_, _ = fmt.Fprintf(w, "**Practice time:** %s  \n", report.ChatInfo.EstimatedPracticeTime)
	if len(report.ChatInfo.ModelsUsed) > 0 {
		_, _ = fmt.Fprintf(w, "**Models:** %s  \n", strings.Join(report.ChatInfo.ModelsUsed, ", "))
	}
	_, _ = fmt.Fprintf(w, "\n---\n\n## Conversation\n\n")

	for i, msg := range report.ConversationHistory {
		timestamp := ""
		if msg.Timestamp != nil {
			timestamp = fmt.Sprintf(" (%s)", *msg.Timestamp)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, escapeMarkdown(msg.Content))

		if i < len(report.ConversationHistory)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	if a := report.EducationalAssessment; a != nil {
		_, _ = fmt.Fprintf(w, "## Assessment\n\n")
		_, _ = fmt.Fprintf(w, "**Performance:** %s\n\n", a.PerformanceComment)
		_, _ = fmt.Fprintf(w, "**Corrections:** %s\n\n", a.Correction)
		_, _ = fmt.Fprintf(w, "**Improvement areas:** %s\n\n", a.ImprovementAreas)
		_, _ = fmt.Fprintf(w, "**Encouragement:** %s\n", a.Encouragement)
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
