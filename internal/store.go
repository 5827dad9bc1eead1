package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Report record shapes. These are the on-disk contracts consumed by the
// renderer, the mailer, and the dashboard.

// UserInfo identifies a student in report records.
type UserInfo struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ChatInfo is the per-chat metadata block of a detail record.
type ChatInfo struct {
	ChatID                string   `json:"chat_id"`
	Title                 string   `json:"title"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
	MessageCount          int      `json:"message_count"`
	EstimatedPracticeTime string   `json:"estimated_practice_time"`
	ModelsUsed            []string `json:"models_used"`
}

// ReportMessage is one conversation entry in a detail record, with the
// human-facing role labels.
type ReportMessage struct {
	Role      string  `json:"role"` // "student", "chatbot", or as stored
	Content   string  `json:"content"`
	Timestamp *string `json:"timestamp"`
	Model     *string `json:"model"`
}

// ChatReport is the full detail record written per chat.
type ChatReport struct {
	UserInfo              UserInfo        `json:"user_info"`
	ChatInfo              ChatInfo        `json:"chat_info"`
	ConversationHistory   []ReportMessage `json:"conversation_history"`
	EducationalAssessment *Assessment     `json:"educational_assessment"`
}

// SummaryTotals is the counters block of a user summary record.
type SummaryTotals struct {
	TotalChats      int      `json:"total_chats"`
	TotalMessages   int      `json:"total_messages"`
	StudentMessages int      `json:"student_messages"`
	ChatbotMessages int      `json:"chatbot_messages"`
	TotalTokens     int      `json:"total_tokens"`
	ModelsUsed      []string `json:"models_used"`
	LastActivity    string   `json:"last_activity"`
}

// ChatOverview cross-references one detail record from the summary.
type ChatOverview struct {
	ChatID           string `json:"chat_id"`
	Title            string `json:"title"`
	MessageCount     int    `json:"message_count"`
	CreatedAt        string `json:"created_at"`
	AssessmentStatus string `json:"assessment_status"` // "completed" or "pending"
	FileName         string `json:"file_name"`
}

// UserSummary is the per-user summary record.
type UserSummary struct {
	UserInfo     UserInfo       `json:"user_info"`
	Summary      SummaryTotals  `json:"summary"`
	ChatOverview []ChatOverview `json:"chat_overview"`
}

// ProcessingOverview is the run-level record written at the date root.
type ProcessingOverview struct {
	GeneratedAt       string             `json:"generated_at"`
	ReportDate        string             `json:"report_date"`
	BaseDirectory     string             `json:"base_directory"`
	TotalUsers        int                `json:"total_users"`
	TotalChats        int                `json:"total_chats"`
	TotalFilesCreated int                `json:"total_files_created"`
	UsersOverview     []UserOverviewItem `json:"users_overview"`
}

// UserOverviewItem is one row of the run-level overview.
type UserOverviewItem struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	TotalChats    int    `json:"total_chats"`
	TotalMessages int    `json:"total_messages"`
	LastActivity  string `json:"last_activity"`
}

var unsafeTitleChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SafeTitle derives the stable per-chat identifier used in file names:
// non-alphanumerics become underscores, truncated to 50 bytes.
func SafeTitle(title string) string {
	safe := unsafeTitleChars.ReplaceAllString(title, "_")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	return safe
}

// ChatFileName names the detail record for the chat at the given
// 1-based position within its user's report.
func ChatFileName(index int, title, ext string) string {
	return fmt.Sprintf("chat_%d_%s.%s", index, SafeTitle(title), ext)
}

const summaryFileName = "user_summary.json"

// Store writes report records under <baseDir>/<date>/<userID>/.
type Store struct {
	baseDir string
	date    string
}

// NewStore creates a Store rooted at baseDir for the given report date.
func NewStore(baseDir, date string) *Store {
	return &Store{baseDir: baseDir, date: date}
}

// DateDir returns the directory holding all of this run's records.
func (s *Store) DateDir() string {
	return filepath.Join(s.baseDir, s.date)
}

// UserDir returns (and creates) the directory for one user's records.
func (s *Store) UserDir(userID string) (string, error) {
	dir := filepath.Join(s.DateDir(), userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &ReportError{Path: dir, Err: err}
	}
	return dir, nil
}

// BuildChatReport assembles the detail record for one chat.
func BuildChatReport(user *UserStats, chat *ChatStats) *ChatReport {
	history := make([]ReportMessage, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		history = append(history, ReportMessage{
			Role:      msg.DisplayRole(),
			Content:   msg.Content,
			Timestamp: msg.Time,
			Model:     msg.Model,
		})
	}

	assessment := chat.Assessment
	if assessment == nil {
		assessment = uniformAssessment("Assessment not available", "")
	}

	return &ChatReport{
		UserInfo: UserInfo{
			UserID:    user.UserID,
			UserName:  user.UserName,
			UserEmail: user.UserEmail,
		},
		ChatInfo: ChatInfo{
			ChatID:                chat.ChatID,
			Title:                 chat.Title,
			CreatedAt:             FormatUnixSeconds(chat.CreatedAt),
			UpdatedAt:             FormatUnixSeconds(chat.UpdatedAt),
			MessageCount:          chat.MessageCount,
			EstimatedPracticeTime: chat.EstimatedPracticeTime(),
			ModelsUsed:            chat.ModelsUsed,
		},
		ConversationHistory:   history,
		EducationalAssessment: assessment,
	}
}

// BuildUserSummary assembles the summary record for one user. ext is
// the detail-record extension so the overview's file names stay in sync
// with whatever exporter wrote them.
func BuildUserSummary(user *UserStats, ext string) *UserSummary {
	overview := make([]ChatOverview, 0, len(user.Chats))
	for i, chat := range user.Chats {
		status := "pending"
		if chat.Assessment != nil {
			status = "completed"
		}
		overview = append(overview, ChatOverview{
			ChatID:           chat.ChatID,
			Title:            chat.Title,
			MessageCount:     chat.MessageCount,
			CreatedAt:        FormatUnixSeconds(chat.CreatedAt),
			AssessmentStatus: status,
			FileName:         ChatFileName(i+1, chat.Title, ext),
		})
	}

	return &UserSummary{
		UserInfo: UserInfo{
			UserID:    user.UserID,
			UserName:  user.UserName,
			UserEmail: user.UserEmail,
		},
		Summary: SummaryTotals{
			TotalChats:      user.TotalChats,
			TotalMessages:   user.TotalMessages,
			StudentMessages: user.UserMessages,
			ChatbotMessages: user.AssistantMessages,
			TotalTokens:     user.TotalTokens,
			ModelsUsed:      user.ModelsUsed,
			LastActivity:    FormatUnixSeconds(user.LastActivity),
		},
		ChatOverview: overview,
	}
}

// WriteUserSummary writes the user_summary.json record.
func (s *Store) WriteUserSummary(summary *UserSummary) error {
	dir, err := s.UserDir(summary.UserInfo.UserID)
	if err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(dir, summaryFileName), summary)
}

// WriteProcessingOverview writes the run-level overview at the date
// root.
func (s *Store) WriteProcessingOverview(users []*UserStats, filesCreated int) error {
	overview := ProcessingOverview{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		ReportDate:        s.date,
		BaseDirectory:     s.DateDir(),
		TotalUsers:        len(users),
		TotalFilesCreated: filesCreated,
	}
	for _, user := range users {
		overview.TotalChats += len(user.Chats)
		overview.UsersOverview = append(overview.UsersOverview, UserOverviewItem{
			UserID:        user.UserID,
			UserName:      user.UserName,
			TotalChats:    user.TotalChats,
			TotalMessages: user.TotalMessages,
			LastActivity:  FormatUnixSeconds(user.LastActivity),
		})
	}

	if err := os.MkdirAll(s.DateDir(), 0755); err != nil {
		return &ReportError{Path: s.DateDir(), Err: err}
	}
	return writeJSONFile(filepath.Join(s.DateDir(), "processing_overview.json"), overview)
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return &ReportError{Path: path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &ReportError{Path: path, Err: err}
	}
	return nil
}

// ReadUserSummary loads a user's summary record back from disk.
func ReadUserSummary(path string) (*UserSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReportError{Path: path, Err: err}
	}
	var summary UserSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, &ReportError{Path: path, Err: err}
	}
	return &summary, nil
}

// ReadChatReport loads a chat's detail record back from disk.
func ReadChatReport(path string) (*ChatReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReportError{Path: path, Err: err}
	}
	var report ChatReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &ReportError{Path: path, Err: err}
	}
	return &report, nil
}

// ListReportUsers returns the user IDs that have a summary record under
// the date directory, sorted by directory order.
func (s *Store) ListReportUsers() ([]string, error) {
	entries, err := os.ReadDir(s.DateDir())
	if err != nil {
		return nil, &ReportError{Path: s.DateDir(), Err: err}
	}

	var users []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		summaryPath := filepath.Join(s.DateDir(), entry.Name(), summaryFileName)
		if _, err := os.Stat(summaryPath); err == nil {
			users = append(users, entry.Name())
		}
	}
	return users, nil
}

// SummaryPath returns the path of one user's summary record.
func (s *Store) SummaryPath(userID string) string {
	return filepath.Join(s.DateDir(), userID, summaryFileName)
}

// ChatPath returns the path of one of a user's detail records.
func (s *Store) ChatPath(userID, fileName string) string {
	return filepath.Join(s.DateDir(), userID, fileName)
}
