package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dashboard serves a read-only JSON API over the generated report
// tree. It owns no data: everything is read from disk per request, so
// a scheduler run that lands new reports is visible immediately.
type Dashboard struct {
	reportsDir string
	router     *http.ServeMux
}

// NewDashboard creates a Dashboard over the given reports directory.
func NewDashboard(reportsDir string) *Dashboard {
	d := &Dashboard{
		reportsDir: reportsDir,
		router:     http.NewServeMux(),
	}
	d.setupRoutes()
	return d
}

func (d *Dashboard) setupRoutes() {
	d.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	d.router.HandleFunc("GET /api/dates", d.handleDates)
	d.router.HandleFunc("GET /api/users/{date}", d.handleUsers)
	d.router.HandleFunc("GET /api/users/{date}/{userID}/summary", d.handleUserSummary)
	d.router.HandleFunc("GET /api/chats/{date}/{userID}/{file}", d.handleChatReport)

	d.router.Handle("GET /reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(d.reportsDir))))
}

// Handler returns the root handler, exposed for tests.
func (d *Dashboard) Handler() http.Handler {
	return d.router
}

// ListenAndServe blocks serving the dashboard on the given port.
func (d *Dashboard) ListenAndServe(port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      d.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	LogInfo("dashboard listening on :%d", port)
	return srv.ListenAndServe()
}

// DashboardUser is one row of the per-date user listing.
type DashboardUser struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	ChatCount int    `json:"chat_count"`
}

func (d *Dashboard) handleDates(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(d.reportsDir)
	if err != nil {
		// A missing reports tree means no dates yet, not a failure.
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dates = append(dates, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates))) // most recent first

	writeJSON(w, http.StatusOK, dates)
}

func (d *Dashboard) handleUsers(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validPathSegment(date) {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	store := NewStore(d.reportsDir, date)
	userIDs, err := store.ListReportUsers()
	if err != nil {
		writeJSON(w, http.StatusOK, []DashboardUser{})
		return
	}

	users := make([]DashboardUser, 0, len(userIDs))
	for _, userID := range userIDs {
		user := DashboardUser{UserID: userID, UserName: "Unknown", UserEmail: "No email"}
		if summary, err := ReadUserSummary(store.SummaryPath(userID)); err == nil {
			user.UserName = summary.UserInfo.UserName
			user.UserEmail = summary.UserInfo.UserEmail
			user.ChatCount = summary.Summary.TotalChats
		}
		users = append(users, user)
	}

	writeJSON(w, http.StatusOK, users)
}

func (d *Dashboard) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	date, userID := r.PathValue("date"), r.PathValue("userID")
	if !validPathSegment(date) || !validPathSegment(userID) {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	store := NewStore(d.reportsDir, date)
	summary, err := ReadUserSummary(store.SummaryPath(userID))
	if err != nil {
		writeError(w, http.StatusNotFound, "user summary not found")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (d *Dashboard) handleChatReport(w http.ResponseWriter, r *http.Request) {
	date, userID, file := r.PathValue("date"), r.PathValue("userID"), r.PathValue("file")
	if !validPathSegment(date) || !validPathSegment(userID) || !validPathSegment(file) {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	store := NewStore(d.reportsDir, date)
	report, err := ReadChatReport(store.ChatPath(userID, file))
	if err != nil {
		writeError(w, http.StatusNotFound, "chat report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// validPathSegment rejects traversal attempts in user-supplied path
// components.
func validPathSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, "/\\") {
		return false
	}
	return filepath.Base(s) == s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
