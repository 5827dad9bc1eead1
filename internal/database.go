package internal

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens the chat store in read-only mode. An unreachable
// store is fatal to the run; no per-chat work starts without it.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &QueryError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &QueryError{Op: "ping", Err: err}
	}

	return db, nil
}

const recentChatsQuery = `
SELECT
  u.id AS user_id,
  u.name AS user_name,
  u.email AS user_email,
  c.id AS chat_id,
  c.title,
  c.created_at,
  c.updated_at,
  c.chat AS chat_data
FROM chat c
JOIN user u ON c.user_id = u.id
WHERE (c.created_at >= ? AND c.created_at <= ?)
   OR (c.updated_at >= ? AND c.updated_at <= ?)
ORDER BY u.name, c.updated_at DESC`

// QueryRecentChats returns the chat rows whose created_at or updated_at
// falls inside the window, ordered by user name then chat recency.
// This is a coarse pre-filter: a chat can straddle the boundary, so the
// aggregator re-filters at message granularity.
func QueryRecentChats(db *sql.DB, window Window) ([]RawChatRecord, error) {
	rows, err := db.Query(recentChatsQuery, window.Start, window.End, window.Start, window.End)
	if err != nil {
		return nil, &QueryError{Op: "query", Err: err}
	}
	defer rows.Close()

	var records []RawChatRecord
	for rows.Next() {
		var rec RawChatRecord
		var name, email, title, chatData sql.NullString
		if err := rows.Scan(&rec.UserID, &name, &email, &rec.ChatID, &title, &rec.CreatedAt, &rec.UpdatedAt, &chatData); err != nil {
			return nil, &QueryError{Op: "scan", Err: err}
		}
		rec.UserName = name.String
		rec.UserEmail = email.String
		rec.Title = title.String
		rec.ChatData = chatData.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "query", Err: err}
	}

	return records, nil
}
