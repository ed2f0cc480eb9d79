// Package history keeps a local record of completed summaries so past
// results can be listed without a round trip to the backend.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one completed summary.
type Entry struct {
	ID         int64  `json:"id"`
	VideoID    string `json:"video_id,omitempty"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	NotionURL  string `json:"notion_url,omitempty"`
	SourceType string `json:"source_type"`
	CreatedAt  string `json:"created_at"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openDB opens (or creates) the SQLite history database.
func openDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".watchlater")
		if err := os.MkdirAll(dir, 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
			return
		}
		db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initSchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS summaries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id    TEXT,
		url         TEXT NOT NULL,
		title       TEXT NOT NULL,
		notion_url  TEXT,
		source_type TEXT NOT NULL DEFAULT 'youtube',
		created_at  TEXT NOT NULL
	)`)
	return err
}

// Add records a completed summary.
func Add(ctx context.Context, e Entry) (int64, error) {
	db, err := openDB()
	if err != nil {
		return 0, err
	}
	if e.SourceType == "" {
		e.SourceType = "youtube"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.ExecContext(ctx,
		`INSERT INTO summaries (video_id, url, title, notion_url, source_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.VideoID, e.URL, e.Title, e.NotionURL, e.SourceType, now)
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent limit entries, newest first.
func List(ctx context.Context, limit int) ([]Entry, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, video_id, url, title, notion_url, source_type, created_at
		 FROM summaries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var videoID, notionURL sql.NullString
		if err := rows.Scan(&e.ID, &videoID, &e.URL, &e.Title, &notionURL, &e.SourceType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.VideoID = videoID.String
		e.NotionURL = notionURL.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
