package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/pkg/logger_i"

	_ "modernc.org/sqlite"
)

// SQLiteMessageStore keeps chat transcripts in a local sqlite file. Chats never expire.
type SQLiteMessageStore struct {
	db     *sql.DB
	logger *logger_i.Logger
}

func NewSQLiteMessageStore(dbPath string) (*SQLiteMessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteMessageStore{db: db, logger: logger_i.NewLogger("SQLite MessageStore")}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteMessageStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS chats (
		id         TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transcript_entries (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id       TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		question      TEXT NOT NULL,
		answer        TEXT NOT NULL,
		response_type TEXT NOT NULL,
		sources       TEXT,
		created_at    INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_chat ON transcript_entries(chat_id, id);
	`)
	return err
}

func (s *SQLiteMessageStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteMessageStore) ValidateChatId(ctx context.Context, id string) bool {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM chats WHERE id = ?`, id).Scan(&n)
	if err != nil {
		s.logger.WithTrace(ctx).Error("Failed to check if chatId exists", "chatId", id, "error", err)
		return false
	}
	return n > 0
}

// InitNewChat creates the chat or clears an existing one with the same id.
func (s *SQLiteMessageStore) InitNewChat(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transcript_entries WHERE chat_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chats (id, created_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at`,
		id, time.Now().UnixNano()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteMessageStore) TrySaveChat(ctx context.Context, id string, entry jobModel.TranscriptEntry) error {
	if !s.ValidateChatId(ctx, id) {
		return ErrInvalidChatId
	}
	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcript_entries (chat_id, question, answer, response_type, sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, entry.Question, entry.Answer, entry.ResponseType, string(sources), ts.UnixNano())
	if err == nil {
		s.logger.WithTrace(ctx).Debug("Saved chat successfully", "chatId", id)
	}
	return err
}

func (s *SQLiteMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]jobModel.TranscriptEntry, error) {
	if !s.ValidateChatId(ctx, chatId) {
		return nil, ErrInvalidChatId
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, response_type, sources, created_at
		 FROM transcript_entries WHERE chat_id = ? ORDER BY id DESC LIMIT ?`,
		chatId, historyWindow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]jobModel.TranscriptEntry, 0, historyWindow)
	for rows.Next() {
		var (
			entry   jobModel.TranscriptEntry
			sources sql.NullString
			created int64
		)
		if err := rows.Scan(&entry.Question, &entry.Answer, &entry.ResponseType, &sources, &created); err != nil {
			return nil, err
		}
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &entry.Sources); err != nil {
				s.logger.WithTrace(ctx).Warn("unreadable sources column", "chatId", chatId, "error", err)
			}
		}
		entry.Timestamp = time.Unix(0, created)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
