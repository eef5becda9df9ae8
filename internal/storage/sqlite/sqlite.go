// Package sqlite — хранилище на SQLite (modernc.org/sqlite, без cgo).
//
// Время хранится в INTEGER как Unix-наносекунды в UTC, поэтому сортировка
// по дате совпадает с сортировкой по числу.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"news_notes/internal/storage"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ storage.Storage = (*Storage)(nil)

// Storage работает поверх *sql.DB.
type Storage struct {
	db *sql.DB
}

// New открывает файл базы по dsn. Внешние ключи и busy_timeout включаются всегда.
func New(dsn string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Один писатель: SQLite сериализует запись, а лишние соединения дают SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

// NewWithDB оборачивает готовое соединение.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "foreign_keys") {
		dsn += sep + "_pragma=foreign_keys(1)"
		sep = "&"
	}
	if !strings.Contains(dsn, "busy_timeout") {
		dsn += sep + "_pragma=busy_timeout(5000)"
	}
	return dsn
}

// Close закрывает базу.
func (s *Storage) Close() {
	_ = s.db.Close()
}

// Ping проверяет соединение.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash BLOB NOT NULL,
		created_at    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		text        TEXT NOT NULL,
		date        INTEGER NOT NULL,
		source_link TEXT UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS news_date_idx ON news (date DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		news_id   INTEGER NOT NULL REFERENCES news(id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text      TEXT NOT NULL,
		created   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_news_created_idx ON comments (news_id, created, id)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		title     TEXT NOT NULL,
		text      TEXT NOT NULL,
		slug      TEXT NOT NULL UNIQUE,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS notes_author_idx ON notes (author_id, id)`,
}

// Migrate создаёт таблицы, если их нет.
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage.sqlite.Migrate: %w", err)
		}
	}
	return nil
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func isConstraint(err error, code int, text string) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == code
	}
	return err != nil && strings.Contains(err.Error(), text)
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}

func affected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
