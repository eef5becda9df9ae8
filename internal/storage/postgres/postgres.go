// Package postgres — хранилище на PostgreSQL (pgxpool).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"news_notes/internal/storage"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ storage.Storage = (*Storage)(nil)

// Storage инкапсулирует пул соединений к PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// New создаёт пул соединений по connString.
func New(ctx context.Context, connString string) (*Storage, error) {
	const op = "storage.postgres.New"

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create connection pool: %w", op, err)
	}
	return &Storage{pool: pool}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(150) NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS news (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	text        TEXT NOT NULL,
	date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	source_link VARCHAR(2048) UNIQUE
);
CREATE INDEX IF NOT EXISTS news_date_idx ON news (date DESC, id DESC);

CREATE TABLE IF NOT EXISTS comments (
	id        BIGSERIAL PRIMARY KEY,
	news_id   BIGINT NOT NULL REFERENCES news(id) ON DELETE CASCADE,
	author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text      TEXT NOT NULL,
	created   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS comments_news_created_idx ON comments (news_id, created, id);

CREATE TABLE IF NOT EXISTS notes (
	id        BIGSERIAL PRIMARY KEY,
	title     VARCHAR(100) NOT NULL,
	text      TEXT NOT NULL,
	slug      VARCHAR(100) NOT NULL UNIQUE,
	author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS notes_author_idx ON notes (author_id, id);
`

// Migrate создаёт таблицы, если их нет.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("storage.postgres.Migrate: %w", err)
	}
	return nil
}

func isCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return isCode(err, pgerrcode.UniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return isCode(err, pgerrcode.ForeignKeyViolation)
}
