package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"news_notes/internal/models"
	"news_notes/internal/storage"
)

// CreateUser создаёт пользователя.
func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	const op = "storage.sqlite.CreateUser"

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`, u.Username, u.PasswordHash, toUnix(now)).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	u.CreatedAt = fromUnix(toUnix(now))
	return nil
}

// UserByUsername находит пользователя по имени.
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userBy(ctx, "storage.sqlite.UserByUsername", `WHERE username = ?`, username)
}

// UserByID находит пользователя по id.
func (s *Storage) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userBy(ctx, "storage.sqlite.UserByID", `WHERE id = ?`, id)
}

func (s *Storage) userBy(ctx context.Context, op, where string, arg any) (*models.User, error) {
	var (
		u       models.User
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
	`+where, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.CreatedAt = fromUnix(created)
	return &u, nil
}
