package postgres

import (
	"context"
	"errors"
	"fmt"

	"news_notes/internal/models"
	"news_notes/internal/storage"

	"github.com/jackc/pgx/v5"
)

// CreateUser создаёт пользователя.
func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	const op = "storage.postgres.CreateUser"

	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, u.Username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserByUsername находит пользователя по имени.
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userBy(ctx, "storage.postgres.UserByUsername", `WHERE username = $1`, username)
}

// UserByID находит пользователя по id.
func (s *Storage) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userBy(ctx, "storage.postgres.UserByID", `WHERE id = $1`, id)
}

func (s *Storage) userBy(ctx context.Context, op, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
	`+where, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
