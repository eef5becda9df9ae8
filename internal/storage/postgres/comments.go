package postgres

import (
	"context"
	"errors"
	"fmt"

	"news_notes/internal/models"
	"news_notes/internal/storage"

	"github.com/jackc/pgx/v5"
)

// CommentsByNews возвращает комментарии новости, старые первыми.
func (s *Storage) CommentsByNews(ctx context.Context, newsID int64) ([]models.Comment, error) {
	const op = "storage.postgres.CommentsByNews"

	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.news_id = $1
		ORDER BY c.created ASC, c.id ASC
	`, newsID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.Author, &c.Text, &c.Created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// CreateComment сохраняет комментарий. Если Created пустой, берётся текущее время базы.
func (s *Storage) CreateComment(ctx context.Context, c *models.Comment) error {
	const op = "storage.postgres.CreateComment"

	var created any
	if !c.Created.IsZero() {
		created = c.Created
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO comments (news_id, author_id, text, created)
		VALUES ($1, $2, $3, COALESCE($4::timestamptz, NOW()))
		RETURNING id, created
	`, c.NewsID, c.AuthorID, c.Text, created).Scan(&c.ID, &c.Created)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CommentByID возвращает комментарий по id.
func (s *Storage) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const op = "storage.postgres.CommentByID"

	var c models.Comment
	err := s.pool.QueryRow(ctx, `
		SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id).Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.Author, &c.Text, &c.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// UpdateCommentText меняет текст комментария.
func (s *Storage) UpdateCommentText(ctx context.Context, id int64, text string) error {
	const op = "storage.postgres.UpdateCommentText"

	tag, err := s.pool.Exec(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, id, text)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// DeleteComment удаляет комментарий.
func (s *Storage) DeleteComment(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteComment"

	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
