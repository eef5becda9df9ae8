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

// CommentsByNews возвращает комментарии новости, старые первыми.
func (s *Storage) CommentsByNews(ctx context.Context, newsID int64) ([]models.Comment, error) {
	const op = "storage.sqlite.CommentsByNews"

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.news_id = ?
		ORDER BY c.created ASC, c.id ASC
	`, newsID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (*models.Comment, error) {
	var (
		c       models.Comment
		created int64
	)
	if err := row.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.Author, &c.Text, &created); err != nil {
		return nil, err
	}
	c.Created = fromUnix(created)
	return &c, nil
}

// CreateComment сохраняет комментарий. Если Created пустой, берётся текущее время.
func (s *Storage) CreateComment(ctx context.Context, c *models.Comment) error {
	const op = "storage.sqlite.CreateComment"

	if c.Created.IsZero() {
		c.Created = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (news_id, author_id, text, created)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, c.NewsID, c.AuthorID, c.Text, toUnix(c.Created)).Scan(&c.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	c.Created = fromUnix(toUnix(c.Created))
	return nil
}

// CommentByID возвращает комментарий по id.
func (s *Storage) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const op = "storage.sqlite.CommentByID"

	c, err := scanComment(s.db.QueryRowContext(ctx, `
		SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateCommentText меняет текст комментария.
func (s *Storage) UpdateCommentText(ctx context.Context, id int64, text string) error {
	const op = "storage.sqlite.UpdateCommentText"

	res, err := s.db.ExecContext(ctx, `UPDATE comments SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(res, op)
}

// DeleteComment удаляет комментарий.
func (s *Storage) DeleteComment(ctx context.Context, id int64) error {
	const op = "storage.sqlite.DeleteComment"

	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(res, op)
}
