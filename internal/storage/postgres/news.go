package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news_notes/internal/models"
	"news_notes/internal/storage"

	"github.com/jackc/pgx/v5"
)

// ListNews возвращает limit новостей, начиная с offset, отсортированных по дате.
func (s *Storage) ListNews(ctx context.Context, limit, offset int) ([]models.News, error) {
	const op = "storage.postgres.ListNews"

	rows, err := s.pool.Query(ctx, `
		SELECT n.id, n.title, n.text, n.date, COALESCE(n.source_link, ''), COUNT(c.id)
		FROM news n
		LEFT JOIN comments c ON c.news_id = n.id
		GROUP BY n.id
		ORDER BY n.date DESC, n.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	news := make([]models.News, 0, limit)
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.SourceLink, &n.CommentsCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		news = append(news, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return news, nil
}

// CountNews возвращает общее количество новостей.
func (s *Storage) CountNews(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&count); err != nil {
		return 0, fmt.Errorf("storage.postgres.CountNews: %w", err)
	}
	return count, nil
}

// NewsByID возвращает новость с количеством комментариев.
func (s *Storage) NewsByID(ctx context.Context, id int64) (*models.News, error) {
	const op = "storage.postgres.NewsByID"

	var n models.News
	err := s.pool.QueryRow(ctx, `
		SELECT n.id, n.title, n.text, n.date, COALESCE(n.source_link, ''),
		       (SELECT COUNT(*) FROM comments c WHERE c.news_id = n.id)
		FROM news n
		WHERE n.id = $1
	`, id).Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.SourceLink, &n.CommentsCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &n, nil
}

// SaveNews сохраняет новость. Если запись с таким source_link уже есть, операция игнорируется.
func (s *Storage) SaveNews(ctx context.Context, n *models.News) (bool, error) {
	const op = "storage.postgres.SaveNews"

	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO news (title, text, date, source_link)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (source_link) DO NOTHING
		RETURNING id
	`, n.Title, n.Text, n.Date, n.SourceLink).Scan(&n.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
