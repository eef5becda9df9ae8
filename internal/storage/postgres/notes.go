package postgres

import (
	"context"
	"errors"
	"fmt"

	"news_notes/internal/models"
	"news_notes/internal/storage"

	"github.com/jackc/pgx/v5"
)

// CreateNote вставляет заметку одним условным INSERT: проверка slug и вставка
// атомарны, поэтому из двух одновременных запросов с одним slug пройдёт один.
func (s *Storage) CreateNote(ctx context.Context, n *models.Note) error {
	const op = "storage.postgres.CreateNote"

	err := s.pool.QueryRow(ctx, `
		INSERT INTO notes (title, text, slug, author_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id
	`, n.Title, n.Text, n.Slug, n.AuthorID).Scan(&n.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NoteBySlug возвращает заметку по slug.
func (s *Storage) NoteBySlug(ctx context.Context, slug string) (*models.Note, error) {
	const op = "storage.postgres.NoteBySlug"

	var n models.Note
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, text, slug, author_id
		FROM notes
		WHERE slug = $1
	`, slug).Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &n, nil
}

// NotesByAuthor возвращает заметки автора в порядке создания.
func (s *Storage) NotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error) {
	const op = "storage.postgres.NotesByAuthor"

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, text, slug, author_id
		FROM notes
		WHERE author_id = $1
		ORDER BY id
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Note, error) {
		var n models.Note
		err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// CountNotes возвращает общее количество заметок.
func (s *Storage) CountNotes(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("storage.postgres.CountNotes: %w", err)
	}
	return count, nil
}

// UpdateNote меняет заголовок, текст и slug. Автор не меняется.
func (s *Storage) UpdateNote(ctx context.Context, n *models.Note) error {
	const op = "storage.postgres.UpdateNote"

	tag, err := s.pool.Exec(ctx, `
		UPDATE notes SET title = $2, text = $3, slug = $4
		WHERE id = $1
	`, n.ID, n.Title, n.Text, n.Slug)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// DeleteNote удаляет заметку.
func (s *Storage) DeleteNote(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteNote"

	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
