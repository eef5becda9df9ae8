package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"news_notes/internal/models"
	"news_notes/internal/storage"
)

// CreateNote вставляет заметку одним условным INSERT, как и в postgres.
func (s *Storage) CreateNote(ctx context.Context, n *models.Note) error {
	const op = "storage.sqlite.CreateNote"

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (title, text, slug, author_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id
	`, n.Title, n.Text, n.Slug, n.AuthorID).Scan(&n.ID)
	if errors.Is(err, sql.ErrNoRows) {
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
	const op = "storage.sqlite.NoteBySlug"

	var n models.Note
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, text, slug, author_id
		FROM notes
		WHERE slug = ?
	`, slug).Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &n, nil
}

// NotesByAuthor возвращает заметки автора в порядке создания.
func (s *Storage) NotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error) {
	const op = "storage.sqlite.NotesByAuthor"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, text, slug, author_id
		FROM notes
		WHERE author_id = ?
		ORDER BY id
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// CountNotes возвращает общее количество заметок.
func (s *Storage) CountNotes(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("storage.sqlite.CountNotes: %w", err)
	}
	return count, nil
}

// UpdateNote меняет заголовок, текст и slug.
func (s *Storage) UpdateNote(ctx context.Context, n *models.Note) error {
	const op = "storage.sqlite.UpdateNote"

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, text = ?, slug = ?
		WHERE id = ?
	`, n.Title, n.Text, n.Slug, n.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(res, op)
}

// DeleteNote удаляет заметку.
func (s *Storage) DeleteNote(ctx context.Context, id int64) error {
	const op = "storage.sqlite.DeleteNote"

	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(res, op)
}
