package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news_notes/internal/forms"
	"news_notes/internal/logger"
	"news_notes/internal/models"
	"news_notes/internal/policy"
	"news_notes/internal/slug"
	"news_notes/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Notes — личные заметки. Каждый видит и меняет только свои.
type Notes struct {
	storage    storage.NoteStorage
	slugMaxLen int

	conflicts prometheus.Counter
}

// NotesOption настраивает Notes.
type NotesOption func(*Notes)

// WithConflictCounter считает отказы из-за занятого slug.
func WithConflictCounter(c prometheus.Counter) NotesOption {
	return func(s *Notes) { s.conflicts = c }
}

func NewNotes(st storage.NoteStorage, slugMaxLen int, opts ...NotesOption) *Notes {
	s := &Notes{storage: st, slugMaxLen: slugMaxLen}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List возвращает заметки вызывающего.
func (s *Notes) List(ctx context.Context, caller policy.Identity) ([]models.Note, error) {
	const op = "service.notes.List"

	if err := requireLogin(op, caller); err != nil {
		return nil, err
	}
	notes, err := s.storage.NotesByAuthor(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// Get возвращает заметку её автору.
func (s *Notes) Get(ctx context.Context, caller policy.Identity, noteSlug string) (*models.Note, error) {
	return s.own(ctx, "service.notes.Get", caller, noteSlug)
}

// Create сохраняет заметку вызывающего. Если slug не задан, он строится из заголовка.
func (s *Notes) Create(ctx context.Context, caller policy.Identity, form forms.NoteForm) (*models.Note, error) {
	const op = "service.notes.Create"

	if err := requireLogin(op, caller); err != nil {
		return nil, err
	}
	noteSlug, err := form.Clean(s.slugMaxLen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	n := &models.Note{
		Title:    strings.TrimSpace(form.Title),
		Text:     form.Text,
		Slug:     noteSlug,
		AuthorID: caller.UserID,
	}
	if err := s.storage.CreateNote(ctx, n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.slugError(err, noteSlug))
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"note_id":   n.ID,
		"slug":      n.Slug,
		"author_id": n.AuthorID,
	}).Info("note created")
	return n, nil
}

// Update меняет заголовок, текст и slug заметки. Собственный slug заметки коллизией не считается.
func (s *Notes) Update(ctx context.Context, caller policy.Identity, noteSlug string, form forms.NoteForm) (*models.Note, error) {
	const op = "service.notes.Update"

	n, err := s.own(ctx, op, caller, noteSlug)
	if err != nil {
		return nil, err
	}
	newSlug, err := form.Clean(s.slugMaxLen)
	if err != nil {
		return n, fmt.Errorf("%s: %w", op, err)
	}

	updated := *n
	updated.Title = strings.TrimSpace(form.Title)
	updated.Text = form.Text
	updated.Slug = newSlug
	if err := s.storage.UpdateNote(ctx, &updated); err != nil {
		return n, fmt.Errorf("%s: %w", op, s.slugError(err, newSlug))
	}
	return &updated, nil
}

// Delete удаляет заметку.
func (s *Notes) Delete(ctx context.Context, caller policy.Identity, noteSlug string) (*models.Note, error) {
	const op = "service.notes.Delete"

	n, err := s.own(ctx, op, caller, noteSlug)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteNote(ctx, n.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.FromContext(ctx).WithField("note_id", n.ID).Info("note deleted")
	return n, nil
}

func (s *Notes) own(ctx context.Context, op string, caller policy.Identity, noteSlug string) (*models.Note, error) {
	if err := requireLogin(op, caller); err != nil {
		return nil, err
	}
	n, err := s.storage.NoteBySlug(ctx, slug.Normalize(noteSlug))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := authorize(op, caller, n.AuthorID); err != nil {
		return nil, err
	}
	return n, nil
}

// slugError переводит конфликт хранилища в ошибку поля slug.
func (s *Notes) slugError(err error, noteSlug string) error {
	if !errors.Is(err, storage.ErrSlugTaken) {
		return err
	}
	inc(s.conflicts)
	return forms.ValidationErrors{forms.DuplicateSlug(noteSlug)}
}
