// Package storage описывает контракты хранилища новостей, комментариев, заметок и пользователей.
package storage

import (
	"context"
	"errors"

	"news_notes/internal/models"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks news_notes/internal/storage NewsStorage,NoteStorage,UserStorage

var (
	// ErrNotFound — запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken — slug уже занят другой заметкой.
	ErrSlugTaken = errors.New("slug taken")
	// ErrAlreadyExists — нарушение уникальности (имя пользователя).
	ErrAlreadyExists = errors.New("already exists")
)

// NewsStorage — новости и комментарии.
type NewsStorage interface {
	// ListNews возвращает новости по дате (новые первыми) с числом комментариев.
	ListNews(ctx context.Context, limit, offset int) ([]models.News, error)
	CountNews(ctx context.Context) (int, error)
	// NewsByID: ErrNotFound, если новости нет.
	NewsByID(ctx context.Context, id int64) (*models.News, error)
	// SaveNews сохраняет новость; повтор по непустому SourceLink игнорируется (inserted=false).
	SaveNews(ctx context.Context, n *models.News) (inserted bool, err error)

	// CommentsByNews возвращает комментарии новости по времени создания (старые первыми).
	CommentsByNews(ctx context.Context, newsID int64) ([]models.Comment, error)
	// CreateComment заполняет ID и Created. ErrNotFound, если новости нет.
	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id int64) (*models.Comment, error)
	// UpdateCommentText меняет только текст; автор и новость неизменны.
	UpdateCommentText(ctx context.Context, id int64, text string) error
	DeleteComment(ctx context.Context, id int64) error
}

// NoteStorage — заметки. Уникальность slug обеспечивается атомарно на уровне хранилища.
type NoteStorage interface {
	// CreateNote заполняет ID. ErrSlugTaken при занятом slug.
	CreateNote(ctx context.Context, n *models.Note) error
	NoteBySlug(ctx context.Context, slug string) (*models.Note, error)
	// NotesByAuthor возвращает только заметки автора (фильтр в запросе).
	NotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error)
	CountNotes(ctx context.Context) (int, error)
	// UpdateNote меняет title/text/slug по ID. ErrSlugTaken при занятом slug.
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
}

// UserStorage — учётные записи.
type UserStorage interface {
	// CreateUser заполняет ID. ErrAlreadyExists при занятом имени.
	CreateUser(ctx context.Context, u *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Storage объединяет все контракты; его реализуют postgres и sqlite.
type Storage interface {
	NewsStorage
	NoteStorage
	UserStorage
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
