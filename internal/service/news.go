package service

import (
	"context"
	"errors"
	"fmt"

	"news_notes/internal/censor"
	"news_notes/internal/forms"
	"news_notes/internal/logger"
	"news_notes/internal/models"
	"news_notes/internal/policy"
	"news_notes/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// News — главная страница, страница новости и комментарии.
type News struct {
	storage  storage.NewsStorage
	filter   *censor.Filter
	pageSize int

	rejected prometheus.Counter
}

// NewsOption настраивает News.
type NewsOption func(*News)

// WithRejectedCounter считает комментарии, отклонённые фильтром.
func WithRejectedCounter(c prometheus.Counter) NewsOption {
	return func(s *News) { s.rejected = c }
}

func NewNews(st storage.NewsStorage, filter *censor.Filter, pageSize int, opts ...NewsOption) *News {
	s := &News{storage: st, filter: filter, pageSize: pageSize}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Home возвращает страницу новостей: не больше pageSize записей, новые первыми.
func (s *News) Home(ctx context.Context, page int) (*models.NewsPage, error) {
	const op = "service.news.Home"

	if page < 1 {
		page = 1
	}
	p := models.PaginationParams{Page: page, PageSize: s.pageSize}

	items, err := s.storage.ListNews(ctx, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	total, err := s.storage.CountNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.NewsPage{
		Items:      items,
		Pagination: models.NewPaginationResponse(p, total),
	}, nil
}

// Detail возвращает новость и её комментарии (старые первыми). Доступно всем.
func (s *News) Detail(ctx context.Context, newsID int64) (*models.News, []models.Comment, error) {
	const op = "service.news.Detail"

	n, err := s.storage.NewsByID(ctx, newsID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := s.storage.CommentsByNews(ctx, newsID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, comments, nil
}

// AddComment создаёт комментарий от имени вызывающего.
// Текст с запрещённым словом не сохраняется.
func (s *News) AddComment(ctx context.Context, caller policy.Identity, newsID int64, form forms.CommentForm) (*models.Comment, error) {
	const op = "service.news.AddComment"

	if err := requireLogin(op, caller); err != nil {
		return nil, err
	}
	if _, err := s.storage.NewsByID(ctx, newsID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate(ctx, &form); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &models.Comment{NewsID: newsID, AuthorID: caller.UserID, Text: form.Text}
	if err := s.storage.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"news_id":    newsID,
		"comment_id": c.ID,
		"author_id":  caller.UserID,
	}).Info("comment created")
	return c, nil
}

// CommentForEdit возвращает комментарий его автору.
func (s *News) CommentForEdit(ctx context.Context, caller policy.Identity, commentID int64) (*models.Comment, error) {
	return s.ownComment(ctx, "service.news.CommentForEdit", caller, commentID)
}

// EditComment меняет текст комментария. Автор и новость не меняются.
func (s *News) EditComment(ctx context.Context, caller policy.Identity, commentID int64, form forms.CommentForm) (*models.Comment, error) {
	const op = "service.news.EditComment"

	c, err := s.ownComment(ctx, op, caller, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &form); err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.UpdateCommentText(ctx, c.ID, form.Text); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Text = form.Text
	return c, nil
}

// DeleteComment удаляет комментарий и возвращает его, чтобы вызывающий знал новость.
func (s *News) DeleteComment(ctx context.Context, caller policy.Identity, commentID int64) (*models.Comment, error) {
	const op = "service.news.DeleteComment"

	c, err := s.ownComment(ctx, op, caller, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteComment(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"news_id":    c.NewsID,
		"comment_id": c.ID,
	}).Info("comment deleted")
	return c, nil
}

// ownComment загружает комментарий и применяет политику доступа.
// Аноним получает ErrNotAuthenticated до обращения к хранилищу.
func (s *News) ownComment(ctx context.Context, op string, caller policy.Identity, commentID int64) (*models.Comment, error) {
	if err := requireLogin(op, caller); err != nil {
		return nil, err
	}
	c, err := s.storage.CommentByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := authorize(op, caller, c.AuthorID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *News) validate(ctx context.Context, form *forms.CommentForm) error {
	err := form.Validate(s.filter)
	if errors.Is(err, forms.ErrBannedContent) {
		inc(s.rejected)
		logger.FromContext(ctx).Info("comment rejected: banned word")
	}
	return err
}
