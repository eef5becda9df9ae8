// Package server — HTTP-слой приложений news и notes: маршруты chi,
// middleware и перевод результатов сервисов в ответы.
//
// Страницы отдаются как JSON-контекст, который получил бы шаблон.
package server

import (
	"context"
	"net/http"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Pinger — проверка доступности хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options — зависимости, общие для обоих приложений.
type Options struct {
	Store          Pinger
	Users          *service.Users
	Tokens         *auth.TokenManager
	CookieName     string
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	opts  Options
	news  *service.News
	notes *service.Notes
}

// NewNews собирает маршруты новостного сайта.
func NewNews(opts Options, news *service.News) http.Handler {
	s := &Server{opts: opts, news: news}
	r := s.base()

	r.Get("/", s.newsHome)
	r.Get("/news/{id}/", s.newsDetail)
	r.With(requireLogin).Post("/news/{id}/", s.commentCreate)

	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/edit_comment/{id}/", s.commentEditForm)
		r.Post("/edit_comment/{id}/", s.commentEdit)
		r.Get("/delete_comment/{id}/", s.commentDeleteConfirm)
		r.Post("/delete_comment/{id}/", s.commentDelete)
		r.Delete("/delete_comment/{id}/", s.commentDelete)
	})
	return r
}

// NewNotes собирает маршруты приложения заметок.
func NewNotes(opts Options, notes *service.Notes) http.Handler {
	s := &Server{opts: opts, notes: notes}
	r := s.base()

	r.Get("/", s.notesHome)
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/notes/", s.notesList)
		r.Get("/add/", s.noteAddForm)
		r.Post("/add/", s.noteAdd)
		r.Get("/note/{slug}/", s.noteDetail)
		r.Get("/edit/{slug}/", s.noteEditForm)
		r.Post("/edit/{slug}/", s.noteEdit)
		r.Get("/delete/{slug}/", s.noteDeleteConfirm)
		r.Post("/delete/{slug}/", s.noteDelete)
		r.Delete("/delete/{slug}/", s.noteDelete)
		r.Get("/done/", s.noteDone)
	})
	return r
}

// base — роутер с общими middleware, служебными маршрутами и учётными записями.
func (s *Server) base() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(s.opts.Metrics))
	r.Use(RecoverMiddleware)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}
	r.Use(auth.Middleware(s.opts.Tokens, s.opts.CookieName))

	r.NotFound(notFound)

	r.Get("/health", s.health)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/", s.loginForm)
		r.Post("/login/", s.login)
		r.Get("/logout/", s.logout)
		r.Post("/logout/", s.logout)
		r.Get("/signup/", s.signupForm)
		r.Post("/signup/", s.signup)
	})
	return r
}

// health отвечает 200, если хранилище доступно, иначе 503.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store != nil {
		if err := s.opts.Store.Ping(r.Context()); err != nil {
			logger.FromContext(r.Context()).WithError(err).Warn("storage unavailable")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}
	}
	render.JSON(w, r, map[string]string{"status": "healthy"})
}
