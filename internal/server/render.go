package server

import (
	"errors"
	"net/http"
	"strconv"

	"news_notes/internal/auth"
	"news_notes/internal/forms"
	"news_notes/internal/logger"
	"news_notes/internal/policy"
	"news_notes/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// formContext — форма на странице: введённые данные и ошибки полей.
type formContext struct {
	Data   any          `json:"data"`
	Errors forms.Errors `json:"errors,omitempty"`
}

func page(w http.ResponseWriter, r *http.Request, v any) {
	render.JSON(w, r, v)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, errorResponse{Error: "Страница не найдена"})
}

// fail переводит ошибку сервиса в HTTP-ответ.
// Ошибки форм сюда не попадают: их показывает сама страница.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, policy.ErrNotAuthenticated):
		redirect(w, r, auth.LoginURL(r.URL.Path))
	case service.IsNotFound(err):
		logger.FromContext(r.Context()).WithError(err).Debug("not found")
		notFound(w, r)
	default:
		logger.FromContext(r.Context()).WithError(err).Error("request failed")
		internalError(w, r)
	}
}

// decode читает форму или JSON в v. При ошибке отвечает 400.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.Decode(r, v); err != nil {
		logger.FromContext(r.Context()).WithError(err).Debug("bad request body")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "Некорректное тело запроса", RequestID: requestIDFrom(r.Context())})
		return false
	}
	return true
}

// idParam разбирает числовой параметр пути; некорректный id даёт 404.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		notFound(w, r)
		return 0, false
	}
	return id, true
}
