package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/policy"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader — заголовок с ID запроса.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware берёт ID запроса из заголовка или создаёт новый
// и кладёт в контекст логгер с полем request_id.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx, logger.Log.WithField("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware логирует каждый запрос и обновляет HTTP-метрики.
func LoggingMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			if m != nil {
				m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
				m.Duration.WithLabelValues(route, r.Method).Observe(duration.Seconds())
			}

			logger.FromContext(r.Context()).WithFields(logrus.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"route":     route,
				"status":    rw.statusCode,
				"duration":  duration,
				"remote_ip": r.RemoteAddr,
			}).Info("request processed")
		})
	}
}

// RecoverMiddleware перехватывает панику обработчика и отвечает 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).WithFields(logrus.Fields{
					"panic": rec,
					"stack": string(debug.Stack()),
				}).Error("panic recovered")
				internalError(w, r)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireLogin отправляет анонима на страницу входа с возвратом на текущий путь.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if policy.RequireAuthenticated(auth.IdentityFrom(r.Context())) == policy.RedirectToLogin {
			http.Redirect(w, r, auth.LoginURL(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func internalError(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errorResponse{
		Error:     "Внутренняя ошибка сервера",
		RequestID: requestIDFrom(r.Context()),
	})
}
