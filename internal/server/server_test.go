package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/censor"
	"news_notes/internal/logger"
	"news_notes/internal/metrics"
	"news_notes/internal/models"
	"news_notes/internal/server"
	"news_notes/internal/service"
	"news_notes/internal/storage/sqlite"

	"github.com/stretchr/testify/require"
)

const cookieName = "session"

type env struct {
	store   *sqlite.Storage
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	news    http.Handler
	notes   http.Handler
	author  *models.User
	reader  *models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	logger.Discard()

	st, err := sqlite.New("file:" + filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(context.Background()))

	tokens := auth.NewTokenManager("0123456789abcdef0123", time.Hour, "news_notes")
	m := metrics.New("test")
	opts := server.Options{
		Store:          st,
		Users:          service.NewUsers(st, tokens),
		Tokens:         tokens,
		CookieName:     cookieName,
		Metrics:        m,
		RequestTimeout: 5 * time.Second,
	}

	e := &env{
		store:   st,
		tokens:  tokens,
		metrics: m,
		news: server.NewNews(opts, service.NewNews(st, censor.New([]string{"плохое"}), 10,
			service.WithRejectedCounter(m.CommentsRejected))),
		notes: server.NewNotes(opts, service.NewNotes(st, 100,
			service.WithConflictCounter(m.SlugConflicts))),
	}
	e.author = e.user(t, "Автор")
	e.reader = e.user(t, "Читатель")
	return e
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: []byte("x")}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// do выполняет запрос от имени u (nil — аноним). body — данные формы.
func (e *env) do(t *testing.T, h http.Handler, u *models.User, method, target string, body url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if u != nil {
		token, _, err := e.tokens.Issue(u.ID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
}

func TestHealthAndMetrics(t *testing.T) {
	e := setup(t)

	w := e.do(t, e.news, nil, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(server.RequestIDHeader))

	w = e.do(t, e.notes, nil, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "news_notes_http_requests_total")
}

func TestNotFoundRoute(t *testing.T) {
	e := setup(t)
	w := e.do(t, e.news, nil, http.MethodGet, "/nowhere/", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	e := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "fixed-id")
	w := httptest.NewRecorder()
	e.news.ServeHTTP(w, req)
	require.Equal(t, "fixed-id", w.Header().Get(server.RequestIDHeader))
}

func TestSignupLoginLogout(t *testing.T) {
	e := setup(t)

	w := e.do(t, e.news, nil, http.MethodGet, "/auth/signup/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, e.news, nil, http.MethodPost, "/auth/signup/", url.Values{
		"username": {"Новый"}, "password1": {"secret-pass"}, "password2": {"secret-pass"},
	})
	requireRedirect(t, w, "/")

	w = e.do(t, e.news, nil, http.MethodPost, "/auth/signup/", url.Values{
		"username": {"Новый"}, "password1": {"secret-pass"}, "password2": {"secret-pass"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	errs := decodeBody(t, w)["form"].(map[string]any)["errors"].(map[string]any)
	require.Contains(t, errs, "username")

	w = e.do(t, e.notes, nil, http.MethodPost, "/auth/login/?next=/notes/", url.Values{
		"username": {"Новый"}, "password": {"secret-pass"},
	})
	requireRedirect(t, w, "/notes/")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, cookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	e.notes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	w = e.do(t, e.notes, nil, http.MethodPost, "/auth/login/?next=https://evil.example/", url.Values{
		"username": {"Новый"}, "password": {"secret-pass"},
	})
	requireRedirect(t, w, "/")

	w = e.do(t, e.notes, nil, http.MethodPost, "/auth/login/", url.Values{
		"username": {"Новый"}, "password": {"wrong-pass"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Result().Cookies())

	w = e.do(t, e.notes, nil, http.MethodPost, "/auth/logout/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}

func TestBadRequestBody(t *testing.T) {
	e := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/add/", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	token, _, err := e.tokens.Issue(e.author.ID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	w := httptest.NewRecorder()
	e.notes.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJSONBody(t *testing.T) {
	e := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/add/", strings.NewReader(`{"title":"Заголовок","text":"Текст","slug":"json-slug"}`))
	req.Header.Set("Content-Type", "application/json")
	token, _, err := e.tokens.Issue(e.author.ID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	w := httptest.NewRecorder()
	e.notes.ServeHTTP(w, req)
	requireRedirect(t, w, server.DonePath)

	n, err := e.store.NoteBySlug(context.Background(), "json-slug")
	require.NoError(t, err)
	require.Equal(t, e.author.ID, n.AuthorID)
}

func newsCount(t *testing.T, e *env, newsID int64) int {
	t.Helper()
	n, err := e.store.NewsByID(context.Background(), newsID)
	require.NoError(t, err)
	return n.CommentsCount
}

func TestNewsHome(t *testing.T) {
	e := setup(t)
	today := time.Now().UTC()
	for i := 0; i < 11; i++ {
		_, err := e.store.SaveNews(context.Background(), &models.News{
			Title: fmt.Sprintf("Новость %d", i),
			Text:  "Просто текст.",
			Date:  today.Add(-time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}

	w := e.do(t, e.news, nil, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.NewsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Len(t, p.Items, 10)
	for i := 1; i < len(p.Items); i++ {
		require.True(t, p.Items[i-1].Date.After(p.Items[i].Date))
	}

	w = e.do(t, e.news, nil, http.MethodGet, "/?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Len(t, p.Items, 1)

	w = e.do(t, e.news, nil, http.MethodGet, "/?page=abc", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewsDetail(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	n := &models.News{Title: "Заголовок", Text: "Текст"}
	_, err := e.store.SaveNews(ctx, n)
	require.NoError(t, err)

	now := time.Now().UTC()
	for i := 9; i >= 0; i-- {
		require.NoError(t, e.store.CreateComment(ctx, &models.Comment{
			NewsID: n.ID, AuthorID: e.author.ID, Text: fmt.Sprintf("Текст %d", i),
			Created: now.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}
	target := fmt.Sprintf("/news/%d/", n.ID)

	t.Run("anonymous has no form", func(t *testing.T) {
		w := e.do(t, e.news, nil, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.NotContains(t, body, "form")

		comments := body["comments"].([]any)
		require.Len(t, comments, 10)
		var prev time.Time
		for _, raw := range comments {
			created, err := time.Parse(time.RFC3339Nano, raw.(map[string]any)["created"].(string))
			require.NoError(t, err)
			require.True(t, prev.Before(created))
			prev = created
		}
	})

	t.Run("authorized has form", func(t *testing.T) {
		w := e.do(t, e.news, e.reader, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, decodeBody(t, w), "form")
	})

	t.Run("unknown news", func(t *testing.T) {
		w := e.do(t, e.news, nil, http.MethodGet, "/news/9999/", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentCreate(t *testing.T) {
	e := setup(t)
	n := &models.News{Title: "Заголовок", Text: "Текст"}
	_, err := e.store.SaveNews(context.Background(), n)
	require.NoError(t, err)
	target := fmt.Sprintf("/news/%d/", n.ID)
	form := url.Values{"text": {"Текст комментария"}}

	t.Run("anonymous cannot comment", func(t *testing.T) {
		w := e.do(t, e.news, nil, http.MethodPost, target, form)
		requireRedirect(t, w, "/auth/login/?next="+target)
		require.Equal(t, 0, newsCount(t, e, n.ID))
	})

	t.Run("banned word", func(t *testing.T) {
		w := e.do(t, e.news, e.author, http.MethodPost, target, url.Values{"text": {"текст плохое текст"}})
		require.Equal(t, http.StatusOK, w.Code)
		errs := decodeBody(t, w)["form"].(map[string]any)["errors"].(map[string]any)
		require.Equal(t, []any{"Не ругайтесь!"}, errs["text"])
		require.Equal(t, 0, newsCount(t, e, n.ID))
	})

	t.Run("user can comment", func(t *testing.T) {
		w := e.do(t, e.news, e.author, http.MethodPost, target, form)
		requireRedirect(t, w, target+"#comments")
		require.Equal(t, 1, newsCount(t, e, n.ID))

		comments, err := e.store.CommentsByNews(context.Background(), n.ID)
		require.NoError(t, err)
		require.Equal(t, "Текст комментария", comments[0].Text)
		require.Equal(t, e.author.ID, comments[0].AuthorID)
	})
}

func TestCommentEditDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	n := &models.News{Title: "Заголовок", Text: "Текст"}
	_, err := e.store.SaveNews(ctx, n)
	require.NoError(t, err)
	c := &models.Comment{NewsID: n.ID, AuthorID: e.author.ID, Text: "Текст комментария"}
	require.NoError(t, e.store.CreateComment(ctx, c))

	editURL := fmt.Sprintf("/edit_comment/%d/", c.ID)
	deleteURL := fmt.Sprintf("/delete_comment/%d/", c.ID)
	commentsURL := fmt.Sprintf("/news/%d/#comments", n.ID)
	newText := url.Values{"text": {"Обновлённый комментарий"}}

	stored := func() string {
		got, err := e.store.CommentByID(ctx, c.ID)
		require.NoError(t, err)
		return got.Text
	}

	t.Run("anonymous redirected", func(t *testing.T) {
		for _, target := range []string{editURL, deleteURL} {
			w := e.do(t, e.news, nil, http.MethodGet, target, nil)
			requireRedirect(t, w, "/auth/login/?next="+target)
		}
		w := e.do(t, e.news, nil, http.MethodPost, editURL, newText)
		requireRedirect(t, w, "/auth/login/?next="+editURL)
		w = e.do(t, e.news, nil, http.MethodPost, deleteURL, nil)
		requireRedirect(t, w, "/auth/login/?next="+deleteURL)
		require.Equal(t, "Текст комментария", stored())
	})

	t.Run("reader gets 404", func(t *testing.T) {
		for _, target := range []string{editURL, deleteURL} {
			w := e.do(t, e.news, e.reader, http.MethodGet, target, nil)
			require.Equal(t, http.StatusNotFound, w.Code)
		}
		w := e.do(t, e.news, e.reader, http.MethodPost, editURL, newText)
		require.Equal(t, http.StatusNotFound, w.Code)
		w = e.do(t, e.news, e.reader, http.MethodDelete, deleteURL, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "Текст комментария", stored())
		require.Equal(t, 1, newsCount(t, e, n.ID))
	})

	t.Run("author pages available", func(t *testing.T) {
		for _, target := range []string{editURL, deleteURL} {
			w := e.do(t, e.news, e.author, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("author edit with banned word", func(t *testing.T) {
		w := e.do(t, e.news, e.author, http.MethodPost, editURL, url.Values{"text": {"плохое"}})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Текст комментария", stored())
	})

	t.Run("author edits", func(t *testing.T) {
		w := e.do(t, e.news, e.author, http.MethodPost, editURL, newText)
		requireRedirect(t, w, commentsURL)
		require.Equal(t, "Обновлённый комментарий", stored())
	})

	t.Run("author deletes", func(t *testing.T) {
		w := e.do(t, e.news, e.author, http.MethodPost, deleteURL, nil)
		requireRedirect(t, w, commentsURL)
		require.Equal(t, 0, newsCount(t, e, n.ID))
	})
}
