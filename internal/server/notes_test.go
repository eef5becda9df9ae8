package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"news_notes/internal/forms"
	"news_notes/internal/models"
	"news_notes/internal/server"

	"github.com/stretchr/testify/require"
)

func notesCount(t *testing.T, e *env) int {
	t.Helper()
	n, err := e.store.CountNotes(context.Background())
	require.NoError(t, err)
	return n
}

func TestNotesRoutesAvailability(t *testing.T) {
	e := setup(t)
	note := &models.Note{Title: "Заголовок", Text: "Текст", Slug: "note-slug", AuthorID: e.author.ID}
	require.NoError(t, e.store.CreateNote(context.Background(), note))

	t.Run("public home", func(t *testing.T) {
		w := e.do(t, e.notes, nil, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		for _, target := range []string{"/auth/login/", "/auth/signup/", "/auth/logout/"} {
			w := e.do(t, e.notes, nil, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code, target)
		}
	})

	t.Run("anonymous redirected", func(t *testing.T) {
		targets := []string{"/notes/", "/add/", "/done/", "/note/note-slug/", "/edit/note-slug/", "/delete/note-slug/"}
		for _, target := range targets {
			w := e.do(t, e.notes, nil, http.MethodGet, target, nil)
			requireRedirect(t, w, "/auth/login/?next="+target)
		}
	})

	t.Run("user pages", func(t *testing.T) {
		for _, target := range []string{"/notes/", "/add/", "/done/"} {
			w := e.do(t, e.notes, e.reader, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code, target)
		}
	})

	t.Run("author and reader", func(t *testing.T) {
		for _, target := range []string{"/note/note-slug/", "/edit/note-slug/", "/delete/note-slug/"} {
			w := e.do(t, e.notes, e.author, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code, target)

			w = e.do(t, e.notes, e.reader, http.MethodGet, target, nil)
			require.Equal(t, http.StatusNotFound, w.Code, target)
		}
	})
}

func TestNotesList(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.store.CreateNote(ctx, &models.Note{Title: "Моя", Text: "Т", Slug: "mine", AuthorID: e.author.ID}))
	require.NoError(t, e.store.CreateNote(ctx, &models.Note{Title: "Чужая", Text: "Т", Slug: "theirs", AuthorID: e.reader.ID}))

	w := e.do(t, e.notes, e.author, http.MethodGet, "/notes/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []models.Note `json:"object_list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "mine", body.Items[0].Slug)
}

func TestNoteCreate(t *testing.T) {
	e := setup(t)
	form := url.Values{"title": {"Заголовок"}, "text": {"Текст"}, "slug": {"new-slug"}}

	t.Run("anonymous cannot create", func(t *testing.T) {
		w := e.do(t, e.notes, nil, http.MethodPost, "/add/", form)
		requireRedirect(t, w, "/auth/login/?next=/add/")
		require.Equal(t, 0, notesCount(t, e))
	})

	t.Run("user creates", func(t *testing.T) {
		w := e.do(t, e.notes, e.author, http.MethodPost, "/add/", form)
		requireRedirect(t, w, server.DonePath)
		require.Equal(t, 1, notesCount(t, e))

		n, err := e.store.NoteBySlug(context.Background(), "new-slug")
		require.NoError(t, err)
		require.Equal(t, "Заголовок", n.Title)
		require.Equal(t, "Текст", n.Text)
		require.Equal(t, e.author.ID, n.AuthorID)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w := e.do(t, e.notes, e.reader, http.MethodPost, "/add/", form)
		require.Equal(t, http.StatusOK, w.Code)
		errs := decodeBody(t, w)["form"].(map[string]any)["errors"].(map[string]any)
		require.Equal(t, []any{"new-slug" + forms.SlugWarning}, errs["slug"])
		require.Equal(t, 1, notesCount(t, e))
	})

	t.Run("empty slug derived from title", func(t *testing.T) {
		w := e.do(t, e.notes, e.author, http.MethodPost, "/add/", url.Values{"title": {"Заголовок Новости"}, "text": {"Текст"}})
		requireRedirect(t, w, server.DonePath)
		_, err := e.store.NoteBySlug(context.Background(), "zagolovok-novosti")
		require.NoError(t, err)
	})
}

func TestNoteCreate_ConcurrentDuplicateSlug(t *testing.T) {
	e := setup(t)
	form := url.Values{"title": {"Гонка"}, "text": {"Текст"}, "slug": {"race"}}

	const workers = 6
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = e.do(t, e.notes, e.author, http.MethodPost, "/add/", form).Code
		}(i)
	}
	wg.Wait()

	var redirects, pages int
	for _, code := range codes {
		switch code {
		case http.StatusFound:
			redirects++
		case http.StatusOK:
			pages++
		}
	}
	require.Equal(t, 1, redirects)
	require.Equal(t, workers-1, pages)
	require.Equal(t, 1, notesCount(t, e))
}

func TestNoteEditDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	note := &models.Note{Title: "Заголовок", Text: "Текст", Slug: "note-slug", AuthorID: e.author.ID}
	require.NoError(t, e.store.CreateNote(ctx, note))

	edit := url.Values{"title": {"Новый заголовок"}, "text": {"Новый текст"}, "slug": {"new-slug"}}

	t.Run("reader cannot edit or delete", func(t *testing.T) {
		w := e.do(t, e.notes, e.reader, http.MethodPost, "/edit/note-slug/", edit)
		require.Equal(t, http.StatusNotFound, w.Code)
		w = e.do(t, e.notes, e.reader, http.MethodPost, "/delete/note-slug/", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		stored, err := e.store.NoteBySlug(ctx, "note-slug")
		require.NoError(t, err)
		require.Equal(t, note.Title, stored.Title)
		require.Equal(t, 1, notesCount(t, e))
	})

	t.Run("anonymous cannot edit", func(t *testing.T) {
		w := e.do(t, e.notes, nil, http.MethodPost, "/edit/note-slug/", edit)
		requireRedirect(t, w, "/auth/login/?next=/edit/note-slug/")
	})

	t.Run("author edits", func(t *testing.T) {
		w := e.do(t, e.notes, e.author, http.MethodPost, "/edit/note-slug/", edit)
		requireRedirect(t, w, server.DonePath)

		stored, err := e.store.NoteBySlug(ctx, "new-slug")
		require.NoError(t, err)
		require.Equal(t, "Новый заголовок", stored.Title)
		require.Equal(t, "Новый текст", stored.Text)
		require.Equal(t, e.author.ID, stored.AuthorID)
	})

	t.Run("author deletes", func(t *testing.T) {
		w := e.do(t, e.notes, e.author, http.MethodDelete, "/delete/new-slug/", nil)
		requireRedirect(t, w, server.DonePath)
		require.Equal(t, 0, notesCount(t, e))
	})
}
