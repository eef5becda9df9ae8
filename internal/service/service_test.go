package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"news_notes/internal/auth"
	"news_notes/internal/censor"
	"news_notes/internal/models"
	"news_notes/internal/storage/sqlite"

	"github.com/stretchr/testify/require"
)

// newStore поднимает SQLite во временном каталоге.
func newStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	st, err := sqlite.New("file:" + filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func mustUser(t *testing.T, st *sqlite.Storage, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: []byte("x")}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func mustNews(t *testing.T, st *sqlite.Storage, title string, date time.Time) *models.News {
	t.Helper()
	n := &models.News{Title: title, Text: "Просто текст.", Date: date}
	_, err := st.SaveNews(context.Background(), n)
	require.NoError(t, err)
	return n
}

func testFilter() *censor.Filter {
	return censor.New([]string{"плохое"})
}

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("0123456789abcdef0123", time.Hour, "news_notes")
}
