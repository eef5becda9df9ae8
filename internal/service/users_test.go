package service_test

import (
	"context"
	"testing"

	"news_notes/internal/forms"
	"news_notes/internal/service"

	"github.com/stretchr/testify/require"
)

func TestUsers_SignupLogin(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	tokens := testTokens()
	svc := service.NewUsers(st, tokens)

	u, err := svc.Signup(ctx, forms.SignupForm{Username: "Автор", Password1: "secret-pass", Password2: "secret-pass"})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.NotEqual(t, []byte("secret-pass"), u.PasswordHash)

	_, err = svc.Signup(ctx, forms.SignupForm{Username: "Автор", Password1: "secret-pass", Password2: "secret-pass"})
	errs, ok := forms.ErrorsOf(err)
	require.True(t, ok)
	require.Contains(t, errs, "username")

	sess, err := svc.Login(ctx, forms.LoginForm{Username: "Автор", Password: "secret-pass"})
	require.NoError(t, err)
	require.Equal(t, u.ID, sess.User.ID)
	id, err := tokens.Parse(sess.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, id)

	_, err = svc.Login(ctx, forms.LoginForm{Username: "Автор", Password: "wrong-pass"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	errs, ok = forms.ErrorsOf(err)
	require.True(t, ok)
	require.Contains(t, errs, "__all__")

	_, err = svc.Login(ctx, forms.LoginForm{Username: "Никто", Password: "secret-pass"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, forms.LoginForm{})
	require.ErrorIs(t, err, forms.ErrInvalid)
}
