package policy_test

import (
	"testing"

	"news_notes/internal/policy"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	const authorID = 7

	tests := []struct {
		name   string
		caller policy.Identity
		want   policy.Outcome
		err    error
	}{
		{name: "anonymous", caller: policy.Anonymous, want: policy.RedirectToLogin, err: policy.ErrNotAuthenticated},
		{name: "author", caller: policy.User(authorID), want: policy.Allowed},
		{name: "other user", caller: policy.User(8), want: policy.NotFound, err: policy.ErrNotOwner},
		{name: "anonymous with id", caller: policy.Identity{UserID: authorID}, want: policy.RedirectToLogin, err: policy.ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Authorize(tt.caller, authorID)
			require.Equal(t, tt.want, got)
			if tt.err == nil {
				require.NoError(t, got.Err())
			} else {
				require.ErrorIs(t, got.Err(), tt.err)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	require.Equal(t, policy.RedirectToLogin, policy.RequireAuthenticated(policy.Anonymous))
	require.Equal(t, policy.Allowed, policy.RequireAuthenticated(policy.User(1)))
}

func TestStrings(t *testing.T) {
	require.Equal(t, "anonymous", policy.Anonymous.String())
	require.Equal(t, "user:5", policy.User(5).String())
	require.Equal(t, "not_found", policy.NotFound.String())
	require.Equal(t, "outcome(9)", policy.Outcome(9).String())
}
