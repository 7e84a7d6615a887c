package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vidhub/account-service/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo) *domain.User {
	t.Helper()
	user, err := newTestStore(repo).Create(context.Background(), domain.Profile{
		FullName: "Ada L",
		Email:    "ada@x.io",
		Username: "Ada",
		Avatar:   "https://media.test/a.png",
	}, "secret1")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthenticator_Success(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	tokens := newTestTokens()
	auth := NewAuthenticator(tokens, newTestStore(repo))

	access, err := tokens.IssueAccessToken(user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := auth.Authenticate(context.Background(), access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID || got.Username != "ada" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthenticator_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo)
	tokens := newTestTokens()
	auth := NewAuthenticator(tokens, newTestStore(repo))

	expiredTokens := newTestTokens()
	expiredTokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredTokens.IssueAccessToken(user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	refresh, err := tokens.IssueRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ghost, err := tokens.IssueAccessToken("deleted-user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"no token":      "",
		"garbage":       "abc",
		"expired":       expired,
		"refresh token": refresh,
		"deleted user":  ghost,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Authenticate(context.Background(), token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
