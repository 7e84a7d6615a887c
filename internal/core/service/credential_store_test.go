package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidhub/account-service/internal/core/domain"
)

func TestCredentialStore_CreateNormalisesAndHashes(t *testing.T) {
	repo := newStubUserRepo()
	store := newTestStore(repo)

	user, err := store.Create(context.Background(), domain.Profile{
		FullName: "Ada L",
		Email:    " Ada@X.io ",
		Username: " ADA ",
		Avatar:   "https://media.test/a.png",
	}, "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if user.Username != "ada" || user.Email != "ada@x.io" {
		t.Fatalf("expected normalised identity, got %q / %q", user.Username, user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	found, err := store.FindByUsernameOrEmail(context.Background(), "Ada", "")
	if err != nil || found.ID != user.ID {
		t.Fatalf("lookup by mixed-case username failed: %v", err)
	}
}

func TestCredentialStore_VerifyPassword(t *testing.T) {
	repo := newStubUserRepo()
	store := newTestStore(repo)
	user := seedUser(t, repo)

	if !store.VerifyPassword(user, "secret1") {
		t.Fatalf("expected correct password to verify")
	}
	if store.VerifyPassword(user, "secret2") {
		t.Fatalf("expected wrong password to fail")
	}
	if store.VerifyPassword(nil, "secret1") {
		t.Fatalf("expected nil user to fail")
	}
}

func TestCredentialStore_PasswordTooLong(t *testing.T) {
	store := newTestStore(newStubUserRepo())

	_, err := store.Create(context.Background(), domain.Profile{Username: "ada", Email: "ada@x.io"}, strings.Repeat("x", 73))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCredentialStore_RefreshSlot(t *testing.T) {
	repo := newStubUserRepo()
	store := newTestStore(repo)
	user := seedUser(t, repo)
	ctx := context.Background()

	token := "t1"
	if err := store.SetRefreshToken(ctx, user.ID, &token); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.RotateRefreshToken(ctx, user.ID, "stale", "t2"); !errors.Is(err, domain.ErrRefreshTokenMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := store.RotateRefreshToken(ctx, user.ID, "t1", "t2"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if repo.get(user.ID).RefreshToken != "t2" {
		t.Fatalf("slot not rotated")
	}

	if err := store.SetRefreshToken(ctx, user.ID, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.RotateRefreshToken(ctx, user.ID, "", "t3"); !errors.Is(err, domain.ErrRefreshTokenMismatch) {
		t.Fatalf("empty slot must never match, got %v", err)
	}
}

func TestCredentialStore_SanitizeDropsSecrets(t *testing.T) {
	repo := newStubUserRepo()
	store := newTestStore(repo)
	user := seedUser(t, repo)
	user.RefreshToken = "secret-refresh"

	public := store.Sanitize(user)
	if public.ID != user.ID || public.Username != user.Username || public.Avatar != user.Avatar {
		t.Fatalf("unexpected public user: %+v", public)
	}
}
