package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

// CredentialStore layers bcrypt hashing over a UserRepository.
type CredentialStore struct {
	repo ports.UserRepository
	cost int
}

// NewCredentialStore returns a CredentialStore. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewCredentialStore(repo ports.UserRepository, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{repo: repo, cost: cost}
}

func (s *CredentialStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return s.repo.FindByUsernameOrEmail(ctx, domain.NormalizeUsername(username), domain.NormalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create hashes password and persists a new user with a lowercased username.
func (s *CredentialStore) Create(ctx context.Context, profile domain.Profile, password string) (*domain.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     domain.NormalizeUsername(profile.Username),
		Email:        domain.NormalizeEmail(profile.Email),
		FullName:     profile.FullName,
		Avatar:       profile.Avatar,
		CoverImage:   profile.CoverImage,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// VerifyPassword compares in constant time via bcrypt.
func (s *CredentialStore) VerifyPassword(user *domain.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

func (s *CredentialStore) SetPassword(ctx context.Context, userID, plaintext string) error {
	hash, err := s.hash(plaintext)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, userID, hash)
}

func (s *CredentialStore) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	value := ""
	if token != nil {
		value = *token
	}
	return s.repo.SetRefreshToken(ctx, userID, value)
}

// RotateRefreshToken swaps the slot from presented to next. A mismatch means
// the presented token was already rotated or cleared.
func (s *CredentialStore) RotateRefreshToken(ctx context.Context, userID, presented, next string) error {
	if presented == "" || next == "" {
		return domain.ErrRefreshTokenMismatch
	}
	return s.repo.SwapRefreshToken(ctx, userID, presented, next)
}

func (s *CredentialStore) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Email != nil {
		email := domain.NormalizeEmail(*update.Email)
		update.Email = &email
	}
	return s.repo.UpdateProfile(ctx, userID, update)
}

func (s *CredentialStore) UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, userID, domain.ProfileUpdate{Avatar: &url})
}

func (s *CredentialStore) UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error) {
	return s.repo.UpdateProfile(ctx, userID, domain.ProfileUpdate{CoverImage: &url})
}

func (s *CredentialStore) Sanitize(user *domain.User) *domain.PublicUser {
	return user.Sanitize()
}

func (s *CredentialStore) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
