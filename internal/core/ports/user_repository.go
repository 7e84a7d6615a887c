package ports

import (
	"context"

	"github.com/vidhub/account-service/internal/core/domain"
)

// UserRepository defines the persistence operations for user records.
// Implementations must return domain.ErrUserNotFound for unknown ids and
// domain.ErrUserExists when a unique index (username, email) is violated.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameOrEmail matches either field; empty arguments are ignored.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// SetRefreshToken overwrites the slot unconditionally. An empty token
	// clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	// SwapRefreshToken replaces the slot only if it still holds expected and
	// returns domain.ErrRefreshTokenMismatch otherwise.
	SwapRefreshToken(ctx context.Context, id, expected, next string) error
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
}

// CredentialStore is the user store as seen by the session workflows: the
// repository plus password hashing and verification.
type CredentialStore interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, profile domain.Profile, password string) (*domain.User, error)
	VerifyPassword(user *domain.User, plaintext string) bool
	SetPassword(ctx context.Context, userID, plaintext string) error
	// SetRefreshToken stores token in the slot; nil clears it.
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	RotateRefreshToken(ctx context.Context, userID, presented, next string) error
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error)
	Sanitize(user *domain.User) *domain.PublicUser
}
