package ports

import (
	"context"

	"github.com/vidhub/account-service/internal/core/domain"
)

// TokenService signs and verifies access and refresh tokens.
type TokenService interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccessToken(token string) (string, error)
	VerifyRefreshToken(token string) (string, error)
}

// RegisterInput carries the registration form. Avatar and CoverImage are
// paths to local temporary files; CoverImage may be empty.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     string
	CoverImage string
}

// LoginInput requires at least one of Username or Email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is the sanitized user plus a fresh token pair.
type LoginResult struct {
	User   *domain.PublicUser
	Tokens domain.TokenPair
}

// ChangePasswordInput carries the old and new plaintext passwords.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UpdateAccountInput carries the editable profile text fields.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

// SessionService defines the account and session workflows.
type SessionService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, userID string) error
	RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error
	CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateAccount(ctx context.Context, userID string, in UpdateAccountInput) (*domain.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.PublicUser, error)
}

// Authenticator resolves a presented access token to a sanitized identity.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.PublicUser, error)
}
