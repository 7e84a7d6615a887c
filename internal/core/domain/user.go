package domain

import (
	"context"
	"strings"
	"time"
)

// User is the persisted account record. It carries secrets and must never be
// serialised directly; use Sanitize before anything leaves the service.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the sanitized view of a User.
type PublicUser struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Sanitize strips the password hash and refresh token.
func (u *User) Sanitize() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Profile is the non-secret data supplied at registration.
type Profile struct {
	FullName   string
	Email      string
	Username   string
	Avatar     string
	CoverImage string
}

// ProfileUpdate lists the fields to change; nil fields are left untouched.
type ProfileUpdate struct {
	FullName   *string
	Email      *string
	Avatar     *string
	CoverImage *string
}

// NormalizeUsername lowercases and trims a username for storage and lookup.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type publicUserKey struct{}

// WithPublicUser returns a copy of ctx carrying the authenticated identity.
func WithPublicUser(ctx context.Context, u *PublicUser) context.Context {
	return context.WithValue(ctx, publicUserKey{}, u)
}

// PublicUserFromContext returns the identity attached by the request
// authenticator, if any.
func PublicUserFromContext(ctx context.Context) (*PublicUser, bool) {
	u, ok := ctx.Value(publicUserKey{}).(*PublicUser)
	return u, ok && u != nil
}
