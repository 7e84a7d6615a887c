package domain

import "time"

// TokenKind distinguishes access from refresh tokens inside the signed claims.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionEventType labels an entry in the session audit trail.
type SessionEventType string

const (
	EventRegistered           SessionEventType = "registered"
	EventLoggedIn             SessionEventType = "logged_in"
	EventLoggedOut            SessionEventType = "logged_out"
	EventRefreshed            SessionEventType = "refreshed"
	EventRefreshReuseDetected SessionEventType = "refresh_reuse_detected"
	EventPasswordChanged      SessionEventType = "password_changed"
	EventProfileUpdated       SessionEventType = "profile_updated"
)

// SessionEvent records a state change of a user's session.
type SessionEvent struct {
	UserID     string
	Type       SessionEventType
	OccurredAt time.Time
	Detail     string
}
