package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidhub/account-service/internal/core/domain"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 10 * 24 * time.Hour
)

// tokenClaims binds a subject to a token kind. The kind is signed, so an
// access token can never pass as a refresh token even if the secrets were
// accidentally configured to the same value.
type tokenClaims struct {
	jwt.RegisteredClaims
	Kind domain.TokenKind `json:"typ"`
}

// TokenService issues HS256 JWTs with separate secrets and lifetimes for
// access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenConfig configures a TokenService. Zero TTLs fall back to 15 minutes
// and 10 days.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.issue(userID, domain.TokenKindAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.issue(userID, domain.TokenKindRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) VerifyAccessToken(token string) (string, error) {
	return s.verify(token, domain.TokenKindAccess, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	return s.verify(token, domain.TokenKindRefresh, s.refreshSecret)
}

func (s *TokenService) issue(userID string, kind domain.TokenKind, secret []byte, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty subject")
	}
	if len(secret) == 0 {
		return "", errors.New("issue token: signing secret not configured")
	}

	now := s.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) verify(token string, kind domain.TokenKind, secret []byte) (string, error) {
	if token == "" {
		return "", domain.Unauthorized("missing " + string(kind) + " token")
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.Unauthorized(string(kind) + " token expired")
		}
		return "", domain.Unauthorized("invalid " + string(kind) + " token")
	}

	if claims.Kind != kind || claims.Subject == "" {
		return "", domain.Unauthorized("invalid " + string(kind) + " token")
	}

	return claims.Subject, nil
}
