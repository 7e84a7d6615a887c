package service

import (
	"context"
	"errors"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

// Authenticator resolves access tokens to sanitized users. Any failure is
// reported as domain.ErrUnauthorized except store outages, which are internal.
type Authenticator struct {
	tokens ports.TokenService
	store  ports.CredentialStore
}

func NewAuthenticator(tokens ports.TokenService, store ports.CredentialStore) *Authenticator {
	return &Authenticator{tokens: tokens, store: store}
}

func (a *Authenticator) Authenticate(ctx context.Context, accessToken string) (*domain.PublicUser, error) {
	if accessToken == "" {
		return nil, domain.Unauthorized("Unauthorized request")
	}

	userID, err := a.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		return nil, domain.Unauthorized("Invalid access token")
	}

	user, err := a.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Unauthorized("Invalid access token")
		}
		return nil, domain.Internal("Something went wrong while authenticating", err)
	}

	return a.store.Sanitize(user), nil
}
