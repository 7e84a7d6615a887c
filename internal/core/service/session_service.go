package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

const defaultRotationLockTTL = 5 * time.Second

const (
	msgTokenGeneration = "Something went wrong while generating access and refresh tokens"
	msgInvalidRefresh  = "Invalid refresh token"
	msgRefreshReused   = "Refresh token expired or reused"
)

// SessionService implements ports.SessionService on top of a credential
// store, a token service and a media store. It keeps no per-request state.
type SessionService struct {
	store   ports.CredentialStore
	tokens  ports.TokenService
	media   ports.MediaStore
	lock    ports.RotationLock
	lockTTL time.Duration
	events  ports.SessionEventPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewSessionService wires the session workflows. lock and events may be nil;
// rotation then relies on the store's compare-and-swap alone and no audit
// trail is written.
func NewSessionService(
	store ports.CredentialStore,
	tokens ports.TokenService,
	media ports.MediaStore,
	lock ports.RotationLock,
	lockTTL time.Duration,
	events ports.SessionEventPublisher,
	log zerolog.Logger,
) *SessionService {
	if lockTTL <= 0 {
		lockTTL = defaultRotationLockTTL
	}
	return &SessionService{
		store:   store,
		tokens:  tokens,
		media:   media,
		lock:    lock,
		lockTTL: lockTTL,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// Register creates an account. Nothing is persisted unless the avatar upload
// produced a URL.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, domain.Invalid("All fields are required")
	}

	existing, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.Conflict("User with email or username already exists")
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.Internal("Something went wrong while registering the user", err)
	}

	if strings.TrimSpace(in.Avatar) == "" {
		return nil, domain.Invalid("Avatar file is required")
	}
	avatarURL := s.upload(ctx, in.Avatar, "avatar")
	if avatarURL == "" {
		return nil, domain.Invalid("Avatar file is required")
	}

	// A failed cover upload is not fatal; the account is created without one.
	coverURL := ""
	if strings.TrimSpace(in.CoverImage) != "" {
		coverURL = s.upload(ctx, in.CoverImage, "cover_image")
	}

	user, err := s.store.Create(ctx, domain.Profile{
		FullName:   fullName,
		Email:      email,
		Username:   username,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return nil, domain.Conflict("User with email or username already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return nil, err
		}
		return nil, domain.Internal("Something went wrong while registering the user", err)
	}

	s.publish(user.ID, domain.EventRegistered, "")
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return s.store.Sanitize(user), nil
}

// Login verifies credentials and starts a session. The refresh token is only
// persisted once both tokens were minted.
func (s *SessionService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" && email == "" {
		return nil, domain.Invalid("username or email is required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password is required")
	}

	user, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound("User does not exist")
		}
		return nil, domain.Internal("Something went wrong while logging in", err)
	}

	if !s.store.VerifyPassword(user, in.Password) {
		return nil, domain.Unauthorized("Invalid user Credentials")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, domain.Internal(msgTokenGeneration, err)
	}
	if err := s.store.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, domain.Internal(msgTokenGeneration, err)
	}

	s.publish(user.ID, domain.EventLoggedIn, "")

	return &ports.LoginResult{User: s.store.Sanitize(user), Tokens: pair}, nil
}

// Logout clears the refresh-token slot so no outstanding refresh token can be
// exchanged again.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.store.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NotFound("User does not exist")
		}
		return domain.Internal("Something went wrong while logging out", err)
	}

	s.publish(userID, domain.EventLoggedOut, "")
	return nil
}

// RefreshSession exchanges a refresh token for a new pair and rotates the
// stored slot. A token that verifies but no longer matches the slot has
// already been used (or the user logged out) and is rejected.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, domain.Unauthorized("unauthorized request")
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		return nil, domain.Unauthorized(msgInvalidRefresh)
	}

	if s.lock != nil {
		release, acquired, err := s.lock.Acquire(ctx, userID, s.lockTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Msg("rotation lock unavailable, relying on store compare-and-swap")
		case !acquired:
			return nil, domain.Unauthorized(msgRefreshReused)
		default:
			defer release()
		}
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Unauthorized(msgInvalidRefresh)
		}
		return nil, domain.Internal("Something went wrong while refreshing the session", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		s.reuseDetected(user.ID)
		return nil, domain.Unauthorized(msgRefreshReused)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, domain.Internal(msgTokenGeneration, err)
	}

	if err := s.store.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		switch {
		case errors.Is(err, domain.ErrRefreshTokenMismatch):
			s.reuseDetected(user.ID)
			return nil, domain.Unauthorized(msgRefreshReused)
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.Unauthorized(msgInvalidRefresh)
		}
		return nil, domain.Internal(msgTokenGeneration, err)
	}

	s.publish(user.ID, domain.EventRefreshed, "")
	return &pair, nil
}

func (s *SessionService) ChangePassword(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
	if in.OldPassword == "" || strings.TrimSpace(in.NewPassword) == "" {
		return domain.Invalid("old and new password are required")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if !s.store.VerifyPassword(user, in.OldPassword) {
		return domain.Invalid("Invalid old password")
	}

	if err := s.store.SetPassword(ctx, user.ID, in.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return domain.Internal("Something went wrong while changing the password", err)
	}

	s.publish(user.ID, domain.EventPasswordChanged, "")
	return nil
}

func (s *SessionService) CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Sanitize(user), nil
}

func (s *SessionService) UpdateAccount(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if fullName == "" || email == "" {
		return nil, domain.Invalid("All fields are required")
	}

	user, err := s.store.UpdateProfile(ctx, userID, domain.ProfileUpdate{FullName: &fullName, Email: &email})
	if err != nil {
		return nil, s.updateError(err)
	}

	s.publish(user.ID, domain.EventProfileUpdated, "account")
	return s.store.Sanitize(user), nil
}

// UpdateAvatar uploads the new avatar before touching the record.
func (s *SessionService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.PublicUser, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, domain.Invalid("Avatar file is missing")
	}
	url := s.upload(ctx, localPath, "avatar")
	if url == "" {
		return nil, domain.Invalid("Error while uploading avatar")
	}

	user, err := s.store.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, s.updateError(err)
	}

	s.publish(user.ID, domain.EventProfileUpdated, "avatar")
	return s.store.Sanitize(user), nil
}

// UpdateCoverImage uploads the new cover image before touching the record.
func (s *SessionService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.PublicUser, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, domain.Invalid("Cover image file is missing")
	}
	url := s.upload(ctx, localPath, "cover_image")
	if url == "" {
		return nil, domain.Invalid("Error while uploading cover image")
	}

	user, err := s.store.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return nil, s.updateError(err)
	}

	s.publish(user.ID, domain.EventProfileUpdated, "cover_image")
	return s.store.Sanitize(user), nil
}

func (s *SessionService) issuePair(userID string) (domain.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *SessionService) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound("User does not exist")
		}
		return nil, domain.Internal("Something went wrong while loading the user", err)
	}
	return user, nil
}

// upload returns "" when the media store fails or yields no URL.
func (s *SessionService) upload(ctx context.Context, localPath, field string) string {
	url, err := s.media.Upload(ctx, localPath)
	if err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("media upload failed")
		return ""
	}
	return strings.TrimSpace(url)
}

func (s *SessionService) updateError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.NotFound("User does not exist")
	case errors.Is(err, domain.ErrUserExists):
		return domain.Conflict("Email is already in use")
	}
	return domain.Internal("Something went wrong while updating the user", err)
}

func (s *SessionService) reuseDetected(userID string) {
	s.log.Warn().Str("user_id", userID).Msg("refresh token reuse detected")
	s.publish(userID, domain.EventRefreshReuseDetected, "")
}

func (s *SessionService) publish(userID string, typ domain.SessionEventType, detail string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.SessionEvent{
		UserID:     userID,
		Type:       typ,
		OccurredAt: s.now().UTC(),
		Detail:     detail,
	})
}
