package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.SetRequest(req.WithContext(domain.WithPublicUser(req.Context(), &domain.PublicUser{ID: "u1", Username: "ada"})))
	return c
}

func TestUserHandler_ChangePassword(t *testing.T) {
	e := newEcho()
	var got ports.ChangePasswordInput
	stub := &stubSessionService{
		changePasswordFn: func(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
			if userID != "u1" {
				t.Fatalf("unexpected user %q", userID)
			}
			got = in
			return nil
		},
	}
	handler := NewUserHandler(stub, t.TempDir())

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/api/v1/users/change-password", `{"oldPassword":"a","newPassword":"b"}`)
	if err := handler.ChangePassword(authedContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.OldPassword != "a" || got.NewPassword != "b" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_ChangePassword_Validation(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubSessionService{}, t.TempDir())

	req := jsonRequest(http.MethodPost, "/api/v1/users/change-password", `{"oldPassword":"a"}`)
	err := handler.ChangePassword(authedContext(e, req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "newPassword is required") {
		t.Fatalf("expected field name in message, got %q", err.Error())
	}
}

func TestUserHandler_CurrentUser(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{
		currentUserFn: func(ctx context.Context, userID string) (*domain.PublicUser, error) {
			return &domain.PublicUser{ID: userID, Username: "ada", Email: "ada@x.io"}, nil
		},
	}
	handler := NewUserHandler(stub, t.TempDir())

	rec := httptest.NewRecorder()
	if err := handler.CurrentUser(authedContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["_id"] != "u1" || data["email"] != "ada@x.io" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestUserHandler_UpdateAccount(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{
		updateAccountFn: func(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.PublicUser, error) {
			return &domain.PublicUser{ID: userID, FullName: in.FullName, Email: in.Email}, nil
		},
	}
	handler := NewUserHandler(stub, t.TempDir())

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPatch, "/api/v1/users/update-account", `{"fullName":"Ada K","email":"k@x.io"}`)
	if err := handler.UpdateAccount(authedContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeEnvelope(t, rec)
	if data["fullName"] != "Ada K" || data["email"] != "k@x.io" {
		t.Fatalf("unexpected payload: %+v", data)
	}

	req = jsonRequest(http.MethodPatch, "/api/v1/users/update-account", `{"fullName":"Ada K","email":"not-an-email"}`)
	if err := handler.UpdateAccount(authedContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserHandler_UpdateAvatar(t *testing.T) {
	e := newEcho()
	var stored string
	stub := &stubSessionService{
		updateAvatarFn: func(ctx context.Context, userID, localPath string) (*domain.PublicUser, error) {
			stored = localPath
			return &domain.PublicUser{ID: userID, Avatar: "https://media.test/" + filepath.Base(localPath)}, nil
		},
	}
	dir := t.TempDir()
	handler := NewUserHandler(stub, dir)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, http.MethodPatch, "/api/v1/users/avatar", nil, map[string]string{"avatar": "new.png"})
	if err := handler.UpdateAvatar(authedContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if filepath.Dir(stored) != dir || filepath.Ext(stored) != ".png" {
		t.Fatalf("unexpected temp path %q", stored)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed")
	}
}

func TestUserHandler_UpdateImage_MissingFile(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubSessionService{}, t.TempDir())

	for name, call := range map[string]func(echo.Context) error{
		"avatar": handler.UpdateAvatar,
		"cover":  handler.UpdateCoverImage,
	} {
		t.Run(name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPatch, "/api/v1/users/"+name, map[string]string{"note": "x"}, nil)
			if err := call(authedContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserHandler_UpdateCoverImage_ServiceFailure(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{
		updateCoverFn: func(ctx context.Context, userID, localPath string) (*domain.PublicUser, error) {
			return nil, domain.Invalid("Error while uploading cover image")
		},
	}
	handler := NewUserHandler(stub, t.TempDir())

	req := multipartRequest(t, http.MethodPatch, "/api/v1/users/cover-image", nil, map[string]string{"coverImage": "c.jpg"})
	if err := handler.UpdateCoverImage(authedContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	e := newEcho()
	var logs bytes.Buffer
	handler := NewHealthHandler(map[string]HealthCheck{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("dial tcp redis-0.internal:6379: connection refused") },
	}, zerolog.New(&logs))

	rec := httptest.NewRecorder()
	if err := handler.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"degraded"`) || !strings.Contains(body, `"redis":{"status":"unhealthy"}`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if strings.Contains(body, "redis-0.internal") {
		t.Fatalf("dependency error leaked into the response: %s", body)
	}
	if !strings.Contains(logs.String(), "redis-0.internal") || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected the cause to be logged, got %q", logs.String())
	}
}
