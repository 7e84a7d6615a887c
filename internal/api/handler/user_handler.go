package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

// UserHandler serves the authenticated account routes.
type UserHandler struct {
	sessions  ports.SessionService
	uploadDir string
}

func NewUserHandler(sessions ports.SessionService, uploadDir string) *UserHandler {
	return &UserHandler{sessions: sessions, uploadDir: uploadDir}
}

// ChangePassword replaces the password after checking the old one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid(err.Error())
	}

	err = h.sessions.ChangePassword(c.Request().Context(), user.ID, ports.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	observe("change_password", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, nil, "Password changed successfully")
}

// CurrentUser returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  apiResponse{data=domain.PublicUser}
// @Failure      401  {object}  errorResponse
// @Router       /users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	current, err := h.sessions.CurrentUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, current, "User fetched successfully")
}

// UpdateAccount changes the full name and email.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateAccountRequest  true  "New account details"
// @Success      200   {object}  apiResponse{data=domain.PublicUser}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid(err.Error())
	}

	updated, err := h.sessions.UpdateAccount(c.Request().Context(), user.ID, ports.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar replaces the avatar image.
//
// @Summary      Update avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     CookieAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200     {object}  apiResponse{data=domain.PublicUser}
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.replaceImage(c, "avatar", "Avatar file is missing", "Avatar image updated successfully", h.sessions.UpdateAvatar)
}

// UpdateCoverImage replaces the cover image.
//
// @Summary      Update cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     CookieAuth
// @Param        coverImage  formData  file  true  "Cover image"
// @Success      200         {object}  apiResponse{data=domain.PublicUser}
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Router       /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.replaceImage(c, "coverImage", "Cover image file is missing", "Cover image updated successfully", h.sessions.UpdateCoverImage)
}

type imageUpdate func(ctx context.Context, userID, localPath string) (*domain.PublicUser, error)

func (h *UserHandler) replaceImage(c echo.Context, field, missing, done string, update imageUpdate) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	path, cleanup, err := saveUpload(c, field, h.uploadDir)
	if err != nil {
		return err
	}
	defer cleanup()
	if path == "" {
		return domain.Invalid(missing)
	}

	updated, err := update(c.Request().Context(), user.ID, path)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated, done)
}
