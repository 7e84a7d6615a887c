package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidhub/account-service/internal/core/domain"
	"github.com/vidhub/account-service/internal/core/ports"
)

// AuthHandler serves the session lifecycle: register, login, logout and
// refresh.
type AuthHandler struct {
	sessions  ports.SessionService
	cookies   CookieConfig
	uploadDir string
}

func NewAuthHandler(sessions ports.SessionService, cookies CookieConfig, uploadDir string) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies, uploadDir: uploadDir}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName    formData  string  true   "Full name"
// @Param        email       formData  string  true   "Email"
// @Param        username    formData  string  true   "Username"
// @Param        password    formData  string  true   "Password"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201  {object}  apiResponse{data=domain.PublicUser}
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	avatar, cleanAvatar, err := saveUpload(c, "avatar", h.uploadDir)
	if err != nil {
		return err
	}
	defer cleanAvatar()

	cover, cleanCover, err := saveUpload(c, "coverImage", h.uploadDir)
	if err != nil {
		return err
	}
	defer cleanCover()

	user, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Avatar:     avatar,
		CoverImage: cover,
	})
	observe("register", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates a user, sets the session cookies and returns the tokens.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse{data=loginResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.Invalid(err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	observe("login", err)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, result.Tokens)
	return respond(c, http.StatusOK, loginResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token and the session cookies.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	err = h.sessions.Logout(c.Request().Context(), user.ID)
	observe("logout", err)
	if err != nil {
		return err
	}

	h.cookies.clearSession(c)
	return respond(c, http.StatusOK, nil, "User logged out")
}

// RefreshToken rotates the refresh token and issues a new access token. The
// refresh token is read from its cookie first and the JSON body second.
//
// @Summary      Refresh the access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when no cookie is sent"
// @Success      200   {object}  apiResponse{data=domain.TokenPair}
// @Failure      401   {object}  errorResponse
// @Router       /users/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(refreshTokenCookie); err == nil {
		token = strings.TrimSpace(ck.Value)
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}

	tokens, err := h.sessions.RefreshSession(c.Request().Context(), token)
	observe("refresh", err)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, *tokens)
	return respond(c, http.StatusOK, tokens, "Access token refreshed")
}
