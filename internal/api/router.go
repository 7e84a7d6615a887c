package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vidhub/account-service/docs"
	"github.com/vidhub/account-service/internal/api/handler"
	"github.com/vidhub/account-service/internal/api/middleware"
	"github.com/vidhub/account-service/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Sessions      ports.SessionService
	Authenticator ports.Authenticator
	Cookies       handler.CookieConfig
	UploadDir     string
	HealthChecks  map[string]handler.HealthCheck
	CORSOrigins   []string
	BodyLimit     string
	UploadLimit   string
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
	}))
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(d.HealthChecks, d.Log)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Account routes ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Cookies, d.UploadDir)
	userHandler := handler.NewUserHandler(d.Sessions, d.UploadDir)
	requireUser := middleware.Authenticate(d.Authenticator)

	// JSON bodies are small; multipart routes carry images.
	jsonLimit := echomiddleware.BodyLimit(orDefault(d.BodyLimit, "16KB"))
	uploadLimit := echomiddleware.BodyLimit(orDefault(d.UploadLimit, "10MB"))

	users := e.Group("/api/v1/users")
	users.POST("/register", authHandler.Register, uploadLimit)
	users.POST("/login", authHandler.Login, jsonLimit)
	users.POST("/refresh-token", authHandler.RefreshToken, jsonLimit)

	users.POST("/logout", authHandler.Logout, jsonLimit, requireUser)
	users.POST("/change-password", userHandler.ChangePassword, jsonLimit, requireUser)
	users.GET("/current-user", userHandler.CurrentUser, requireUser)
	users.PATCH("/update-account", userHandler.UpdateAccount, jsonLimit, requireUser)
	users.PATCH("/avatar", userHandler.UpdateAvatar, uploadLimit, requireUser)
	users.PATCH("/cover-image", userHandler.UpdateCoverImage, uploadLimit, requireUser)

	return e
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
