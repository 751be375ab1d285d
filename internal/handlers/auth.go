package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agenthubhq/agenthub/internal/accounts"
	"github.com/agenthubhq/agenthub/internal/auth"
	"github.com/agenthubhq/agenthub/internal/config"
)

// AuthHandler issues JWTs for dashboard accounts.
type AuthHandler struct {
	service *accounts.Service
	cfg     config.AuthConfig
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(log *slog.Logger, service *accounts.Service, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		cfg:     cfg,
		logger:  log.With(slog.String("handler", "auth")),
	}
}

func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Account   accounts.Account `json:"account"`
}

// Login godoc
// @Summary Log in
// @Description Exchange username and password for a JWT
// @Tags auth
// @Accept json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	account, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	expiresIn, err := time.ParseDuration(h.cfg.JWTExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	token, expiresAt, err := auth.GenerateToken(account.ID, account.Role, h.cfg.JWTSecret, expiresIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	})
}

// Refresh godoc
// @Summary Refresh the current JWT
// @Description Issues a fresh token for the already-authenticated account.
// @Tags auth
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !account.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "account is deactivated")
	}
	expiresIn, err := time.ParseDuration(h.cfg.JWTExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	token, expiresAt, err := auth.GenerateToken(account.ID, account.Role, h.cfg.JWTSecret, expiresIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	})
}
