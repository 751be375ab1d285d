package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	secret := "test-secret"
	userID := "user-123"

	signed, expiresAt, err := GenerateToken(userID, "owner", secret, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.True(t, expiresAt.After(time.Now()))

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	c.Set("user", token)

	gotID, err := UserIDFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "owner", RoleFromContext(c))
}

func TestGenerateTokenRejectsBadInput(t *testing.T) {
	if _, _, err := GenerateToken("", "owner", "secret", time.Hour); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if _, _, err := GenerateToken("user-123", "owner", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, _, err := GenerateToken("user-123", "owner", "secret", 0); err == nil {
		t.Fatal("expected error for non-positive expiry")
	}
}

func TestUserIDFromContext_MissingUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_, err := UserIDFromContext(c)
	assert.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid token", httpErr.Message)
}
