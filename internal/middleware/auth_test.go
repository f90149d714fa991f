package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/mocks"
	"github.com/pantrysnap/backend/internal/types"
)

func setupAuthTestRouter(validator middleware.TokenValidator) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	router := gin.New()
	router.GET("/protected", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		seen = c.MustGet("user_id").(uuid.UUID)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestAuthMiddlewareAcceptsBearerHeader(t *testing.T) {
	userID := uuid.New()
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "good-token").Return(&types.TokenClaims{UserID: userID}, nil)

	router, seen := setupAuthTestRouter(validator)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seen)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	userID := uuid.New()
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "ws-token").Return(&types.TokenClaims{UserID: userID}, nil)

	router, seen := setupAuthTestRouter(validator)

	// Websocket clients cannot set headers.
	req := httptest.NewRequest("GET", "/protected?token=ws-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seen)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := setupAuthTestRouter(new(mocks.MockTokenValidator))

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router, _ := setupAuthTestRouter(new(mocks.MockTokenValidator))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "bad-token").Return(nil, errors.New("token expired"))

	router, _ := setupAuthTestRouter(validator)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
