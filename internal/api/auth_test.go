package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pantrysnap/backend/internal/service"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	router := gin.New()
	NewAuthHandler(auth).RegisterRoutes(router.Group("/api/v1"))
	return router, auth
}

func TestRegisterEndpoint(t *testing.T) {
	router, auth := setupAuthRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp TokenResponse
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestRegisterEndpointRejectsInvalidBody(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointRejectsDuplicate(t *testing.T) {
	router, _ := setupAuthRouter(t)

	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"}
	w := doJSON(t, router, "POST", "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := setupAuthRouter(t)

	doJSON(t, router, "POST", "/api/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})

	w := doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
