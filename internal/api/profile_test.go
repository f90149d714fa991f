package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
)

func setupProfileRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	router := gin.New()
	NewProfileHandler(service.NewProfileService(db), auth).RegisterRoutes(router.Group("/api/v1"))
	return router, auth
}

func TestGetPreferencesForFreshUser(t *testing.T) {
	router, auth := setupProfileRouter(t)
	userID, token := createTestUserAndToken(t, auth)

	w := doJSON(t, router, "GET", "/api/v1/profile/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var prefs models.UserPreferences
	decodeJSON(t, w, &prefs)
	assert.Equal(t, userID, prefs.UserID)
	assert.Empty(t, prefs.DietType)
}

func TestUpdatePreferencesRoundTrip(t *testing.T) {
	router, auth := setupProfileRouter(t)
	_, token := createTestUserAndToken(t, auth)

	w := doJSON(t, router, "PUT", "/api/v1/profile/preferences", token, map[string]interface{}{
		"diet_type": "vegan",
		"allergies": []string{"peanuts"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/profile/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var prefs models.UserPreferences
	decodeJSON(t, w, &prefs)
	assert.Equal(t, "vegan", prefs.DietType)
	assert.Equal(t, models.JSONBStringArray{"peanuts"}, prefs.Allergies)
}

func TestPreferencesRequireAuth(t *testing.T) {
	router, _ := setupProfileRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/profile/preferences", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
