package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/service"
	"github.com/pantrysnap/backend/internal/types"
)

type ProfileHandler struct {
	profiles  service.IProfileService
	validator middleware.TokenValidator
}

func NewProfileHandler(profiles service.IProfileService, validator middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, validator: validator}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.validator))
	{
		profile.GET("/preferences", h.GetPreferences)
		profile.PUT("/preferences", h.UpdatePreferences)
	}
}

func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prefs, err := h.profiles.GetPreferences(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prefs, err := h.profiles.UpdatePreferences(c.Request.Context(), userID.(uuid.UUID), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
