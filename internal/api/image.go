package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/middleware"
)

// PhotoUploader stores ingredient photos and signs read URLs for them.
type PhotoUploader interface {
	UploadIngredientPhoto(ctx context.Context, userID uuid.UUID, dataURI string) (string, error)
	PhotoURL(ctx context.Context, key string) (string, error)
}

type UploadPhotoRequest struct {
	Image string `json:"image" binding:"required"`
}

type UploadPhotoResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PhotoHandler struct {
	photos    PhotoUploader
	validator middleware.TokenValidator
}

func NewPhotoHandler(photos PhotoUploader, validator middleware.TokenValidator) *PhotoHandler {
	return &PhotoHandler{photos: photos, validator: validator}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	photos := router.Group("/photos")
	photos.Use(middleware.AuthMiddleware(h.validator))
	{
		photos.POST("", h.Upload)
	}
}

// Upload accepts a data-URI encoded ingredient photo and returns the stored
// key plus a short-lived presigned URL.
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	key, err := h.photos.UploadIngredientPhoto(c.Request.Context(), userID.(uuid.UUID), req.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
		return
	}

	url, err := h.photos.PhotoURL(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign photo url"})
		return
	}

	c.JSON(http.StatusCreated, UploadPhotoResponse{Key: key, URL: url})
}
