package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
	"github.com/pantrysnap/backend/internal/types"
)

// Generator runs one generation workflow end to end.
type Generator interface {
	Generate(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error)
}

// DraftReader fetches and discards cached generation results.
type DraftReader interface {
	GetDraftBatch(ctx context.Context, userID uuid.UUID, id string) (*service.DraftBatch, error)
	DeleteDraftBatch(ctx context.Context, userID uuid.UUID, id string) error
}

// RecipeSaver persists one recipe to the saved-recipe store.
type RecipeSaver interface {
	Save(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*models.Recipe, error)
}

// RunLock serializes generation runs per user.
type RunLock interface {
	Acquire(ctx context.Context, userID uuid.UUID) (func(), error)
}

type SaveFromDraftRequest struct {
	Index int `json:"index"`
}

type GenerateHandler struct {
	orchestrator Generator
	drafts       DraftReader
	recipes      RecipeSaver
	lock         RunLock
	validator    middleware.TokenValidator
	limiter      *middleware.RateLimiter
}

func NewGenerateHandler(orchestrator Generator, drafts DraftReader, recipes RecipeSaver, lock RunLock, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *GenerateHandler {
	return &GenerateHandler{
		orchestrator: orchestrator,
		drafts:       drafts,
		recipes:      recipes,
		lock:         lock,
		validator:    validator,
		limiter:      limiter,
	}
}

func (h *GenerateHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.validator))
	{
		generate := recipes.Group("/generate")
		if h.limiter != nil {
			generate.Use(h.limiter.RateLimitMiddleware())
		}
		generate.POST("", h.Generate)

		recipes.GET("/drafts/:id", h.GetDraft)
		recipes.DELETE("/drafts/:id", h.DeleteDraft)
		recipes.POST("/drafts/:id/save", h.SaveFromDraft)
	}
}

// Generate streams the run as server-sent events: one "stage" event per
// cosmetic stage, then either a single "result" event carrying the draft
// batch or a single "error" event. The stream never reveals a result before
// the stage floor has elapsed; that ordering comes from the orchestrator.
func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	uid := userID.(uuid.UUID)

	release, err := h.lock.Acquire(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrGenerationInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "a generation is already in progress"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation unavailable"})
		return
	}
	defer release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Stages arrive from the orchestrator's goroutines; the channel funnels
	// them back to this handler goroutine, which owns the response writer.
	// Buffer covers the full sequence plus the completion marker.
	stageCh := make(chan service.Stage, len(service.GenerationStages)+1)
	type outcome struct {
		result *service.GenerationResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := h.orchestrator.Generate(c.Request.Context(), uid, req, func(s service.Stage) {
			stageCh <- s
		})
		close(stageCh)
		done <- outcome{result: res, err: err}
	}()

	for stage := range stageCh {
		c.SSEvent("stage", stage)
		c.Writer.Flush()
	}

	out := <-done
	if out.err != nil {
		c.SSEvent("error", gin.H{"error": out.err.Error(), "kind": errorKind(out.err)})
		c.Writer.Flush()
		return
	}

	c.SSEvent("result", out.result)
	c.Writer.Flush()
}

func (h *GenerateHandler) GetDraft(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	batch, err := h.drafts.GetDraftBatch(c.Request.Context(), userID.(uuid.UUID), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch draft"})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// DeleteDraft discards a cached draft batch before its TTL expires.
func (h *GenerateHandler) DeleteDraft(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.drafts.DeleteDraftBatch(c.Request.Context(), userID.(uuid.UUID), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "draft deleted"})
}

// SaveFromDraft persists one recipe out of a cached draft batch. This is the
// only path from a generation run into the saved-recipe store.
func (h *GenerateHandler) SaveFromDraft(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	uid := userID.(uuid.UUID)

	var req SaveFromDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batch, err := h.drafts.GetDraftBatch(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch draft"})
		return
	}

	if req.Index < 0 || req.Index >= len(batch.Recipes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draft index out of range"})
		return
	}

	saved, err := h.recipes.Save(c.Request.Context(), uid, batch.Recipes[req.Index])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// errorKind maps a taxonomy error to a stable wire label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		return "authentication_required"
	case errors.Is(err, service.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, service.ErrRecognitionFailure):
		return "recognition_failure"
	case errors.Is(err, service.ErrGenerationFailure):
		return "generation_failure"
	case errors.Is(err, service.ErrPersistenceFailure):
		return "persistence_failure"
	default:
		return "internal"
	}
}
