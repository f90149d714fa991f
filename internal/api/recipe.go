package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	validator middleware.TokenValidator
}

func NewRecipeHandler(recipes service.IRecipeService, validator middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, validator: validator}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.validator))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.SaveRecipe)
		recipes.DELETE("/:id", h.RemoveRecipe)
	}
}

// ListRecipes returns the caller's saved recipes, newest first. With a q
// query parameter it becomes a scoped search instead.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var (
		recipes []models.Recipe
		err     error
	)
	if q := c.Query("q"); q != "" {
		recipes, err = h.recipes.Search(c.Request.Context(), userID.(uuid.UUID), q)
	} else {
		recipes, err = h.recipes.ListSaved(c.Request.Context(), userID.(uuid.UUID))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), userID.(uuid.UUID), recipeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if recipe.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	saved, err := h.recipes.Save(c.Request.Context(), userID.(uuid.UUID), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// RemoveRecipe deletes a saved recipe. A recipe owned by someone else looks
// identical to a missing one.
func (h *RecipeHandler) RemoveRecipe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.Remove(c.Request.Context(), userID.(uuid.UUID), recipeID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe removed"})
}
