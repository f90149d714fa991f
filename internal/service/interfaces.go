package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(name, email, password string) (string, error)
	Login(email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for preference operations
type IProfileService interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.UserPreferences, error)
}

// IRecipeService defines the interface for the saved-recipe store
type IRecipeService interface {
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Get(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	Save(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*models.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error)
}
