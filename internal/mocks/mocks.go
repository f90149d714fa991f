package mocks

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
	"github.com/pantrysnap/backend/internal/types"
)

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (v *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	token = strings.TrimPrefix(token, "Bearer ")
	args := v.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockRecognizer is a mock implementation of the ingredient recognizer
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) AnalyzeIngredients(ctx context.Context, images []string, requirements string) ([]string, error) {
	args := m.Called(ctx, images, requirements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecipeGenerator is a mock implementation of the recipe generator
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) GenerateRecipes(ctx context.Context, ingredients []string, requirements string, userID uuid.UUID) ([]service.RecipeData, error) {
	args := m.Called(ctx, ingredients, requirements, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeData), args.Error(1)
}

// MockDraftStore is a mock implementation of the draft cache
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) SaveDraftBatch(ctx context.Context, userID uuid.UUID, recipes []models.Recipe) (*service.DraftBatch, error) {
	args := m.Called(ctx, userID, recipes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftBatch), args.Error(1)
}

func (m *MockDraftStore) GetDraftBatch(ctx context.Context, userID uuid.UUID, id string) (*service.DraftBatch, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftBatch), args.Error(1)
}

func (m *MockDraftStore) DeleteDraftBatch(ctx context.Context, userID uuid.UUID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockRecipeStore is a mock implementation of the saved-recipe store
type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Save(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}
