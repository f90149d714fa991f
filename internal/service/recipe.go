package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/realtime"
)

// RecipeService is the persistent store for saved recipes. Every write is
// scoped by owner and announced on the realtime feed.
type RecipeService struct {
	db   *gorm.DB
	feed *realtime.Feed
}

func NewRecipeService(db *gorm.DB, feed *realtime.Feed) *RecipeService {
	return &RecipeService{db: db, feed: feed}
}

// ListSaved returns the user's saved recipes, newest first. An empty list is
// not an error.
func (s *RecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return recipes, nil
}

// Get returns one saved recipe the user owns.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return &recipe, nil
}

// Save persists a recipe for the user. The owner is always the caller,
// regardless of any owner already present on the input; saving a generated
// recipe is a copy-with-owner-assignment, not a transfer.
func (s *RecipeService) Save(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*models.Recipe, error) {
	recipe.ID = uuid.New()
	recipe.UserID = userID
	if recipe.Embedding.Slice() == nil {
		recipe.Embedding = GenerateEmbedding(recipe.Title + " " + recipe.Description)
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.feed.Publish(realtime.Event{
		Type:     realtime.EventInsert,
		RecipeID: recipe.ID,
		UserID:   userID,
	})
	return &recipe, nil
}

// Remove deletes a saved recipe. The delete is scoped by both record id and
// owner, so an id belonging to another user reports ErrNotFound and leaves
// the row untouched.
func (s *RecipeService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.Recipe{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.feed.Publish(realtime.Event{
		Type:     realtime.EventDelete,
		RecipeID: recipeID,
		UserID:   userID,
	})
	return nil
}

// Search ranks the user's saved recipes against a free-text query. Postgres
// gets vector ordering; other dialects fall back to keyword matching.
func (s *RecipeService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return recipes, nil
}
