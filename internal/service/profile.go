package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/types"
)

// ProfileService manages the per-user preference record read by generation.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetPreferences returns the user's preferences, or an empty record when the
// user has never filled in the onboarding form.
func (s *ProfileService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err == gorm.ErrRecordNotFound {
		return &models.UserPreferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences upserts the user's preference record.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err == gorm.ErrRecordNotFound {
		prefs = models.UserPreferences{ID: uuid.New(), UserID: userID}
	} else if err != nil {
		return nil, err
	}

	prefs.DietType = req.DietType
	prefs.Allergies = models.JSONBStringArray(req.Allergies)
	prefs.Cuisines = models.JSONBStringArray(req.Cuisines)
	prefs.CalorieIntake = req.CalorieIntake
	prefs.MealsPerDay = req.MealsPerDay
	prefs.ActivityLevel = req.ActivityLevel
	prefs.CookingTools = models.JSONBStringArray(req.CookingTools)

	if err := s.db.WithContext(ctx).Save(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}
