package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPreferences is the profile record consulted during recipe generation.
// Diet type and allergies are hard constraints; the rest are best-effort.
type UserPreferences struct {
	ID            uuid.UUID        `gorm:"type:uuid;primarykey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DietType      string           `gorm:"size:50" json:"diet_type"`
	Allergies     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	Cuisines      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"cuisines"`
	CalorieIntake int              `json:"calorie_intake"`
	MealsPerDay   int              `json:"meals_per_day"`
	ActivityLevel string           `gorm:"size:50" json:"activity_level"`
	CookingTools  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"cooking_tools"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}
