package types

// GenerateRequest is the ephemeral input bundle for one generation run.
// Images are data-URI encoded photos of ingredients; Requirements is the
// free-text dietary/requirements string. At least one must be present.
type GenerateRequest struct {
	Images       []string `json:"images"`
	Requirements string   `json:"requirements"`
}

// UpdatePreferencesRequest carries the editable profile fields.
type UpdatePreferencesRequest struct {
	DietType      string   `json:"diet_type"`
	Allergies     []string `json:"allergies"`
	Cuisines      []string `json:"cuisines"`
	CalorieIntake int      `json:"calorie_intake"`
	MealsPerDay   int      `json:"meals_per_day"`
	ActivityLevel string   `json:"activity_level"`
	CookingTools  []string `json:"cooking_tools"`
}
