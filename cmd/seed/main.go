package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/pantrysnap/backend/config"
	"github.com/pantrysnap/backend/internal/database"
	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
)

const (
	demoEmail    = "demo@pantrysnap.dev"
	demoPassword = "demo-password"
)

var starterRecipes = []models.Recipe{
	{
		Title:        "Tomato Basil Pasta",
		Description:  "A quick weeknight pasta with fresh tomatoes and basil",
		CookingTime:  "25 minutes",
		Servings:     2,
		Ingredients:  models.JSONBStringArray{"spaghetti", "tomatoes", "basil", "garlic", "olive oil"},
		Instructions: models.JSONBStringArray{"Boil the pasta", "Sauté garlic and tomatoes", "Toss with basil and serve"},
	},
	{
		Title:        "Chickpea Curry",
		Description:  "A warming vegan curry built from pantry staples",
		CookingTime:  "35 minutes",
		Servings:     4,
		Ingredients:  models.JSONBStringArray{"chickpeas", "coconut milk", "onion", "curry powder", "rice"},
		Instructions: models.JSONBStringArray{"Soften the onion", "Add curry powder and chickpeas", "Simmer in coconut milk", "Serve over rice"},
	},
	{
		Title:        "Veggie Omelette",
		Description:  "A three-egg omelette with whatever vegetables are on hand",
		CookingTime:  "15 minutes",
		Servings:     1,
		Ingredients:  models.JSONBStringArray{"eggs", "bell pepper", "onion", "cheese"},
		Instructions: models.JSONBStringArray{"Whisk the eggs", "Sauté the vegetables", "Cook and fold the omelette"},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var user models.User
	err = db.Where("email = ?", demoEmail).First(&user).Error
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = models.User{Name: "Demo User", Email: demoEmail, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		prefs := models.UserPreferences{
			UserID:    user.ID,
			DietType:  "vegetarian",
			Allergies: models.JSONBStringArray{"peanuts"},
			Cuisines:  models.JSONBStringArray{"italian", "indian"},
		}
		if err := db.Create(&prefs).Error; err != nil {
			log.Fatalf("Failed to create demo preferences: %v", err)
		}
		log.Printf("Created demo user %s", demoEmail)
	} else {
		log.Printf("Demo user %s already exists", demoEmail)
	}

	for _, recipe := range starterRecipes {
		var count int64
		db.Model(&models.Recipe{}).
			Where("user_id = ? AND title = ?", user.ID, recipe.Title).
			Count(&count)
		if count > 0 {
			continue
		}
		recipe.UserID = user.ID
		recipe.Embedding = service.GenerateEmbedding(recipe.Title + " " + recipe.Description)
		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", recipe.Title, err)
		}
		log.Printf("Seeded recipe %q", recipe.Title)
	}

	log.Println("Seeding complete")
}
