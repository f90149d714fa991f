package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pantrysnap/backend/internal/models"
)

const recipeSystemPrompt = `You are a helpful cooking assistant that suggests recipes based on available ingredients and user requirements.
Always respond with a JSON object of the form {"recipes": [...]} containing exactly 3 recipes. Each recipe must include:
- title: string
- description: string
- cooking_time: string (e.g. "30 minutes")
- servings: number
- ingredients: array of strings
- instructions: array of strings
- preference_notes: array of strings explaining how the user's stored preferences were honored

Keep recipes practical and achievable with common kitchen equipment.`

// RecipeData is the structure of a recipe as returned by the generation API.
type RecipeData struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	CookingTime     string       `json:"cooking_time"`
	Servings        ServingsType `json:"servings"`
	Ingredients     []string     `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	PreferenceNotes []string     `json:"preference_notes"`
}

// ServingsType tolerates the model returning servings as a number or string.
type ServingsType struct {
	Value int
}

func (s *ServingsType) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		s.Value = int(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err == nil {
			s.Value = n
		}
		return nil
	}

	return fmt.Errorf("invalid servings format")
}

func (s ServingsType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// PreferenceLoader supplies the stored user preferences consulted during
// generation.
type PreferenceLoader interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
}

// LLMService generates recipe drafts from ingredients and requirements,
// honoring the user's stored preferences.
type LLMService struct {
	apiKey string
	apiURL string
	prefs  PreferenceLoader
	redis  *redis.Client
	client *http.Client
}

func NewLLMService(apiURL, apiKey string, prefs PreferenceLoader, redisClient *redis.Client) *LLMService {
	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		prefs:  prefs,
		redis:  redisClient,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateRecipes asks the model for recipe suggestions. Diet type and
// allergies from the stored preferences are hard constraints unless the
// free-text requirements explicitly override them; cuisines and calorie
// targets are best-effort.
func (s *LLMService) GenerateRecipes(ctx context.Context, ingredients []string, requirements string, userID uuid.UUID) ([]RecipeData, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prompt := s.buildPrompt(ingredients, requirements, prefs)

	reqBody := chatRequest{
		Model: "gpt-4o-mini",
		Messages: []chatMessage{
			{Role: "system", Content: recipeSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	var wrapper struct {
		Recipes []RecipeData `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}
	if len(wrapper.Recipes) == 0 {
		return nil, fmt.Errorf("no recipes in response")
	}

	return wrapper.Recipes, nil
}

func (s *LLMService) buildPrompt(ingredients []string, requirements string, prefs *models.UserPreferences) string {
	var b strings.Builder
	if len(ingredients) > 0 {
		fmt.Fprintf(&b, "Available ingredients: %s\n", strings.Join(ingredients, ", "))
	} else {
		b.WriteString("No specific ingredients were provided; suggest recipes from common pantry staples.\n")
	}
	if requirements != "" {
		fmt.Fprintf(&b, "Additional requirements: %s\n", requirements)
	}

	if prefs.DietType != "" {
		fmt.Fprintf(&b, "The user follows a %s diet. This is a hard constraint unless the requirements above explicitly override it.\n", prefs.DietType)
	}
	if len(prefs.Allergies) > 0 {
		fmt.Fprintf(&b, "The user is allergic to: %s. Never include these.\n", strings.Join([]string(prefs.Allergies), ", "))
	}
	if len(prefs.Cuisines) > 0 {
		fmt.Fprintf(&b, "Preferred cuisines (best effort): %s.\n", strings.Join([]string(prefs.Cuisines), ", "))
	}
	if prefs.CalorieIntake > 0 {
		fmt.Fprintf(&b, "Daily calorie target (best effort): %d.\n", prefs.CalorieIntake)
	}
	if len(prefs.CookingTools) > 0 {
		fmt.Fprintf(&b, "Available cooking tools: %s.\n", strings.Join([]string(prefs.CookingTools), ", "))
	}

	b.WriteString("\nPlease suggest 3 recipes, considering any dietary requirements specified. Respond in JSON.")
	return b.String()
}
