package service_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
)

type staticPrefs struct {
	prefs models.UserPreferences
}

func (s *staticPrefs) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	p := s.prefs
	p.UserID = userID
	return &p, nil
}

func chatCompletion(t *testing.T, content interface{}) []byte {
	t.Helper()
	inner, err := json.Marshal(content)
	require.NoError(t, err)
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": string(inner)}},
		},
	}
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return out
}

func TestGenerateRecipesParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write(chatCompletion(t, map[string]interface{}{
			"recipes": []map[string]interface{}{
				{
					"title":        "Tomato Pasta",
					"description":  "Fast weeknight pasta",
					"cooking_time": "20 minutes",
					"servings":     4,
					"ingredients":  []string{"pasta", "tomatoes"},
					"instructions": []string{"boil", "combine"},
				},
			},
		}))
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "test-key", &staticPrefs{}, nil)
	recipes, err := svc.GenerateRecipes(context.Background(), []string{"tomatoes"}, "", uuid.New())

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tomato Pasta", recipes[0].Title)
	assert.Equal(t, 4, recipes[0].Servings.Value)
}

func TestGenerateRecipesToleratesStringServings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletion(t, map[string]interface{}{
			"recipes": []map[string]interface{}{
				{"title": "Stew", "servings": "6"},
			},
		}))
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "test-key", &staticPrefs{}, nil)
	recipes, err := svc.GenerateRecipes(context.Background(), nil, "stew", uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 6, recipes[0].Servings.Value)
}

func TestGenerateRecipesPromptCarriesPreferences(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Messages, 2)
		prompt = req.Messages[1].Content
		w.Write(chatCompletion(t, map[string]interface{}{
			"recipes": []map[string]interface{}{{"title": "Anything"}},
		}))
	}))
	defer server.Close()

	prefs := &staticPrefs{prefs: models.UserPreferences{
		DietType:  "vegan",
		Allergies: models.JSONBStringArray{"peanuts", "shellfish"},
		Cuisines:  models.JSONBStringArray{"thai"},
	}}
	svc := service.NewLLMService(server.URL, "test-key", prefs, nil)
	_, err := svc.GenerateRecipes(context.Background(), []string{"rice", "tofu"}, "quick dinner", uuid.New())

	require.NoError(t, err)
	assert.Contains(t, prompt, "rice, tofu")
	assert.Contains(t, prompt, "quick dinner")
	assert.Contains(t, prompt, "vegan")
	assert.Contains(t, prompt, "peanuts, shellfish")
	assert.Contains(t, prompt, "thai")
}

func TestGenerateRecipesRejectsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletion(t, map[string]interface{}{"recipes": []interface{}{}}))
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "test-key", &staticPrefs{}, nil)
	_, err := svc.GenerateRecipes(context.Background(), nil, "dinner", uuid.New())
	assert.Error(t, err)
}

func TestGenerateRecipesSurfacesAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "test-key", &staticPrefs{}, nil)
	_, err := svc.GenerateRecipes(context.Background(), nil, "dinner", uuid.New())
	assert.Error(t, err)
}
