package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const visionSystemPrompt = `You are a helpful assistant that identifies cooking ingredients in images.
Return a JSON object {"ingredients": [...]} listing ingredient names, being as specific as possible about quantities when visible.
Consider any dietary restrictions or preferences in your analysis.`

// VisionService maps ingredient photographs to ingredient names via a
// vision-capable chat-completions API.
type VisionService struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewVisionService(apiURL, apiKey string) *VisionService {
	return &VisionService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// visionContentPart is one element of a multi-modal user message.
type visionContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type visionRequest struct {
	Model          string            `json:"model"`
	Messages       []visionMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	MaxTokens      int               `json:"max_tokens"`
}

// AnalyzeIngredients identifies the ingredients visible in the given data-URI
// encoded images. The requirements string is passed along so the model can
// bias its reading (e.g. ignore meat for a vegan request).
func (s *VisionService) AnalyzeIngredients(ctx context.Context, images []string, requirements string) ([]string, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	parts := []visionContentPart{{
		Type: "text",
		Text: fmt.Sprintf(`What ingredients do you see in these images? Please identify them specifically.
Consider these additional requirements/preferences: %s`, orNone(requirements)),
	}}
	for _, img := range images {
		part := visionContentPart{Type: "image_url"}
		part.ImageURL = &struct {
			URL string `json:"url"`
		}{URL: img}
		parts = append(parts, part)
	}

	reqBody := visionRequest{
		Model: "gpt-4o",
		Messages: []visionMessage{
			{Role: "system", Content: visionSystemPrompt},
			{Role: "user", Content: parts},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		MaxTokens:      300,
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
		log.Printf("[VisionService] API request failed with status %d: %s", resp.StatusCode, string(body))
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
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse ingredients: %w", err)
	}

	ingredients := make([]string, 0, len(wrapper.Ingredients))
	for _, ing := range wrapper.Ingredients {
		if trimmed := strings.TrimSpace(ing); trimmed != "" {
			ingredients = append(ingredients, trimmed)
		}
	}
	return ingredients, nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
