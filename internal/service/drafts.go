package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pantrysnap/backend/internal/models"
)

const draftTTL = 24 * time.Hour

// DraftBatch is the outcome of one generation run, cached so the user can
// come back and save individual recipes without regenerating. Nothing in a
// draft is persisted to the recipe store.
type DraftBatch struct {
	ID        string          `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Recipes   []models.Recipe `json:"recipes"`
}

// SaveDraftBatch caches a generation result in Redis under a fresh id.
func (s *LLMService) SaveDraftBatch(ctx context.Context, userID uuid.UUID, recipes []models.Recipe) (*DraftBatch, error) {
	batch := &DraftBatch{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
		Recipes:   recipes,
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := draftKey(userID, batch.ID)
	if err := s.redis.Set(ctx, key, data, draftTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to save draft to Redis: %w", err)
	}

	return batch, nil
}

// GetDraftBatch retrieves a cached generation result. The key is scoped by
// user, so one user cannot read another's drafts.
func (s *LLMService) GetDraftBatch(ctx context.Context, userID uuid.UUID, id string) (*DraftBatch, error) {
	data, err := s.redis.Get(ctx, draftKey(userID, id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var batch DraftBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &batch, nil
}

// DeleteDraftBatch removes a cached generation result.
func (s *LLMService) DeleteDraftBatch(ctx context.Context, userID uuid.UUID, id string) error {
	if err := s.redis.Del(ctx, draftKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

func draftKey(userID uuid.UUID, id string) string {
	return fmt.Sprintf("recipe:draft:%s:%s", userID, id)
}
