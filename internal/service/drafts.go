package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savorista/backend/internal/models"
)

// draftTTL bounds how long an unsaved aggregate stays retrievable.
const draftTTL = 24 * time.Hour

// ErrDraftNotFound is returned when no draft exists for a slug.
var ErrDraftNotFound = fmt.Errorf("draft not found")

// DraftService caches assembled aggregates in Redis before they are
// persisted, keyed by the recipe-name slug. Generation is slow and
// expensive; a client that loses the response can re-fetch the draft
// instead of regenerating.
type DraftService struct {
	redis *redis.Client
}

// NewDraftService creates a new draft service
func NewDraftService(redisClient *redis.Client) *DraftService {
	return &DraftService{redis: redisClient}
}

func draftKey(recipeName string) string {
	return fmt.Sprintf("recipe_draft:%s", Slug(recipeName))
}

// SaveDraft stores the aggregate under its slug for 24 hours.
func (s *DraftService) SaveDraft(ctx context.Context, recipe *models.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(recipe.Title), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft fetches the cached aggregate for a slug.
func (s *DraftService) GetDraft(ctx context.Context, recipeName string) (*models.Recipe, error) {
	data, err := s.redis.Get(ctx, draftKey(recipeName)).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var recipe models.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &recipe, nil
}

// DeleteDraft removes the cached aggregate; deleting a missing draft is
// not an error.
func (s *DraftService) DeleteDraft(ctx context.Context, recipeName string) error {
	if err := s.redis.Del(ctx, draftKey(recipeName)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
