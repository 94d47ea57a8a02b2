package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/savorista/backend/internal/models"
)

// RecipeService persists assembled aggregates and serves read access for
// the API layer.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new recipe service
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// SaveAggregate writes the whole aggregate in one transaction: the recipe
// row first, then ingredients, steps, playlist and wine pairing, each
// carrying the recipe id. A failed insert rolls everything back; no
// partial aggregate is ever visible.
func (s *RecipeService) SaveAggregate(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	linkChildren(recipe)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Create(&recipe.Ingredients).Error; err != nil {
				return fmt.Errorf("failed to insert ingredients: %w", err)
			}
		}
		if len(recipe.Steps) > 0 {
			if err := tx.Create(&recipe.Steps).Error; err != nil {
				return fmt.Errorf("failed to insert steps: %w", err)
			}
		}
		if recipe.Playlist != nil {
			if err := tx.Create(recipe.Playlist).Error; err != nil {
				return fmt.Errorf("failed to insert playlist: %w", err)
			}
		}
		if recipe.WinePairing != nil {
			if err := tx.Create(recipe.WinePairing).Error; err != nil {
				return fmt.Errorf("failed to insert wine pairing: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// GetRecipe loads one aggregate with all its sections.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("order_number") }).
		Preload("Playlist").
		Preload("WinePairing").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes returns recipes without their sections, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// linkChildren stamps missing ids and the parent recipe id onto every
// section row before insert.
func linkChildren(recipe *models.Recipe) {
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == uuid.Nil {
			recipe.Ingredients[i].ID = uuid.New()
		}
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	for i := range recipe.Steps {
		if recipe.Steps[i].ID == uuid.Nil {
			recipe.Steps[i].ID = uuid.New()
		}
		recipe.Steps[i].RecipeID = recipe.ID
	}
	if recipe.Playlist != nil {
		if recipe.Playlist.ID == uuid.Nil {
			recipe.Playlist.ID = uuid.New()
		}
		recipe.Playlist.RecipeID = recipe.ID
	}
	if recipe.WinePairing != nil {
		if recipe.WinePairing.ID == uuid.Nil {
			recipe.WinePairing.ID = uuid.New()
		}
		recipe.WinePairing.RecipeID = recipe.ID
	}
}
