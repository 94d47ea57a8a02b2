package service

import (
	"fmt"

	"github.com/savorista/backend/internal/models"
)

// ValidateRecipe checks that every section of an assembled aggregate is
// present before persistence. Only absence is checked; values are not
// sanity-checked, so a defaulted field always passes. The numeric fields
// are never absent because the parser defaults them, and a parsed zero is
// kept as-is. All problems are collected so the caller sees the full list
// at once.
func ValidateRecipe(recipe *models.Recipe) error {
	var missing []string

	if recipe.Title == "" {
		missing = append(missing, "title")
	}
	if recipe.Country == "" {
		missing = append(missing, "country")
	}
	if recipe.Region == "" {
		missing = append(missing, "region")
	}
	if recipe.Description == "" {
		missing = append(missing, "description")
	}
	if recipe.Difficulty == "" {
		missing = append(missing, "difficulty")
	}

	if len(recipe.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	for i, ing := range recipe.Ingredients {
		if ing.Name == "" {
			missing = append(missing, fmt.Sprintf("ingredients[%d].name", i))
		}
	}

	if len(recipe.Steps) == 0 {
		missing = append(missing, "steps")
	}
	for i, step := range recipe.Steps {
		if step.Description == "" {
			missing = append(missing, fmt.Sprintf("steps[%d].description", i))
		}
		if step.OrderNumber != i+1 {
			missing = append(missing, fmt.Sprintf("steps[%d].order_number", i))
		}
	}

	if recipe.Playlist == nil {
		missing = append(missing, "playlist")
	} else {
		if recipe.Playlist.Title == "" {
			missing = append(missing, "playlist.title")
		}
		if recipe.Playlist.Description == "" {
			missing = append(missing, "playlist.description")
		}
		if recipe.Playlist.SpotifyLink == "" {
			missing = append(missing, "playlist.spotify_link")
		}
	}

	if recipe.WinePairing == nil {
		missing = append(missing, "wine_pairing")
	} else {
		if recipe.WinePairing.Name == "" {
			missing = append(missing, "wine_pairing.name")
		}
		if recipe.WinePairing.Description == "" {
			missing = append(missing, "wine_pairing.description")
		}
		if recipe.WinePairing.Region == "" {
			missing = append(missing, "wine_pairing.region")
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
