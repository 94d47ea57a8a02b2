package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savorista/backend/internal/models"
	"github.com/savorista/backend/internal/service"
	"github.com/savorista/backend/internal/testhelpers"
)

// Verifies the aggregate transaction against a real PostgreSQL instance,
// including uuid column handling that sqlite does not exercise.
func TestSaveAggregatePostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	recipe := &models.Recipe{
		Title:           "Paella Valenciana",
		Country:         "Espagne",
		Region:          "Communauté valencienne",
		Description:     "Le riz safrané du Levant espagnol.",
		PreparationTime: 30,
		CookingTime:     45,
		Difficulty:      "moyen",
		Servings:        4,
		IsPremium:       true,
		Ingredients: []models.Ingredient{
			{Name: "riz bomba", Quantity: "400", Unit: "g"},
			{Name: "safran", Quantity: "1", Unit: "pincée", Position: 1},
		},
		Steps: []models.Step{
			{OrderNumber: 1, Description: "Faire revenir le poulet."},
			{OrderNumber: 2, Description: "Ajouter le riz et le bouillon."},
		},
		Playlist:    &models.Playlist{Title: "Flamenco", SpotifyLink: "spotify:playlist:xyz"},
		WinePairing: &models.WinePairing{Name: "Albariño", Description: "Vif et iodé."},
	}

	require.NoError(t, svc.SaveAggregate(ctx, recipe))

	loaded, err := svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paella Valenciana", loaded.Title)
	require.Len(t, loaded.Ingredients, 2)
	assert.Equal(t, "riz bomba", loaded.Ingredients[0].Name)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, 1, loaded.Steps[0].OrderNumber)
	require.NotNil(t, loaded.Playlist)
	require.NotNil(t, loaded.WinePairing)
}
