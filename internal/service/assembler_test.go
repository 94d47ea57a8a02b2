package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savorista/backend/internal/models"
)

// scriptedGenerator replays canned responses keyed by the stage the prompt
// belongs to, and counts calls so resume behavior can be asserted.
type scriptedGenerator struct {
	responses map[string]string
	failOn    string
	calls     map[string]int
}

func newScriptedGenerator(responses map[string]string) *scriptedGenerator {
	return &scriptedGenerator{responses: responses, calls: map[string]int{}}
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	key := classifyPrompt(prompt)
	g.calls[key]++
	if key == g.failOn {
		return "", fmt.Errorf("upstream timeout")
	}
	resp, ok := g.responses[key]
	if !ok {
		return "", fmt.Errorf("no scripted response for %q", key)
	}
	return resp, nil
}

// classifyPrompt recognizes a stage by a fragment unique to its template.
// The general-info check runs first because that template mentions
// ingredients too.
func classifyPrompt(prompt string) string {
	switch {
	case strings.Contains(prompt, "Temps de préparation"):
		return "general"
	case strings.Contains(prompt, "pays d'origine"):
		return "origin"
	case strings.Contains(prompt, "crée un personnage"):
		return "character"
	case strings.Contains(prompt, "histoire immersive"):
		return "story"
	case strings.Contains(prompt, "étapes détaillées"):
		return "steps"
	case strings.Contains(prompt, "les ingrédients"):
		return "ingredients"
	case strings.Contains(prompt, "playlist"):
		return "playlist"
	case strings.Contains(prompt, "accord de vin"):
		return "wine"
	default:
		return "unknown"
	}
}

func tarteTatinResponses() map[string]string {
	return map[string]string{
		"origin":    "Pays: France",
		"character": "Nom: Auguste Lamotte\nÂge: 58\nVille: Lamotte-Beuvron",
		"story":     "Dans son auberge de Sologne, Auguste renverse la tarte d'un geste sûr.",
		"general": `Pays: France
Region: Centre-Val de Loire
Description: Une tarte aux pommes caramélisées, cuite à l'envers.
Temps de préparation: 20 min
Temps de cuisson: 40 min
Difficulté: facile
Portions: 6`,
		"ingredients": "- 6 unité pommes\n- 150 g sucre\n- 100 g beurre demi-sel\n- 1 unité pâte feuilletée",
		"steps":       "1. Préchauffer le four à 180 degrés.\n2. Caraméliser le sucre et le beurre dans le moule.\n3. Disposer les pommes et couvrir de pâte avant d'enfourner.",
		"playlist":    "Titre: Douceurs de Sologne\nDescription: Chansons françaises pour pâtisser\nLien: spotify:playlist:abc123",
		"wine":        "Nom: Cidre brut du Pays d'Auge\nDescription: La pomme répond à la pomme.",
	}
}

// stageEvent records one observer notification for ordering assertions.
type stageEvent struct {
	kind  string
	stage string
}

type recordingObserver struct {
	events []stageEvent
}

func (r *recordingObserver) StageStarted(stage Stage) {
	r.events = append(r.events, stageEvent{"started", stage.Name})
}

func (r *recordingObserver) StageCompleted(stage Stage, _ string) {
	r.events = append(r.events, stageEvent{"completed", stage.Name})
}

func (r *recordingObserver) StageFailed(stage Stage, _ error) {
	r.events = append(r.events, stageEvent{"failed", stage.Name})
}

func TestAssembleTarteTatin(t *testing.T) {
	gen := newScriptedGenerator(tarteTatinResponses())
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)

	assert.Equal(t, "Tarte Tatin", recipe.Title)
	assert.Equal(t, "France", recipe.Country)
	assert.Equal(t, "Centre-Val de Loire", recipe.Region)
	assert.Equal(t, 20, recipe.PreparationTime)
	assert.Equal(t, 40, recipe.CookingTime)
	assert.Equal(t, "facile", recipe.Difficulty)
	assert.Equal(t, 6, recipe.Servings)
	assert.True(t, recipe.IsPremium)
	assert.Equal(t, "https://source.unsplash.com/800x600/?Tarte%20Tatin", recipe.ImageURL)

	require.Len(t, recipe.Ingredients, 4)
	assert.Equal(t, "pommes", recipe.Ingredients[0].Name)
	assert.Equal(t, "6", recipe.Ingredients[0].Quantity)
	assert.Equal(t, "unité", recipe.Ingredients[0].Unit)
	assert.Equal(t, "beurre demi-sel", recipe.Ingredients[2].Name)
	for i, ing := range recipe.Ingredients {
		assert.Equal(t, i, ing.Position)
	}

	require.Len(t, recipe.Steps, 3)
	for i, step := range recipe.Steps {
		assert.Equal(t, i+1, step.OrderNumber)
		assert.Equal(t, fmt.Sprintf("Étape %d", i+1), step.Title)
		assert.Equal(t, fmt.Sprintf("https://savorista.com/audio/stories/tarte_tatin_step%d.mp3", i+1), step.StoryAudioURL)
		assert.Equal(t, fmt.Sprintf("https://source.unsplash.com/800x600/?Tarte%%20Tatin,%d", i+1), step.StoryBackgroundImageURL)
	}
	assert.Equal(t, "Préchauffer le four à 180 degrés.", recipe.Steps[0].Description)

	require.NotNil(t, recipe.Playlist)
	assert.Equal(t, "Douceurs de Sologne", recipe.Playlist.Title)
	assert.Equal(t, "spotify:playlist:abc123", recipe.Playlist.SpotifyLink)

	require.NotNil(t, recipe.WinePairing)
	assert.Equal(t, "Cidre brut du Pays d'Auge", recipe.WinePairing.Name)
	assert.Equal(t, "Centre-Val de Loire", recipe.WinePairing.Region, "wine region mirrors the recipe region")

	assert.Contains(t, recipe.StoryIntro, "Tarte Tatin")
	assert.Equal(t, "https://savorista.com/audio/stories/tarte_tatin_intro.mp3", recipe.StoryIntroAudioURL)

	require.NotNil(t, recipe.Latitude)
	require.NotNil(t, recipe.Longitude)
	assert.GreaterOrEqual(t, *recipe.Latitude, -90.0)
	assert.LessOrEqual(t, *recipe.Latitude, 90.0)
	assert.GreaterOrEqual(t, *recipe.Longitude, -180.0)
	assert.LessOrEqual(t, *recipe.Longitude, 180.0)
}

func TestAssembleDefaultsOnSparseResponses(t *testing.T) {
	responses := tarteTatinResponses()
	responses["origin"] = "Je ne connais pas ce plat."
	responses["general"] = "Description: Un plat mystérieux."

	gen := newScriptedGenerator(responses)
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())

	recipe, err := assembler.Assemble(context.Background(), "Plat Mystère", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultCountry, recipe.Country)
	assert.Equal(t, DefaultRegion, recipe.Region)
	assert.Equal(t, "Un plat mystérieux.", recipe.Description)
	assert.Equal(t, DefaultPreparationTime, recipe.PreparationTime)
	assert.Equal(t, DefaultCookingTime, recipe.CookingTime)
	assert.Equal(t, DefaultDifficulty, recipe.Difficulty)
	assert.Equal(t, DefaultServings, recipe.Servings)
}

func TestAssembleMissingPortionsDefaults(t *testing.T) {
	responses := tarteTatinResponses()
	responses["general"] = `Region: Centre-Val de Loire
Description: Une tarte.
Temps de préparation: 20 min
Temps de cuisson: 40 min
Difficulté: facile`

	gen := newScriptedGenerator(responses)
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultServings, recipe.Servings)
	assert.Equal(t, 20, recipe.PreparationTime, "present fields keep their values")
}

func TestAssembleZeroPortionsKept(t *testing.T) {
	responses := tarteTatinResponses()
	responses["general"] = `Region: Centre-Val de Loire
Description: Une tarte.
Temps de préparation: 20 min
Temps de cuisson: 40 min
Difficulté: facile
Portions: 0`

	gen := newScriptedGenerator(responses)
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, recipe.Servings, "a parsed zero is not replaced by the default")
	assert.NoError(t, ValidateRecipe(recipe), "zero servings persists like any other value")
}

func TestAssembleIsDeterministicExceptCoordinates(t *testing.T) {
	assemble := func() *models.Recipe {
		gen := newScriptedGenerator(tarteTatinResponses())
		assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())
		recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
		require.NoError(t, err)
		return recipe
	}

	first := assemble()
	second := assemble()

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Country, second.Country)
	assert.Equal(t, first.Region, second.Region)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.PreparationTime, second.PreparationTime)
	assert.Equal(t, first.CookingTime, second.CookingTime)
	assert.Equal(t, first.Difficulty, second.Difficulty)
	assert.Equal(t, first.Servings, second.Servings)
	assert.Equal(t, first.IsPremium, second.IsPremium)
	assert.Equal(t, first.ImageURL, second.ImageURL)
	assert.Equal(t, first.StoryIntro, second.StoryIntro)
	assert.Equal(t, first.StoryIntroAudioURL, second.StoryIntroAudioURL)

	require.Len(t, second.Ingredients, len(first.Ingredients))
	for i := range first.Ingredients {
		assert.Equal(t, first.Ingredients[i].Name, second.Ingredients[i].Name)
		assert.Equal(t, first.Ingredients[i].Quantity, second.Ingredients[i].Quantity)
		assert.Equal(t, first.Ingredients[i].Unit, second.Ingredients[i].Unit)
		assert.Equal(t, first.Ingredients[i].Position, second.Ingredients[i].Position)
	}

	require.Len(t, second.Steps, len(first.Steps))
	for i := range first.Steps {
		assert.Equal(t, first.Steps[i].OrderNumber, second.Steps[i].OrderNumber)
		assert.Equal(t, first.Steps[i].Title, second.Steps[i].Title)
		assert.Equal(t, first.Steps[i].Description, second.Steps[i].Description)
		assert.Equal(t, first.Steps[i].StoryContent, second.Steps[i].StoryContent)
		assert.Equal(t, first.Steps[i].StoryAudioURL, second.Steps[i].StoryAudioURL)
		assert.Equal(t, first.Steps[i].StoryBackgroundImageURL, second.Steps[i].StoryBackgroundImageURL)
	}

	require.NotNil(t, second.Playlist)
	assert.Equal(t, first.Playlist.Title, second.Playlist.Title)
	assert.Equal(t, first.Playlist.Description, second.Playlist.Description)
	assert.Equal(t, first.Playlist.SpotifyLink, second.Playlist.SpotifyLink)
	assert.Equal(t, first.Playlist.ImageURL, second.Playlist.ImageURL)

	require.NotNil(t, second.WinePairing)
	assert.Equal(t, first.WinePairing.Name, second.WinePairing.Name)
	assert.Equal(t, first.WinePairing.Description, second.WinePairing.Description)
	assert.Equal(t, first.WinePairing.Region, second.WinePairing.Region)
	assert.Equal(t, first.WinePairing.ImageURL, second.WinePairing.ImageURL)

	// Only the map marker and the generated ids may differ between runs.
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAssembleObserverOrdering(t *testing.T) {
	gen := newScriptedGenerator(tarteTatinResponses())
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())
	obs := &recordingObserver{}

	_, err := assembler.Assemble(context.Background(), "Tarte Tatin", obs)
	require.NoError(t, err)

	require.Len(t, obs.events, 2*len(Stages))
	for i, stage := range Stages {
		assert.Equal(t, stageEvent{"started", stage.Name}, obs.events[2*i])
		assert.Equal(t, stageEvent{"completed", stage.Name}, obs.events[2*i+1])
	}
}

func TestAssembleStageFailure(t *testing.T) {
	gen := newScriptedGenerator(tarteTatinResponses())
	gen.failOn = "ingredients"
	assembler := NewAssembler(gen, nil, DefaultAssemblerOptions())
	obs := &recordingObserver{}

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", obs)
	assert.Nil(t, recipe)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "ingredients", genErr.Stage)

	last := obs.events[len(obs.events)-1]
	assert.Equal(t, stageEvent{"failed", "ingredients"}, last, "nothing is emitted after the failure")
}

func TestAssembleStrictPlaylistPolicy(t *testing.T) {
	responses := tarteTatinResponses()
	responses["playlist"] = "Une playlist sympa sans format."

	opts := DefaultAssemblerOptions()
	opts.StrictPlaylist = true
	assembler := NewAssembler(newScriptedGenerator(responses), nil, opts)

	_, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "playlist", genErr.Stage)
}

func TestAssembleLenientPlaylistDefaults(t *testing.T) {
	responses := tarteTatinResponses()
	responses["playlist"] = "Une playlist sympa sans format."
	responses["wine"] = "Buvez ce que vous voulez."

	assembler := NewAssembler(newScriptedGenerator(responses), nil, DefaultAssemblerOptions())

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPlaylistTitle, recipe.Playlist.Title)
	assert.Equal(t, DefaultSpotifyLink, recipe.Playlist.SpotifyLink)
	assert.Equal(t, DefaultWineName, recipe.WinePairing.Name)
	assert.Equal(t, DefaultWineDescription, recipe.WinePairing.Description)
}

func TestAssembleWithoutNarrative(t *testing.T) {
	opts := AssemblerOptions{Narrative: false, Coordinates: false}
	gen := newScriptedGenerator(tarteTatinResponses())
	assembler := NewAssembler(gen, nil, opts)

	recipe, err := assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)

	assert.Zero(t, gen.calls["character"])
	assert.Zero(t, gen.calls["story"])
	assert.Empty(t, recipe.StoryIntro)
	assert.Empty(t, recipe.StoryIntroAudioURL)
	assert.Nil(t, recipe.Latitude)
	for _, step := range recipe.Steps {
		assert.Empty(t, step.StoryContent)
		assert.Empty(t, step.StoryAudioURL)
	}
}

func TestAssembleResumeSkipsCompletedStages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewProgressStore(dir)
	require.NoError(t, err)

	gen := newScriptedGenerator(tarteTatinResponses())
	gen.failOn = "steps"
	assembler := NewAssembler(gen, store, DefaultAssemblerOptions())

	_, err = assembler.Assemble(context.Background(), "Tarte Tatin", nil)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, "tarte_tatin_progress.json"))

	// Second run resumes; earlier stages replay from the file.
	gen2 := newScriptedGenerator(tarteTatinResponses())
	assembler2 := NewAssembler(gen2, store, DefaultAssemblerOptions())

	recipe, err := assembler2.Assemble(context.Background(), "Tarte Tatin", nil)
	require.NoError(t, err)
	assert.Equal(t, "France", recipe.Country)
	assert.Len(t, recipe.Steps, 3)

	assert.Zero(t, gen2.calls["origin"], "completed stages are not regenerated")
	assert.Zero(t, gen2.calls["general"])
	assert.Zero(t, gen2.calls["ingredients"])
	assert.Equal(t, 1, gen2.calls["steps"])

	// A fully successful run removes the file.
	_, err = os.Stat(filepath.Join(dir, "tarte_tatin_progress.json"))
	assert.True(t, os.IsNotExist(err))
}
