package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/savorista/backend/internal/models"
)

// Stage identifies one prompt/generate/parse/fold step of the pipeline.
type Stage struct {
	Step int
	Name string
}

// Stages in execution order. Stage notifications, progress-file keys and
// streamed event step numbers all use this table.
var Stages = []Stage{
	{1, "origin"},
	{2, "story"},
	{3, "general_info"},
	{4, "ingredients"},
	{5, "steps"},
	{6, "playlist"},
	{7, "wine_pairing"},
}

func stageByName(name string) Stage {
	for _, s := range Stages {
		if s.Name == name {
			return s
		}
	}
	return Stage{}
}

// AssemblerOptions selects the pipeline variant.
type AssemblerOptions struct {
	// Narrative enables the chef-character/story stage and the narrated
	// step fields. Without it stage 2 completes immediately with no
	// generation call.
	Narrative bool
	// Coordinates fills the placeholder map marker (random, not geocoded).
	Coordinates bool
	// StrictPlaylist and StrictWine make a missing line in those stages a
	// stage failure instead of substituting the documented defaults.
	StrictPlaylist bool
	StrictWine     bool
}

// DefaultAssemblerOptions is the rich, lenient variant.
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{Narrative: true, Coordinates: true}
}

// Assembler drives the seven generation stages in order and folds the
// parsed fragments into one aggregate. It performs no persistence; the
// caller validates and stores the result.
type Assembler struct {
	generator TextGenerator
	progress  *ProgressStore
	opts      AssemblerOptions
	rng       *rand.Rand
}

// NewAssembler builds an assembler. progress may be nil to disable the
// resume file.
func NewAssembler(generator TextGenerator, progress *ProgressStore, opts AssemblerOptions) *Assembler {
	return &Assembler{
		generator: generator,
		progress:  progress,
		opts:      opts,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Assemble runs the full pipeline for one recipe name. Stage observer
// notifications are emitted in stage order; the stage-N completion always
// precedes stage N+1. The returned aggregate has not been validated or
// persisted.
func (a *Assembler) Assemble(ctx context.Context, recipeName string, obs StageObserver) (*models.Recipe, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	gc := &GenerationContext{RecipeName: recipeName}
	r := &run{recipeName: recipeName, state: map[string]StageRecord{}, obs: obs}
	if a.progress != nil {
		loaded, err := a.progress.Load(recipeName)
		if err != nil {
			log.Printf("[Assembler] ignoring unreadable progress file: %v", err)
		} else {
			r.state = loaded
		}
	}

	recipe := &models.Recipe{
		ID:        uuid.New(),
		Title:     recipeName,
		IsPremium: true,
		ImageURL:  RecipeImageURL(recipeName),
	}

	// Stage 1: origin.
	stage := stageByName("origin")
	obs.StageStarted(stage)
	raw, err := a.generate(ctx, r, stage, "origin", BuildOriginPrompt(gc))
	if err != nil {
		return nil, err
	}
	gc.Country = ExtractValueOr(SplitLines(raw), "Pays", DefaultCountry)
	recipe.Country = gc.Country
	obs.StageCompleted(stage, fmt.Sprintf("Origine déterminée: %s", gc.Country))

	// Stage 2: chef character and story. Two generation calls folded into
	// one stage; both texts condition the later prompts.
	stage = stageByName("story")
	obs.StageStarted(stage)
	if a.opts.Narrative {
		gc.Character, err = a.generate(ctx, r, stage, "story_character", BuildCharacterPrompt(gc))
		if err != nil {
			return nil, err
		}
		gc.Story, err = a.generate(ctx, r, stage, "story", BuildStoryPrompt(gc))
		if err != nil {
			return nil, err
		}
		obs.StageCompleted(stage, "Histoire du chef créée")
	} else {
		obs.StageCompleted(stage, "Narration désactivée")
	}

	// Stage 3: general info.
	stage = stageByName("general_info")
	obs.StageStarted(stage)
	raw, err = a.generate(ctx, r, stage, "general_info", BuildGeneralPrompt(gc))
	if err != nil {
		return nil, err
	}
	lines := SplitLines(raw)
	gc.Region = ExtractValueOr(lines, "Region", DefaultRegion)
	recipe.Region = gc.Region
	recipe.Description = ExtractValueOr(lines, "Description", DefaultDescription)
	recipe.PreparationTime = ParseMinutes(ExtractValueOr(lines, "Temps de préparation", ""), DefaultPreparationTime)
	recipe.CookingTime = ParseMinutes(ExtractValueOr(lines, "Temps de cuisson", ""), DefaultCookingTime)
	recipe.Difficulty = ExtractValueOr(lines, "Difficulté", DefaultDifficulty)
	recipe.Servings = ParseIntOr(ExtractValueOr(lines, "Portions", ""), DefaultServings)
	obs.StageCompleted(stage, fmt.Sprintf("Informations générales: %s, %s", recipe.Country, recipe.Region))

	// Stage 4: ingredients.
	stage = stageByName("ingredients")
	obs.StageStarted(stage)
	raw, err = a.generate(ctx, r, stage, "ingredients", BuildIngredientsPrompt(gc))
	if err != nil {
		return nil, err
	}
	for i, item := range ListItems(raw) {
		parsed := ParseIngredientLine(item)
		recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{
			ID:       uuid.New(),
			Name:     parsed.Name,
			Quantity: parsed.Quantity,
			Unit:     parsed.Unit,
			Position: i,
		})
	}
	obs.StageCompleted(stage, fmt.Sprintf("%d ingrédients générés", len(recipe.Ingredients)))

	// Stage 5: steps. Order numbers are 1-based array positions.
	stage = stageByName("steps")
	obs.StageStarted(stage)
	raw, err = a.generate(ctx, r, stage, "steps", BuildStepsPrompt(gc))
	if err != nil {
		return nil, err
	}
	for i, item := range ListItems(raw) {
		n := i + 1
		step := models.Step{
			ID:          uuid.New(),
			OrderNumber: n,
			Title:       fmt.Sprintf("Étape %d", n),
			Description: item,
		}
		if a.opts.Narrative {
			step.StoryContent = item
			step.StoryAudioURL = StepAudioURL(recipeName, n)
			step.StoryBackgroundImageURL = StepBackgroundImageURL(recipeName, n)
		}
		recipe.Steps = append(recipe.Steps, step)
	}
	obs.StageCompleted(stage, fmt.Sprintf("%d étapes générées", len(recipe.Steps)))

	// Stage 6: playlist.
	stage = stageByName("playlist")
	obs.StageStarted(stage)
	raw, err = a.generate(ctx, r, stage, "playlist", BuildPlaylistPrompt(gc))
	if err != nil {
		return nil, err
	}
	playlist, err := a.foldPlaylist(raw)
	if err != nil {
		err = a.failStage(r, stage, "playlist", err)
		return nil, err
	}
	recipe.Playlist = playlist
	obs.StageCompleted(stage, fmt.Sprintf("Playlist: %s", playlist.Title))

	// Stage 7: wine pairing.
	stage = stageByName("wine_pairing")
	obs.StageStarted(stage)
	raw, err = a.generate(ctx, r, stage, "wine_pairing", BuildWinePrompt(gc))
	if err != nil {
		return nil, err
	}
	wine, err := a.foldWine(raw, gc.Region)
	if err != nil {
		err = a.failStage(r, stage, "wine_pairing", err)
		return nil, err
	}
	recipe.WinePairing = wine
	obs.StageCompleted(stage, fmt.Sprintf("Accord de vin: %s", wine.Name))

	// Derived narrative and map fields; no external calls.
	if a.opts.Narrative {
		recipe.StoryIntro = fmt.Sprintf(
			"Découvrez la recette de %s, inspirée des traditions culinaires de %s. Préparez-vous à un voyage gustatif authentique.",
			recipeName, recipe.Region)
		recipe.StoryIntroAudioURL = StoryIntroAudioURL(recipeName)
	}
	if a.opts.Coordinates {
		lat := round4(a.rng.Float64()*180 - 90)
		lon := round4(a.rng.Float64()*360 - 180)
		recipe.Latitude = &lat
		recipe.Longitude = &lon
	}

	if a.progress != nil {
		if err := a.progress.Clear(recipeName); err != nil {
			log.Printf("[Assembler] failed to clear progress file: %v", err)
		}
	}

	return recipe, nil
}

// run carries the per-invocation pipeline state shared by the stage
// helpers.
type run struct {
	recipeName string
	state      map[string]StageRecord
	obs        StageObserver
}

// generate runs one generation call for a stage, honoring the resume file:
// a recorded successful call is replayed from its stored completion text.
func (a *Assembler) generate(ctx context.Context, r *run, stage Stage, key, prompt string) (string, error) {
	if rec, ok := r.state[key]; ok && rec.Status == StageStatusSuccess && rec.Message != "" {
		log.Printf("[Assembler] reusing recorded response for %s", key)
		return rec.Message, nil
	}

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", a.failStage(r, stage, key, err)
	}

	r.state[key] = StageRecord{Status: StageStatusSuccess, Message: raw}
	a.saveProgress(r, stage)
	return raw, nil
}

// failStage records the failure, notifies the observer and returns the
// wrapped stage error.
func (a *Assembler) failStage(r *run, stage Stage, key string, err error) error {
	r.state[key] = StageRecord{Status: StageStatusError, Message: err.Error()}
	a.saveProgress(r, stage)
	stageErr := &GenerationError{Stage: stage.Name, Err: err}
	r.obs.StageFailed(stage, stageErr)
	return stageErr
}

func (a *Assembler) saveProgress(r *run, stage Stage) {
	if a.progress == nil {
		return
	}
	if err := a.progress.Save(r.recipeName, r.state); err != nil {
		log.Printf("[Assembler] failed to save progress for stage %s: %v", stage.Name, err)
	}
}

func (a *Assembler) foldPlaylist(raw string) (*models.Playlist, error) {
	lines := SplitLines(raw)
	if a.opts.StrictPlaylist {
		title, okTitle := ExtractValue(lines, "Titre")
		description, okDesc := ExtractValue(lines, "Description")
		link, okLink := ExtractValue(lines, "Lien")
		if !okTitle || !okDesc || !okLink {
			return nil, fmt.Errorf("playlist response is missing a required line")
		}
		return &models.Playlist{
			ID:          uuid.New(),
			Title:       title,
			Description: description,
			SpotifyLink: link,
			ImageURL:    PlaylistImageURL(),
		}, nil
	}
	return &models.Playlist{
		ID:          uuid.New(),
		Title:       ExtractValueOr(lines, "Titre", DefaultPlaylistTitle),
		Description: ExtractValueOr(lines, "Description", DefaultPlaylistDescription),
		SpotifyLink: ExtractValueOr(lines, "Lien", DefaultSpotifyLink),
		ImageURL:    PlaylistImageURL(),
	}, nil
}

func (a *Assembler) foldWine(raw, region string) (*models.WinePairing, error) {
	lines := SplitLines(raw)
	if a.opts.StrictWine {
		name, okName := ExtractValue(lines, "Nom")
		description, okDesc := ExtractValue(lines, "Description")
		if !okName || !okDesc {
			return nil, fmt.Errorf("wine pairing response is missing a required line")
		}
		return &models.WinePairing{
			ID:          uuid.New(),
			Name:        name,
			Description: description,
			Region:      region,
			ImageURL:    WineImageURL(),
		}, nil
	}
	return &models.WinePairing{
		ID:          uuid.New(),
		Name:        ExtractValueOr(lines, "Nom", DefaultWineName),
		Description: ExtractValueOr(lines, "Description", DefaultWineDescription),
		Region:      region,
		ImageURL:    WineImageURL(),
	}, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
