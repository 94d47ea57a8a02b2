package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savorista/backend/internal/models"
	"github.com/savorista/backend/internal/service"
)

// Aggregator runs the generation pipeline; satisfied by service.Assembler.
type Aggregator interface {
	Assemble(ctx context.Context, recipeName string, obs service.StageObserver) (*models.Recipe, error)
}

// RecipeHandler serves the generation and draft endpoints. Drafts and
// media are optional; a nil draft service turns the draft endpoints into
// 404s and a nil media service skips image pinning.
type RecipeHandler struct {
	assembler Aggregator
	recipes   service.RecipeStore
	drafts    *service.DraftService
	media     *service.MediaService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(assembler Aggregator, recipes service.RecipeStore, drafts *service.DraftService, media *service.MediaService) *RecipeHandler {
	return &RecipeHandler{
		assembler: assembler,
		recipes:   recipes,
		drafts:    drafts,
		media:     media,
	}
}

// GenerateRecipe handles POST /api/v1/generate-recipe in both modes.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom de la recette est requis"})
		return
	}

	if req.Stream || c.GetHeader("Accept") == "application/x-ndjson" {
		h.generateStream(c, req.RecipeName)
		return
	}
	h.generateSync(c, req.RecipeName)
}

// generateSync runs the whole pipeline and replies once with the stored
// aggregate.
func (h *RecipeHandler) generateSync(c *gin.Context, recipeName string) {
	recipe, err := h.assembler.Assemble(c.Request.Context(), recipeName, service.LogObserver{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"details": failureDetails(err),
		})
		return
	}

	if err := h.finishAggregate(c.Request.Context(), recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"details": failureDetails(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": recipe})
}

// generateStream runs the pipeline while writing one NDJSON progress event
// per stage transition. Persistence is reported as one extra step after
// the pipeline; its completion is the terminal line of a successful run.
func (h *RecipeHandler) generateStream(c *gin.Context, recipeName string) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	saveStep := len(service.Stages) + 1
	sink := &streamObserver{c: c}
	recipe, err := h.assembler.Assemble(c.Request.Context(), recipeName, sink)
	if err != nil {
		sink.write(errorEvent(err))
		return
	}

	sink.write(ProgressEvent{Step: saveStep, Status: StatusLoading, Message: "Enregistrement de la recette..."})
	if err := h.finishAggregate(c.Request.Context(), recipe); err != nil {
		sink.write(errorEvent(err))
		return
	}
	sink.write(ProgressEvent{Step: saveStep, Status: StatusCompleted, Message: "Recette générée avec succès!"})
}

// errorEvent builds the single terminal error line. The step number points
// at the failed pipeline stage when the error carries one, and at the save
// step otherwise.
func errorEvent(err error) ProgressEvent {
	step := len(service.Stages) + 1
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		for _, stage := range service.Stages {
			if stage.Name == genErr.Stage {
				step = stage.Step
				break
			}
		}
	}
	return ProgressEvent{
		Step:    step,
		Status:  StatusError,
		Message: err.Error(),
		Error:   err.Error(),
		Details: failureDetails(err),
	}
}

// finishAggregate validates, pins the image, caches the draft and persists.
func (h *RecipeHandler) finishAggregate(ctx context.Context, recipe *models.Recipe) error {
	if err := service.ValidateRecipe(recipe); err != nil {
		return err
	}

	if h.media != nil {
		recipe.ImageURL = h.media.PinImage(ctx, recipe.ImageURL, recipe.Title)
	}

	if h.drafts != nil {
		if err := h.drafts.SaveDraft(ctx, recipe); err != nil {
			log.Printf("[RecipeHandler] failed to cache draft: %v", err)
		}
	}

	return h.recipes.SaveAggregate(ctx, recipe)
}

// failureDetails maps a pipeline error to the human-readable phase string
// of the 500 body.
func failureDetails(err error) string {
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		return "Échec de la génération à l'étape " + genErr.Stage
	}
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return "La recette générée est incomplète"
	}
	var persErr *service.PersistenceError
	if errors.As(err, &persErr) {
		return "Échec de l'enregistrement de la recette"
	}
	return "Erreur lors de la génération de la recette"
}

// streamObserver writes stage notifications as NDJSON lines, flushing
// after each so the client sees progress during the long generation calls.
type streamObserver struct {
	c *gin.Context
}

func (s *streamObserver) write(ev ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if _, err := s.c.Writer.Write(append(data, '\n')); err != nil {
		return
	}
	s.c.Writer.Flush()
}

func (s *streamObserver) StageStarted(stage service.Stage) {
	s.write(ProgressEvent{Step: stage.Step, Status: StatusLoading, Message: stageLoadingMessage(stage.Name)})
}

func (s *streamObserver) StageCompleted(stage service.Stage, message string) {
	s.write(ProgressEvent{Step: stage.Step, Status: StatusCompleted, Message: message})
}

// StageFailed is silent; the terminal error line already carries the
// failed stage, and the stream contract is a single error event.
func (s *streamObserver) StageFailed(service.Stage, error) {}

func stageLoadingMessage(stageName string) string {
	switch stageName {
	case "origin":
		return "Détermination de l'origine..."
	case "story":
		return "Création de l'histoire du chef..."
	case "general_info":
		return "Génération des informations générales..."
	case "ingredients":
		return "Génération des ingrédients..."
	case "steps":
		return "Génération des étapes..."
	case "playlist":
		return "Création de la playlist..."
	case "wine_pairing":
		return "Sélection de l'accord de vin..."
	default:
		return "En cours..."
	}
}
