package service

import (
	"context"

	"github.com/savorista/backend/internal/models"
)

// TextGenerator produces a free-text completion for a prompt. Calls are not
// idempotent; the only failure mode callers must handle is "generation
// failed". Tests substitute a scripted implementation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RecipeStore persists a complete aggregate.
type RecipeStore interface {
	SaveAggregate(ctx context.Context, recipe *models.Recipe) error
}

// StageObserver receives pipeline progress. StageCompleted for stage N is
// always delivered before stage N+1 begins. The HTTP sink writes one
// transport frame per call; the CLI observer prints a log line.
type StageObserver interface {
	StageStarted(stage Stage)
	StageCompleted(stage Stage, message string)
	StageFailed(stage Stage, err error)
}
