package service

import (
	"fmt"
	"strings"
)

// GenerationError reports a failed pipeline stage: either the upstream
// text-generation call errored or a strict-mode parse rejected the response.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at stage %q: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError lists every required field missing from an assembled
// aggregate. Section prefixes follow the table names (recipe.title,
// playlist.spotify_link, ...).
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recipe aggregate is missing required fields: %s", strings.Join(e.Missing, ", "))
}

// PersistenceError reports a failed insert transaction.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist recipe aggregate: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
