package api

// GenerateRecipeRequest is the body of POST /api/v1/generate-recipe.
type GenerateRecipeRequest struct {
	RecipeName string `json:"recipeName"`
	// Stream switches the response to NDJSON progress events. The
	// Accept: application/x-ndjson header does the same.
	Stream bool `json:"stream"`
}

// ProgressEvent is one NDJSON line of a streamed generation. Step numbers
// follow the pipeline stage order, with one extra step for persistence.
// The stream always ends with a single terminal line: the save step's
// "completed" event, or one "error" event carrying error and details.
type ProgressEvent struct {
	Step    int    `json:"step"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Event statuses.
const (
	StatusLoading   = "loading"
	StatusCompleted = "completed"
	StatusError     = "error"
)
