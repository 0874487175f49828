package adapter

import (
	"context"
	"time"
)

// Adapter defines the interface for text-generation backends.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// GenerationMeta captures normalized per-call performance metadata.
// Backends that do not report a field leave it at zero; callers must
// treat zero as "unknown", never as an error.
type GenerationMeta struct {
	PromptTokens    int           `json:"prompt_tokens"`
	TokensGenerated int           `json:"tokens_generated"`
	TokensPerSec    float64       `json:"tokens_per_sec"`
	TimeToFirst     time.Duration `json:"time_to_first_token"`
	TotalTime       time.Duration `json:"total_time"`
}

// Response wraps a backend's generated text and optional metadata.
type Response struct {
	Text string         `json:"text"`
	Meta GenerationMeta `json:"meta"`
}

// AdapterInfo holds metadata about an adapter.
type AdapterInfo struct {
	Name   string
	Models []ModelInfo
}

// ModelInfo holds metadata about a model.
type ModelInfo struct {
	ID          string
	Description string
}
