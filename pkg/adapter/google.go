package adapter

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GoogleAdapter implements the Adapter interface for Gemini models,
// used as a cloud comparison baseline against local specialists.
type GoogleAdapter struct {
	client *genai.Client
}

// NewGoogleAdapter creates a new Google Gemini adapter.
func NewGoogleAdapter(apiKey string) (*GoogleAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleAdapter{client: client}, nil
}

// Name returns the adapter identifier.
func (a *GoogleAdapter) Name() string {
	return "google"
}

// Models returns the list of supported Gemini models.
func (a *GoogleAdapter) Models() []string {
	return []string{
		"gemini-2.0-pro",
		"gemini-2.0-flash",
	}
}

// Generate sends a prompt to Gemini and returns the response.
func (a *GoogleAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	start := time.Now()
	resp, err := a.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	meta := GenerationMeta{TotalTime: time.Since(start)}
	if resp.UsageMetadata != nil {
		meta.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		meta.TokensGenerated = int(resp.UsageMetadata.CandidatesTokenCount)
		if meta.TokensGenerated > 0 && meta.TotalTime > 0 {
			meta.TokensPerSec = float64(meta.TokensGenerated) / meta.TotalTime.Seconds()
		}
	}

	return &Response{Text: content, Meta: meta}, nil
}
