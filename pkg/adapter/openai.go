package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdapter implements the Adapter interface for OpenAI-compatible
// endpoints. With a base URL it also serves local servers that speak the
// OpenAI chat API, such as Ollama's /v1 endpoint.
type OpenAIAdapter struct {
	client openai.Client
	local  bool
}

// NewOpenAIAdapter creates a new OpenAI adapter.
func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAdapter{client: client}, nil
}

// NewOpenAICompatAdapter creates an adapter for an OpenAI-compatible local
// endpoint. The API key may be any placeholder; local servers ignore it.
func NewOpenAICompatAdapter(baseURL, apiKey string) (*OpenAIAdapter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if apiKey == "" {
		apiKey = "local"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
	return &OpenAIAdapter{client: client, local: true}, nil
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string {
	if a.local {
		return "openai-compat"
	}
	return "openai"
}

// Models returns the list of supported OpenAI models.
func (a *OpenAIAdapter) Models() []string {
	if a.local {
		return nil // whatever the local server exposes
	}
	return []string{
		"gpt-5.2-instant",
		"gpt-5.2-thinking",
		"gpt-5.2-codex",
	}
}

// Generate sends a prompt and returns the response with token usage.
// Chat-completions usage reports token counts but no eval durations, so
// tokens/sec and TTFT stay zero here.
func (a *OpenAIAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(4096),
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	total := time.Since(start)
	meta := GenerationMeta{
		PromptTokens:    int(resp.Usage.PromptTokens),
		TokensGenerated: int(resp.Usage.CompletionTokens),
		TotalTime:       total,
	}
	if meta.TokensGenerated > 0 && total > 0 {
		meta.TokensPerSec = float64(meta.TokensGenerated) / total.Seconds()
	}

	return &Response{Text: resp.Choices[0].Message.Content, Meta: meta}, nil
}
