package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaAdapter talks to a local Ollama instance via its native REST API.
// The native API is preferred over the OpenAI-compatible endpoint because
// it reports eval counts and durations, which the harness turns into
// tokens/sec and time-to-first-token.
type OllamaAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllamaAdapter creates an adapter for a local Ollama server.
// An empty baseURL uses the default address.
func NewOllamaAdapter(baseURL string) *OllamaAdapter {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Name returns the adapter identifier.
func (a *OllamaAdapter) Name() string {
	return "ollama"
}

// Models returns a representative list of local models. Ollama serves
// whatever is pulled; this list is advisory only.
func (a *OllamaAdapter) Models() []string {
	return []string{
		"qwen2.5:3b",
		"phi3:mini",
		"mistral:7b",
		"llama3.2:3b",
	}
}

// generateRequest is the JSON body sent to /api/generate.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateResponse is the JSON body returned by /api/generate (non-streaming).
// Duration fields are nanoseconds.
type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	TotalDuration   int64  `json:"total_duration"`
	LoadDuration    int64  `json:"load_duration"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	EvalDuration    int64  `json:"eval_duration"`
}

// Generate sends a prompt to Ollama and returns the response with timing
// metadata. Missing counters leave the corresponding meta fields at zero.
func (a *OllamaAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &AdapterError{Temporary: true, Err: fmt.Errorf("ollama request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AdapterError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	meta := GenerationMeta{
		PromptTokens:    genResp.PromptEvalCount,
		TokensGenerated: genResp.EvalCount,
		TotalTime:       time.Since(start),
	}
	if genResp.EvalDuration > 0 {
		meta.TokensPerSec = float64(genResp.EvalCount) / (float64(genResp.EvalDuration) / 1e9)
	}
	if genResp.TotalDuration > genResp.EvalDuration {
		meta.TimeToFirst = time.Duration(genResp.TotalDuration - genResp.EvalDuration)
	}

	return &Response{Text: genResp.Response, Meta: meta}, nil
}
