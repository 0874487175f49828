package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockAdapter returns deterministic responses for local runs and tests.
type MockAdapter struct {
	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	delay           time.Duration
	err             error
	meta            GenerationMeta
	calls           []string
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined responses
// keyed by exact prompt.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// WithDelay makes every Generate call sleep before responding.
func (a *MockAdapter) WithDelay(d time.Duration) *MockAdapter {
	a.delay = d
	return a
}

// WithError makes every Generate call fail with err.
func (a *MockAdapter) WithError(err error) *MockAdapter {
	a.err = err
	return a
}

// WithMeta sets the metadata returned on every call.
func (a *MockAdapter) WithMeta(meta GenerationMeta) *MockAdapter {
	a.meta = meta
	return a
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Calls returns the prompts received so far.
func (a *MockAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}

// Generate returns a deterministic response for the prompt.
func (a *MockAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	a.mu.Lock()
	a.calls = append(a.calls, prompt)
	err := a.err
	delay := a.delay
	a.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "mock-1"
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if response, ok := a.responses[prompt]; ok {
		return &Response{Text: response, Meta: a.meta}, nil
	}
	return &Response{Text: fmt.Sprintf("%s\n%s", a.defaultResponse, prompt), Meta: a.meta}, nil
}
