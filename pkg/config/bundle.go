package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Specialist describes a named backend capability the router can select.
// Specialists are loaded once and treated as read-only for the run.
type Specialist struct {
	ID          string   `yaml:"id"`
	Model       string   `yaml:"model"`
	Description string   `yaml:"description,omitempty"`
	Domains     []string `yaml:"domains,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Fallback    bool     `yaml:"fallback,omitempty"`
	// ParamsBillions is the declared parameter count, used only for
	// efficiency reporting.
	ParamsBillions float64 `yaml:"params_billions,omitempty"`
}

// Bundle is the ordered, fixed set of specialists available for a run.
type Bundle struct {
	Name        string       `yaml:"name"`
	Version     string       `yaml:"version,omitempty"`
	Specialists []Specialist `yaml:"specialists"`
}

// LoadBundle reads a bundle definition from a YAML file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle %s: %w", path, err)
	}
	return &b, nil
}

// Validate checks bundle invariants: at least one specialist, unique
// specialist ids, and at most one fallback.
func (b *Bundle) Validate() error {
	if len(b.Specialists) == 0 {
		return fmt.Errorf("bundle has no specialists")
	}
	seen := make(map[string]bool, len(b.Specialists))
	fallbacks := 0
	for _, s := range b.Specialists {
		if s.ID == "" {
			return fmt.Errorf("specialist with empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate specialist id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Model == "" {
			return fmt.Errorf("specialist %q has no model", s.ID)
		}
		if s.Fallback {
			fallbacks++
		}
	}
	if fallbacks > 1 {
		return fmt.Errorf("bundle has %d fallback specialists, at most one allowed", fallbacks)
	}
	return nil
}

// Get returns the specialist with the given id.
func (b *Bundle) Get(id string) (*Specialist, bool) {
	for i := range b.Specialists {
		if b.Specialists[i].ID == id {
			return &b.Specialists[i], true
		}
	}
	return nil, false
}

// FallbackSpecialist returns the designated fallback, if any.
func (b *Bundle) FallbackSpecialist() (*Specialist, bool) {
	for i := range b.Specialists {
		if b.Specialists[i].Fallback {
			return &b.Specialists[i], true
		}
	}
	return nil, false
}

// Domains returns the distinct domain tags across all specialists, in
// bundle order.
func (b *Bundle) Domains() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range b.Specialists {
		for _, d := range s.Domains {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// DefaultBundle returns a small local-model bundle so the harness runs
// without any configuration against a local Ollama.
func DefaultBundle() *Bundle {
	return &Bundle{
		Name:    "local-specialists",
		Version: "1",
		Specialists: []Specialist{
			{
				ID:             "code",
				Model:          "qwen2.5-coder:3b",
				Description:    "code generation, debugging, and refactoring",
				Domains:        []string{"coding"},
				Keywords:       []string{"function", "bug", "code", "debug", "refactor"},
				ParamsBillions: 3,
			},
			{
				ID:             "reasoning",
				Model:          "phi3:mini",
				Description:    "math, logic, and step-by-step reasoning",
				Domains:        []string{"math", "logic"},
				Keywords:       []string{"calculate", "probability", "solve", "prove"},
				Fallback:       true,
				ParamsBillions: 3.8,
			},
			{
				ID:             "writing",
				Model:          "mistral:7b",
				Description:    "summarization, drafting, and editing prose",
				Domains:        []string{"writing"},
				Keywords:       []string{"summarize", "write", "draft", "essay"},
				ParamsBillions: 7,
			},
		},
	}
}
