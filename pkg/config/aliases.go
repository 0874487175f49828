package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelAliases manages model alias resolution for bundle specialists, so
// bundles can name models by role ("small-coder") instead of pinning a
// tag ("qwen2.5-coder:3b").
type ModelAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads model aliases from a YAML file.
func LoadAliases(path string) (*ModelAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var aliases ModelAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, err
	}
	if aliases.Aliases == nil {
		aliases.Aliases = make(map[string]string)
	}
	return &aliases, nil
}

// Resolve returns the canonical model name for an alias.
// If the input is not an alias, it returns the input unchanged.
func (a *ModelAliases) Resolve(modelOrAlias string) string {
	if a == nil || a.Aliases == nil {
		return modelOrAlias
	}
	if canonical, ok := a.Aliases[modelOrAlias]; ok {
		return canonical
	}
	return modelOrAlias
}

// IsAlias returns true if the given string is a known alias.
func (a *ModelAliases) IsAlias(name string) bool {
	if a == nil || a.Aliases == nil {
		return false
	}
	_, ok := a.Aliases[name]
	return ok
}

// List returns alias names in sorted order.
func (a *ModelAliases) List() []string {
	if a == nil || a.Aliases == nil {
		return nil
	}
	names := make([]string, 0, len(a.Aliases))
	for name := range a.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveBundle returns a copy of the bundle with every specialist's
// model alias resolved to its canonical name.
func (a *ModelAliases) ResolveBundle(b *Bundle) *Bundle {
	if a == nil || b == nil {
		return b
	}
	out := *b
	out.Specialists = make([]Specialist, len(b.Specialists))
	copy(out.Specialists, b.Specialists)
	for i := range out.Specialists {
		out.Specialists[i].Model = a.Resolve(out.Specialists[i].Model)
	}
	return &out
}

// ValidateBundle reports an error for any specialist whose model is an
// alias that resolves to nothing. Advisory only; local servers accept
// arbitrary model names.
func (a *ModelAliases) ValidateBundle(b *Bundle) error {
	if a == nil || b == nil {
		return nil
	}
	for _, s := range b.Specialists {
		if a.IsAlias(s.Model) && a.Aliases[s.Model] == "" {
			return fmt.Errorf("specialist %q: alias %q resolves to an empty model", s.ID, s.Model)
		}
	}
	return nil
}

// DefaultAliases returns the default model aliases configuration.
func DefaultAliases() *ModelAliases {
	return &ModelAliases{
		Aliases: map[string]string{
			"small-coder":      "qwen2.5-coder:3b",
			"small-reasoner":   "phi3:mini",
			"small-generalist": "llama3.2:3b",
			"medium-writer":    "mistral:7b",
		},
	}
}
