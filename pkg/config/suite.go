package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// TestCase defines one benchmark query and how to judge the response.
type TestCase struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
	// Context, when set, is prepended to the prompt before invocation.
	Context string `yaml:"context,omitempty"`
	// ExpectedSpecialist drives the routing-accuracy metric and the
	// oracle strategy. Empty means routing correctness is not scored.
	ExpectedSpecialist string `yaml:"expected_specialist,omitempty"`

	// Response validation rules. ExpectedContains passes when at least
	// one string is present; ExpectedRegex passes on match;
	// ExpectedNotContains vetoes the result when any string is present.
	ExpectedContains    []string `yaml:"expected_contains,omitempty"`
	ExpectedRegex       string   `yaml:"expected_regex,omitempty"`
	ExpectedNotContains []string `yaml:"expected_not_contains,omitempty"`
}

// HasContentRules reports whether the case validates response content.
// Without content rules, pass/fail equals routing correctness.
func (tc *TestCase) HasContentRules() bool {
	return len(tc.ExpectedContains) > 0 || tc.ExpectedRegex != ""
}

// Suite is an ordered collection of test cases.
type Suite struct {
	Name  string     `yaml:"name"`
	Cases []TestCase `yaml:"cases"`
}

// LoadSuite reads a test suite from a YAML file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks case ids are unique and regexes compile.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite has no cases")
	}
	seen := make(map[string]bool, len(s.Cases))
	for _, tc := range s.Cases {
		if tc.ID == "" {
			return fmt.Errorf("test case with empty id")
		}
		if seen[tc.ID] {
			return fmt.Errorf("duplicate test case id %q", tc.ID)
		}
		seen[tc.ID] = true
		if tc.Prompt == "" {
			return fmt.Errorf("test case %q has no prompt", tc.ID)
		}
		if tc.ExpectedRegex != "" {
			if _, err := regexp.Compile(tc.ExpectedRegex); err != nil {
				return fmt.Errorf("test case %q: bad regex: %w", tc.ID, err)
			}
		}
	}
	return nil
}

// DefaultSuite returns a tiny smoke suite matching the default bundle.
func DefaultSuite() *Suite {
	return &Suite{
		Name: "smoke",
		Cases: []TestCase{
			{
				ID:                 "smoke-math",
				Prompt:             "Calculate the probability of rolling two sixes in a row.",
				ExpectedSpecialist: "reasoning",
				ExpectedContains:   []string{"1/36", "0.027", "2.7"},
			},
			{
				ID:                 "smoke-code",
				Prompt:             "Write a function that reverses a string in Go.",
				ExpectedSpecialist: "code",
				ExpectedContains:   []string{"func"},
			},
			{
				ID:                 "smoke-writing",
				Prompt:             "Summarize the plot of Hamlet in two sentences.",
				ExpectedSpecialist: "writing",
			},
		},
	}
}
