package router

import (
	"context"
	"math"
	"testing"

	"github.com/zen-systems/specroute/pkg/adapter"
	"github.com/zen-systems/specroute/pkg/config"
)

// ensembleFixture wires classifier members to separately scripted mock
// adapters so each member's vote is controlled per test. Answers are
// keyed by the exact classifier prompt for the shared "anything" query;
// the mock's echoing default response would otherwise leak the prompt's
// own domain list into the parse.
func ensembleFixture(t *testing.T, voting config.VotingMethod, answers ...string) (*Router, *config.Bundle, *config.RouterConfig) {
	t.Helper()
	bundle := testBundle()
	prompt := buildClassifierPrompt("anything", bundle.Domains())

	adapters := make(map[string]adapter.Adapter, len(answers))
	members := make([]config.RouterConfig, len(answers))
	for i, answer := range answers {
		name := string(rune('a' + i))
		adapters[name] = adapter.NewMockAdapterWithResponses(map[string]string{prompt: answer}, "")
		members[i] = config.RouterConfig{
			Strategy:   config.StrategyClassifier,
			Classifier: &config.ClassifierConfig{Adapter: name, Model: "mock-1"},
		}
	}

	cfg := &config.RouterConfig{
		Strategy: config.StrategyEnsemble,
		Ensemble: &config.EnsembleConfig{Voting: voting, Members: members},
	}
	return New(adapters), bundle, cfg
}

func TestEnsemble_MajorityTwoOfThree(t *testing.T) {
	// Two members classify the query as coding, one as math.
	r, bundle, cfg := ensembleFixture(t, config.VoteMajority, "coding", "coding", "math")

	d := r.Decide(context.Background(), "anything", bundle, cfg, "")
	if d.SpecialistID != "code" {
		t.Fatalf("selected %q, want code", d.SpecialistID)
	}
	if math.Abs(d.Confidence-2.0/3.0) > 1e-9 {
		t.Errorf("confidence = %v, want 2/3", d.Confidence)
	}
	if len(d.Alternatives) != 1 || d.Alternatives[0] != "reasoning" {
		t.Errorf("alternatives = %v, want [reasoning]", d.Alternatives)
	}
}

func TestEnsemble_MajorityTieBreaksToFirstMember(t *testing.T) {
	// One vote each: the tie must break to the first member as listed in
	// configuration. Deterministic but arbitrary by design.
	r, bundle, cfg := ensembleFixture(t, config.VoteMajority, "math", "coding")

	d := r.Decide(context.Background(), "anything", bundle, cfg, "")
	if d.SpecialistID != "reasoning" {
		t.Fatalf("tie must break to first member's choice, got %q", d.SpecialistID)
	}
	if d.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 1/2", d.Confidence)
	}
}

func TestEnsemble_Weighted(t *testing.T) {
	// Classifier votes carry the fixed 0.8 confidence each: coding gets
	// 1.6 of the 2.4 total.
	r, bundle, cfg := ensembleFixture(t, config.VoteWeighted, "coding", "coding", "math")

	d := r.Decide(context.Background(), "anything", bundle, cfg, "")
	if d.SpecialistID != "code" {
		t.Fatalf("selected %q, want code", d.SpecialistID)
	}
	if math.Abs(d.Confidence-1.6/2.4) > 1e-9 {
		t.Errorf("confidence = %v, want 1.6/2.4", d.Confidence)
	}
}

func TestEnsemble_UnanimousAgreement(t *testing.T) {
	r, bundle, cfg := ensembleFixture(t, config.VoteUnanimous, "coding", "coding")

	d := r.Decide(context.Background(), "anything", bundle, cfg, "")
	if d.SpecialistID != "code" {
		t.Fatalf("selected %q, want code", d.SpecialistID)
	}
	if math.Abs(d.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want mean member confidence 0.8", d.Confidence)
	}
}

func TestEnsemble_UnanimousDisagreementFallsBack(t *testing.T) {
	r, bundle, cfg := ensembleFixture(t, config.VoteUnanimous, "coding", "math")

	d := r.Decide(context.Background(), "anything", bundle, cfg, "")
	if !d.UsedFallback || d.SpecialistID != "reasoning" {
		t.Errorf("disagreement must fall back, got %+v", d)
	}
}

func TestEnsemble_AllMembersUnroutable(t *testing.T) {
	bundle := &config.Bundle{
		Name: "nofb",
		Specialists: []config.Specialist{
			{ID: "code", Model: "m", Domains: []string{"coding"}},
		},
	}
	prompt := buildClassifierPrompt("anything", bundle.Domains())
	adapters := map[string]adapter.Adapter{
		"a": adapter.NewMockAdapterWithResponses(map[string]string{prompt: "no category fits"}, ""),
		"b": adapter.NewMockAdapterWithResponses(map[string]string{prompt: "no category fits"}, ""),
	}
	cfg := &config.RouterConfig{
		Strategy: config.StrategyEnsemble,
		Ensemble: &config.EnsembleConfig{
			Voting: config.VoteMajority,
			Members: []config.RouterConfig{
				{Strategy: config.StrategyClassifier, Classifier: &config.ClassifierConfig{Adapter: "a", Model: "m"}},
				{Strategy: config.StrategyClassifier, Classifier: &config.ClassifierConfig{Adapter: "b", Model: "m"}},
			},
		},
	}

	d := New(adapters).Decide(context.Background(), "anything", bundle, cfg, "")
	if d.Routed() {
		t.Errorf("expected unroutable decision without fallback, got %q", d.SpecialistID)
	}
}
