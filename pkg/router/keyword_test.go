package router

import (
	"context"
	"testing"

	"github.com/zen-systems/specroute/pkg/config"
)

func testBundle() *config.Bundle {
	return &config.Bundle{
		Name: "test",
		Specialists: []config.Specialist{
			{ID: "code", Model: "coder", Domains: []string{"coding"}, Keywords: []string{"function", "bug"}},
			{ID: "reasoning", Model: "reasoner", Domains: []string{"math"}, Keywords: []string{"calculate", "probability"}, Fallback: true},
		},
	}
}

func keywordConfig(threshold float64) *config.RouterConfig {
	return &config.RouterConfig{
		Strategy: config.StrategyKeyword,
		Keyword: &config.KeywordConfig{
			SimilarityThreshold: threshold,
			Signatures:          config.SignatureTable{},
		},
	}
}

func TestKeyword_ExactTieBreaksToBundleOrder(t *testing.T) {
	// "function" scores min(1, 8/6)=1 for code; "calculate" and
	// "probability" both score 1 for reasoning, bonus x1.5 capped at 1.
	// Both specialists tie at combined 0.6, so bundle order must win.
	r := New(nil)
	d := r.Decide(context.Background(), "write a function to calculate probability", testBundle(), keywordConfig(0.4), "")

	if d.SpecialistID != "code" {
		t.Fatalf("tie must break to first specialist in bundle order, got %q", d.SpecialistID)
	}
	if d.Scores["code"] != d.Scores["reasoning"] {
		t.Fatalf("expected exact tie, got code=%v reasoning=%v", d.Scores["code"], d.Scores["reasoning"])
	}
	if d.UsedFallback {
		t.Error("tie above threshold must not use fallback")
	}
}

func TestKeyword_ScoreMonotonicInMatches(t *testing.T) {
	bundle := &config.Bundle{
		Name: "mono",
		Specialists: []config.Specialist{
			{ID: "s", Model: "m", Keywords: []string{"sort", "array", "fast"}},
		},
	}
	r := New(nil)
	cfg := keywordConfig(0)

	queries := []string{
		"please help",
		"please sort this",
		"please sort this array",
		"please sort this array fast",
	}
	prev := -1.0
	for _, q := range queries {
		d := r.Decide(context.Background(), q, bundle, cfg, "")
		score := d.Scores["s"]
		if score < prev {
			t.Errorf("score decreased from %v to %v on query %q", prev, score, q)
		}
		prev = score
	}
}

func TestKeyword_ThresholdFallback(t *testing.T) {
	r := New(nil)
	d := r.Decide(context.Background(), "completely unrelated gardening question", testBundle(), keywordConfig(0.4), "")

	if d.SpecialistID != "reasoning" {
		t.Errorf("expected fallback specialist, got %q", d.SpecialistID)
	}
	if !d.UsedFallback {
		t.Error("UsedFallback not set")
	}
	if d.Confidence != 0.1 {
		t.Errorf("fallback confidence = %v, want exactly 0.1", d.Confidence)
	}
}

func TestKeyword_ThresholdNoFallback(t *testing.T) {
	bundle := &config.Bundle{
		Name: "nofb",
		Specialists: []config.Specialist{
			{ID: "code", Model: "m", Keywords: []string{"function"}},
		},
	}
	r := New(nil)
	d := r.Decide(context.Background(), "gardening", bundle, keywordConfig(0.4), "")

	if d.Routed() {
		t.Errorf("expected unroutable decision, got %q", d.SpecialistID)
	}
	if d.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", d.Confidence)
	}
}

func TestKeyword_SignatureScoreContributes(t *testing.T) {
	bundle := &config.Bundle{
		Name: "sig",
		Specialists: []config.Specialist{
			{ID: "math", Model: "m", Domains: []string{"math"}},
			{ID: "other", Model: "m2"},
		},
	}
	cfg := &config.RouterConfig{
		Strategy: config.StrategyKeyword,
		Keyword: &config.KeywordConfig{
			SimilarityThreshold: 0.1,
			Signatures: config.SignatureTable{
				"math": {"standard deviation", "probability"},
			},
		},
	}
	r := New(nil)
	d := r.Decide(context.Background(), "what is the standard deviation and probability here", bundle, cfg, "")

	if d.SpecialistID != "math" {
		t.Fatalf("selected %q, want math", d.SpecialistID)
	}
	// Two phrase matches: (18/20 + 11/20) * 1.5 capped at 1, weighted 0.4.
	want := 0.4
	if diff := d.Scores["math"] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("signature-only combined score = %v, want %v", d.Scores["math"], want)
	}
}

func TestKeyword_AlternativesOrdered(t *testing.T) {
	bundle := &config.Bundle{
		Name: "alts",
		Specialists: []config.Specialist{
			{ID: "a", Model: "m", Keywords: []string{"alpha", "shared"}},
			{ID: "b", Model: "m", Keywords: []string{"shared"}},
			{ID: "c", Model: "m", Keywords: []string{"missing"}},
			{ID: "d", Model: "m", Keywords: []string{"shared word"}},
		},
	}
	r := New(nil)
	d := r.Decide(context.Background(), "alpha shared word", bundle, keywordConfig(0), "")

	if d.SpecialistID != "a" {
		t.Fatalf("selected %q, want a", d.SpecialistID)
	}
	if len(d.Alternatives) != 3 {
		t.Fatalf("alternatives = %v, want 3 entries", d.Alternatives)
	}
	if d.Alternatives[len(d.Alternatives)-1] != "c" {
		t.Errorf("weakest alternative should be c, got %v", d.Alternatives)
	}
}
