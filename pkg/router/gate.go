package router

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zen-systems/specroute/pkg/config"
)

// decideGate asks an external model for a 0-10 relevance score per
// specialist and selects the arg-max. Confidence is the normalized top
// score; below MinConfidence the fallback applies. The top-k candidates
// are reported for diagnostics; their outputs are never combined.
func (r *Router) decideGate(ctx context.Context, query string, bundle *config.Bundle, cfg *config.GateConfig) *Decision {
	if cfg == nil {
		return r.fallbackDecision(bundle, "gate config missing")
	}

	prompt := buildGatePrompt(query, bundle)
	raw, err := r.generate(ctx, cfg.Adapter, cfg.Model, prompt)
	if err != nil {
		return r.fallbackDecision(bundle, fmt.Sprintf("gate error: %v", err))
	}

	scores := parseGateScores(raw, bundle)

	best := -1
	bestScore := 0.0
	for i, s := range bundle.Specialists {
		if best == -1 || scores[s.ID] > bestScore {
			best = i
			bestScore = scores[s.ID]
		}
	}

	confidence := bestScore / 10
	if confidence < cfg.MinConfidence {
		d := r.fallbackDecision(bundle, fmt.Sprintf("top gate score %.1f below floor", bestScore))
		d.Scores = scores
		d.RawOutput = raw
		return d
	}

	selected := bundle.Specialists[best].ID
	topK := cfg.TopK
	if topK <= 0 {
		topK = 2
	}
	alternatives := runnersUp(bundle, scores, selected, topK-1)

	return &Decision{
		SpecialistID: selected,
		Confidence:   confidence,
		Scores:       scores,
		RawOutput:    raw,
		Alternatives: alternatives,
	}
}

func buildGatePrompt(query string, bundle *config.Bundle) string {
	var sb strings.Builder
	sb.WriteString("Rate how relevant each specialist is to the query on a 0-10 scale.\n")
	sb.WriteString("Output one line per specialist in the form \"id: score\".\n\nSpecialists:\n")
	for _, s := range bundle.Specialists {
		sb.WriteString("- ")
		sb.WriteString(s.ID)
		if s.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(s.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nQuery: ")
	sb.WriteString(query)
	return sb.String()
}

// parseGateScores extracts a 0-10 score per specialist with a permissive
// per-specialist pattern. Lines it cannot parse score 0; scores above 10
// are clamped. This is the single fragile-text adapter for the gate
// strategy.
func parseGateScores(raw string, bundle *config.Bundle) map[string]float64 {
	scores := make(map[string]float64, len(bundle.Specialists))
	for _, s := range bundle.Specialists {
		scores[s.ID] = 0

		pattern, err := regexp.Compile(`(?im)` + regexp.QuoteMeta(s.ID) + `\W{0,5}?(\d+(?:\.\d+)?)`)
		if err != nil {
			continue
		}
		m := pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v > 10 {
			v = 10
		}
		if v < 0 {
			v = 0
		}
		scores[s.ID] = v
	}
	return scores
}
