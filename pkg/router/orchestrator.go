package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/zen-systems/specroute/pkg/config"
)

const orchestratorConfidence = 0.85

// decideOrchestrator asks a larger external model to name a specialist id
// directly, given each specialist's id and specialization description.
func (r *Router) decideOrchestrator(ctx context.Context, query string, bundle *config.Bundle, cfg *config.OrchestratorConfig) *Decision {
	if cfg == nil {
		return r.fallbackDecision(bundle, "orchestrator config missing")
	}

	prompt := buildOrchestratorPrompt(query, bundle)
	raw, err := r.generate(ctx, cfg.Adapter, cfg.Model, prompt)
	if err != nil {
		return r.fallbackDecision(bundle, fmt.Sprintf("orchestrator error: %v", err))
	}

	id, ok := parseOrchestratorResponse(raw, bundle)
	if !ok {
		d := r.fallbackDecision(bundle, "orchestrator response named no specialist")
		d.RawOutput = raw
		return d
	}

	return &Decision{
		SpecialistID: id,
		Confidence:   orchestratorConfidence,
		RawOutput:    raw,
	}
}

func buildOrchestratorPrompt(query string, bundle *config.Bundle) string {
	var sb strings.Builder
	sb.WriteString("You dispatch queries to specialists. Pick the best one.\n\nSpecialists:\n")
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
	sb.WriteString("\n\nAnswer with the specialist id only.")
	return sb.String()
}

// parseOrchestratorResponse returns the first specialist (in bundle
// order) whose id appears as a substring of the lowercased response.
func parseOrchestratorResponse(raw string, bundle *config.Bundle) (string, bool) {
	respLower := strings.ToLower(strings.TrimSpace(raw))
	if respLower == "" {
		return "", false
	}
	for _, s := range bundle.Specialists {
		if strings.Contains(respLower, strings.ToLower(s.ID)) {
			return s.ID, true
		}
	}
	return "", false
}
