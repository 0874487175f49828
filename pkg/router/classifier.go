package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/zen-systems/specroute/pkg/config"
)

const classifierConfidence = 0.8

// decideClassifier asks a small external model to name one category for
// the query and maps the answer back to a specialist via its domain tags.
func (r *Router) decideClassifier(ctx context.Context, query string, bundle *config.Bundle, cfg *config.ClassifierConfig) *Decision {
	if cfg == nil {
		return r.fallbackDecision(bundle, "classifier config missing")
	}

	prompt := buildClassifierPrompt(query, bundle.Domains())
	raw, err := r.generate(ctx, cfg.Adapter, cfg.Model, prompt)
	if err != nil {
		d := r.fallbackDecision(bundle, fmt.Sprintf("classifier error: %v", err))
		return d
	}

	id, ok := parseClassifierResponse(raw, bundle)
	if !ok {
		d := r.fallbackDecision(bundle, "classifier response matched no domain")
		d.RawOutput = raw
		return d
	}

	return &Decision{
		SpecialistID: id,
		Confidence:   classifierConfidence,
		RawOutput:    raw,
	}
}

// buildClassifierPrompt lists the bundle's distinct domain tags and asks
// for exactly one category name.
func buildClassifierPrompt(query string, domains []string) string {
	var sb strings.Builder
	sb.WriteString("Classify the query into exactly one category.\n")
	sb.WriteString("Categories: ")
	sb.WriteString(strings.Join(domains, ", "))
	sb.WriteString("\n\nQuery: ")
	sb.WriteString(query)
	sb.WriteString("\n\nAnswer with the category name only.")
	return sb.String()
}

// parseClassifierResponse maps the model's free-text answer to the first
// specialist (in bundle order) with a domain tag contained in the
// lowercased response. This is the single fragile-text adapter for the
// classifier strategy; keep all string matching here.
func parseClassifierResponse(raw string, bundle *config.Bundle) (string, bool) {
	respLower := strings.ToLower(strings.TrimSpace(raw))
	if respLower == "" {
		return "", false
	}
	for _, s := range bundle.Specialists {
		for _, domain := range s.Domains {
			if domain == "" {
				continue
			}
			if strings.Contains(respLower, strings.ToLower(domain)) {
				return s.ID, true
			}
		}
	}
	return "", false
}
