package router

import "github.com/zen-systems/specroute/pkg/config"

// decideOracle returns the expected specialist directly with confidence
// 1.0 and zero latency. Upper-bound baseline only, never a production
// strategy.
func (r *Router) decideOracle(bundle *config.Bundle, expected string) *Decision {
	if expected == "" {
		return r.fallbackDecision(bundle, "oracle requires an expected specialist")
	}
	if _, ok := bundle.Get(expected); !ok {
		return r.fallbackDecision(bundle, "expected specialist not in bundle")
	}
	return &Decision{
		SpecialistID: expected,
		Confidence:   1.0,
	}
}
