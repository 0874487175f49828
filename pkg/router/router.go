// Package router selects one specialist from a bundle for a query using
// interchangeable strategies: local keyword/signature scoring, external
// model classification or orchestration, multi-candidate gating, an
// oracle baseline, and a voting ensemble over the others.
package router

import (
	"context"
	"log"
	"time"

	"github.com/zen-systems/specroute/pkg/adapter"
	"github.com/zen-systems/specroute/pkg/config"
)

// Router routes queries to bundle specialists. A Router is safe for
// concurrent use; all per-query state lives in the returned Decision.
type Router struct {
	adapters map[string]adapter.Adapter
	debug    bool
}

// Option configures a Router.
type Option func(*Router)

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(r *Router) {
		r.debug = debug
	}
}

// New creates a router over the given adapters. Strategies that consult
// an external model look their adapter up by name at decision time.
func New(adapters map[string]adapter.Adapter, opts ...Option) *Router {
	r := &Router{adapters: adapters}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decide selects a specialist for the query. It never returns an error
// for a well-formed bundle and config: external failures and unparseable
// model output degrade to the bundle fallback, or to an empty specialist
// id at confidence 0 when no fallback exists. expected is consulted only
// by the oracle strategy and may be empty otherwise.
func (r *Router) Decide(ctx context.Context, query string, bundle *config.Bundle, cfg *config.RouterConfig, expected string) *Decision {
	start := time.Now()

	var d *Decision
	switch cfg.Strategy {
	case config.StrategyKeyword:
		d = r.decideKeyword(query, bundle, cfg.Keyword)
	case config.StrategyClassifier:
		d = r.decideClassifier(ctx, query, bundle, cfg.Classifier)
	case config.StrategyOrchestrator:
		d = r.decideOrchestrator(ctx, query, bundle, cfg.Orchestrator)
	case config.StrategyGate:
		d = r.decideGate(ctx, query, bundle, cfg.Gate)
	case config.StrategyOracle:
		d = r.decideOracle(bundle, expected)
	case config.StrategyEnsemble:
		d = r.decideEnsemble(ctx, query, bundle, cfg.Ensemble)
	default:
		d = r.fallbackDecision(bundle, "unknown strategy")
	}

	d.Strategy = cfg.Strategy
	if cfg.Strategy != config.StrategyOracle {
		d.Latency = time.Since(start)
	}
	if r.debug {
		log.Printf("[router] strategy=%s specialist=%q confidence=%.2f fallback=%v",
			cfg.Strategy, d.SpecialistID, d.Confidence, d.UsedFallback)
	}
	return d
}

// fallbackDecision returns the bundle's fallback specialist at the fixed
// fallback confidence of 0.1, or an unroutable decision when the bundle
// has no fallback.
func (r *Router) fallbackDecision(bundle *config.Bundle, reason string) *Decision {
	if fb, ok := bundle.FallbackSpecialist(); ok {
		return &Decision{
			SpecialistID: fb.ID,
			Confidence:   0.1,
			UsedFallback: true,
			Reasons:      []string{reason},
		}
	}
	return &Decision{
		Confidence: 0,
		Reasons:    []string{reason, "no fallback specialist configured"},
	}
}

// generate runs a routing prompt against a named adapter. A missing
// adapter or a backend failure returns an empty string; callers treat
// that exactly like an unparseable response.
func (r *Router) generate(ctx context.Context, adapterName, model, prompt string) (string, error) {
	a, ok := r.adapters[adapterName]
	if !ok || a == nil {
		return "", errUnknownAdapter(adapterName)
	}
	resp, err := a.Generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errEmptyResponse
	}
	return resp.Text, nil
}
