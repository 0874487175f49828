// Package bench runs a test suite through the router and invoker and
// scores each case: routing correctness against the expected specialist,
// response correctness against content rules, and a size/latency
// efficiency figure.
package bench

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zen-systems/specroute/pkg/config"
	"github.com/zen-systems/specroute/pkg/invoker"
	"github.com/zen-systems/specroute/pkg/router"
)

// Run holds the outcome of one benchmark execution.
type Run struct {
	ID        string          `json:"id"`
	Suite     string          `json:"suite"`
	Bundle    string          `json:"bundle"`
	Strategy  config.Strategy `json:"strategy"`
	StartedAt time.Time       `json:"started_at"`
	Elapsed   time.Duration   `json:"elapsed"`
	Results   []ScoredResult  `json:"results"`
	Summary   RunSummary      `json:"summary"`
}

// Runner executes suites against a bundle with a fixed strategy.
type Runner struct {
	router  *router.Router
	invoker *invoker.Invoker
	// parallelism is the routing/scoring worker count; the invoker's own
	// gate bounds concurrent generation calls independently.
	parallelism int
	debug       bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithParallelism sets the worker count. Values below 2 keep the run
// sequential in suite order.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) {
		if n > 1 {
			r.parallelism = n
		}
	}
}

// WithRunnerDebug enables debug logging.
func WithRunnerDebug(debug bool) RunnerOption {
	return func(r *Runner) {
		r.debug = debug
	}
}

// NewRunner creates a benchmark runner.
func NewRunner(rt *router.Router, inv *invoker.Invoker, opts ...RunnerOption) *Runner {
	r := &Runner{router: rt, invoker: inv, parallelism: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs every case in the suite and returns one result per case,
// failures included. Individual case failures never abort the run.
func (r *Runner) Execute(ctx context.Context, suite *config.Suite, bundle *config.Bundle, cfg *config.RouterConfig) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Suite:     suite.Name,
		Bundle:    bundle.Name,
		Strategy:  cfg.Strategy,
		StartedAt: time.Now(),
		Results:   make([]ScoredResult, len(suite.Cases)),
	}

	if r.parallelism > 1 {
		// Each worker owns a distinct slot of the results slice, so the
		// run's contents are independent of completion order.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.parallelism)
		for i := range suite.Cases {
			g.Go(func() error {
				run.Results[i] = r.runCase(gctx, &suite.Cases[i], bundle, cfg)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors
	} else {
		for i := range suite.Cases {
			run.Results[i] = r.runCase(ctx, &suite.Cases[i], bundle, cfg)
		}
	}

	run.Elapsed = time.Since(run.StartedAt)
	run.Summary = Summarize(run.Results)
	if r.debug {
		log.Printf("[bench] run %s: %d/%d passed, %d routing failures, %d gate timeouts",
			run.ID, run.Summary.Passed, run.Summary.Total,
			run.Summary.RoutingFailures, run.Summary.GateTimeouts)
	}
	return run
}

// runCase routes, invokes, and scores a single test case.
func (r *Runner) runCase(ctx context.Context, tc *config.TestCase, bundle *config.Bundle, cfg *config.RouterConfig) ScoredResult {
	res := ScoredResult{
		TestID:    tc.ID,
		Timestamp: time.Now(),
	}

	res.Decision = r.router.Decide(ctx, tc.Prompt, bundle, cfg, tc.ExpectedSpecialist)
	res.RoutingCorrect = res.Decision.Correct(tc.ExpectedSpecialist)

	// An unroutable decision is a routing failure: the case is recorded
	// as failed without spending an invocation.
	if !res.Decision.Routed() {
		if r.debug {
			log.Printf("[bench] %s: unroutable, skipping invocation", tc.ID)
		}
		return res
	}

	spec := resolveSpecialist(bundle, res.Decision.SpecialistID)
	res.SpecialistID = spec.ID
	res.Model = spec.Model

	prompt := tc.Prompt
	if tc.Context != "" {
		prompt = tc.Context + "\n\n" + prompt
	}
	res.Invocation = r.invoker.Invoke(ctx, spec.Model, prompt)

	if res.Invocation.Failed {
		res.Pass = false
		return res
	}

	res.Pass = scoreResponse(tc, res.Invocation.Response, res.RoutingCorrect)
	res.Efficiency = efficiencyScore(res.Pass, spec.ParamsBillions,
		res.Invocation.Meta.TotalTime.Seconds())
	return res
}

// resolveSpecialist maps a decision's specialist id back to the bundle.
// An id the bundle does not contain is a config inconsistency, resolved
// to the bundle's first specialist so the case still runs.
func resolveSpecialist(bundle *config.Bundle, id string) *config.Specialist {
	if s, ok := bundle.Get(id); ok {
		return s
	}
	return &bundle.Specialists[0]
}
