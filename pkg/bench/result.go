package bench

import (
	"time"

	"github.com/zen-systems/specroute/pkg/invoker"
	"github.com/zen-systems/specroute/pkg/router"
)

// ScoredResult composes a test case's routing decision, invocation, and
// score. One is produced per test case, failures included, so a run's
// results collection is always sized to its input.
type ScoredResult struct {
	TestID    string    `json:"test_id"`
	Timestamp time.Time `json:"timestamp"`

	// SpecialistID and Model are what was actually invoked, after
	// fallback and config-inconsistency substitution. Empty when the
	// route was a terminal failure.
	SpecialistID string `json:"specialist_id,omitempty"`
	Model        string `json:"model,omitempty"`

	Decision   *router.Decision `json:"decision"`
	Invocation *invoker.Result  `json:"invocation,omitempty"`

	RoutingCorrect bool `json:"routing_correct"`
	Pass           bool `json:"pass"`

	// Efficiency is (pass ? 100 : 0) / (params_billions x latency_s),
	// zero when either denominator term is zero or negative.
	Efficiency float64 `json:"efficiency"`
}

// Latency returns the end-to-end wall time for the test case: routing
// decision plus invocation.
func (r *ScoredResult) Latency() time.Duration {
	var total time.Duration
	if r.Decision != nil {
		total += r.Decision.Latency
	}
	if r.Invocation != nil {
		total += r.Invocation.Meta.TotalTime
	}
	return total
}

// RunSummary aggregates headline counters for one run. Client-side gate
// timeouts and server-side overload rejections are kept distinct so the
// two overload causes stay distinguishable in reports.
type RunSummary struct {
	Total           int `json:"total"`
	Passed          int `json:"passed"`
	RoutingCorrect  int `json:"routing_correct"`
	RoutingFailures int `json:"routing_failures"`
	InvocationFails int `json:"invocation_failures"`
	GateTimeouts    int `json:"gate_timeouts"`
	Overloads       int `json:"overloads"`
}

// Summarize computes headline counters over a result set.
func Summarize(results []ScoredResult) RunSummary {
	s := RunSummary{Total: len(results)}
	for _, r := range results {
		if r.Pass {
			s.Passed++
		}
		if r.RoutingCorrect {
			s.RoutingCorrect++
		}
		if r.Decision != nil && !r.Decision.Routed() {
			s.RoutingFailures++
		}
		if r.Invocation != nil && r.Invocation.Failed {
			s.InvocationFails++
			if r.Invocation.GateTimeout {
				s.GateTimeouts++
			}
			if r.Invocation.Overloaded {
				s.Overloads++
			}
		}
	}
	return s
}
