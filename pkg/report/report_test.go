package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zen-systems/specroute/pkg/aggregate"
	"github.com/zen-systems/specroute/pkg/bench"
	"github.com/zen-systems/specroute/pkg/config"
	"github.com/zen-systems/specroute/pkg/router"
)

func TestRunMarkdown(t *testing.T) {
	run := &bench.Run{
		ID:        "run-1",
		Suite:     "smoke",
		Bundle:    "local-specialists",
		Strategy:  config.StrategyKeyword,
		StartedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   3200 * time.Millisecond,
		Results: []bench.ScoredResult{
			{
				TestID:         "smoke-code",
				SpecialistID:   "code",
				Model:          "qwen2.5-coder:3b",
				Decision:       &router.Decision{SpecialistID: "code", Confidence: 0.8},
				RoutingCorrect: true,
				Pass:           true,
				Efficiency:     16.67,
			},
			{
				TestID:   "smoke-unroutable",
				Decision: &router.Decision{},
			},
		},
		Summary: bench.RunSummary{Total: 2, Passed: 1, RoutingCorrect: 1, RoutingFailures: 1},
	}

	md := RunMarkdown(run)
	assert.Contains(t, md, "# Benchmark Run run-1")
	assert.Contains(t, md, "- Strategy: keyword-signature")
	assert.Contains(t, md, "- Passed: 1/2 (routing correct 1)")
	assert.Contains(t, md, "- Routing failures: 1")
	assert.Contains(t, md, "| smoke-code | code | qwen2.5-coder:3b | yes | yes |")
	assert.Contains(t, md, "| smoke-unroutable | - | - | no | no |")
}

func TestRunMarkdown_OverloadCountersOnlyWhenPresent(t *testing.T) {
	run := &bench.Run{ID: "r", Summary: bench.RunSummary{Total: 1, Passed: 1}}
	assert.NotContains(t, RunMarkdown(run), "Gate timeouts")

	run.Summary.GateTimeouts = 1
	assert.Contains(t, RunMarkdown(run), "Gate timeouts: 1, server overloads: 0")
}

func TestAggregateMarkdown(t *testing.T) {
	cases := []aggregate.CaseAggregate{
		{
			TestID:          "smoke-math",
			Runs:            4,
			RoutingAccuracy: aggregate.Describe([]float64{1, 1, 1, 1}),
			PassRate:        aggregate.Describe([]float64{1, 0, 1, 1}),
			LatencySeconds:  aggregate.Describe([]float64{1.5, 2.0, 1.8, 1.7}),
			Efficiency:      aggregate.Describe([]float64{12, 0, 14, 13}),
		},
	}
	trend := aggregate.Trend{Direction: aggregate.TrendImproving, Slope: 0.05, Points: 4}

	md := AggregateMarkdown(cases, trend)
	assert.Contains(t, md, "| smoke-math | 4 | 100% ± 0% | 75% ±")
	assert.Contains(t, md, "Pass rate is **improving**: +0.0500 per hour over 4 runs.")
}

func TestAggregateMarkdown_InsufficientData(t *testing.T) {
	md := AggregateMarkdown(nil, aggregate.Trend{Direction: aggregate.TrendInsufficient, Points: 1})
	assert.Contains(t, md, "Insufficient data for a trend (1 run(s)).")
	assert.Equal(t, 1, strings.Count(md, "## Trend"))
}
