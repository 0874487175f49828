package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/specroute/pkg/bench"
	"github.com/zen-systems/specroute/pkg/config"
)

func runAt(at time.Time, passed, total int) *bench.Run {
	return &bench.Run{
		Strategy:  config.StrategyKeyword,
		StartedAt: at,
		Summary:   bench.RunSummary{Total: total, Passed: passed},
	}
}

func TestPassRateTrend_Improving(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*bench.Run{
		runAt(base, 5, 10),
		runAt(base.Add(time.Hour), 6, 10),
		runAt(base.Add(2*time.Hour), 7, 10),
	}

	trend := PassRateTrend(runs)
	assert.Equal(t, TrendImproving, trend.Direction)
	assert.InDelta(t, 0.1, trend.Slope, 1e-9)
	assert.InDelta(t, 0.5, trend.Intercept, 1e-9)
	assert.Equal(t, 3, trend.Points)
}

func TestPassRateTrend_Degrading(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*bench.Run{
		runAt(base, 9, 10),
		runAt(base.Add(time.Hour), 7, 10),
		runAt(base.Add(2*time.Hour), 5, 10),
	}

	trend := PassRateTrend(runs)
	assert.Equal(t, TrendDegrading, trend.Direction)
	assert.InDelta(t, -0.2, trend.Slope, 1e-9)
}

func TestPassRateTrend_StableWithinBand(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*bench.Run{
		runAt(base, 7, 10),
		runAt(base.Add(time.Hour), 7, 10),
		runAt(base.Add(2*time.Hour), 7, 10),
	}

	trend := PassRateTrend(runs)
	assert.Equal(t, TrendStable, trend.Direction)
	assert.InDelta(t, 0, trend.Slope, 1e-9)
}

func TestPassRateTrend_UnsortedInput(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*bench.Run{
		runAt(base.Add(2*time.Hour), 7, 10),
		runAt(base, 5, 10),
		runAt(base.Add(time.Hour), 6, 10),
	}

	trend := PassRateTrend(runs)
	assert.Equal(t, TrendImproving, trend.Direction, "run order must not affect the fit")
	assert.InDelta(t, 0.1, trend.Slope, 1e-9)
}

func TestPassRateTrend_InsufficientData(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	trend := PassRateTrend(nil)
	assert.Equal(t, TrendInsufficient, trend.Direction)
	assert.Zero(t, trend.Points)

	trend = PassRateTrend([]*bench.Run{runAt(base, 7, 10)})
	assert.Equal(t, TrendInsufficient, trend.Direction)
	assert.Equal(t, 1, trend.Points)

	// Empty runs carry no pass rate and must not count as points.
	trend = PassRateTrend([]*bench.Run{runAt(base, 0, 0), runAt(base.Add(time.Hour), 0, 0)})
	assert.Equal(t, TrendInsufficient, trend.Direction)
}

func TestMergeRuns_GroupsByCase(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	run1 := &bench.Run{
		StartedAt: base,
		Results: []bench.ScoredResult{
			{TestID: "math", RoutingCorrect: true, Pass: true, Efficiency: 20},
			{TestID: "code", RoutingCorrect: true, Pass: false},
		},
	}
	run2 := &bench.Run{
		StartedAt: base.Add(time.Hour),
		Results: []bench.ScoredResult{
			{TestID: "math", RoutingCorrect: false, Pass: false},
			{TestID: "code", RoutingCorrect: true, Pass: true, Efficiency: 10},
		},
	}

	merged := MergeRuns([]*bench.Run{run1, run2})
	require.Len(t, merged, 2)
	assert.Equal(t, "math", merged[0].TestID, "first-seen order is preserved")

	math := merged[0]
	assert.Equal(t, 2, math.Runs)
	assert.InDelta(t, 0.5, math.RoutingAccuracy.Mean, 1e-9)
	assert.InDelta(t, 0.5, math.PassRate.Mean, 1e-9)
	assert.InDelta(t, 10, math.Efficiency.Mean, 1e-9)

	code := merged[1]
	assert.InDelta(t, 1.0, code.RoutingAccuracy.Mean, 1e-9)
	assert.InDelta(t, 0.5, code.PassRate.Mean, 1e-9)
}

func TestSummarizeRuns(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []*bench.Run{
		runAt(base, 8, 10),
		runAt(base.Add(time.Hour), 6, 10),
	}
	runs[0].Summary.RoutingCorrect = 10
	runs[1].Summary.RoutingCorrect = 8

	agg := SummarizeRuns(runs)
	assert.Equal(t, 2, agg.Runs)
	assert.Equal(t, string(config.StrategyKeyword), agg.Strategy)
	assert.InDelta(t, 0.7, agg.PassRate.Mean, 1e-9)
	assert.InDelta(t, 0.9, agg.Routing.Mean, 1e-9)
}
