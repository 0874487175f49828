package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/zen-systems/specroute/pkg/bench"
)

// Direction classifies a pass-rate trend.
type Direction string

const (
	TrendImproving    Direction = "improving"
	TrendDegrading    Direction = "degrading"
	TrendStable       Direction = "stable"
	TrendInsufficient Direction = "insufficient_data"
)

// slopeBand is the per-hour pass-rate slope magnitude below which a
// trend is called stable.
const slopeBand = 0.001

// Trend is a least-squares fit of run pass rates over time.
type Trend struct {
	Direction Direction `json:"direction"`
	// Slope is the pass-rate change per hour.
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Points    int     `json:"points"`
}

// PassRateTrend fits run pass rates against hours since the earliest
// run. Fewer than two runs, or runs that all share one timestamp,
// report insufficient data.
func PassRateTrend(runs []*bench.Run) Trend {
	type point struct {
		at   float64 // hours since first run
		rate float64
	}

	sorted := make([]*bench.Run, 0, len(runs))
	for _, run := range runs {
		if run != nil && run.Summary.Total > 0 {
			sorted = append(sorted, run)
		}
	}
	if len(sorted) < 2 {
		return Trend{Direction: TrendInsufficient, Points: len(sorted)}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	first := sorted[0].StartedAt
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, run := range sorted {
		xs[i] = run.StartedAt.Sub(first).Hours()
		ys[i] = float64(run.Summary.Passed) / float64(run.Summary.Total)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		// All runs at the same instant; no time axis to fit against.
		return Trend{Direction: TrendInsufficient, Points: len(sorted)}
	}

	t := Trend{Slope: slope, Intercept: intercept, Points: len(sorted)}
	switch {
	case slope > slopeBand:
		t.Direction = TrendImproving
	case slope < -slopeBand:
		t.Direction = TrendDegrading
	default:
		t.Direction = TrendStable
	}
	return t
}
