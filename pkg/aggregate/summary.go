// Package aggregate computes descriptive statistics, confidence
// intervals, and pass-rate trends over benchmark runs.
package aggregate

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Descriptive summarizes one metric's samples. StdDev is the sample
// standard deviation and is zero below two samples.
type Descriptive struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Describe computes descriptive statistics over the samples. An empty
// input yields the zero value.
func Describe(values []float64) Descriptive {
	if len(values) == 0 {
		return Descriptive{}
	}

	data := stats.Float64Data(values)
	d := Descriptive{Count: len(values)}
	d.Mean, _ = stats.Mean(data)
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	d.Median, _ = stats.Median(data)
	if len(values) >= 2 {
		d.StdDev, _ = stats.StandardDeviationSample(data)
	}
	return d
}

// zScore maps a confidence level to its two-sided normal critical value.
// Unrecognized levels use the 95% value.
func zScore(confidence float64) float64 {
	switch confidence {
	case 0.90:
		return 1.645
	case 0.99:
		return 2.576
	default:
		return 1.96
	}
}

// MarginOfError returns the confidence-interval half-width at the given
// level (0.90, 0.95, or 0.99), using the normal approximation
// z * sd / sqrt(n). Below two samples the margin is zero.
func (d Descriptive) MarginOfError(confidence float64) float64 {
	if d.Count < 2 {
		return 0
	}
	return zScore(confidence) * d.StdDev / math.Sqrt(float64(d.Count))
}

// Interval returns the confidence interval around the mean.
func (d Descriptive) Interval(confidence float64) (lo, hi float64) {
	m := d.MarginOfError(confidence)
	return d.Mean - m, d.Mean + m
}
