package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{10, 20, 30})
	assert.Equal(t, 3, d.Count)
	assert.InDelta(t, 20, d.Mean, 1e-9)
	assert.InDelta(t, 10, d.StdDev, 1e-9)
	assert.InDelta(t, 10, d.Min, 1e-9)
	assert.InDelta(t, 30, d.Max, 1e-9)
	assert.InDelta(t, 20, d.Median, 1e-9)
}

func TestDescribe_Degenerate(t *testing.T) {
	assert.Equal(t, Descriptive{}, Describe(nil))

	single := Describe([]float64{42})
	assert.Equal(t, 1, single.Count)
	assert.InDelta(t, 42, single.Mean, 1e-9)
	assert.Zero(t, single.StdDev, "sample deviation is undefined for one sample")
	assert.InDelta(t, 42, single.Median, 1e-9)
}

func TestMarginOfError(t *testing.T) {
	d := Describe([]float64{10, 20, 30})

	want95 := 1.96 * 10 / math.Sqrt(3)
	assert.InDelta(t, want95, d.MarginOfError(0.95), 1e-9)
	assert.InDelta(t, 1.645*10/math.Sqrt(3), d.MarginOfError(0.90), 1e-9)
	assert.InDelta(t, 2.576*10/math.Sqrt(3), d.MarginOfError(0.99), 1e-9)

	lo, hi := d.Interval(0.95)
	assert.InDelta(t, 20-want95, lo, 1e-9)
	assert.InDelta(t, 20+want95, hi, 1e-9)
}

func TestMarginOfError_ShrinksWithSampleSize(t *testing.T) {
	// Same spread, four times the samples: the margin must at least halve
	// (sqrt(n) in the denominator, and the sample deviation shrinks a
	// little too as n-1 grows).
	small := Describe([]float64{10, 20, 20, 30})
	big := Describe([]float64{
		10, 20, 20, 30,
		10, 20, 20, 30,
		10, 20, 20, 30,
		10, 20, 20, 30,
	})
	ratio := big.MarginOfError(0.95) / small.MarginOfError(0.95)
	assert.Greater(t, ratio, 0.0)
	assert.LessOrEqual(t, ratio, 0.5)
}

func TestMarginOfError_SingleSampleIsZero(t *testing.T) {
	d := Describe([]float64{42})
	assert.Zero(t, d.MarginOfError(0.95))

	lo, hi := d.Interval(0.95)
	assert.Equal(t, lo, hi)
}
