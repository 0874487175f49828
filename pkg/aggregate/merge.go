package aggregate

import (
	"github.com/zen-systems/specroute/pkg/bench"
)

// CaseAggregate summarizes one test case across runs. Rate metrics
// average 0/1 samples, so Mean is the rate and the margin of error is
// the normal-approximation interval over it.
type CaseAggregate struct {
	TestID          string      `json:"test_id"`
	Runs            int         `json:"runs"`
	RoutingAccuracy Descriptive `json:"routing_accuracy"`
	PassRate        Descriptive `json:"pass_rate"`
	LatencySeconds  Descriptive `json:"latency_seconds"`
	Efficiency      Descriptive `json:"efficiency"`
}

// RunAggregate summarizes whole runs of one strategy.
type RunAggregate struct {
	Strategy string      `json:"strategy"`
	Runs     int         `json:"runs"`
	PassRate Descriptive `json:"pass_rate"`
	Routing  Descriptive `json:"routing_accuracy"`
}

// MergeRuns groups results from multiple runs by test case id and
// summarizes each group. Cases appear in first-seen order, so merging
// runs of the same suite preserves suite order.
func MergeRuns(runs []*bench.Run) []CaseAggregate {
	samples := make(map[string]*caseSamples)
	var order []string

	for _, run := range runs {
		for i := range run.Results {
			res := &run.Results[i]
			cs, ok := samples[res.TestID]
			if !ok {
				cs = &caseSamples{}
				samples[res.TestID] = cs
				order = append(order, res.TestID)
			}
			cs.routing = append(cs.routing, boolSample(res.RoutingCorrect))
			cs.pass = append(cs.pass, boolSample(res.Pass))
			cs.latency = append(cs.latency, res.Latency().Seconds())
			cs.efficiency = append(cs.efficiency, res.Efficiency)
		}
	}

	out := make([]CaseAggregate, 0, len(order))
	for _, id := range order {
		cs := samples[id]
		out = append(out, CaseAggregate{
			TestID:          id,
			Runs:            len(cs.pass),
			RoutingAccuracy: Describe(cs.routing),
			PassRate:        Describe(cs.pass),
			LatencySeconds:  Describe(cs.latency),
			Efficiency:      Describe(cs.efficiency),
		})
	}
	return out
}

// SummarizeRuns computes run-level pass and routing rates across runs.
func SummarizeRuns(runs []*bench.Run) RunAggregate {
	var agg RunAggregate
	var passRates, routingRates []float64
	for _, run := range runs {
		if agg.Strategy == "" {
			agg.Strategy = string(run.Strategy)
		}
		if run.Summary.Total == 0 {
			continue
		}
		total := float64(run.Summary.Total)
		passRates = append(passRates, float64(run.Summary.Passed)/total)
		routingRates = append(routingRates, float64(run.Summary.RoutingCorrect)/total)
	}
	agg.Runs = len(passRates)
	agg.PassRate = Describe(passRates)
	agg.Routing = Describe(routingRates)
	return agg
}

type caseSamples struct {
	routing    []float64
	pass       []float64
	latency    []float64
	efficiency []float64
}

func boolSample(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
