// Package report renders runs and cross-run aggregates as markdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/zen-systems/specroute/pkg/aggregate"
	"github.com/zen-systems/specroute/pkg/bench"
)

// RunMarkdown renders one run as a markdown document: a header with the
// headline counters, then one table row per test case.
func RunMarkdown(run *bench.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Benchmark Run %s\n\n", run.ID)
	fmt.Fprintf(&b, "- Suite: %s\n", run.Suite)
	fmt.Fprintf(&b, "- Bundle: %s\n", run.Bundle)
	fmt.Fprintf(&b, "- Strategy: %s\n", run.Strategy)
	fmt.Fprintf(&b, "- Started: %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Elapsed: %s\n", run.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "- Passed: %d/%d (routing correct %d)\n",
		run.Summary.Passed, run.Summary.Total, run.Summary.RoutingCorrect)
	if run.Summary.RoutingFailures > 0 {
		fmt.Fprintf(&b, "- Routing failures: %d\n", run.Summary.RoutingFailures)
	}
	if run.Summary.GateTimeouts > 0 || run.Summary.Overloads > 0 {
		fmt.Fprintf(&b, "- Gate timeouts: %d, server overloads: %d\n",
			run.Summary.GateTimeouts, run.Summary.Overloads)
	}

	b.WriteString("\n| Test | Specialist | Model | Routed | Pass | Latency | Tok/s | Efficiency |\n")
	b.WriteString("|------|-----------|-------|--------|------|---------|-------|------------|\n")
	for i := range run.Results {
		res := &run.Results[i]
		tokPerSec := 0.0
		if res.Invocation != nil {
			tokPerSec = res.Invocation.Meta.TokensPerSec
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %.1f | %.2f |\n",
			res.TestID,
			orDash(res.SpecialistID),
			orDash(res.Model),
			mark(res.RoutingCorrect),
			mark(res.Pass),
			res.Latency().Round(time.Millisecond),
			tokPerSec,
			res.Efficiency)
	}
	return b.String()
}

// AggregateMarkdown renders per-case statistics across runs, with 95%
// confidence margins on the rates, plus the overall pass-rate trend.
func AggregateMarkdown(cases []aggregate.CaseAggregate, trend aggregate.Trend) string {
	var b strings.Builder

	b.WriteString("# Aggregate Report\n\n")
	b.WriteString("| Test | Runs | Routing | Pass Rate | Latency (s) | Efficiency |\n")
	b.WriteString("|------|------|---------|-----------|-------------|------------|\n")
	for _, c := range cases {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %.2f ± %.2f | %.2f |\n",
			c.TestID,
			c.Runs,
			rate(c.RoutingAccuracy),
			rate(c.PassRate),
			c.LatencySeconds.Mean, c.LatencySeconds.MarginOfError(0.95),
			c.Efficiency.Mean)
	}

	b.WriteString("\n## Trend\n\n")
	switch trend.Direction {
	case aggregate.TrendInsufficient:
		fmt.Fprintf(&b, "Insufficient data for a trend (%d run(s)).\n", trend.Points)
	default:
		fmt.Fprintf(&b, "Pass rate is **%s**: %+.4f per hour over %d runs.\n",
			trend.Direction, trend.Slope, trend.Points)
	}
	return b.String()
}

// rate formats a 0/1-sample mean as a percentage with its 95% margin.
func rate(d aggregate.Descriptive) string {
	if d.Count < 2 {
		return fmt.Sprintf("%.0f%%", d.Mean*100)
	}
	return fmt.Sprintf("%.0f%% ± %.0f%%", d.Mean*100, d.MarginOfError(0.95)*100)
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
