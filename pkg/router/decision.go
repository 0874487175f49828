package router

import (
	"time"

	"github.com/zen-systems/specroute/pkg/config"
)

// Candidate captures a scored routing candidate.
type Candidate struct {
	SpecialistID string  `json:"specialist_id"`
	Score        float64 `json:"score"`
}

// Decision captures a routing decision. A Decision is created fresh per
// query and never mutated after being returned.
type Decision struct {
	// SpecialistID is empty when no specialist cleared the threshold and
	// the bundle has no fallback. That is a terminal routing failure for
	// the query, not a retry signal.
	SpecialistID string          `json:"specialist_id,omitempty"`
	Confidence   float64         `json:"confidence"`
	Strategy     config.Strategy `json:"strategy"`
	Latency      time.Duration   `json:"latency"`
	UsedFallback bool            `json:"used_fallback,omitempty"`

	// Diagnostics.
	Alternatives []string           `json:"alternatives,omitempty"` // runner-up ids, best first
	Scores       map[string]float64 `json:"scores,omitempty"`       // per-specialist score map
	RawOutput    string             `json:"raw_output,omitempty"`   // raw model output, external strategies
	Reasons      []string           `json:"reasons,omitempty"`
}

// Routed reports whether a specialist was selected.
func (d *Decision) Routed() bool {
	return d != nil && d.SpecialistID != ""
}

// Correct reports routing correctness against an expected specialist id.
// An empty expected id means correctness is not defined and reports false.
func (d *Decision) Correct(expected string) bool {
	return d != nil && expected != "" && d.SpecialistID == expected
}
