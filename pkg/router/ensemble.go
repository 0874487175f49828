package router

import (
	"context"
	"fmt"

	"github.com/zen-systems/specroute/pkg/config"
)

// decideEnsemble runs every member strategy against the same query and
// combines their choices by the configured voting method. Ties are broken
// by first-encountered order among members as listed in configuration; a
// deterministic but arbitrary policy, asserted in tests.
func (r *Router) decideEnsemble(ctx context.Context, query string, bundle *config.Bundle, cfg *config.EnsembleConfig) *Decision {
	if cfg == nil || len(cfg.Members) == 0 {
		return r.fallbackDecision(bundle, "ensemble config missing")
	}

	members := make([]*Decision, len(cfg.Members))
	for i := range cfg.Members {
		members[i] = r.Decide(ctx, query, bundle, &cfg.Members[i], "")
	}

	switch cfg.Voting {
	case config.VoteWeighted:
		return r.combineWeighted(bundle, cfg, members)
	case config.VoteUnanimous:
		return r.combineUnanimous(bundle, cfg, members)
	default:
		return r.combineMajority(bundle, cfg, members)
	}
}

// combineMajority picks the specialist most members agreed on.
// Confidence is vote_count/member_count.
func (r *Router) combineMajority(bundle *config.Bundle, cfg *config.EnsembleConfig, members []*Decision) *Decision {
	votes := make(map[string]int)
	for _, m := range members {
		if m.Routed() {
			votes[m.SpecialistID]++
		}
	}
	if len(votes) == 0 {
		return r.fallbackDecision(bundle, "no ensemble member produced a route")
	}

	winner := ""
	winnerVotes := 0
	// First-encountered member order breaks ties.
	for _, m := range members {
		if !m.Routed() {
			continue
		}
		if v := votes[m.SpecialistID]; v > winnerVotes {
			winner = m.SpecialistID
			winnerVotes = v
		}
	}

	return &Decision{
		SpecialistID: winner,
		Confidence:   float64(winnerVotes) / float64(len(members)),
		Alternatives: losingCandidates(members, winner),
		Reasons:      voteSummary(members, cfg),
	}
}

// combineWeighted sums each member's own confidence behind its choice.
// Confidence is winner_total/sum_of_all_confidences.
func (r *Router) combineWeighted(bundle *config.Bundle, cfg *config.EnsembleConfig, members []*Decision) *Decision {
	totals := make(map[string]float64)
	var sum float64
	for _, m := range members {
		if m.Routed() {
			totals[m.SpecialistID] += m.Confidence
			sum += m.Confidence
		}
	}
	if len(totals) == 0 || sum <= 0 {
		return r.fallbackDecision(bundle, "no ensemble member produced a route")
	}

	winner := ""
	winnerTotal := 0.0
	for _, m := range members {
		if !m.Routed() {
			continue
		}
		if t := totals[m.SpecialistID]; t > winnerTotal {
			winner = m.SpecialistID
			winnerTotal = t
		}
	}

	return &Decision{
		SpecialistID: winner,
		Confidence:   winnerTotal / sum,
		Alternatives: losingCandidates(members, winner),
		Reasons:      voteSummary(members, cfg),
	}
}

// combineUnanimous requires every member to agree; anything else falls
// back. On agreement the reported confidence is the mean member
// confidence.
func (r *Router) combineUnanimous(bundle *config.Bundle, cfg *config.EnsembleConfig, members []*Decision) *Decision {
	agreed := ""
	var sum float64
	for _, m := range members {
		if !m.Routed() {
			return r.fallbackDecision(bundle, "ensemble not unanimous")
		}
		if agreed == "" {
			agreed = m.SpecialistID
		} else if m.SpecialistID != agreed {
			return r.fallbackDecision(bundle, "ensemble not unanimous")
		}
		sum += m.Confidence
	}
	if agreed == "" {
		return r.fallbackDecision(bundle, "ensemble not unanimous")
	}

	return &Decision{
		SpecialistID: agreed,
		Confidence:   sum / float64(len(members)),
		Reasons:      voteSummary(members, cfg),
	}
}

// losingCandidates returns the distinct non-winning choices in member
// order.
func losingCandidates(members []*Decision, winner string) []string {
	var out []string
	seen := map[string]bool{winner: true}
	for _, m := range members {
		if m.Routed() && !seen[m.SpecialistID] {
			seen[m.SpecialistID] = true
			out = append(out, m.SpecialistID)
		}
	}
	return out
}

func voteSummary(members []*Decision, cfg *config.EnsembleConfig) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = fmt.Sprintf("%s voted %q (%.2f)", cfg.Members[i].Strategy, m.SpecialistID, m.Confidence)
	}
	return out
}
