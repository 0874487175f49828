package router

import (
	"sort"
	"strings"

	"github.com/zen-systems/specroute/pkg/config"
)

// Keyword-signature scoring weights.
const (
	keywordWeight   = 0.6
	signatureWeight = 0.4
)

// decideKeyword scores every specialist locally and picks the best. A top
// score below the similarity threshold degrades to the bundle fallback.
func (r *Router) decideKeyword(query string, bundle *config.Bundle, cfg *config.KeywordConfig) *Decision {
	if cfg == nil {
		cfg = &config.KeywordConfig{SimilarityThreshold: 0.4, Signatures: config.DefaultSignatureTable()}
	}

	scores := make(map[string]float64, len(bundle.Specialists))
	best := -1
	bestScore := 0.0
	for i, s := range bundle.Specialists {
		kw := keywordScore(query, s.Keywords)
		sig := signatureScore(query, s.Domains, cfg.Signatures)
		combined := keywordWeight*kw + signatureWeight*sig
		scores[s.ID] = combined
		// Strict > keeps the first specialist in bundle order on an
		// exact tie.
		if best == -1 || combined > bestScore {
			best = i
			bestScore = combined
		}
	}

	if bestScore < cfg.SimilarityThreshold {
		d := r.fallbackDecision(bundle, "no specialist cleared similarity threshold")
		d.Scores = scores
		return d
	}

	selected := bundle.Specialists[best].ID
	return &Decision{
		SpecialistID: selected,
		Confidence:   bestScore,
		Scores:       scores,
		Alternatives: runnersUp(bundle, scores, selected, 3),
	}
}

// keywordScore scores a query against a specialist's keyword phrases.
// Each matched keyword contributes min(1, len/6); the contributions are
// averaged and multiplied by the multi-match bonus, capped at 1.
func keywordScore(query string, keywords []string) float64 {
	queryLower := strings.ToLower(query)

	var sum float64
	matches := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(queryLower, strings.ToLower(kw)) {
			sum += minFloat(1, float64(len(kw))/6)
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	return minFloat(1, (sum/float64(matches))*matchBonus(matches))
}

// signatureScore scores a query against the signature phrases of the
// specialist's domains. Each matched phrase contributes len/20 to a
// running total, multiplied by the multi-match bonus, capped at 1.
func signatureScore(query string, domains []string, table config.SignatureTable) float64 {
	if len(domains) == 0 || table == nil {
		return 0
	}
	queryLower := strings.ToLower(query)

	var total float64
	matches := 0
	for _, domain := range domains {
		for _, phrase := range table[domain] {
			if phrase == "" {
				continue
			}
			if strings.Contains(queryLower, strings.ToLower(phrase)) {
				total += float64(len(phrase)) / 20
				matches++
			}
		}
	}
	if matches == 0 {
		return 0
	}
	return minFloat(1, total*matchBonus(matches))
}

// matchBonus rewards multiple distinct matches. Non-decreasing in the
// match count, which keeps the combined score monotone.
func matchBonus(matches int) float64 {
	switch {
	case matches >= 3:
		return 2
	case matches >= 2:
		return 1.5
	default:
		return 1
	}
}

// runnersUp returns up to n non-selected specialist ids ordered by score
// descending, with bundle order breaking score ties.
func runnersUp(bundle *config.Bundle, scores map[string]float64, selected string, n int) []string {
	type ranked struct {
		id    string
		score float64
		order int
	}
	var rest []ranked
	for i, s := range bundle.Specialists {
		if s.ID == selected {
			continue
		}
		rest = append(rest, ranked{id: s.ID, score: scores[s.ID], order: i})
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].score == rest[j].score {
			return rest[i].order < rest[j].order
		}
		return rest[i].score > rest[j].score
	})
	if len(rest) > n {
		rest = rest[:n]
	}
	out := make([]string, len(rest))
	for i, r := range rest {
		out[i] = r.id
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
