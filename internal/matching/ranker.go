// Package matching implements the in-memory ranking of architect
// portfolios against an embedded client query.
package matching

import (
	"math"
	"sort"

	"github.com/archimatch/archimatch/internal/model"
	"github.com/archimatch/archimatch/internal/vector"
)

const (
	// ProBoost is added to the raw cosine score of Pro-tier architects
	// before sorting. It is a tie-breaker, not a guarantee: a similarity
	// gap larger than the boost still wins.
	ProBoost = 0.05

	// DefaultTopK is the ranked-list cutoff.
	DefaultTopK = 10
)

// RankedCandidate is one ranking result. It is derived per query and never
// persisted. MatchStatus is filled in by the service layer when the caller
// is a known client, otherwise left empty.
type RankedCandidate struct {
	Architect   *model.ArchitectProfile `json:"architect"`
	Score       float32                 `json:"score"`
	Boosted     float32                 `json:"boosted_score"`
	Percentage  float64                 `json:"percentage"`
	MatchStatus string                  `json:"match_status,omitempty"`
}

// Rank scores every candidate against the query vector and returns at most
// topK results, best first.
//
// Candidates are excluded, never errored on, when their stored embedding is
// blank, fails to decode, has a different dimension than the query, or has
// zero magnitude. An empty query vector therefore yields an empty list. The
// sort is stable, so exact ties keep the input order.
func Rank(queryVec []float32, candidates []*model.ArchitectProfile, topK int) []RankedCandidate {
	if topK <= 0 {
		topK = DefaultTopK
	}
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		vec, err := vector.Decode(candidate.PortfolioEmbedding)
		if err != nil || len(vec) == 0 {
			continue
		}
		score, ok := vector.Cosine(queryVec, vec)
		if !ok {
			continue
		}
		boosted := score
		if candidate.Pro {
			boosted += ProBoost
		}
		ranked = append(ranked, RankedCandidate{
			Architect: candidate,
			Score:     score,
			Boosted:   boosted,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Boosted > ranked[j].Boosted
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	for i := range ranked {
		ranked[i].Percentage = roundPercentage(ranked[i].Boosted)
	}
	return ranked
}

func roundPercentage(score float32) float64 {
	return math.Round(float64(score)*1000) / 10
}
