// Package adrank scores candidate ads for insertion into the feed. The
// function is pure: every input, including the jitter source and the clock,
// is passed in, so rankings are reproducible given the same inputs and seed.
package adrank

import (
	"math/rand"
	"sort"
	"time"

	"plaza/internal/config"
)

// Candidate carries the scoring inputs for one ad.
type Candidate struct {
	ID          string
	Priority    float64
	EndDate     time.Time
	Impressions int64
	Clicks      int64
}

// Scored is a candidate with its computed score.
type Scored struct {
	Candidate
	Score float64
}

// Weights tunes the scoring function.
type Weights struct {
	Weight            float64
	PriorityBoost     float64
	UrgencyWindowDays float64
	UrgencyBonus      float64
	CTRBonusCap       float64
	ImpressionPenalty float64
	JitterMax         float64
}

// WeightsFromConfig maps the [ads] config section onto scoring weights.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		Weight:            cfg.Ads.Weight,
		PriorityBoost:     cfg.Ads.PriorityBoost,
		UrgencyWindowDays: float64(cfg.Ads.UrgencyWindowDays),
		UrgencyBonus:      cfg.Ads.UrgencyBonus,
		CTRBonusCap:       cfg.Ads.CTRBonusCap,
		ImpressionPenalty: cfg.Ads.ImpressionPenalty,
		JitterMax:         cfg.Ads.JitterMax,
	}
}

// Inputs supplies the per-ranking context: the clock, the session's local
// impression counters, and the jitter source.
type Inputs struct {
	Now              time.Time
	LocalImpressions map[string]int
	Rand             *rand.Rand
}

// Score computes one candidate's score without jitter.
func Score(c Candidate, w Weights, in Inputs) float64 {
	score := (c.Priority + w.PriorityBoost) * w.Weight

	// Ads about to leave the schedule window get a bonus that grows as
	// expiry approaches; it reaches zero at the edge of the urgency window.
	if w.UrgencyWindowDays > 0 && !c.EndDate.IsZero() {
		daysRemaining := c.EndDate.Sub(in.Now).Hours() / 24
		if daysRemaining >= 0 && daysRemaining < w.UrgencyWindowDays {
			score += w.UrgencyBonus * (1 - daysRemaining/w.UrgencyWindowDays)
		}
	}

	// Under-clicked ads get a capped boost so fresh inventory still surfaces.
	score += ctrBonus(c, w.CTRBonusCap)

	score -= w.ImpressionPenalty * float64(in.LocalImpressions[c.ID])
	return score
}

func ctrBonus(c Candidate, cap float64) float64 {
	if cap <= 0 {
		return 0
	}
	if c.Impressions <= 0 || c.Clicks <= 0 {
		return cap
	}
	ctr := float64(c.Clicks) / float64(c.Impressions)
	bonus := 1 / ctr
	if bonus > cap {
		return cap
	}
	return bonus
}

// Rank scores every candidate and returns them sorted best-first. Jitter in
// [0, JitterMax) breaks ties; an empty input yields an empty ranking.
func Rank(candidates []Candidate, w Weights, in Inputs) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		s := Score(c, w, in)
		if w.JitterMax > 0 && in.Rand != nil {
			s += in.Rand.Float64() * w.JitterMax
		}
		scored = append(scored, Scored{Candidate: c, Score: s})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
