// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package risk scores obligations from their category and the severity
// cues present in their text.
package risk

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

// weightedCue is a compiled severity keyword with its bonus weight.
type weightedCue struct {
	phrase string
	re     *regexp.Regexp
	weight int
}

// Scorer computes risk scores. Immutable after construction; scoring is a
// pure function of the obligation, so identical inputs always score
// identically.
type Scorer struct {
	base       map[types.ObligationCategory]int
	cues       []weightedCue
	cap        int
	thresholds types.TierThresholds
}

// NewScorer validates the scoring tables and compiles the severity cues.
// Missing category entries and non-increasing tier thresholds are
// configuration failures.
func NewScorer(cfg types.RiskConfig) (*Scorer, error) {
	for _, c := range types.Categories {
		if _, ok := cfg.BaseScores[c]; !ok {
			return nil, fmt.Errorf("base_scores: missing entry for category %q", c)
		}
	}
	t := cfg.Thresholds
	if t.LowMax <= 0 || t.LowMax >= t.MediumMax || t.MediumMax >= 100 {
		return nil, fmt.Errorf("tier_thresholds: need 0 < low_max < medium_max < 100, got %d/%d", t.LowMax, t.MediumMax)
	}
	if cfg.SeverityCap < 0 {
		return nil, fmt.Errorf("severity_cap: must be non-negative, got %d", cfg.SeverityCap)
	}

	s := &Scorer{
		base:       cfg.BaseScores,
		cap:        cfg.SeverityCap,
		thresholds: t,
	}

	// Deterministic cue order: iterate phrases sorted, not in map order.
	phrases := make([]string, 0, len(cfg.SeverityKeywords))
	for p := range cfg.SeverityKeywords {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	for _, p := range phrases {
		re, err := compileCue(p)
		if err != nil {
			return nil, fmt.Errorf("severity keyword %q: %w", p, err)
		}
		s.cues = append(s.cues, weightedCue{phrase: p, re: re, weight: cfg.SeverityKeywords[p]})
	}

	return s, nil
}

// compileCue builds a case-insensitive word-boundary pattern for a cue
// phrase. Hyphenated cues like "cross-default" match as written.
func compileCue(phrase string) (*regexp.Regexp, error) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty phrase")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
}

// Score returns the obligation's numeric risk in [0,100] and its tier.
// The score is the category base plus one bonus per distinct severity cue
// present in the description, with the total bonus capped; repeated
// occurrences of the same cue do not stack.
func (s *Scorer) Score(ob types.Obligation) (int, types.RiskTier) {
	score := s.base[ob.Category]

	bonus := 0
	for _, cue := range s.cues {
		if cue.re.MatchString(ob.Description) {
			bonus += cue.weight
		}
	}
	if bonus > s.cap {
		bonus = s.cap
	}
	score += bonus

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, s.Tier(score)
}

// Tier buckets a score. Band upper bounds are closed: a score equal to
// low_max is still low.
func (s *Scorer) Tier(score int) types.RiskTier {
	switch {
	case score <= s.thresholds.LowMax:
		return types.TierLow
	case score <= s.thresholds.MediumMax:
		return types.TierMedium
	default:
		return types.TierHigh
	}
}
