// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

func testCfg() types.RiskConfig {
	return types.RiskConfig{
		BaseScores: map[types.ObligationCategory]int{
			types.CategoryFinancialCovenant: 55,
			types.CategoryReporting:         35,
			types.CategoryNotification:      25,
			types.CategoryOther:             15,
		},
		SeverityKeywords: map[string]int{
			"default":      15,
			"acceleration": 15,
			"penalty":      10,
			"terminate":    12,
		},
		SeverityCap: 40,
		Thresholds:  types.TierThresholds{LowMax: 33, MediumMax: 67},
	}
}

func obligation(cat types.ObligationCategory, desc string) types.Obligation {
	return types.Obligation{Category: cat, Description: desc}
}

func TestScoreBaseByCategory(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	// No severity cues: the score is the category base, and the ordering
	// financial covenant > reporting > notification > other holds.
	fc, _ := s.Score(obligation(types.CategoryFinancialCovenant, "maintain the ratio"))
	rep, _ := s.Score(obligation(types.CategoryReporting, "deliver statements"))
	not, _ := s.Score(obligation(types.CategoryNotification, "notify the lender"))
	oth, _ := s.Score(obligation(types.CategoryOther, "keep records"))

	assert.Equal(t, 55, fc)
	assert.Equal(t, 35, rep)
	assert.Equal(t, 25, not)
	assert.Equal(t, 15, oth)
	assert.Greater(t, fc, rep)
	assert.Greater(t, rep, not)
	assert.Greater(t, not, oth)
}

func TestScoreSeverityBonus(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	score, tier := s.Score(obligation(types.CategoryNotification,
		"notify the lender of any default or acceleration"))
	assert.Equal(t, 25+15+15, score)
	assert.Equal(t, types.TierMedium, tier)
}

func TestScoreRepeatedCueDoesNotStack(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	once, _ := s.Score(obligation(types.CategoryOther, "a default occurs"))
	thrice, _ := s.Score(obligation(types.CategoryOther, "default default default"))
	assert.Equal(t, once, thrice)
}

func TestScoreBonusIsCapped(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	// All four cues sum to 52, above the cap of 40.
	score, _ := s.Score(obligation(types.CategoryFinancialCovenant,
		"default, acceleration, penalty, and the right to terminate"))
	assert.Equal(t, 55+40, score)
}

func TestScoreClamped(t *testing.T) {
	cfg := testCfg()
	cfg.BaseScores[types.CategoryFinancialCovenant] = 95
	s, err := NewScorer(cfg)
	require.NoError(t, err)

	score, tier := s.Score(obligation(types.CategoryFinancialCovenant,
		"default and acceleration and penalty"))
	assert.Equal(t, 100, score)
	assert.Equal(t, types.TierHigh, tier)
}

func TestTierBoundariesClosedOnUpperEnd(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	assert.Equal(t, types.TierLow, s.Tier(0))
	assert.Equal(t, types.TierLow, s.Tier(33))
	assert.Equal(t, types.TierMedium, s.Tier(34))
	assert.Equal(t, types.TierMedium, s.Tier(67))
	assert.Equal(t, types.TierHigh, s.Tier(68))
	assert.Equal(t, types.TierHigh, s.Tier(100))
}

func TestScoreDeterministic(t *testing.T) {
	s, err := NewScorer(testCfg())
	require.NoError(t, err)

	ob := obligation(types.CategoryReporting, "deliver statements or face a penalty and termination")
	s1, t1 := s.Score(ob)
	s2, t2 := s.Score(ob)
	assert.Equal(t, s1, s2)
	assert.Equal(t, t1, t2)
}

func TestNewScorerValidation(t *testing.T) {
	t.Run("missing category base", func(t *testing.T) {
		cfg := testCfg()
		delete(cfg.BaseScores, types.CategoryOther)
		_, err := NewScorer(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing entry")
	})

	t.Run("contradictory thresholds", func(t *testing.T) {
		cfg := testCfg()
		cfg.Thresholds = types.TierThresholds{LowMax: 70, MediumMax: 40}
		_, err := NewScorer(cfg)
		require.Error(t, err)
	})

	t.Run("negative cap", func(t *testing.T) {
		cfg := testCfg()
		cfg.SeverityCap = -1
		_, err := NewScorer(cfg)
		require.Error(t, err)
	})
}
