// Package ranking maps skill beliefs onto a community's discrete tiers.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"match-rank-tracker/internal/core/domain"
)

const DefaultSigmaMultiplier = 3.0

type Resolver struct {
	K float64
}

func NewResolver(k float64) Resolver {
	return Resolver{K: k}
}

func (r Resolver) ConservativeSkill(s domain.Skill) float64 {
	return s.Conservative(r.K)
}

// ValidateThresholds requires a non-empty, strictly ascending, finite list.
func ValidateThresholds(thresholds []float64) error {
	if len(thresholds) == 0 {
		return domain.ErrMissingTierThresholds
	}
	for i, t := range thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: threshold %d is not finite", domain.ErrInvalidThresholds, i)
		}
		if i > 0 && t <= thresholds[i-1] {
			return fmt.Errorf("%w: %v does not exceed %v", domain.ErrInvalidThresholds, t, thresholds[i-1])
		}
	}
	return nil
}

// Tier is the number of thresholds at or below the conservative skill, so a
// skill exactly on a boundary lands in the upper tier.
func (r Resolver) Tier(s domain.Skill, thresholds []float64) (int, error) {
	if err := ValidateThresholds(thresholds); err != nil {
		return 0, err
	}
	skill := r.ConservativeSkill(s)
	return sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > skill }), nil
}

// Resolve computes the tier for after and compares it to the stored tier.
func (r Resolver) Resolve(userID string, before, after domain.Skill, previous int, firstSeen bool, thresholds []float64) (domain.TierChange, error) {
	tier, err := r.Tier(after, thresholds)
	if err != nil {
		return domain.TierChange{}, err
	}
	return domain.TierChange{
		UserID:    userID,
		OldTier:   previous,
		NewTier:   tier,
		FirstSeen: firstSeen,
		Before:    before,
		After:     after,
	}, nil
}

var bands = []struct {
	from  float64
	label string
}{
	{-5, "Well below average"},
	{-3, "Below average"},
	{-1, "Slightly below average"},
	{1, "Slightly above average"},
	{3, "Above average"},
	{5, "Well above average"},
}

// Band labels a conservative rating for career summaries. The rating is
// rounded to the nearest integer before lookup.
func Band(ordinal float64) string {
	rounded := math.Round(ordinal)
	label := bands[0].label
	for _, b := range bands {
		if rounded < b.from {
			break
		}
		label = b.label
	}
	return label
}
