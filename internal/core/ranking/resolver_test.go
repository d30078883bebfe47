package ranking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"match-rank-tracker/internal/core/domain"
)

var thresholds = []float64{0, 10, 20, 30}

func TestTier(t *testing.T) {
	r := NewResolver(DefaultSigmaMultiplier)

	tests := []struct {
		name  string
		mu    float64
		sigma float64
		want  int
	}{
		{"below every threshold", 20, 8, 0},
		{"exactly on first boundary", 15, 5, 1},
		{"just under second boundary", 19.99, 3.34, 1},
		{"exactly on second boundary", 19, 3, 2},
		{"middle", 35, 6, 2},
		{"exactly on top boundary", 36, 2, 4},
		{"far above", 80, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Tier(domain.NewSkill(tt.mu, tt.sigma), thresholds)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("Expected tier %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTier_Thresholds(t *testing.T) {
	r := NewResolver(3)
	s := domain.NewSkill(25, 1)

	_, err := r.Tier(s, nil)
	assert.True(t, errors.Is(err, domain.ErrMissingTierThresholds))

	_, err = r.Tier(s, []float64{5, 5})
	assert.True(t, errors.Is(err, domain.ErrInvalidThresholds))

	_, err = r.Tier(s, []float64{10, 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidThresholds))
}

func TestResolve(t *testing.T) {
	r := NewResolver(3)
	before := domain.NewSkill(25, 8.333)
	after := domain.NewSkill(40, 2)

	change, err := r.Resolve("u1", before, after, 0, true, thresholds)
	require.NoError(t, err)

	assert.Equal(t, "u1", change.UserID)
	assert.Equal(t, 0, change.OldTier)
	assert.Equal(t, 4, change.NewTier)
	assert.True(t, change.Promoted())
	assert.True(t, change.Changed())
	assert.False(t, change.Demoted())
	assert.True(t, change.FirstSeen)
	assert.True(t, change.After.Equal(after))

	change, err = r.Resolve("u1", after, before, 4, false, thresholds)
	require.NoError(t, err)
	assert.True(t, change.Demoted())
}

func TestBand(t *testing.T) {
	assert.Equal(t, "Well below average", Band(-12))
	assert.Equal(t, "Well below average", Band(-4.6))
	assert.Equal(t, "Below average", Band(-3))
	assert.Equal(t, "Slightly below average", Band(0))
	assert.Equal(t, "Slightly above average", Band(0.5))
	assert.Equal(t, "Above average", Band(4.4))
	assert.Equal(t, "Well above average", Band(17))
}

func TestProperty_TierMonotoneInSkill(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}
	r := NewResolver(DefaultSigmaMultiplier)
	rapid.Check(t, func(rt *rapid.T) {
		sigma := rapid.Float64Range(0.1, 10).Draw(rt, "sigma")
		lo := rapid.Float64Range(-20, 60).Draw(rt, "lo")
		hi := rapid.Float64Range(lo, 70).Draw(rt, "hi")

		a, err := r.Tier(domain.NewSkill(lo, sigma), thresholds)
		if err != nil {
			rt.Fatal(err)
		}
		b, err := r.Tier(domain.NewSkill(hi, sigma), thresholds)
		if err != nil {
			rt.Fatal(err)
		}
		if a > b {
			rt.Fatalf("tier %d for mu %v exceeds tier %d for mu %v", a, lo, b, hi)
		}
		if a < 0 || b > len(thresholds) {
			rt.Fatalf("tier out of range: %d, %d", a, b)
		}
	})
}
