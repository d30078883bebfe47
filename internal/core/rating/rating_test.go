package rating

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-rank-tracker/internal/core/domain"
)

func player(id string, mu, sigma float64) Player {
	return Player{ID: id, Rating: Rating{Mu: mu, Sigma: sigma}}
}

func TestUpdate_OneVersusOne(t *testing.T) {
	p := DefaultParams()
	a := player("a", 25, 8.333)
	b := player("b", 25, 8.333)

	w, l, err := Update(p, []Player{a}, []Player{b}, false)
	require.NoError(t, err)
	require.Len(t, w, 1)
	require.Len(t, l, 1)

	assert.Greater(t, w[0].Mu, a.Mu)
	assert.Less(t, l[0].Mu, b.Mu)
	assert.Less(t, w[0].Sigma, a.Sigma)
	assert.Less(t, l[0].Sigma, b.Sigma)
	// Equal priors move by the same amount in opposite directions.
	assert.InDelta(t, w[0].Mu-a.Mu, b.Mu-l[0].Mu, 1e-9)
	assert.Equal(t, "a", w[0].ID)
	assert.Equal(t, "b", l[0].ID)
}

func TestUpdate_KnownValues(t *testing.T) {
	// Reference values for a default-prior 1v1 win with draw probability 0.1.
	p := DefaultParams()
	prior := p.Prior()
	w, l, err := Update(p, []Player{{ID: "a", Rating: prior}}, []Player{{ID: "b", Rating: prior}}, false)
	require.NoError(t, err)

	assert.InDelta(t, 29.39583201999916, w[0].Mu, 1e-3)
	assert.InDelta(t, 20.60416798000084, l[0].Mu, 1e-3)
	assert.InDelta(t, 7.171475587326186, w[0].Sigma, 1e-3)
	assert.InDelta(t, 7.171475587326186, l[0].Sigma, 1e-3)
}

func TestUpdate_TieBetweenEqualRatings(t *testing.T) {
	p := DefaultParams()
	a := player("a", 25, 8.333)
	b := player("b", 25, 8.333)

	w, l, err := Update(p, []Player{a}, []Player{b}, true)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, w[0].Mu, 1e-12)
	assert.InDelta(t, 25.0, l[0].Mu, 1e-12)
	assert.Less(t, w[0].Sigma, a.Sigma)
	assert.Less(t, l[0].Sigma, b.Sigma)
}

func TestUpdate_TieMovesTowardEachOther(t *testing.T) {
	p := DefaultParams()
	strong := player("s", 30, 4)
	weak := player("w", 20, 4)

	w, l, err := Update(p, []Player{strong}, []Player{weak}, true)
	require.NoError(t, err)

	assert.Less(t, w[0].Mu, strong.Mu)
	assert.Greater(t, l[0].Mu, weak.Mu)
}

func TestUpdate_UpsetMovesMoreThanExpectedWin(t *testing.T) {
	p := DefaultParams()
	strong := player("s", 32, 3)
	weak := player("w", 18, 3)

	expectedW, _, err := Update(p, []Player{strong}, []Player{weak}, false)
	require.NoError(t, err)
	upsetW, _, err := Update(p, []Player{weak}, []Player{strong}, false)
	require.NoError(t, err)

	assert.Greater(t, upsetW[0].Mu-weak.Mu, expectedW[0].Mu-strong.Mu)
}

func TestUpdate_WeightsByIndividualUncertainty(t *testing.T) {
	p := DefaultParams()
	certain := player("c", 25, 1)
	uncertain := player("u", 25, 8)
	opp := player("o", 25, 4)

	w, _, err := Update(p, []Player{certain, uncertain}, []Player{opp}, false)
	require.NoError(t, err)

	assert.Greater(t, w[1].Mu-uncertain.Mu, w[0].Mu-certain.Mu)
}

func TestUpdate_SigmaFloor(t *testing.T) {
	p := DefaultParams()
	p.Tau = 0
	p.SigmaFloor = 0.5
	a := player("a", 25, 0.5)
	b := player("b", 25, 0.5)

	w, l, err := Update(p, []Player{a}, []Player{b}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.5, w[0].Sigma)
	assert.Equal(t, 0.5, l[0].Sigma)
}

func TestUpdate_InvalidComposition(t *testing.T) {
	p := DefaultParams()
	ok := player("a", 25, 8)

	tests := []struct {
		name    string
		winners []Player
		losers  []Player
	}{
		{"empty winners", nil, []Player{ok}},
		{"empty losers", []Player{ok}, nil},
		{"member on both sides", []Player{ok}, []Player{player("a", 20, 3)}},
		{"member twice on a side", []Player{ok, ok}, []Player{player("b", 25, 8)}},
		{"zero sigma", []Player{player("x", 25, 0)}, []Player{ok}},
		{"negative sigma", []Player{player("x", 25, -1)}, []Player{ok}},
		{"nan mu", []Player{player("x", math.NaN(), 1)}, []Player{ok}},
		{"infinite sigma", []Player{player("x", 25, math.Inf(1))}, []Player{ok}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, l, err := Update(p, tt.winners, tt.losers, false)
			if !errors.Is(err, domain.ErrInvalidMatchComposition) {
				t.Fatalf("Expected ErrInvalidMatchComposition, got %v", err)
			}
			assert.Nil(t, w)
			assert.Nil(t, l)
		})
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *Params)
		wantErr    bool
		outOfRange bool
	}{
		{name: "defaults", mutate: func(p *Params) {}},
		{name: "draws certain", mutate: func(p *Params) { p.DrawProbability = 1 }, wantErr: true},
		{name: "zero beta", mutate: func(p *Params) { p.Beta = 0 }, wantErr: true},
		{name: "floor at sigma", mutate: func(p *Params) { p.SigmaFloor = p.Sigma }, wantErr: true},
		{name: "mu near the column limit", mutate: func(p *Params) { p.Mu = 99.5 }},
		{name: "negative mu near the column limit", mutate: func(p *Params) { p.Mu = -99.5 }},
		{name: "elo scale", mutate: func(p *Params) { p.Mu, p.Sigma, p.Beta, p.Tau = 1500, 350, 200, 3 }, wantErr: true, outOfRange: true},
		{name: "mu of one hundred", mutate: func(p *Params) { p.Mu = 100 }, wantErr: true, outOfRange: true},
		{name: "sigma of one hundred", mutate: func(p *Params) { p.Sigma = 100 }, wantErr: true, outOfRange: true},
		{name: "zero floor", mutate: func(p *Params) { p.SigmaFloor = 0 }, wantErr: true, outOfRange: true},
		{name: "floor below storable precision", mutate: func(p *Params) { p.SigmaFloor = 1e-16 }, wantErr: true, outOfRange: true},
		{name: "smallest storable floor", mutate: func(p *Params) { p.SigmaFloor = 1e-14 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			err := p.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.outOfRange, errors.Is(err, domain.ErrSkillOutOfRange), "error: %v", err)
		})
	}
}

func TestGaussianHelpers_FarTails(t *testing.T) {
	// Extreme mismatches fall back to the asymptotic forms instead of NaN.
	v := vExceedsMargin(-60, 0.1)
	assert.False(t, math.IsNaN(v))
	assert.InDelta(t, 60.1, v, 1e-9)
	assert.Equal(t, 1.0, wExceedsMargin(-60, 0.1))

	assert.False(t, math.IsNaN(vWithinMargin(60, 0.1)))
	assert.Equal(t, 1.0, wWithinMargin(60, 0.1))
}
