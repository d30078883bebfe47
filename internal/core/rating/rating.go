// Package rating implements the two-team Gaussian skill update used to rate
// finished matches.
package rating

import (
	"fmt"
	"math"

	"match-rank-tracker/internal/core/domain"
)

type Params struct {
	Mu              float64
	Sigma           float64
	Beta            float64
	Tau             float64
	DrawProbability float64
	SigmaFloor      float64
}

func DefaultParams() Params {
	return Params{
		Mu:              25.0,
		Sigma:           25.0 / 3,
		Beta:            25.0 / 6,
		Tau:             25.0 / 300,
		DrawProbability: 0.10,
		SigmaFloor:      0.0001,
	}
}

// Prior is the rating given to a member the first time they are seen.
func (p Params) Prior() Rating {
	return Rating{Mu: p.Mu, Sigma: p.Sigma}
}

func (p Params) Validate() error {
	switch {
	case !finite(p.Mu):
		return fmt.Errorf("prior mu must be finite")
	case !(p.Sigma > 0) || !finite(p.Sigma):
		return fmt.Errorf("prior sigma must be positive")
	case !(p.Beta > 0) || !finite(p.Beta):
		return fmt.Errorf("beta must be positive")
	case p.Tau < 0 || !finite(p.Tau):
		return fmt.Errorf("tau must not be negative")
	case !domain.NewSkill(p.Mu, p.Sigma).Storable():
		return fmt.Errorf("%w: prior mu and sigma must be below 100", domain.ErrSkillOutOfRange)
	case !(p.DrawProbability >= 0 && p.DrawProbability < 1):
		return fmt.Errorf("draw probability must be in [0, 1)")
	case !finite(p.SigmaFloor) || p.SigmaFloor >= p.Sigma:
		return fmt.Errorf("sigma floor must be in [1e-14, sigma)")
	case domain.NewSkill(0, p.SigmaFloor).Sigma.LessThan(domain.MinSkillSigma):
		return fmt.Errorf("%w: sigma floor must be at least 1e-14", domain.ErrSkillOutOfRange)
	}
	return nil
}

type Rating struct {
	Mu    float64
	Sigma float64
}

// Player is a rating bound to the member it belongs to.
type Player struct {
	ID string
	Rating
}

// CheckComposition reports ErrInvalidMatchComposition when a side is empty, a
// member is listed twice, or a rating is not usable.
func CheckComposition(winners, losers []Player) error {
	if len(winners) == 0 || len(losers) == 0 {
		return fmt.Errorf("%w: both teams need at least one member", domain.ErrInvalidMatchComposition)
	}
	seen := make(map[string]struct{}, len(winners)+len(losers))
	for _, side := range [][]Player{winners, losers} {
		for _, p := range side {
			if _, dup := seen[p.ID]; dup {
				return fmt.Errorf("%w: member %s is listed more than once", domain.ErrInvalidMatchComposition, p.ID)
			}
			seen[p.ID] = struct{}{}
			if !finite(p.Mu) || !finite(p.Sigma) || p.Sigma <= 0 {
				return fmt.Errorf("%w: member %s has an invalid rating", domain.ErrInvalidMatchComposition, p.ID)
			}
		}
	}
	return nil
}

// Update returns the post-match ratings of both teams, in input order. When
// tied is set the sides are interchangeable.
func Update(p Params, winners, losers []Player, tied bool) ([]Player, []Player, error) {
	if err := CheckComposition(winners, losers); err != nil {
		return nil, nil, err
	}

	tau2 := p.Tau * p.Tau
	n := float64(len(winners) + len(losers))

	var muW, muL, varSum float64
	for _, w := range winners {
		muW += w.Mu
		varSum += w.Sigma*w.Sigma + tau2
	}
	for _, l := range losers {
		muL += l.Mu
		varSum += l.Sigma*l.Sigma + tau2
	}

	c2 := varSum + n*p.Beta*p.Beta
	c := math.Sqrt(c2)
	eps := drawMargin(p.DrawProbability, p.Beta, n)

	t := (muW - muL) / c
	var v, w float64
	if tied {
		v, w = vWithinMargin(t, eps/c), wWithinMargin(t, eps/c)
	} else {
		v, w = vExceedsMargin(t, eps/c), wExceedsMargin(t, eps/c)
	}

	update := func(side []Player, sign float64) []Player {
		out := make([]Player, len(side))
		for i, pl := range side {
			prior := pl.Sigma*pl.Sigma + tau2
			mu := pl.Mu + sign*prior/c*v
			sigma := math.Sqrt(prior * math.Max(1-w*prior/c2, 0))
			if sigma < p.SigmaFloor {
				sigma = p.SigmaFloor
			}
			out[i] = Player{ID: pl.ID, Rating: Rating{Mu: mu, Sigma: sigma}}
		}
		return out
	}

	return update(winners, 1), update(losers, -1), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
