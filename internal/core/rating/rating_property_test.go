package rating

import (
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"match-rank-tracker/internal/core/domain"
)

func drawTeam(t *rapid.T, prefix string, mu, sigma *rapid.Generator[float64]) []Player {
	n := rapid.IntRange(1, 5).Draw(t, prefix+"_size")
	team := make([]Player, n)
	for i := range team {
		team[i] = Player{
			ID: fmt.Sprintf("%s%d", prefix, i),
			Rating: Rating{
				Mu:    mu.Draw(t, fmt.Sprintf("%s%d_mu", prefix, i)),
				Sigma: sigma.Draw(t, fmt.Sprintf("%s%d_sigma", prefix, i)),
			},
		}
	}
	return team
}

func TestProperty_EqualTeamsShiftBySide(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}
	rapid.Check(t, func(rt *rapid.T) {
		p := DefaultParams()
		mu := rapid.Float64Range(0, 50).Draw(rt, "mu")
		sigma := rapid.Float64Range(0.5, 10).Draw(rt, "sigma")
		size := rapid.IntRange(1, 5).Draw(rt, "size")

		var winners, losers []Player
		for i := 0; i < size; i++ {
			winners = append(winners, player(fmt.Sprintf("w%d", i), mu, sigma))
			losers = append(losers, player(fmt.Sprintf("l%d", i), mu, sigma))
		}

		nw, nl, err := Update(p, winners, losers, false)
		if err != nil {
			rt.Fatalf("update failed: %v", err)
		}
		var shiftW, shiftL float64
		for i := range winners {
			shiftW += nw[i].Mu - winners[i].Mu
			shiftL += nl[i].Mu - losers[i].Mu
		}
		if shiftW < 0 {
			rt.Fatalf("winning side shifted down by %v", shiftW)
		}
		if shiftL > 0 {
			rt.Fatalf("losing side shifted up by %v", shiftL)
		}
	})
}

func TestProperty_SigmaShrinksBelowDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}
	rapid.Check(t, func(rt *rapid.T) {
		p := DefaultParams()
		muGen := rapid.Float64Range(-10, 60)
		sigmaGen := rapid.Float64Range(0.1, 12)
		winners := drawTeam(rt, "w", muGen, sigmaGen)
		losers := drawTeam(rt, "l", muGen, sigmaGen)
		tied := rapid.Bool().Draw(rt, "tied")

		nw, nl, err := Update(p, winners, losers, tied)
		if err != nil {
			rt.Fatalf("update failed: %v", err)
		}
		check := func(before, after []Player) {
			for i := range before {
				drift := math.Sqrt(before[i].Sigma*before[i].Sigma + p.Tau*p.Tau)
				if !(after[i].Sigma < drift) {
					rt.Fatalf("%s: sigma %v not below drift-inflated %v", before[i].ID, after[i].Sigma, drift)
				}
				if !(after[i].Sigma > 0) || math.IsNaN(after[i].Mu) {
					rt.Fatalf("%s: invalid posterior %+v", before[i].ID, after[i].Rating)
				}
			}
		}
		check(winners, nw)
		check(losers, nl)
	})
}

func TestProperty_PersistedPrecisionIsStable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}
	rapid.Check(t, func(rt *rapid.T) {
		// |x| < 64 keeps float64 spacing finer than the 14th fractional digit.
		mu := rapid.Float64Range(-60, 60).Draw(rt, "mu")
		sigma := rapid.Float64Range(0.0001, 50).Draw(rt, "sigma")

		s := domain.NewSkill(mu, sigma)
		again := domain.NewSkill(s.Float64())
		if !s.Equal(again) {
			rt.Fatalf("rounding is not stable: %v/%v then %v/%v", s.Mu, s.Sigma, again.Mu, again.Sigma)
		}
	})
}

func TestProperty_DuplicateMemberAlwaysRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}
	rapid.Check(t, func(rt *rapid.T) {
		muGen := rapid.Float64Range(0, 50)
		sigmaGen := rapid.Float64Range(0.1, 10)
		winners := drawTeam(rt, "w", muGen, sigmaGen)
		losers := drawTeam(rt, "l", muGen, sigmaGen)
		losers = append(losers, winners[rapid.IntRange(0, len(winners)-1).Draw(rt, "dup")])

		_, _, err := Update(DefaultParams(), winners, losers, false)
		if err == nil {
			rt.Fatalf("expected composition error")
		}
	})
}
