package rating

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Below this the truncated-Gaussian ratios lose all precision and the
// asymptotic forms are used.
const tinyDenominator = 2.222758749e-162

func pdf(x float64) float64 { return distuv.UnitNormal.Prob(x) }
func cdf(x float64) float64 { return distuv.UnitNormal.CDF(x) }

func drawMargin(p, beta, players float64) float64 {
	if p <= 0 {
		return 0
	}
	return distuv.UnitNormal.Quantile((p+1)/2) * math.Sqrt(players) * beta
}

func vExceedsMargin(t, eps float64) float64 {
	d := cdf(t - eps)
	if d < tinyDenominator {
		return -t + eps
	}
	return pdf(t-eps) / d
}

func wExceedsMargin(t, eps float64) float64 {
	d := cdf(t - eps)
	if d < tinyDenominator {
		if t < 0 {
			return 1
		}
		return 0
	}
	v := vExceedsMargin(t, eps)
	return v * (v + t - eps)
}

func vWithinMargin(t, eps float64) float64 {
	a := math.Abs(t)
	d := cdf(eps-a) - cdf(-eps-a)
	if d < tinyDenominator {
		if t < 0 {
			return -t - eps
		}
		return -t + eps
	}
	num := pdf(-eps-a) - pdf(eps-a)
	if t < 0 {
		return -num / d
	}
	return num / d
}

func wWithinMargin(t, eps float64) float64 {
	a := math.Abs(t)
	d := cdf(eps-a) - cdf(-eps-a)
	if d < tinyDenominator {
		return 1
	}
	v := vWithinMargin(a, eps)
	return v*v + ((eps-a)*pdf(eps-a)-(-eps-a)*pdf(-eps-a))/d
}
