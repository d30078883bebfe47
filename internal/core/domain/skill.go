package domain

import "github.com/shopspring/decimal"

// SkillScale is the number of fractional digits mu and sigma are stored with
// (NUMERIC(16,14)).
const SkillScale = 14

// NUMERIC(16,14) leaves two integer digits, and sigma must stay positive
// after rounding.
var (
	maxSkillMagnitude = decimal.NewFromInt(100)
	MinSkillSigma     = decimal.New(1, -SkillScale)
)

// Skill is a member's Gaussian skill belief at persisted precision.
type Skill struct {
	Mu    decimal.Decimal `json:"mu"`
	Sigma decimal.Decimal `json:"sigma"`
}

// NewSkill rounds mu and sigma to SkillScale fractional digits.
func NewSkill(mu, sigma float64) Skill {
	return Skill{
		Mu:    decimal.NewFromFloat(mu).Round(SkillScale),
		Sigma: decimal.NewFromFloat(sigma).Round(SkillScale),
	}
}

func (s Skill) Float64() (mu, sigma float64) {
	return s.Mu.InexactFloat64(), s.Sigma.InexactFloat64()
}

// Conservative returns mu - k*sigma, the estimate tiers and leaderboards use.
func (s Skill) Conservative(k float64) float64 {
	mu, sigma := s.Float64()
	return mu - k*sigma
}

func (s Skill) Equal(o Skill) bool {
	return s.Mu.Equal(o.Mu) && s.Sigma.Equal(o.Sigma)
}

// Storable reports whether s fits the persisted precision: |mu| and sigma
// below 100, sigma at least 1e-14.
func (s Skill) Storable() bool {
	return s.Mu.Abs().LessThan(maxSkillMagnitude) &&
		s.Sigma.LessThan(maxSkillMagnitude) &&
		s.Sigma.GreaterThanOrEqual(MinSkillSigma)
}
