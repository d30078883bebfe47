package domain

import "errors"

// Validation errors: reported to the caller, nothing was written.
var (
	ErrInvalidMatchComposition = errors.New("invalid match composition")
	ErrEmptyPool               = errors.New("no eligible maps left in pool")
	ErrUnknownMap              = errors.New("map is not in the pool")
	ErrMapBanned               = errors.New("map is banned in this community")
)

// Configuration errors: fatal for the call, the community needs setup.
var (
	ErrUnknownCommunity      = errors.New("unknown community")
	ErrMissingTierThresholds = errors.New("tier thresholds are not configured")
	ErrInvalidThresholds     = errors.New("tier thresholds must be strictly ascending")
	ErrInvalidTier           = errors.New("tier out of range")
	ErrSkillOutOfRange       = errors.New("rating outside the storable range")
)

// ErrPersistenceConflict is transient; the whole operation may be retried.
var ErrPersistenceConflict = errors.New("persistence conflict")

var ErrMatchNotFound = errors.New("match not found")

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMatchComposition) ||
		errors.Is(err, ErrEmptyPool) ||
		errors.Is(err, ErrUnknownMap) ||
		errors.Is(err, ErrMapBanned)
}

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrUnknownCommunity) ||
		errors.Is(err, ErrMissingTierThresholds) ||
		errors.Is(err, ErrInvalidThresholds) ||
		errors.Is(err, ErrInvalidTier) ||
		errors.Is(err, ErrSkillOutOfRange)
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceConflict)
}
