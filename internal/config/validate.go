package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"match-rank-tracker/internal/core/ranking"
)

// Validation constants define acceptable bounds for configuration values
const (
	// Token validation
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	// ReportTimeout validation
	minReportTimeout = 1 * time.Second
	maxReportTimeout = 5 * time.Minute

	// ReportMaxRetries validation
	maxReportRetries = 10

	// RoleUpdateWorkers validation
	minRoleUpdateWorkers = 1
	maxRoleUpdateWorkers = 50 // Discord rate limits make more pointless

	// Channel name validation
	maxChannelNameLength = 100 // Discord limit
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join.
//
// Validated fields:
//   - Token: Must be at least 50 characters (Discord token format)
//   - Rating parameters: positive sigma and beta, draw probability in [0, 1)
//   - TierSigmaMultiplier: Must be positive
//   - DefaultTierThresholds: Must be strictly ascending and finite
//   - MapPool: Must not be empty
//   - ReportTimeout: Must be between 1s and 5m
//   - ReportMaxRetries: Must be between 0 and 10
//   - Role updates: rate above zero, 1 to 50 workers
//   - LogLevel and DiscordChannelMatches
func (c *Config) Validate() error {
	var errs []error

	checks := []func() error{
		c.validateToken,
		c.validateRating,
		c.validateTiers,
		c.validateMapPool,
		c.validateReporting,
		c.validateRoleUpdates,
		c.validateLogLevel,
		c.validateChannelName,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

// validateToken ensures the Discord token is present and has valid length
func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required but not set")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateRating() error {
	if err := c.RatingParams().Validate(); err != nil {
		return fmt.Errorf("RATING_*: %w", err)
	}
	return nil
}

func (c *Config) validateTiers() error {
	var errs []error

	if !(c.TierSigmaMultiplier > 0) || math.IsInf(c.TierSigmaMultiplier, 0) {
		errs = append(errs, fmt.Errorf("TIER_SIGMA_MULTIPLIER must be positive, got %v", c.TierSigmaMultiplier))
	}
	if err := ranking.ValidateThresholds(c.DefaultTierThresholds); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TIER_THRESHOLDS: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) validateMapPool() error {
	if len(c.MapPool) == 0 {
		return fmt.Errorf("MAP_POOL must name at least one map")
	}
	return nil
}

// validateReporting bounds the per-report timeout and retry count
func (c *Config) validateReporting() error {
	var errs []error

	if c.ReportTimeout < minReportTimeout || c.ReportTimeout > maxReportTimeout {
		errs = append(errs, fmt.Errorf(
			"REPORT_TIMEOUT must be between %v and %v, got %v",
			minReportTimeout, maxReportTimeout, c.ReportTimeout,
		))
	}
	if c.ReportMaxRetries < 0 || c.ReportMaxRetries > maxReportRetries {
		errs = append(errs, fmt.Errorf(
			"REPORT_MAX_RETRIES must be between 0 and %d, got %d",
			maxReportRetries, c.ReportMaxRetries,
		))
	}

	return errors.Join(errs...)
}

func (c *Config) validateRoleUpdates() error {
	var errs []error

	if !(c.RoleUpdateRate > 0) {
		errs = append(errs, fmt.Errorf("ROLE_UPDATE_RATE must be positive, got %v", c.RoleUpdateRate))
	}
	if c.RoleUpdateWorkers < minRoleUpdateWorkers || c.RoleUpdateWorkers > maxRoleUpdateWorkers {
		errs = append(errs, fmt.Errorf(
			"ROLE_UPDATE_WORKERS must be between %d and %d, got %d (hint: recommended range is 2-8)",
			minRoleUpdateWorkers, maxRoleUpdateWorkers, c.RoleUpdateWorkers,
		))
	}

	return errors.Join(errs...)
}

func (c *Config) validateLogLevel() error {
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

// validateChannelName checks the fallback announcement channel name
func (c *Config) validateChannelName() error {
	if c.DiscordChannelMatches == "" {
		return fmt.Errorf("DISCORD_CHANNEL_MATCHES cannot be empty")
	}

	if len(c.DiscordChannelMatches) > maxChannelNameLength {
		return fmt.Errorf(
			"DISCORD_CHANNEL_MATCHES must be at most %d characters (Discord limit), got %d",
			maxChannelNameLength, len(c.DiscordChannelMatches),
		)
	}

	return nil
}
