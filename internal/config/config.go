package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"match-rank-tracker/internal/core/ranking"
	"match-rank-tracker/internal/core/rating"

	"github.com/joho/godotenv"
)

var defaultMapPool = []string{
	"Scarif Beach", "Kamino Cloning Facility", "Tatooine Mos Eisley", "Naboo Palace",
	"Hoth Outpost Delta", "Takodana Castle", "Death Star II", "Yavin 4", "Starkiller Base",
	"Endor Research Station", "Kashyyyk", "Jakku The Graveyard", "Bespin Palace",
	"Jabbas Palace", "Kessel Coaxium Mine", "Geonosis Trippa", "Geonosis Dreadnought",
	"Naboo Ship", "Felucia", "Ajan Kloss", "Takodana MC85", "Resurgent Star Destroyer", "Crait",
}

var defaultTierThresholds = []float64{0, 5, 10, 15, 20, 25}

type Config struct {
	Token                 string
	DatabaseURL           string
	DiscordGuildID        string
	DiscordChannelMatches string
	LogLevel              string
	MetricsAddr           string

	RatingMu              float64
	RatingSigma           float64
	RatingBeta            float64
	RatingTau             float64
	RatingDrawProbability float64
	RatingSigmaFloor      float64
	TierSigmaMultiplier   float64
	DefaultTierThresholds []float64
	MapPool               []string

	ReportTimeout     time.Duration
	ReportMaxRetries  int
	RoleUpdateRate    float64
	RoleUpdateWorkers int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := readSecret("discord_token")
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set (via secret or env var)")
	}

	dbURL := readSecret("database_url")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (via secret or env var)")
	}

	thresholds, err := envFloats("DEFAULT_TIER_THRESHOLDS", defaultTierThresholds)
	if err != nil {
		return nil, err
	}

	defaults := rating.DefaultParams()
	cfg := &Config{
		Token:                 token,
		DatabaseURL:           dbURL,
		DiscordGuildID:        envString("DISCORD_GUILD_ID", ""),
		DiscordChannelMatches: envString("DISCORD_CHANNEL_MATCHES", "match-results"),
		LogLevel:              envString("LOG_LEVEL", "info"),
		MetricsAddr:           envString("METRICS_ADDR", ":2112"),

		RatingMu:              envFloat("RATING_MU", defaults.Mu),
		RatingSigma:           envFloat("RATING_SIGMA", defaults.Sigma),
		RatingBeta:            envFloat("RATING_BETA", defaults.Beta),
		RatingTau:             envFloat("RATING_TAU", defaults.Tau),
		RatingDrawProbability: envFloat("RATING_DRAW_PROBABILITY", defaults.DrawProbability),
		RatingSigmaFloor:      envFloat("RATING_SIGMA_FLOOR", defaults.SigmaFloor),
		TierSigmaMultiplier:   envFloat("TIER_SIGMA_MULTIPLIER", ranking.DefaultSigmaMultiplier),
		DefaultTierThresholds: thresholds,
		MapPool:               envList("MAP_POOL", defaultMapPool),

		ReportTimeout:     envDuration("REPORT_TIMEOUT", 15*time.Second),
		ReportMaxRetries:  envInt("REPORT_MAX_RETRIES", 3),
		RoleUpdateRate:    envFloat("ROLE_UPDATE_RATE", 5),
		RoleUpdateWorkers: envInt("ROLE_UPDATE_WORKERS", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RatingParams builds the rating model parameters from the loaded values.
func (c *Config) RatingParams() rating.Params {
	return rating.Params{
		Mu:              c.RatingMu,
		Sigma:           c.RatingSigma,
		Beta:            c.RatingBeta,
		Tau:             c.RatingTau,
		DrawProbability: c.RatingDrawProbability,
		SigmaFloor:      c.RatingSigmaFloor,
	}
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma separated value, dropping blank items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envFloats reports malformed items instead of falling back.
func envFloats(key string, fallback []float64) ([]float64, error) {
	items := envList(key, nil)
	if items == nil {
		return fallback, nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", key, item)
		}
		out = append(out, f)
	}
	return out, nil
}
