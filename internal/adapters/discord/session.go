package discord

import (
	"fmt"
	"log/slog"

	"match-rank-tracker/internal/config"

	"github.com/bwmarrin/discordgo"
)

const botTokenPrefix = "Bot "

// NewSession creates a gateway session for the bot. Slash commands arrive as
// interactions, so the guild intent alone covers join/leave events plus the
// roles and channels the announcer touches.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	s, err := discordgo.New(botTokenPrefix + cfg.Token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, fmt.Errorf("discord session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds
	s.ShouldRetryOnRateLimit = true

	// Only guild structure is read from the state cache.
	s.State.TrackRoles = true
	s.State.TrackChannels = true
	s.State.TrackMembers = false
	s.State.TrackPresences = false
	s.State.TrackVoice = false
	s.State.TrackEmojis = false
	s.State.MaxMessageCount = 0

	return s, nil
}
