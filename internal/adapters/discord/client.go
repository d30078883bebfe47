package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"match-rank-tracker/internal/adapters/discord/formatting"
	"match-rank-tracker/internal/adapters/metrics"
	"match-rank-tracker/internal/config"
	"match-rank-tracker/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type DiscordSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// Adapter posts match announcements and keeps tier roles in sync. It
// implements ports.MatchNotifier.
type Adapter struct {
	session     DiscordSession
	config      *config.Config
	cache       *channelCache
	limiter     *rate.Limiter
	roleWorkers int
}

func NewAdapter(session DiscordSession, cfg *config.Config) *Adapter {
	workers := cfg.RoleUpdateWorkers
	if workers < 1 {
		workers = 1
	}
	limit := rate.Limit(cfg.RoleUpdateRate)
	if cfg.RoleUpdateRate <= 0 {
		limit = rate.Inf
	}
	return &Adapter{
		session:     session,
		config:      cfg,
		cache:       newChannelCache(channelCacheTTL),
		limiter:     rate.NewLimiter(limit, workers),
		roleWorkers: workers,
	}
}

// AnnounceMatch posts the summary to the community's announcement channel,
// falling back to the configured channel name when none is set.
func (a *Adapter) AnnounceMatch(ctx context.Context, community domain.Community, result domain.MatchResult) error {
	content := formatting.MsgMatchAnnouncement(result)

	if community.AnnouncementChannelID != "" {
		return a.send(community.ID, community.AnnouncementChannelID, "", content)
	}
	return a.SendGenericMessage(community.ID, a.config.DiscordChannelMatches, content)
}

func (a *Adapter) SendGenericMessage(guildID, channelName, message string) error {
	channelID, err := a.resolveChannelID(guildID, channelName)
	if err != nil {
		slog.Error("Failed to get channel ID", "guild_id", guildID, "channel_name", channelName, "error", err)
		return err
	}
	return a.send(guildID, channelID, channelName, message)
}

func (a *Adapter) send(guildID, channelID, channelName, message string) error {
	channelType := "configured"
	if channelName != "" {
		channelType = "fallback"
	}

	if _, err := a.session.ChannelMessageSend(channelID, message); err != nil {
		slog.Error("Failed to send message", "guild_id", guildID, "channel_id", channelID, "error", err)
		if channelName != "" {
			a.cache.Invalidate(guildID, channelName)
		}
		metrics.DiscordMessagesSent.WithLabelValues(channelType, "failure").Inc()
		return err
	}

	metrics.DiscordMessagesSent.WithLabelValues(channelType, "success").Inc()
	return nil
}

// ApplyTierRoles swaps each member's old tier role for the new one. Members
// rated for the first time only receive the new role. Calls are spread over a
// bounded worker set and rate limited; every change is attempted and the
// failures are returned together.
func (a *Adapter) ApplyTierRoles(ctx context.Context, community domain.Community, changes []domain.TierChange) error {
	var g errgroup.Group
	g.SetLimit(a.roleWorkers)

	errs := make([]error, len(changes))
	for i, change := range changes {
		g.Go(func() error {
			errs[i] = a.applyTierRole(ctx, community, change)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (a *Adapter) applyTierRole(ctx context.Context, community domain.Community, change domain.TierChange) error {
	newRole := community.TierRole(change.NewTier)
	oldRole := ""
	if !change.FirstSeen {
		oldRole = community.TierRole(change.OldTier)
	}

	if oldRole != "" && oldRole != newRole {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := a.session.GuildMemberRoleRemove(community.ID, change.UserID, oldRole); err != nil {
			metrics.RoleUpdates.WithLabelValues("remove", "failure").Inc()
			slog.Error("Failed to remove tier role", "guild_id", community.ID, "user_id", change.UserID, "role_id", oldRole, "error", err)
			return fmt.Errorf("remove role %s from %s: %w", oldRole, change.UserID, err)
		}
		metrics.RoleUpdates.WithLabelValues("remove", "success").Inc()
	}

	if newRole == "" {
		slog.Debug("No role configured for tier", "guild_id", community.ID, "tier", change.NewTier)
		return nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := a.session.GuildMemberRoleAdd(community.ID, change.UserID, newRole); err != nil {
		metrics.RoleUpdates.WithLabelValues("add", "failure").Inc()
		slog.Error("Failed to add tier role", "guild_id", community.ID, "user_id", change.UserID, "role_id", newRole, "error", err)
		return fmt.Errorf("add role %s to %s: %w", newRole, change.UserID, err)
	}
	metrics.RoleUpdates.WithLabelValues("add", "success").Inc()

	slog.Info("Updated tier role", "guild_id", community.ID, "user_id", change.UserID, "old_tier", change.OldTier, "new_tier", change.NewTier)
	return nil
}

func (a *Adapter) resolveChannelID(guildID, channelName string) (string, error) {
	if id, ok := a.cache.Get(guildID, channelName); ok {
		return id, nil
	}

	id, err := a.fetchChannelID(guildID, channelName)
	if err != nil {
		return "", err
	}

	a.cache.Set(guildID, channelName, id)
	return id, nil
}

func (a *Adapter) fetchChannelID(guildID, channelName string) (string, error) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		slog.Error("Failed to fetch guild channels", "guild_id", guildID, "error", err)
		return "", err
	}

	for _, ch := range channels {
		if ch.Name == channelName && ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, nil
		}
	}

	return "", fmt.Errorf("channel %s not found", channelName)
}
