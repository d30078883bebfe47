package commands

import (
	"context"
	"errors"
	"log/slog"

	"match-rank-tracker/internal/adapters/discord/formatting"
	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/services"

	"github.com/bwmarrin/discordgo"
)

type BotHandler struct {
	Engine *services.Engine
}

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Match Rank Tracker is online!", "user", session.State.User.Username, "guilds", len(ready.Guilds))
}

// GuildCreate registers the community when the bot joins or reconnects.
func (h *BotHandler) GuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if err := h.Engine.Configuration().EnsureCommunity(context.Background(), g.ID); err != nil {
		slog.Error("Failed to register community", "guild_id", g.ID, "error", err)
	}
}

// GuildDelete forgets the community when the bot leaves. Outages also emit
// this event, flagged Unavailable, and are ignored.
func (h *BotHandler) GuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	if err := h.Engine.Configuration().RemoveCommunity(context.Background(), g.ID); err != nil {
		slog.Error("Failed to remove community", "guild_id", g.ID, "error", err)
		return
	}
	slog.Info("Removed community", "guild_id", g.ID)
}

func (h *BotHandler) ReportMatch(s DiscordSession, i *discordgo.InteractionCreate) {
	opts := i.ApplicationCommandData().Options

	winners := parseMentions(getStringOption(opts, "winners"))
	losers := parseMentions(getStringOption(opts, "losers"))
	if len(winners) == 0 || len(losers) == 0 {
		respond(s, i, formatting.MsgTeamsRequired, true)
		return
	}

	report := domain.MatchReport{
		CommunityID: i.GuildID,
		Winners: domain.Team{
			Name:      getStringOption(opts, "winners-name"),
			Score:     int(getIntOption(opts, "winners-score", 0)),
			MemberIDs: winners,
		},
		Losers: domain.Team{
			Name:      getStringOption(opts, "losers-name"),
			Score:     int(getIntOption(opts, "losers-score", 0)),
			MemberIDs: losers,
		},
		Tied:    getBoolOption(opts, "tied"),
		MapName: services.NormalizeMapName(getStringOption(opts, "map")),
	}

	if err := deferResponse(s, i); err != nil {
		slog.Error("Failed to defer report response", "guild_id", i.GuildID, "error", err)
		return
	}

	result, err := h.Engine.ReportMatch(context.Background(), report)
	if err != nil {
		slog.Error("Failed to report match", "guild_id", i.GuildID, "reporter", invokingUserID(i), "error", err)
		editResponse(s, i, reportErrorMessage(err, report.MapName))
		return
	}

	editResponse(s, i, formatting.MsgMatchReported(*result))
}

func reportErrorMessage(err error, mapName string) string {
	switch {
	case errors.Is(err, domain.ErrInvalidMatchComposition):
		return formatting.MsgInvalidComposition
	case errors.Is(err, domain.ErrUnknownMap):
		return formatting.MsgUnknownMap(mapName)
	case errors.Is(err, domain.ErrMapBanned):
		return formatting.MsgMapBannedHere(mapName)
	case errors.Is(err, domain.ErrSkillOutOfRange):
		return formatting.MsgRatingOutOfRange
	case domain.IsConfiguration(err):
		return formatting.MsgNotConfigured
	case domain.IsRetryable(err):
		return formatting.MsgReportConflict
	default:
		return formatting.MsgReportError
	}
}

func (h *BotHandler) BanMap(s DiscordSession, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.handleMapAutocomplete(s, i, h.Engine.Maps().Pool())
		return
	}

	name := getStringOption(i.ApplicationCommandData().Options, "name")
	if name == "" {
		respond(s, i, formatting.MsgMapNameRequired, true)
		return
	}

	banned, err := h.Engine.BanMap(context.Background(), i.GuildID, name)
	if errors.Is(err, domain.ErrUnknownMap) {
		respond(s, i, formatting.MsgUnknownMap(name), true)
		return
	}
	if err != nil {
		slog.Error("Failed to ban map", "guild_id", i.GuildID, "map", name, "error", err)
		respond(s, i, formatting.MsgMapError, true)
		return
	}

	respond(s, i, formatting.MsgMapBanned(banned), false)
}

func (h *BotHandler) UnbanMap(s DiscordSession, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		banned, err := h.Engine.Maps().Banned(context.Background(), i.GuildID)
		if err != nil {
			slog.Error("Failed to fetch banned maps for autocomplete", "guild_id", i.GuildID, "error", err)
			return
		}
		h.handleMapAutocomplete(s, i, banned)
		return
	}

	name := getStringOption(i.ApplicationCommandData().Options, "name")
	if name == "" {
		respond(s, i, formatting.MsgMapNameRequired, true)
		return
	}

	unbanned, err := h.Engine.UnbanMap(context.Background(), i.GuildID, name)
	if err != nil {
		slog.Error("Failed to unban map", "guild_id", i.GuildID, "map", name, "error", err)
		respond(s, i, formatting.MsgMapError, true)
		return
	}

	respond(s, i, formatting.MsgMapUnbanned(unbanned), false)
}

func (h *BotHandler) handleMapAutocomplete(s DiscordSession, i *discordgo.InteractionCreate, maps []string) {
	query := getFocusedOption(i.ApplicationCommandData().Options)
	if err := respondAutocomplete(s, i, buildChoices(maps, query)); err != nil {
		slog.Error("Failed to send autocomplete response", "error", err)
	}
}

func (h *BotHandler) Maps(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	count := getIntOption(i.ApplicationCommandData().Options, "random", 0)

	var maps []string
	var err error
	if count > 0 {
		maps, err = h.Engine.Maps().RandomMaps(ctx, i.GuildID, h.Engine.Maps().Pool(), int(count))
	} else {
		maps, err = h.Engine.EligibleMaps(ctx, i.GuildID)
	}
	if errors.Is(err, domain.ErrEmptyPool) {
		respond(s, i, formatting.MsgEmptyPool, false)
		return
	}
	if err != nil {
		slog.Error("Failed to list maps", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgMapError, true)
		return
	}

	respond(s, i, formatting.MsgMapsList(maps), false)
}

func (h *BotHandler) History(s DiscordSession, i *discordgo.InteractionCreate) {
	opts := i.ApplicationCommandData().Options

	userID := getIDOption(opts, "member")
	if userID == "" {
		userID = invokingUserID(i)
	}

	q := domain.HistoryQuery{
		CommunityID: i.GuildID,
		UserID:      userID,
		Order:       domain.NewestFirst,
		Limit:       int(getIntOption(opts, "limit", 0)),
	}
	if getStringOption(opts, "order") == "oldest" {
		q.Order = domain.OldestFirst
	}
	if id := getIntOption(opts, "match", 0); id > 0 {
		q.MatchID = &id
	}

	entries, err := h.Engine.MemberHistory(context.Background(), q)
	if err != nil {
		slog.Error("Failed to load history", "guild_id", i.GuildID, "user_id", userID, "error", err)
		respond(s, i, formatting.MsgHistoryError, true)
		return
	}
	if len(entries) == 0 {
		respond(s, i, formatting.MsgNoHistory, true)
		return
	}

	respond(s, i, formatting.MsgHistory(userID, entries), false)
}

func (h *BotHandler) Career(s DiscordSession, i *discordgo.InteractionCreate) {
	userID := getIDOption(i.ApplicationCommandData().Options, "member")
	if userID == "" {
		userID = invokingUserID(i)
	}

	career, err := h.Engine.Standings().Career(context.Background(), i.GuildID, userID)
	if err != nil {
		slog.Error("Failed to load career", "guild_id", i.GuildID, "user_id", userID, "error", err)
		respond(s, i, formatting.MsgStandingsError, true)
		return
	}
	if career == nil {
		respond(s, i, formatting.MsgNoCareer, true)
		return
	}

	respond(s, i, formatting.MsgCareer(*career), false)
}

func (h *BotHandler) Leaderboard(s DiscordSession, i *discordgo.InteractionCreate) {
	opts := i.ApplicationCommandData().Options

	kind := domain.LeaderboardKind(getStringOption(opts, "by"))
	if kind == "" {
		kind = domain.LeaderboardRating
	}

	standings, err := h.Engine.Standings().Leaderboard(context.Background(), i.GuildID, kind, int(getIntOption(opts, "limit", 0)))
	if err != nil {
		slog.Error("Failed to load leaderboard", "guild_id", i.GuildID, "kind", kind, "error", err)
		respond(s, i, formatting.MsgStandingsError, true)
		return
	}
	if len(standings) == 0 {
		respond(s, i, formatting.MsgNoStandings, false)
		return
	}

	respond(s, i, formatting.MsgLeaderboard(kind, standings), false)
}

func (h *BotHandler) Match(s DiscordSession, i *discordgo.InteractionCreate) {
	id := getIntOption(i.ApplicationCommandData().Options, "id", 0)

	match, err := h.Engine.Standings().Match(context.Background(), i.GuildID, id)
	if errors.Is(err, domain.ErrMatchNotFound) {
		respond(s, i, formatting.MsgMatchNotFound, true)
		return
	}
	if err != nil {
		slog.Error("Failed to load match", "guild_id", i.GuildID, "match_id", id, "error", err)
		respond(s, i, formatting.MsgStandingsError, true)
		return
	}

	respond(s, i, formatting.MsgMatchSummary(*match), false)
}

func (h *BotHandler) SetTierRole(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	opts := i.ApplicationCommandData().Options
	tier := int(getIntOption(opts, "tier", -1))
	roleID := getIDOption(opts, "role")

	cfg := h.Engine.Configuration()
	if err := cfg.EnsureCommunity(ctx, i.GuildID); err != nil {
		slog.Error("Failed to register community", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	err := cfg.SetTierRole(ctx, i.GuildID, tier, roleID)
	if errors.Is(err, domain.ErrInvalidTier) {
		community, cerr := cfg.Community(ctx, i.GuildID)
		if cerr != nil {
			respond(s, i, formatting.MsgSaveError, true)
			return
		}
		respond(s, i, formatting.MsgInvalidTier(community.TierCount()), true)
		return
	}
	if err != nil {
		slog.Error("Failed to set tier role", "guild_id", i.GuildID, "tier", tier, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	respond(s, i, formatting.MsgTierRoleSet(tier, roleID), false)
}

func (h *BotHandler) SetThresholds(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	thresholds, err := parseThresholds(getStringOption(i.ApplicationCommandData().Options, "thresholds"))
	if err != nil {
		respond(s, i, formatting.MsgInvalidThresholds, true)
		return
	}

	cfg := h.Engine.Configuration()
	if err := cfg.EnsureCommunity(ctx, i.GuildID); err != nil {
		slog.Error("Failed to register community", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	err = cfg.SetTierThresholds(ctx, i.GuildID, thresholds)
	if errors.Is(err, domain.ErrInvalidThresholds) || errors.Is(err, domain.ErrMissingTierThresholds) {
		respond(s, i, formatting.MsgInvalidThresholds, true)
		return
	}
	if err != nil {
		slog.Error("Failed to set tier thresholds", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	respond(s, i, formatting.MsgThresholdsSet(thresholds), false)
}

func (h *BotHandler) SetChannel(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	channelID := getIDOption(i.ApplicationCommandData().Options, "channel")

	cfg := h.Engine.Configuration()
	if err := cfg.EnsureCommunity(ctx, i.GuildID); err != nil {
		slog.Error("Failed to register community", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}
	if err := cfg.SetAnnouncementChannel(ctx, i.GuildID, channelID); err != nil {
		slog.Error("Failed to set announcement channel", "guild_id", i.GuildID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	if channelID == "" {
		respond(s, i, formatting.MsgChannelCleared, false)
		return
	}
	respond(s, i, formatting.MsgChannelSet(channelID), false)
}

func (h *BotHandler) RemoveMember(s DiscordSession, i *discordgo.InteractionCreate) {
	userID := getIDOption(i.ApplicationCommandData().Options, "member")
	if userID == "" {
		respond(s, i, formatting.MsgMemberRequired, true)
		return
	}

	if err := h.Engine.Configuration().RemoveMember(context.Background(), i.GuildID, userID); err != nil {
		slog.Error("Failed to remove member", "guild_id", i.GuildID, "user_id", userID, "error", err)
		respond(s, i, formatting.MsgSaveError, true)
		return
	}

	respond(s, i, formatting.MsgMemberRemoved(userID), false)
}
