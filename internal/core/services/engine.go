package services

import (
	"context"
	"log/slog"
	"strings"

	"match-rank-tracker/internal/adapters/metrics"
	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"
)

type MatchRecorder interface {
	Report(ctx context.Context, req domain.MatchReport) (*domain.MatchResult, error)
}

type EngineDependencies struct {
	Recorder  MatchRecorder
	Maps      *MapBanService
	History   *HistoryService
	Standings *StandingsService
	Config    *ConfigurationService
	Notifier  ports.MatchNotifier
}

// Engine is the entry point the command layer talks to.
type Engine struct {
	recorder  MatchRecorder
	maps      *MapBanService
	history   *HistoryService
	standings *StandingsService
	config    *ConfigurationService
	notifier  ports.MatchNotifier
}

func NewEngine(deps EngineDependencies) *Engine {
	return &Engine{
		recorder:  deps.Recorder,
		maps:      deps.Maps,
		history:   deps.History,
		standings: deps.Standings,
		config:    deps.Config,
		notifier:  deps.Notifier,
	}
}

func (e *Engine) Maps() *MapBanService { return e.maps }

func (e *Engine) Standings() *StandingsService { return e.standings }

func (e *Engine) Configuration() *ConfigurationService { return e.config }

// ReportMatch records the match and then announces it and applies tier roles.
// A named map must be in the pool and not banned; it is stored with its pool
// spelling. Notification failures are logged; the match is already committed.
func (e *Engine) ReportMatch(ctx context.Context, req domain.MatchReport) (*domain.MatchResult, error) {
	if err := e.config.EnsureCommunity(ctx, req.CommunityID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.MapName) != "" {
		name, err := e.maps.Playable(ctx, req.CommunityID, req.MapName)
		if err != nil {
			return nil, err
		}
		req.MapName = name
	}
	result, err := e.recorder.Report(ctx, req)
	if err != nil {
		return nil, err
	}
	if e.notifier == nil {
		return result, nil
	}

	notifyCtx := context.WithoutCancel(ctx)
	community, err := e.config.Community(notifyCtx, req.CommunityID)
	if err != nil {
		slog.Error("Failed to load community for notifications", "guild_id", req.CommunityID, "match_id", result.MatchID, "error", err)
		return result, nil
	}
	if err := e.notifier.ApplyTierRoles(notifyCtx, *community, result.RoleUpdates()); err != nil {
		slog.Error("Failed to apply tier roles", "guild_id", req.CommunityID, "match_id", result.MatchID, "error", err)
	}
	if err := e.notifier.AnnounceMatch(notifyCtx, *community, *result); err != nil {
		slog.Error("Failed to announce match", "guild_id", req.CommunityID, "match_id", result.MatchID, "error", err)
	}
	return result, nil
}

func (e *Engine) BanMap(ctx context.Context, communityID, mapName string) (string, error) {
	if err := e.config.EnsureCommunity(ctx, communityID); err != nil {
		return "", err
	}
	name, err := e.maps.Ban(ctx, communityID, mapName)
	if err == nil {
		metrics.MapBans.WithLabelValues("ban").Inc()
	}
	return name, err
}

func (e *Engine) UnbanMap(ctx context.Context, communityID, mapName string) (string, error) {
	name, err := e.maps.Unban(ctx, communityID, mapName)
	if err == nil {
		metrics.MapBans.WithLabelValues("unban").Inc()
	}
	return name, err
}

func (e *Engine) EligibleMaps(ctx context.Context, communityID string) ([]string, error) {
	return e.maps.Eligible(ctx, communityID)
}

func (e *Engine) MemberHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.AuditEntry, error) {
	return e.history.MemberHistory(ctx, q)
}
