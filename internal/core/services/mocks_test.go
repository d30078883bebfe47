package services

import (
	"context"
	"slices"
	"sync"

	"match-rank-tracker/internal/core/domain"
)

type mockRepository struct {
	ensureCommunityFunc        func(ctx context.Context, communityID string, thresholds []float64) error
	getCommunityFunc           func(ctx context.Context, communityID string) (*domain.Community, error)
	deleteCommunityFunc        func(ctx context.Context, communityID string) error
	setTierRoleFunc            func(ctx context.Context, communityID string, tier int, roleID string) error
	setTierThresholdsFunc      func(ctx context.Context, communityID string, thresholds []float64) error
	setAnnouncementChannelFunc func(ctx context.Context, communityID, channelID string) error
	deleteMemberFunc           func(ctx context.Context, communityID, userID string) error
	memberHistoryFunc          func(ctx context.Context, q domain.HistoryQuery) ([]domain.AuditEntry, error)
	getMemberFunc              func(ctx context.Context, communityID, userID string) (*domain.Member, error)
	getMatchFunc               func(ctx context.Context, communityID string, matchID int64) (*domain.Match, error)
	leaderboardFunc            func(ctx context.Context, communityID string, kind domain.LeaderboardKind, k float64, limit int) ([]domain.Standing, error)
}

func (m *mockRepository) EnsureCommunity(ctx context.Context, communityID string, thresholds []float64) error {
	if m.ensureCommunityFunc != nil {
		return m.ensureCommunityFunc(ctx, communityID, thresholds)
	}
	return nil
}

func (m *mockRepository) GetCommunity(ctx context.Context, communityID string) (*domain.Community, error) {
	if m.getCommunityFunc != nil {
		return m.getCommunityFunc(ctx, communityID)
	}
	return &domain.Community{ID: communityID, TierThresholds: []float64{0, 10, 20}}, nil
}

func (m *mockRepository) DeleteCommunity(ctx context.Context, communityID string) error {
	if m.deleteCommunityFunc != nil {
		return m.deleteCommunityFunc(ctx, communityID)
	}
	return nil
}

func (m *mockRepository) SetTierRole(ctx context.Context, communityID string, tier int, roleID string) error {
	if m.setTierRoleFunc != nil {
		return m.setTierRoleFunc(ctx, communityID, tier, roleID)
	}
	return nil
}

func (m *mockRepository) SetTierThresholds(ctx context.Context, communityID string, thresholds []float64) error {
	if m.setTierThresholdsFunc != nil {
		return m.setTierThresholdsFunc(ctx, communityID, thresholds)
	}
	return nil
}

func (m *mockRepository) SetAnnouncementChannel(ctx context.Context, communityID, channelID string) error {
	if m.setAnnouncementChannelFunc != nil {
		return m.setAnnouncementChannelFunc(ctx, communityID, channelID)
	}
	return nil
}

func (m *mockRepository) DeleteMember(ctx context.Context, communityID, userID string) error {
	if m.deleteMemberFunc != nil {
		return m.deleteMemberFunc(ctx, communityID, userID)
	}
	return nil
}

func (m *mockRepository) MemberHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.AuditEntry, error) {
	if m.memberHistoryFunc != nil {
		return m.memberHistoryFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockRepository) GetMember(ctx context.Context, communityID, userID string) (*domain.Member, error) {
	if m.getMemberFunc != nil {
		return m.getMemberFunc(ctx, communityID, userID)
	}
	return nil, nil
}

func (m *mockRepository) GetMatch(ctx context.Context, communityID string, matchID int64) (*domain.Match, error) {
	if m.getMatchFunc != nil {
		return m.getMatchFunc(ctx, communityID, matchID)
	}
	return nil, nil
}

func (m *mockRepository) Leaderboard(ctx context.Context, communityID string, kind domain.LeaderboardKind, k float64, limit int) ([]domain.Standing, error) {
	if m.leaderboardFunc != nil {
		return m.leaderboardFunc(ctx, communityID, kind, k, limit)
	}
	return nil, nil
}

// memoryBans is a map ban store backed by a set per community.
type memoryBans struct {
	mu   sync.Mutex
	bans map[string]map[string]struct{}
	err  error
}

func newMemoryBans() *memoryBans {
	return &memoryBans{bans: map[string]map[string]struct{}{}}
}

func (b *memoryBans) BanMap(ctx context.Context, communityID, mapName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	if b.bans[communityID] == nil {
		b.bans[communityID] = map[string]struct{}{}
	}
	b.bans[communityID][mapName] = struct{}{}
	return nil
}

func (b *memoryBans) UnbanMap(ctx context.Context, communityID, mapName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	delete(b.bans[communityID], mapName)
	return nil
}

func (b *memoryBans) BannedMaps(ctx context.Context, communityID string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	var out []string
	for m := range b.bans[communityID] {
		out = append(out, m)
	}
	slices.Sort(out)
	return out, nil
}

type mockNotifier struct {
	announced []domain.MatchResult
	roles     [][]domain.TierChange
	err       error
}

func (n *mockNotifier) AnnounceMatch(ctx context.Context, community domain.Community, result domain.MatchResult) error {
	n.announced = append(n.announced, result)
	return n.err
}

func (n *mockNotifier) ApplyTierRoles(ctx context.Context, community domain.Community, changes []domain.TierChange) error {
	n.roles = append(n.roles, changes)
	return n.err
}

type mockRecorder struct {
	reportFunc func(ctx context.Context, req domain.MatchReport) (*domain.MatchResult, error)
}

func (m *mockRecorder) Report(ctx context.Context, req domain.MatchReport) (*domain.MatchResult, error) {
	if m.reportFunc != nil {
		return m.reportFunc(ctx, req)
	}
	return &domain.MatchResult{MatchID: 1, CommunityID: req.CommunityID}, nil
}
