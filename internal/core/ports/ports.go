package ports

import (
	"context"
	"time"

	"match-rank-tracker/internal/core/domain"
)

type CommunityStore interface {
	// EnsureCommunity creates the community with thresholds when it does not exist.
	EnsureCommunity(ctx context.Context, communityID string, thresholds []float64) error
	// GetCommunity fails with domain.ErrUnknownCommunity when absent.
	GetCommunity(ctx context.Context, communityID string) (*domain.Community, error)
	DeleteCommunity(ctx context.Context, communityID string) error
	SetTierRole(ctx context.Context, communityID string, tier int, roleID string) error
	SetTierThresholds(ctx context.Context, communityID string, thresholds []float64) error
	SetAnnouncementChannel(ctx context.Context, communityID, channelID string) error
	DeleteMember(ctx context.Context, communityID, userID string) error
}

type MapBanStore interface {
	BanMap(ctx context.Context, communityID, mapName string) error
	UnbanMap(ctx context.Context, communityID, mapName string) error
	BannedMaps(ctx context.Context, communityID string) ([]string, error)
}

type HistoryStore interface {
	MemberHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.AuditEntry, error)
}

type StandingsStore interface {
	// GetMember returns nil, nil when the member has never been rated.
	GetMember(ctx context.Context, communityID, userID string) (*domain.Member, error)
	// GetMatch returns nil, nil when no match with id belongs to the community.
	GetMatch(ctx context.Context, communityID string, matchID int64) (*domain.Match, error)
	Leaderboard(ctx context.Context, communityID string, kind domain.LeaderboardKind, sigmaMultiplier float64, limit int) ([]domain.Standing, error)
}

// RatingTx is the unit of work a match report runs in. Every method shares
// one database transaction.
type RatingTx interface {
	// LockCommunity share-locks the community for the rest of the transaction.
	// It fails with domain.ErrUnknownCommunity when absent.
	LockCommunity(ctx context.Context, communityID string) (*domain.Community, error)
	// EnsureMembers inserts missing members with prior and returns the ids it created.
	EnsureMembers(ctx context.Context, communityID string, userIDs []string, prior domain.Skill) ([]string, error)
	// LockMembers row-locks the members in user id order and returns them.
	LockMembers(ctx context.Context, communityID string, userIDs []string) ([]domain.Member, error)
	InsertMatch(ctx context.Context, m domain.Match) (int64, time.Time, error)
	UpdateMember(ctx context.Context, m domain.Member) error
	InsertAuditEntries(ctx context.Context, entries []domain.AuditEntry) error
}

type MatchStore interface {
	// RunInTx commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx RatingTx) error) error
}

type Repository interface {
	CommunityStore
	MapBanStore
	HistoryStore
	StandingsStore
	MatchStore
	Ping(ctx context.Context) error
	Close()
}

// MatchNotifier applies the outcome of a committed report outside the store.
type MatchNotifier interface {
	AnnounceMatch(ctx context.Context, community domain.Community, result domain.MatchResult) error
	ApplyTierRoles(ctx context.Context, community domain.Community, changes []domain.TierChange) error
}
