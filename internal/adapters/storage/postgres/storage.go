package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"match-rank-tracker/internal/adapters/metrics"
	"match-rank-tracker/internal/adapters/storage/postgres/db"
	"match-rank-tracker/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultLockTimeout = 5 * time.Second

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresStore struct {
	pool        *pgxpool.Pool
	beginner    txBeginner
	q           *db.Queries
	lockTimeout time.Duration
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{
		pool:        pool,
		beginner:    pool,
		q:           db.New(pool),
		lockTimeout: defaultLockTimeout,
	}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// -- Community Methods --

func (s *PostgresStore) EnsureCommunity(ctx context.Context, communityID string, thresholds []float64) error {
	if thresholds == nil {
		thresholds = []float64{}
	}
	err := s.q.EnsureCommunity(ctx, db.EnsureCommunityParams{
		CommunityID:    communityID,
		TierThresholds: thresholds,
	})
	if err != nil {
		return fmt.Errorf("ensure community: %w", translate(err))
	}
	return nil
}

func (s *PostgresStore) GetCommunity(ctx context.Context, communityID string) (*domain.Community, error) {
	row, err := s.q.GetCommunity(ctx, communityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommunity, communityID)
	}
	if err != nil {
		return nil, fmt.Errorf("get community: %w", translate(err))
	}

	return communityWithRoles(ctx, s.q, row)
}

// communityWithRoles completes a community row with its tier role bindings,
// read through q so a transaction sees its own snapshot.
func communityWithRoles(ctx context.Context, q *db.Queries, row db.GetCommunityRow) (*domain.Community, error) {
	roles, err := q.ListTierRoles(ctx, row.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("list tier roles: %w", translate(err))
	}

	c := &domain.Community{
		ID:                    row.CommunityID,
		TierThresholds:        row.TierThresholds,
		AnnouncementChannelID: row.AnnouncementChannelID.String,
	}
	c.TierRoles = make([]string, c.TierCount())
	for _, r := range roles {
		for int(r.Tier) >= len(c.TierRoles) {
			c.TierRoles = append(c.TierRoles, "")
		}
		c.TierRoles[r.Tier] = r.RoleID
	}
	return c, nil
}

func (s *PostgresStore) DeleteCommunity(ctx context.Context, communityID string) error {
	if err := s.q.DeleteCommunity(ctx, communityID); err != nil {
		return fmt.Errorf("delete community: %w", translate(err))
	}
	return nil
}

// SetTierRole clears the binding when roleID is empty.
func (s *PostgresStore) SetTierRole(ctx context.Context, communityID string, tier int, roleID string) error {
	var err error
	if roleID == "" {
		err = s.q.DeleteTierRole(ctx, db.DeleteTierRoleParams{CommunityID: communityID, Tier: int32(tier)})
	} else {
		err = s.q.UpsertTierRole(ctx, db.UpsertTierRoleParams{CommunityID: communityID, Tier: int32(tier), RoleID: roleID})
	}
	if err != nil {
		return fmt.Errorf("set tier role: %w", translate(err))
	}
	return nil
}

func (s *PostgresStore) SetTierThresholds(ctx context.Context, communityID string, thresholds []float64) error {
	n, err := s.q.SetTierThresholds(ctx, db.SetTierThresholdsParams{
		CommunityID:    communityID,
		TierThresholds: thresholds,
	})
	if err != nil {
		return fmt.Errorf("set tier thresholds: %w", translate(err))
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommunity, communityID)
	}
	return nil
}

func (s *PostgresStore) SetAnnouncementChannel(ctx context.Context, communityID, channelID string) error {
	n, err := s.q.SetAnnouncementChannel(ctx, db.SetAnnouncementChannelParams{
		CommunityID:           communityID,
		AnnouncementChannelID: pgtype.Text{String: channelID, Valid: channelID != ""},
	})
	if err != nil {
		return fmt.Errorf("set announcement channel: %w", translate(err))
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommunity, communityID)
	}
	return nil
}

func (s *PostgresStore) DeleteMember(ctx context.Context, communityID, userID string) error {
	if err := s.q.DeleteMember(ctx, db.DeleteMemberParams{CommunityID: communityID, UserID: userID}); err != nil {
		return fmt.Errorf("delete member: %w", translate(err))
	}
	return nil
}

// -- Map Ban Methods --

func (s *PostgresStore) BanMap(ctx context.Context, communityID, mapName string) error {
	if err := s.q.BanMap(ctx, db.BanMapParams{MapName: mapName, CommunityID: communityID}); err != nil {
		return fmt.Errorf("ban map: %w", translate(err))
	}
	return nil
}

func (s *PostgresStore) UnbanMap(ctx context.Context, communityID, mapName string) error {
	if err := s.q.UnbanMap(ctx, db.UnbanMapParams{MapName: mapName, CommunityID: communityID}); err != nil {
		return fmt.Errorf("unban map: %w", translate(err))
	}
	return nil
}

func (s *PostgresStore) BannedMaps(ctx context.Context, communityID string) ([]string, error) {
	names, err := s.q.ListBannedMaps(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("list banned maps: %w", translate(err))
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// -- Read Methods --

func (s *PostgresStore) MemberHistory(ctx context.Context, q domain.HistoryQuery) (entries []domain.AuditEntry, err error) {
	defer func(start time.Time) { observe("member_history", start, err) }(time.Now())

	params := db.MemberHistoryParams{
		CommunityID: q.CommunityID,
		UserID:      q.UserID,
		OldestFirst: q.Order == domain.OldestFirst,
		RowLimit:    int32(q.Limit),
	}
	if q.MatchID != nil {
		params.MatchID = pgtype.Int8{Int64: *q.MatchID, Valid: true}
	}

	rows, err := s.q.MemberHistory(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("member history: %w", translate(err))
	}

	entries = make([]domain.AuditEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, auditEntryFromRow(r))
	}
	return entries, nil
}

func (s *PostgresStore) GetMember(ctx context.Context, communityID, userID string) (*domain.Member, error) {
	row, err := s.q.GetMember(ctx, db.GetMemberParams{CommunityID: communityID, UserID: userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", translate(err))
	}
	m := memberFromRow(row)
	return &m, nil
}

func (s *PostgresStore) GetMatch(ctx context.Context, communityID string, matchID int64) (*domain.Match, error) {
	row, err := s.q.GetMatch(ctx, db.GetMatchParams{CommunityID: communityID, MatchID: matchID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", translate(err))
	}

	m := &domain.Match{
		ID:          row.MatchID,
		CommunityID: row.CommunityID,
		Tied:        row.MatchTied,
		Date:        row.MatchDate.Time,
	}
	if err := json.Unmarshal(row.WinnerData, &m.Winner); err != nil {
		return nil, fmt.Errorf("decode winner data of match %d: %w", matchID, err)
	}
	if err := json.Unmarshal(row.LoserData, &m.Loser); err != nil {
		return nil, fmt.Errorf("decode loser data of match %d: %w", matchID, err)
	}
	if row.MapName.Valid {
		name := row.MapName.String
		m.MapName = &name
	}
	return m, nil
}

func (s *PostgresStore) Leaderboard(ctx context.Context, communityID string, kind domain.LeaderboardKind, sigmaMultiplier float64, limit int) (standings []domain.Standing, err error) {
	defer func(start time.Time) { observe("leaderboard", start, err) }(time.Now())

	rows, err := s.q.Leaderboard(ctx, db.LeaderboardParams{
		SigmaMultiplier: sigmaMultiplier,
		CommunityID:     communityID,
		Kind:            string(kind),
		RowLimit:        int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", translate(err))
	}

	standings = make([]domain.Standing, 0, len(rows))
	for _, r := range rows {
		standings = append(standings, domain.Standing{
			UserID:  r.UserID,
			Wins:    int(r.Wins),
			Losses:  int(r.Losses),
			Ties:    int(r.Ties),
			WinRate: r.WinRate,
			Rating:  r.Rating,
		})
	}
	return standings, nil
}

func memberFromRow(r db.Member) domain.Member {
	return domain.Member{
		UserID:      r.UserID,
		CommunityID: r.CommunityID,
		Tier:        int(r.Tier),
		Wins:        int(r.Wins),
		Losses:      int(r.Losses),
		Ties:        int(r.Ties),
		Skill:       domain.Skill{Mu: r.Mu, Sigma: r.Sigma},
	}
}

func auditEntryFromRow(r db.MemberAuditLog) domain.AuditEntry {
	e := domain.AuditEntry{
		ID:          r.AuditID,
		UserID:      r.UserID,
		CommunityID: r.CommunityID,
		Won:         r.Won,
		Lost:        r.Lost,
		Tied:        r.Tied,
		Skill:       domain.Skill{Mu: r.Mu, Sigma: r.Sigma},
		CreatedAt:   r.CreatedAt.Time,
	}
	if r.MatchID.Valid {
		id := r.MatchID.Int64
		e.MatchID = &id
	}
	return e
}
