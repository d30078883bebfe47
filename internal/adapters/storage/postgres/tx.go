package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"match-rank-tracker/internal/adapters/storage/postgres/db"
	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// RunInTx runs fn in one transaction. The caller's ctx governs everything up
// to the commit; commit and rollback run without its cancellation so a
// submitted commit is always waited for. A panic in fn rolls back before it
// propagates.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ports.RatingTx) error) (err error) {
	defer func(start time.Time) { observe("rating_tx", start, err) }(time.Now())

	tx, err := s.beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", translate(err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if s.lockTimeout > 0 {
		if _, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", s.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock timeout: %w", translate(err))
		}
	}

	if err = fn(ctx, &ratingTx{q: s.q.WithTx(tx)}); err != nil {
		return translate(err)
	}

	if err = tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("commit transaction: %w", translate(err))
	}
	return nil
}

type ratingTx struct {
	q *db.Queries
}

// LockCommunity share-locks the community row so its thresholds cannot change
// until the transaction ends.
func (t *ratingTx) LockCommunity(ctx context.Context, communityID string) (*domain.Community, error) {
	row, err := t.q.LockCommunity(ctx, communityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommunity, communityID)
	}
	if err != nil {
		return nil, translate(err)
	}
	return communityWithRoles(ctx, t.q, db.GetCommunityRow(row))
}

func (t *ratingTx) EnsureMembers(ctx context.Context, communityID string, userIDs []string, prior domain.Skill) ([]string, error) {
	created, err := t.q.InsertMissingMembers(ctx, db.InsertMissingMembersParams{
		UserIds:     userIDs,
		CommunityID: communityID,
		Mu:          prior.Mu,
		Sigma:       prior.Sigma,
	})
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

func (t *ratingTx) LockMembers(ctx context.Context, communityID string, userIDs []string) ([]domain.Member, error) {
	rows, err := t.q.LockMembers(ctx, db.LockMembersParams{CommunityID: communityID, UserIds: userIDs})
	if err != nil {
		return nil, translate(err)
	}
	members := make([]domain.Member, 0, len(rows))
	for _, r := range rows {
		members = append(members, memberFromRow(r))
	}
	return members, nil
}

func (t *ratingTx) InsertMatch(ctx context.Context, m domain.Match) (int64, time.Time, error) {
	winner, err := json.Marshal(m.Winner)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("encode winner data: %w", err)
	}
	loser, err := json.Marshal(m.Loser)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("encode loser data: %w", err)
	}

	params := db.InsertMatchParams{
		CommunityID: m.CommunityID,
		WinnerData:  winner,
		LoserData:   loser,
		MatchTied:   m.Tied,
	}
	if m.MapName != nil {
		params.MapName = pgtype.Text{String: *m.MapName, Valid: true}
	}

	row, err := t.q.InsertMatch(ctx, params)
	if err != nil {
		return 0, time.Time{}, translate(err)
	}
	return row.MatchID, row.MatchDate.Time, nil
}

func (t *ratingTx) UpdateMember(ctx context.Context, m domain.Member) error {
	n, err := t.q.UpdateMember(ctx, db.UpdateMemberParams{
		CommunityID: m.CommunityID,
		UserID:      m.UserID,
		Tier:        int32(m.Tier),
		Wins:        int32(m.Wins),
		Losses:      int32(m.Losses),
		Ties:        int32(m.Ties),
		Mu:          m.Skill.Mu,
		Sigma:       m.Skill.Sigma,
	})
	if err != nil {
		return translate(err)
	}
	if n != 1 {
		return fmt.Errorf("%w: member %s not updated", domain.ErrPersistenceConflict, m.UserID)
	}
	return nil
}

func (t *ratingTx) InsertAuditEntries(ctx context.Context, entries []domain.AuditEntry) error {
	for _, e := range entries {
		params := db.InsertAuditEntryParams{
			AuditID:     e.ID,
			UserID:      e.UserID,
			CommunityID: e.CommunityID,
			Won:         e.Won,
			Lost:        e.Lost,
			Tied:        e.Tied,
			Mu:          e.Skill.Mu,
			Sigma:       e.Skill.Sigma,
			CreatedAt:   pgtype.Timestamptz{Time: e.CreatedAt, Valid: !e.CreatedAt.IsZero()},
		}
		if e.MatchID != nil {
			params.MatchID = pgtype.Int8{Int64: *e.MatchID, Valid: true}
		}
		if err := t.q.InsertAuditEntry(ctx, params); err != nil {
			return translate(err)
		}
	}
	return nil
}
