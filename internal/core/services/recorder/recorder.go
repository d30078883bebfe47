// Package recorder turns a reported match into rating, tier, match and audit
// writes committed as one transaction.
package recorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"match-rank-tracker/internal/adapters/metrics"
	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"
	"match-rank-tracker/internal/core/ranking"
	"match-rank-tracker/internal/core/rating"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 15 * time.Second
)

type Dependencies struct {
	Store      ports.MatchStore
	Params     rating.Params
	Resolver   ranking.Resolver
	Tracer     trace.Tracer
	MaxRetries uint64
	Timeout    time.Duration
}

type Recorder struct {
	store      ports.MatchStore
	params     rating.Params
	resolver   ranking.Resolver
	tracer     trace.Tracer
	maxRetries uint64
	timeout    time.Duration

	newBackOff func() backoff.BackOff
	newID      func() uuid.UUID
}

func New(deps Dependencies) *Recorder {
	r := &Recorder{
		store:      deps.Store,
		params:     deps.Params,
		resolver:   deps.Resolver,
		tracer:     deps.Tracer,
		maxRetries: deps.MaxRetries,
		timeout:    deps.Timeout,
		newID:      uuid.New,
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("match-rank-tracker/recorder")
	}
	r.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 50 * time.Millisecond
		b.MaxInterval = time.Second
		b.MaxElapsedTime = 0
		return b
	}
	return r
}

// Report validates, rates and persists a finished match. Conflicts at the
// store are retried as a whole; validation and configuration errors are not.
// Cancelling ctx only has an effect before the commit is submitted.
func (r *Recorder) Report(ctx context.Context, req domain.MatchReport) (*domain.MatchResult, error) {
	start := time.Now()
	defer func() { metrics.ReportDuration.Observe(time.Since(start).Seconds()) }()

	ctx, span := r.tracer.Start(ctx, "Recorder.Report", trace.WithAttributes(
		attribute.String("community_id", req.CommunityID),
		attribute.Int("winners", len(req.Winners.MemberIDs)),
		attribute.Int("losers", len(req.Losers.MemberIDs)),
		attribute.Bool("tied", req.Tied),
	))
	defer span.End()

	rep := newReport(req)

	winners, losers, err := r.validate(req)
	if err != nil {
		return nil, rep.reject(span, err)
	}
	rep.transition(StateValidated)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var result *domain.MatchResult
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			metrics.ReportRetries.Inc()
			rep.state = StateValidated
		}
		res, err := r.record(ctx, rep, winners, losers)
		if err == nil {
			result = res
			return nil
		}
		if domain.IsRetryable(err) {
			rep.log.Warn("Match report conflicted, retrying", "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, rep.reject(span, err)
	}

	rep.transition(StateCommitted)
	metrics.MatchesReported.WithLabelValues(string(StateCommitted)).Inc()
	for _, c := range result.Changes {
		switch {
		case c.Promoted():
			metrics.TierChanges.WithLabelValues("promotion").Inc()
		case c.Demoted():
			metrics.TierChanges.WithLabelValues("demotion").Inc()
		}
	}
	span.SetAttributes(attribute.Int64("match_id", result.MatchID))
	rep.log.Info("Match recorded", "match_id", result.MatchID, "attempts", attempt)
	return result, nil
}

// validate checks the rosters before anything is read from the store.
func (r *Recorder) validate(req domain.MatchReport) ([]string, []string, error) {
	winners := cleanIDs(req.Winners.MemberIDs)
	losers := cleanIDs(req.Losers.MemberIDs)
	for _, side := range [][]string{winners, losers} {
		for _, id := range side {
			if id == "" {
				return nil, nil, fmt.Errorf("%w: empty member id", domain.ErrInvalidMatchComposition)
			}
		}
	}
	if err := rating.CheckComposition(r.priorPlayers(winners), r.priorPlayers(losers)); err != nil {
		return nil, nil, err
	}
	return winners, losers, nil
}

func (r *Recorder) priorPlayers(ids []string) []rating.Player {
	out := make([]rating.Player, len(ids))
	for i, id := range ids {
		out[i] = rating.Player{ID: id, Rating: r.params.Prior()}
	}
	return out
}

func cleanIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.TrimSpace(id)
	}
	return out
}

// record runs one attempt. The community row is share-locked first so the
// thresholds used for tiers are the ones in force at commit.
func (r *Recorder) record(ctx context.Context, rep *report, winners, losers []string) (*domain.MatchResult, error) {
	ctx, span := r.tracer.Start(ctx, "Recorder.record")
	defer span.End()

	var result *domain.MatchResult
	err := r.store.RunInTx(ctx, func(ctx context.Context, tx ports.RatingTx) error {
		community, err := tx.LockCommunity(ctx, rep.req.CommunityID)
		if err != nil {
			return err
		}
		if err := ranking.ValidateThresholds(community.TierThresholds); err != nil {
			return err
		}

		all := append(append([]string{}, winners...), losers...)
		prior := domain.NewSkill(r.params.Mu, r.params.Sigma)

		created, err := tx.EnsureMembers(ctx, community.ID, all, prior)
		if err != nil {
			return fmt.Errorf("ensure members: %w", err)
		}
		locked, err := tx.LockMembers(ctx, community.ID, all)
		if err != nil {
			return fmt.Errorf("lock members: %w", err)
		}

		members := make(map[string]domain.Member, len(locked))
		for _, m := range locked {
			members[m.UserID] = m
		}
		if len(members) != len(all) {
			return fmt.Errorf("%w: locked %d of %d members", domain.ErrPersistenceConflict, len(members), len(all))
		}
		firstSeen := make(map[string]bool, len(created))
		for _, id := range created {
			firstSeen[id] = true
		}

		newWinners, newLosers, err := rating.Update(r.params, players(winners, members), players(losers, members), rep.req.Tied)
		if err != nil {
			return err
		}
		rep.transition(StateRatingsComputed)

		updated := make([]domain.Member, 0, len(all))
		changes := make([]domain.TierChange, 0, len(all))
		apply := func(posteriors []rating.Player, won bool) error {
			for _, p := range posteriors {
				m := members[p.ID]
				after := domain.NewSkill(p.Mu, p.Sigma)
				if !after.Storable() {
					return fmt.Errorf("%w: member %s would move to mu %s sigma %s",
						domain.ErrSkillOutOfRange, p.ID, after.Mu, after.Sigma)
				}
				change, err := r.resolver.Resolve(p.ID, m.Skill, after, m.Tier, firstSeen[p.ID], community.TierThresholds)
				if err != nil {
					return err
				}
				changes = append(changes, change)

				switch {
				case rep.req.Tied:
					m.Ties++
				case won:
					m.Wins++
				default:
					m.Losses++
				}
				m.Skill = after
				m.Tier = change.NewTier
				updated = append(updated, m)
			}
			return nil
		}
		if err := apply(newWinners, true); err != nil {
			return err
		}
		if err := apply(newLosers, false); err != nil {
			return err
		}

		match := domain.Match{
			CommunityID: community.ID,
			Winner:      snapshot(rep.req.Winners, winners, members),
			Loser:       snapshot(rep.req.Losers, losers, members),
			Tied:        rep.req.Tied,
		}
		if name := strings.TrimSpace(rep.req.MapName); name != "" {
			match.MapName = &name
		}
		matchID, date, err := tx.InsertMatch(ctx, match)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}

		entries := make([]domain.AuditEntry, 0, len(updated))
		for i, m := range updated {
			if err := tx.UpdateMember(ctx, m); err != nil {
				return fmt.Errorf("update member %s: %w", m.UserID, err)
			}
			won := i < len(winners)
			entries = append(entries, domain.AuditEntry{
				ID:          r.newID(),
				UserID:      m.UserID,
				CommunityID: community.ID,
				MatchID:     &matchID,
				Won:         won && !rep.req.Tied,
				Lost:        !won && !rep.req.Tied,
				Tied:        rep.req.Tied,
				Skill:       m.Skill,
				CreatedAt:   date,
			})
		}
		if err := tx.InsertAuditEntries(ctx, entries); err != nil {
			return fmt.Errorf("insert audit entries: %w", err)
		}
		rep.transition(StatePersisted)

		result = &domain.MatchResult{
			MatchID:     matchID,
			CommunityID: community.ID,
			Tied:        rep.req.Tied,
			Date:        date,
			Winners:     winners,
			Losers:      losers,
			Changes:     changes,
		}
		if match.MapName != nil {
			result.MapName = *match.MapName
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

func players(ids []string, members map[string]domain.Member) []rating.Player {
	out := make([]rating.Player, len(ids))
	for i, id := range ids {
		mu, sigma := members[id].Skill.Float64()
		out[i] = rating.Player{ID: id, Rating: rating.Rating{Mu: mu, Sigma: sigma}}
	}
	return out
}

func snapshot(team domain.Team, ids []string, members map[string]domain.Member) domain.TeamSnapshot {
	s := domain.TeamSnapshot{
		Name:      strings.TrimSpace(team.Name),
		Score:     team.Score,
		PlayerIDs: ids,
		Players:   make([]domain.ParticipantSnapshot, len(ids)),
	}
	for i, id := range ids {
		m := members[id]
		s.Players[i] = domain.ParticipantSnapshot{UserID: id, Skill: m.Skill, Tier: m.Tier}
	}
	return s
}

func spanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
