package services

import (
	"context"
	"fmt"

	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"
	"match-rank-tracker/internal/core/ranking"
)

const DefaultLeaderboardSize = 10

type StandingsService struct {
	repo     ports.StandingsStore
	resolver ranking.Resolver
}

func NewStandingsService(repo ports.StandingsStore, resolver ranking.Resolver) *StandingsService {
	return &StandingsService{repo: repo, resolver: resolver}
}

// Leaderboard ranks members with at least one match by kind.
func (s *StandingsService) Leaderboard(ctx context.Context, communityID string, kind domain.LeaderboardKind, limit int) ([]domain.Standing, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown leaderboard %q", kind)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return s.repo.Leaderboard(ctx, communityID, kind, s.resolver.K, limit)
}

// Career returns nil when the member has not played in the community.
func (s *StandingsService) Career(ctx context.Context, communityID, userID string) (*domain.Career, error) {
	m, err := s.repo.GetMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Matches() == 0 {
		return nil, nil
	}

	ordinal := s.resolver.ConservativeSkill(m.Skill)
	return &domain.Career{
		Member:     *m,
		WinRate:    float64(m.Wins) / float64(m.Matches()),
		Rating:     ordinal,
		RatingBand: ranking.Band(ordinal),
	}, nil
}

func (s *StandingsService) Match(ctx context.Context, communityID string, matchID int64) (*domain.Match, error) {
	m, err := s.repo.GetMatch(ctx, communityID, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrMatchNotFound, matchID)
	}
	return m, nil
}
