package services

import (
	"context"

	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

type HistoryService struct {
	repo ports.HistoryStore
}

func NewHistoryService(repo ports.HistoryStore) *HistoryService {
	return &HistoryService{repo: repo}
}

// MemberHistory returns a member's rating changes. A member without history
// yields an empty slice, never an error.
func (s *HistoryService) MemberHistory(ctx context.Context, q domain.HistoryQuery) ([]domain.AuditEntry, error) {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultHistoryLimit
	case q.Limit > MaxHistoryLimit:
		q.Limit = MaxHistoryLimit
	}

	entries, err := s.repo.MemberHistory(ctx, q)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}
