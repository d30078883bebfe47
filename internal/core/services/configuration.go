package services

import (
	"context"
	"fmt"
	"slices"

	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"
	"match-rank-tracker/internal/core/ranking"
)

type ConfigurationService struct {
	repo              ports.CommunityStore
	defaultThresholds []float64
}

func NewConfigurationService(repo ports.CommunityStore, defaultThresholds []float64) *ConfigurationService {
	return &ConfigurationService{repo: repo, defaultThresholds: slices.Clone(defaultThresholds)}
}

// EnsureCommunity registers a community seeded with the default thresholds.
// Existing communities are left untouched.
func (s *ConfigurationService) EnsureCommunity(ctx context.Context, communityID string) error {
	return s.repo.EnsureCommunity(ctx, communityID, s.defaultThresholds)
}

func (s *ConfigurationService) RemoveCommunity(ctx context.Context, communityID string) error {
	return s.repo.DeleteCommunity(ctx, communityID)
}

func (s *ConfigurationService) Community(ctx context.Context, communityID string) (*domain.Community, error) {
	return s.repo.GetCommunity(ctx, communityID)
}

// SetTierRole binds roleID to tier. An empty roleID clears the binding.
func (s *ConfigurationService) SetTierRole(ctx context.Context, communityID string, tier int, roleID string) error {
	community, err := s.repo.GetCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if tier < 0 || tier >= community.TierCount() {
		return fmt.Errorf("%w: %d not in 0..%d", domain.ErrInvalidTier, tier, community.TierCount()-1)
	}
	return s.repo.SetTierRole(ctx, communityID, tier, roleID)
}

func (s *ConfigurationService) SetTierThresholds(ctx context.Context, communityID string, thresholds []float64) error {
	if err := ranking.ValidateThresholds(thresholds); err != nil {
		return err
	}
	return s.repo.SetTierThresholds(ctx, communityID, thresholds)
}

func (s *ConfigurationService) SetAnnouncementChannel(ctx context.Context, communityID, channelID string) error {
	return s.repo.SetAnnouncementChannel(ctx, communityID, channelID)
}

// RemoveMember drops a member and, through the schema, their audit entries.
func (s *ConfigurationService) RemoveMember(ctx context.Context, communityID, userID string) error {
	return s.repo.DeleteMember(ctx, communityID, userID)
}
