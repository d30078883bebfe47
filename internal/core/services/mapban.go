package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"match-rank-tracker/internal/core/domain"
	"match-rank-tracker/internal/core/ports"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type MapBanService struct {
	repo ports.MapBanStore
	pool []string
}

// NewMapBanService normalises pool, the community-independent list of maps
// that bans are checked against.
func NewMapBanService(repo ports.MapBanStore, pool []string) *MapBanService {
	normalised := make([]string, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))
	for _, m := range pool {
		n := NormalizeMapName(m)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalised = append(normalised, n)
	}
	return &MapBanService{repo: repo, pool: normalised}
}

func NormalizeMapName(name string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func (s *MapBanService) Pool() []string {
	return append([]string(nil), s.pool...)
}

func (s *MapBanService) resolve(name string) (string, error) {
	n := NormalizeMapName(name)
	for _, m := range s.pool {
		if m == n {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownMap, name)
}

// Ban is idempotent: banning a banned map succeeds without change.
func (s *MapBanService) Ban(ctx context.Context, communityID, mapName string) (string, error) {
	name, err := s.resolve(mapName)
	if err != nil {
		return "", err
	}
	return name, s.repo.BanMap(ctx, communityID, name)
}

// Unban is idempotent: unbanning a map that is not banned succeeds.
func (s *MapBanService) Unban(ctx context.Context, communityID, mapName string) (string, error) {
	name := NormalizeMapName(mapName)
	return name, s.repo.UnbanMap(ctx, communityID, name)
}

// Playable returns the pool spelling of mapName when the community may play
// it: ErrUnknownMap outside the pool, ErrMapBanned when banned.
func (s *MapBanService) Playable(ctx context.Context, communityID, mapName string) (string, error) {
	name, err := s.resolve(mapName)
	if err != nil {
		return "", err
	}
	banned, err := s.repo.BannedMaps(ctx, communityID)
	if err != nil {
		return "", err
	}
	for _, b := range banned {
		if NormalizeMapName(b) == name {
			return "", fmt.Errorf("%w: %s", domain.ErrMapBanned, name)
		}
	}
	return name, nil
}

func (s *MapBanService) Banned(ctx context.Context, communityID string) ([]string, error) {
	return s.repo.BannedMaps(ctx, communityID)
}

// EligiblePool returns fullList minus the community's bans, in input order.
// An empty result is ErrEmptyPool.
func (s *MapBanService) EligiblePool(ctx context.Context, communityID string, fullList []string) ([]string, error) {
	banned, err := s.repo.BannedMaps(ctx, communityID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(banned))
	for _, b := range banned {
		excluded[NormalizeMapName(b)] = struct{}{}
	}

	eligible := make([]string, 0, len(fullList))
	for _, m := range fullList {
		if _, ok := excluded[NormalizeMapName(m)]; ok {
			continue
		}
		eligible = append(eligible, m)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: all %d maps are banned", domain.ErrEmptyPool, len(fullList))
	}
	return eligible, nil
}

// Eligible is EligiblePool over the configured pool.
func (s *MapBanService) Eligible(ctx context.Context, communityID string) ([]string, error) {
	return s.EligiblePool(ctx, communityID, s.pool)
}

// RandomMaps draws up to n distinct eligible maps.
func (s *MapBanService) RandomMaps(ctx context.Context, communityID string, fullList []string, n int) ([]string, error) {
	eligible, err := s.EligiblePool(ctx, communityID, fullList)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	if n < len(eligible) {
		eligible = eligible[:max(n, 0)]
	}
	return eligible, nil
}
