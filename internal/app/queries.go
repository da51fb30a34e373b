package app

import (
	"context"
	"encoding/json"
	"time"

	"reelmap/internal/domain"
)

type QueryService struct {
	repo     domain.PlaceRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.PlaceRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func placesKey(shortcode string) string { return "places:" + shortcode }

// ListPlaces returns the stored matches for a shortcode, cache first.
func (s *QueryService) ListPlaces(ctx context.Context, shortcode string) ([]domain.MatchedPlace, error) {
	key := placesKey(shortcode)
	var out []domain.MatchedPlace
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	ms, err := s.repo.ListPlaces(ctx, shortcode)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, domain.ErrNotFound
	}

	// copy slice to avoid aliasing the repo's backing array
	cp := make([]domain.MatchedPlace, len(ms))
	copy(cp, ms)

	// optional size guard
	if b, _ := json.Marshal(cp); s.cache != nil && len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}

// GetPlace finds one match within the shortcode's cached list.
func (s *QueryService) GetPlace(ctx context.Context, shortcode, placeID string) (domain.MatchedPlace, error) {
	ms, err := s.ListPlaces(ctx, shortcode)
	if err != nil {
		return domain.MatchedPlace{}, err
	}
	for _, m := range ms {
		if m.PlaceID == placeID {
			return m, nil
		}
	}
	return domain.MatchedPlace{}, domain.ErrNotFound
}
