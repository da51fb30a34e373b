package app

import (
	"context"
	"fmt"

	"reelmap/internal/domain"
)

// PublishService stores a finished run and keeps the read cache honest.
type PublishService struct {
	repo  domain.PlaceRepository
	cache domain.Cache
}

func NewPublishService(r domain.PlaceRepository, cache domain.Cache) *PublishService {
	return &PublishService{repo: r, cache: cache}
}

// Publish replaces the shortcode's stored matches and misses with the
// outcome of rep in one write.
func (s *PublishService) Publish(ctx context.Context, rep Report) error {
	if err := s.repo.ReplaceRun(ctx, rep.RunID, rep.Shortcode, rep.Matches, Misses(rep.Trace)); err != nil {
		return fmt.Errorf("replace run for %s: %w", rep.Shortcode, err)
	}

	// rerun changes the whole list; evict so readers never see the old one
	if s.cache != nil {
		_ = s.cache.Del(ctx, placesKey(rep.Shortcode))
	}
	return nil
}

// Misses lists the trace entries that did not end ASSEMBLED, keyed by
// their position in the extraction.
func Misses(trace []domain.AuditEntry) []domain.Miss {
	var out []domain.Miss
	for i, e := range trace {
		if e.State == domain.StateAssembled {
			continue
		}
		reason := e.Error
		if reason == "" {
			reason = "no search hits"
			if e.Chosen != nil {
				reason = "no details"
			}
		}
		out = append(out, domain.Miss{Position: i, Candidate: e.Candidate.Name, State: e.State, Reason: reason})
	}
	return out
}
