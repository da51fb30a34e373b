package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"reelmap/internal/adapters/observability"
	"reelmap/internal/domain"
	"reelmap/internal/match"
)

// Report is the outcome of one resolution run for a source item.
// Matches keeps candidate order; Trace has one entry per candidate.
type Report struct {
	RunID     string
	Shortcode string
	Matches   []domain.MatchedPlace
	Trace     []domain.AuditEntry
}

type ResolutionService struct {
	places  domain.PlacesClient
	trace   domain.TraceWriter
	workers int
}

func NewResolutionService(p domain.PlacesClient, tw domain.TraceWriter, workers int) *ResolutionService {
	if workers <= 0 {
		workers = 1
	}
	return &ResolutionService{places: p, trace: tw, workers: workers}
}

// Resolve returns the matched places for ex in candidate order.
func (s *ResolutionService) Resolve(ctx context.Context, ex domain.Extraction) ([]domain.MatchedPlace, error) {
	rep, err := s.Run(ctx, ex)
	return rep.Matches, err
}

type outcome struct {
	match *domain.MatchedPlace
	entry domain.AuditEntry
}

// Run resolves every candidate of ex and writes the audit trace before
// returning. A provider failure only costs the candidate it hit; a
// configuration error aborts the run.
func (s *ResolutionService) Run(ctx context.Context, ex domain.Extraction) (Report, error) {
	rep := Report{RunID: uuid.NewString(), Shortcode: ex.SourceShortcode}
	if err := ValidateExtraction(ex); err != nil {
		return rep, err
	}

	logger := log.With().Str("run_id", rep.RunID).Str("shortcode", ex.SourceShortcode).Logger()
	logger.Info().Int("candidates", len(ex.Places)).Int("workers", s.workers).Msg("resolution starting")

	// one slot per candidate so completion order never leaks into output
	slots := make([]outcome, len(ex.Places))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, cand := range ex.Places {
		g.Go(func() error {
			out, err := s.resolveOne(gctx, ex.SourceShortcode, cand)
			if err != nil {
				return err
			}
			slots[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	rep.Matches = make([]domain.MatchedPlace, 0, len(slots))
	rep.Trace = make([]domain.AuditEntry, 0, len(slots))
	for _, o := range slots {
		rep.Trace = append(rep.Trace, o.entry)
		if o.match != nil {
			rep.Matches = append(rep.Matches, *o.match)
		}
		e := logger.Info()
		if o.entry.Error != "" {
			e = logger.Warn().Str("error", o.entry.Error)
		}
		e.Str("candidate", o.entry.Candidate.Name).
			Str("state", string(o.entry.State)).
			Float64("confidence", o.entry.Confidence.Rounded()).
			Msg("candidate resolved")
	}

	if err := s.trace.WriteTrace(ctx, ex.SourceShortcode, rep.Trace); err != nil {
		return rep, fmt.Errorf("write audit trace for %s: %w", ex.SourceShortcode, err)
	}
	logger.Info().
		Int("matched", len(rep.Matches)).
		Int("unresolved", len(rep.Trace)-len(rep.Matches)).
		Msg("resolution completed")
	return rep, nil
}

// resolveOne walks one candidate through
// PENDING → SEARCHED → SCORED → MATCHED|UNMATCHED → ENRICHED → ASSEMBLED|DROPPED.
// The returned error is non-nil only for configuration errors.
func (s *ResolutionService) resolveOne(ctx context.Context, shortcode string, c domain.PlaceCandidate) (out outcome, err error) {
	out.entry = domain.AuditEntry{Candidate: c, State: domain.StatePending}
	defer func() {
		if err == nil {
			observability.ObserveResolution(string(out.entry.State), out.entry.Confidence.Rounded(), out.entry.Chosen != nil)
		}
	}()

	res, err := s.places.Search(ctx, BuildQuery(c))
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return out, err
		}
		out.entry.State = domain.StateUnmatched
		out.entry.Error = err.Error()
		return out, nil
	}
	out.entry.Search = &res
	out.entry.State = domain.StateSearched

	scored := match.Rank(c.Name, res.Places)
	out.entry.State = domain.StateScored

	best, ok := match.Best(scored)
	if !ok {
		out.entry.State = domain.StateUnmatched
		return out, nil
	}
	out.entry.Chosen = &best.Record
	out.entry.Confidence = domain.Confidence(best.Score)
	out.entry.State = domain.StateMatched

	if best.Record.ID == "" {
		out.entry.State = domain.StateDropped
		out.entry.Error = "chosen hit has no place id"
		return out, nil
	}

	details, err := s.places.Details(ctx, best.Record.ID)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return out, err
		}
		out.entry.State = domain.StateDropped
		out.entry.Error = err.Error()
		return out, nil
	}
	out.entry.Details = &details
	out.entry.State = domain.StateEnriched

	mp := Assemble(shortcode, c, best.Record, best.Score, details)
	out.match = &mp
	out.entry.State = domain.StateAssembled
	return out, nil
}
