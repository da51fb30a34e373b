package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"reelmap/internal/domain"
)

// ---- fakes ----

type stubPlaces struct {
	mu          sync.Mutex
	search      map[string]string // query -> raw JSON response
	searchErr   map[string]error
	details     map[string]string // place id -> raw JSON response
	detailsErr  map[string]error
	queries     []string
	detailCalls []string
}

func (s *stubPlaces) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if err := s.searchErr[query]; err != nil {
		return domain.SearchResult{}, err
	}
	raw, ok := s.search[query]
	if !ok {
		raw = `{}`
	}
	var out domain.SearchResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return domain.SearchResult{}, err
	}
	out.Raw = json.RawMessage(raw)
	return out, nil
}

func (s *stubPlaces) Details(ctx context.Context, id string) (domain.RawPlaceDetails, error) {
	s.mu.Lock()
	s.detailCalls = append(s.detailCalls, id)
	s.mu.Unlock()
	if err := s.detailsErr[id]; err != nil {
		return domain.RawPlaceDetails{}, err
	}
	var out domain.RawPlaceDetails
	if err := json.Unmarshal([]byte(s.details[id]), &out); err != nil {
		return domain.RawPlaceDetails{}, err
	}
	return out, nil
}

type memTrace struct {
	mu     sync.Mutex
	writes map[string][]domain.AuditEntry
	err    error
}

func (m *memTrace) WriteTrace(ctx context.Context, shortcode string, entries []domain.AuditEntry) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writes == nil {
		m.writes = map[string][]domain.AuditEntry{}
	}
	m.writes[shortcode] = entries
	return nil
}

type fakeRepo struct {
	places   map[string][]domain.MatchedPlace
	misses   []string
	replaced int
	err      error
}

func (f *fakeRepo) ReplaceRun(ctx context.Context, runID, shortcode string, ms []domain.MatchedPlace, misses []domain.Miss) error {
	if f.err != nil {
		return f.err
	}
	if f.places == nil {
		f.places = map[string][]domain.MatchedPlace{}
	}
	f.places[shortcode] = ms
	f.misses = f.misses[:0]
	for _, m := range misses {
		f.misses = append(f.misses, fmt.Sprintf("%d|%s|%s|%s", m.Position, m.Candidate, m.State, m.Reason))
	}
	f.replaced++
	return nil
}

func (f *fakeRepo) ListPlaces(ctx context.Context, shortcode string) ([]domain.MatchedPlace, error) {
	return f.places[shortcode], nil
}

type fakeCache struct {
	store   map[string]any
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok := dst.(*[]domain.MatchedPlace); ok {
		*d = v.([]domain.MatchedPlace)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func ptr[T any](v T) *T { return &v }
