package domain

import "context"

type PlaceSearcher interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}

type PlaceDetailer interface {
	Details(ctx context.Context, placeID string) (RawPlaceDetails, error)
}

// PlacesClient is the full provider surface used by the resolver.
type PlacesClient interface {
	PlaceSearcher
	PlaceDetailer
}

// TraceWriter persists the audit trace for one source item.
type TraceWriter interface {
	WriteTrace(ctx context.Context, shortcode string, entries []AuditEntry) error
}

type PlaceRepository interface {
	// Write paths
	ReplaceRun(ctx context.Context, runID, shortcode string, ms []MatchedPlace, misses []Miss) error

	// Read paths
	ListPlaces(ctx context.Context, shortcode string) ([]MatchedPlace, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
