package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmap/internal/app"
	"reelmap/internal/domain"
)

func TestQueryService_CacheAside(t *testing.T) {
	repo := &fakeRepo{places: map[string][]domain.MatchedPlace{
		"ABC": {{PlaceID: "p1", DisplayName: "One"}, {PlaceID: "p2", DisplayName: "Two"}},
	}}
	cache := &fakeCache{}
	qs := app.NewQueryService(repo, cache, time.Minute)

	got, err := qs.ListPlaces(context.Background(), "ABC")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Contains(t, cache.store, "places:ABC")

	// second read is served from cache even if the repo changes underneath
	repo.places["ABC"] = nil
	got, err = qs.ListPlaces(context.Background(), "ABC")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQueryService_NotFound(t *testing.T) {
	qs := app.NewQueryService(&fakeRepo{}, &fakeCache{}, time.Minute)
	_, err := qs.ListPlaces(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_GetPlace(t *testing.T) {
	repo := &fakeRepo{places: map[string][]domain.MatchedPlace{
		"ABC": {{PlaceID: "p1", DisplayName: "One"}},
	}}
	qs := app.NewQueryService(repo, nil, time.Minute)

	mp, err := qs.GetPlace(context.Background(), "ABC", "p1")
	require.NoError(t, err)
	assert.Equal(t, "One", mp.DisplayName)

	_, err = qs.GetPlace(context.Background(), "ABC", "p9")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
