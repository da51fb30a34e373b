package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "reelmap/internal/adapters/http_server"
	"reelmap/internal/app"
	"reelmap/internal/domain"
)

type memRepo struct {
	places map[string][]domain.MatchedPlace
	err    error
}

func (m *memRepo) ReplaceRun(context.Context, string, string, []domain.MatchedPlace, []domain.Miss) error {
	return nil
}

func (m *memRepo) ListPlaces(_ context.Context, sc string) ([]domain.MatchedPlace, error) {
	return m.places[sc], m.err
}

func newTestServer(t *testing.T, repo *memRepo) *httptest.Server {
	t.Helper()
	s := httpserver.New(time.Second)
	s.MountHandlers(&httpserver.Handlers{Q: app.NewQueryService(repo, nil, time.Minute)})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func seeded() *memRepo {
	return &memRepo{places: map[string][]domain.MatchedPlace{
		"ABC": {
			{SourceShortcode: "ABC", PlaceID: "p1", DisplayName: "Tiong Bahru Bakery", MatchConfidence: 1},
			{SourceShortcode: "ABC", PlaceID: "p2", DisplayName: "Ya Kun", MatchConfidence: 0.8},
		},
	}}
}

func TestListPlaces_ETag(t *testing.T) {
	ts := newTestServer(t, seeded())

	res, err := http.Get(ts.URL + "/v1/reels/ABC/places")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var body struct {
		SourceShortcode string                `json:"source_shortcode"`
		Count           int                   `json:"count"`
		Places          []domain.MatchedPlace `json:"places"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ABC", body.SourceShortcode)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "p2", body.Places[1].PlaceID)

	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/reels/ABC/places", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res2.Body.Close()
	assert.Equal(t, http.StatusNotModified, res2.StatusCode)
}

func TestGetPlace(t *testing.T) {
	ts := newTestServer(t, seeded())

	res, err := http.Get(ts.URL + "/v1/reels/ABC/places/p1")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var mp domain.MatchedPlace
	require.NoError(t, json.NewDecoder(res.Body).Decode(&mp))
	assert.Equal(t, "Tiong Bahru Bakery", mp.DisplayName)

	res, err = http.Get(ts.URL + "/v1/reels/ABC/places/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
}

func TestProblems(t *testing.T) {
	cases := []struct {
		name   string
		repo   *memRepo
		path   string
		status int
	}{
		{"unknown reel", seeded(), "/v1/reels/NOPE/places", http.StatusNotFound},
		{"bad shortcode", seeded(), "/v1/reels/a.b/places", http.StatusBadRequest},
		{"store down", &memRepo{err: errors.New("conn refused")}, "/v1/reels/ABC/places", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.repo)
			res, err := http.Get(ts.URL + tc.path)
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)

			var p struct {
				Status int    `json:"status"`
				Title  string `json:"title"`
			}
			require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
			assert.Equal(t, tc.status, p.Status)
		})
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &memRepo{})
	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
