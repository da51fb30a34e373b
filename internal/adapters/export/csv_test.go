package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmap/internal/adapters/export"
	"reelmap/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func sample() []domain.MatchedPlace {
	pos := domain.SentimentPositive
	return []domain.MatchedPlace{{
		SourceShortcode:  "ABC",
		CandidateName:    "Tiong Bahru Bakery",
		MatchConfidence:  0.9876,
		PlaceID:          "p1",
		DisplayName:      "Tiong Bahru Bakery",
		FormattedAddress: "56 Eng Hoon St, Singapore",
		Lat:              1.28,
		Lng:              103.83,
		Types:            []string{"bakery", "cafe"},
		Rating:           ptr(4.5),
		RatingCount:      ptr(1200),
		PriceLevel:       ptr(2),
		MapsURL:          "https://www.google.com/maps/search/?api=1&query_place_id=p1",
		CreatorReview:    ptr("flaky, buttery"),
		Sentiment:        &pos,
		MenuHighlights:   []string{"kouign-amann", "croissant"},
		Timecodes:        []string{"00:12"},
	}}
}

func TestWriteFull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteFull(&buf, sample()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 19)
	assert.Equal(t, "match_confidence", rows[0][2])

	r := rows[1]
	assert.Equal(t, "0.988", r[2])
	assert.Equal(t, "1.28", r[6])
	assert.Equal(t, "bakery,cafe", r[8])
	assert.Equal(t, "", r[9])
	assert.Equal(t, "4.5", r[11])
	assert.Equal(t, "1200", r[12])
	assert.Equal(t, "2", r[13])
	assert.Equal(t, "positive", r[16])
	assert.Equal(t, "kouign-amann, croissant", r[17])
}

func TestWriteMyMaps(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteMyMaps(&buf, sample()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Description", "Latitude", "Longitude"}, rows[0])
	assert.Equal(t, "56 Eng Hoon St, Singapore\nhttps://www.google.com/maps/search/?api=1&query_place_id=p1\n\nReview: flaky, buttery", rows[1][1])
	assert.Equal(t, "103.83", rows[1][3])
}

func TestWriteFiles_HeaderOnlyWhenEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reels", "X")
	require.NoError(t, export.WriteFiles(dir, nil))

	b, err := os.ReadFile(filepath.Join(dir, export.MyMapsFile))
	require.NoError(t, err)
	assert.Equal(t, "Name,Description,Latitude,Longitude\n", string(b))
	_, err = os.Stat(filepath.Join(dir, export.FullFile))
	assert.NoError(t, err)
}
