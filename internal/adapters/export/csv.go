// Package export writes the tabular artifacts of a resolution run.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelmap/internal/domain"
)

const (
	FullFile   = "results_full.csv"
	MyMapsFile = "results_mymaps.csv"
)

var fullHeader = []string{
	"source_shortcode", "candidate_name", "match_confidence", "place_id",
	"display_name", "formatted_address", "lat", "lng", "types", "website",
	"phone", "rating", "rating_count", "price_level", "maps_url",
	"creator_review", "sentiment", "menu_highlights", "timecodes",
}

var myMapsHeader = []string{"Name", "Description", "Latitude", "Longitude"}

// WriteFiles writes both CSVs into dir.
func WriteFiles(dir string, ms []domain.MatchedPlace) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, FullFile), ms, WriteFull); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, MyMapsFile), ms, WriteMyMaps)
}

func writeFile(path string, ms []domain.MatchedPlace, fn func(io.Writer, []domain.MatchedPlace) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f, ms); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// WriteFull writes every MatchedPlace field, one row per match.
func WriteFull(w io.Writer, ms []domain.MatchedPlace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fullHeader); err != nil {
		return err
	}
	for _, m := range ms {
		row := []string{
			m.SourceShortcode,
			m.CandidateName,
			strconv.FormatFloat(float64(m.MatchConfidence), 'f', 3, 64),
			m.PlaceID,
			m.DisplayName,
			m.FormattedAddress,
			formatFloat(m.Lat),
			formatFloat(m.Lng),
			strings.Join(m.Types, ","),
			deref(m.Website),
			deref(m.Phone),
			optFloat(m.Rating),
			optInt(m.RatingCount),
			optInt(m.PriceLevel),
			m.MapsURL,
			deref(m.CreatorReview),
			sentiment(m.Sentiment),
			strings.Join(m.MenuHighlights, ", "),
			strings.Join(m.Timecodes, ", "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMyMaps writes the minimal import schema Google My Maps accepts.
func WriteMyMaps(w io.Writer, ms []domain.MatchedPlace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(myMapsHeader); err != nil {
		return err
	}
	for _, m := range ms {
		desc := m.FormattedAddress + "\n" + m.MapsURL + "\n\nReview: " + deref(m.CreatorReview)
		if err := cw.Write([]string{m.DisplayName, desc, formatFloat(m.Lat), formatFloat(m.Lng)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func sentiment(s *domain.Sentiment) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
