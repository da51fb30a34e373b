package app

import (
	"net/url"
	"slices"
	"strings"

	"reelmap/internal/domain"
)

const mapsSearchURL = "https://www.google.com/maps/search/?"

var priceLevels = map[string]int{
	"FREE":           0,
	"INEXPENSIVE":    1,
	"MODERATE":       2,
	"EXPENSIVE":      3,
	"VERY_EXPENSIVE": 4,
}

// PriceLevel maps the provider enum to 0..4. Unspecified, unknown and
// empty values are nil, never 0.
func PriceLevel(v string) *int {
	key := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(v)), "PRICE_LEVEL_")
	n, ok := priceLevels[key]
	if !ok {
		return nil
	}
	return &n
}

// MapsURL derives the deep link from the place id alone.
func MapsURL(placeID string) string {
	return mapsSearchURL + url.Values{"api": {"1"}, "query_place_id": {placeID}}.Encode()
}

// Assemble merges the detail record, the chosen hit and the creator's
// context into one MatchedPlace. Details win; the hit only backs up id,
// name, address and types.
func Assemble(shortcode string, c domain.PlaceCandidate, hit domain.RawPlaceRecord, confidence float64, d domain.RawPlaceDetails) domain.MatchedPlace {
	placeID := firstNonEmpty(d.ID, hit.ID)

	// an explicit empty list from details is kept; only an absent one falls back
	types := d.Types
	if types == nil {
		types = hit.Types
	}

	var lat, lng float64
	if d.Location != nil {
		lat, lng = d.Location.Latitude, d.Location.Longitude
	}

	return domain.MatchedPlace{
		SourceShortcode:  shortcode,
		CandidateName:    c.Name,
		MatchConfidence:  domain.Confidence(confidence),
		PlaceID:          placeID,
		DisplayName:      firstNonEmpty(d.Name(), hit.Name()),
		FormattedAddress: firstNonEmpty(d.FormattedAddress, hit.FormattedAddress),
		Lat:              lat,
		Lng:              lng,
		Types:            cloneOrEmpty(types),
		Website:          d.WebsiteURI,
		Phone:            d.InternationalPhoneNumber,
		Rating:           d.Rating,
		RatingCount:      d.UserRatingCount,
		PriceLevel:       PriceLevel(string(d.PriceLevel)),
		MapsURL:          MapsURL(placeID),
		CreatorReview:    c.CreatorReview,
		Sentiment:        c.Sentiment,
		MenuHighlights:   cloneOrEmpty(c.MenuHighlights),
		Timecodes:        cloneOrEmpty(c.Timecodes),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func cloneOrEmpty(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return slices.Clone(in)
}
