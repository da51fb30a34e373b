package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng accepts both the provider's latitude/longitude keys and the
// short lat/lng form.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *LatLng) UnmarshalJSON(b []byte) error {
	var aux struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		Lon       *float64 `json:"lon"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*l = LatLng{}
	switch {
	case aux.Latitude != nil:
		l.Latitude = *aux.Latitude
	case aux.Lat != nil:
		l.Latitude = *aux.Lat
	}
	switch {
	case aux.Longitude != nil:
		l.Longitude = *aux.Longitude
	case aux.Lng != nil:
		l.Longitude = *aux.Lng
	case aux.Lon != nil:
		l.Longitude = *aux.Lon
	}
	return nil
}

// RawPlaceRecord is one search hit. Fields the engine does not read are
// kept in Raw and survive into the audit trace untouched.
type RawPlaceRecord struct {
	ID                    string            `json:"id,omitempty"`
	DisplayName           *LocalizedText    `json:"displayName,omitempty"`
	FormattedAddress      string            `json:"formattedAddress,omitempty"`
	ShortFormattedAddress string            `json:"shortFormattedAddress,omitempty"`
	Location              *LatLng           `json:"location,omitempty"`
	Types                 []string          `json:"types,omitempty"`
	Rating                *float64          `json:"rating,omitempty"`
	UserRatingCount       *int              `json:"userRatingCount,omitempty"`
	GoogleMapsURI         string            `json:"googleMapsUri,omitempty"`
	Photos                []json.RawMessage `json:"photos,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type rawPlaceRecord RawPlaceRecord

func (r *RawPlaceRecord) UnmarshalJSON(b []byte) error {
	var aux rawPlaceRecord
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	aux.Raw = append(json.RawMessage(nil), b...)
	*r = RawPlaceRecord(aux)
	return nil
}

func (r RawPlaceRecord) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(rawPlaceRecord(r))
}

// Name returns the display text or "" when the provider sent none.
func (r RawPlaceRecord) Name() string {
	if r.DisplayName == nil {
		return ""
	}
	return r.DisplayName.Text
}

// RawPlaceDetails is the field-masked detail record for one place.
type RawPlaceDetails struct {
	ID                       string         `json:"id,omitempty"`
	DisplayName              *LocalizedText `json:"displayName,omitempty"`
	FormattedAddress         string         `json:"formattedAddress,omitempty"`
	Location                 *LatLng        `json:"location,omitempty"`
	Types                    []string       `json:"types,omitempty"`
	WebsiteURI               *string        `json:"websiteUri,omitempty"`
	InternationalPhoneNumber *string        `json:"internationalPhoneNumber,omitempty"`
	Rating                   *float64       `json:"rating,omitempty"`
	UserRatingCount          *int           `json:"userRatingCount,omitempty"`
	PriceLevel               EnumString     `json:"priceLevel,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type rawPlaceDetails RawPlaceDetails

func (d *RawPlaceDetails) UnmarshalJSON(b []byte) error {
	var aux rawPlaceDetails
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	aux.Raw = append(json.RawMessage(nil), b...)
	*d = RawPlaceDetails(aux)
	return nil
}

func (d RawPlaceDetails) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	return json.Marshal(rawPlaceDetails(d))
}

func (d RawPlaceDetails) Name() string {
	if d.DisplayName == nil {
		return ""
	}
	return d.DisplayName.Text
}

// EnumString is a provider enum value. Anything but a JSON string
// decodes to "" instead of failing the record.
type EnumString string

func (e *EnumString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*e = ""
		return nil
	}
	*e = EnumString(s)
	return nil
}

// SearchResult holds the decoded hits and the response body as received.
// Hits are decoded one by one; a malformed hit is counted in Skipped and
// left out of Places but stays in Raw.
type SearchResult struct {
	Places  []RawPlaceRecord `json:"places"`
	Skipped int              `json:"-"`
	Raw     json.RawMessage  `json:"-"`
}

func (s *SearchResult) UnmarshalJSON(b []byte) error {
	var aux struct {
		Places []json.RawMessage `json:"places"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = SearchResult{Raw: append(json.RawMessage(nil), b...)}
	for _, raw := range aux.Places {
		var r RawPlaceRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			s.Skipped++
			continue
		}
		s.Places = append(s.Places, r)
	}
	return nil
}

func (s SearchResult) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	return json.Marshal(struct {
		Places []RawPlaceRecord `json:"places"`
	}{s.Places})
}

type ScoredCandidate struct {
	Record RawPlaceRecord
	Score  float64
}

// Confidence is a match score serialized with three decimals.
type Confidence float64

func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Rounded(), 'f', 3, 64)), nil
}

func (c Confidence) Rounded() float64 {
	return math.Round(float64(c)*1000) / 1000
}

// MatchedPlace is a resolved venue. Built once by the assembler.
type MatchedPlace struct {
	SourceShortcode  string     `json:"source_shortcode"`
	CandidateName    string     `json:"candidate_name"`
	MatchConfidence  Confidence `json:"match_confidence"`
	PlaceID          string     `json:"place_id"`
	DisplayName      string     `json:"display_name"`
	FormattedAddress string     `json:"formatted_address"`
	Lat              float64    `json:"lat"`
	Lng              float64    `json:"lng"`
	Types            []string   `json:"types"`
	Website          *string    `json:"website"`
	Phone            *string    `json:"phone"`
	Rating           *float64   `json:"rating"`
	RatingCount      *int       `json:"rating_count"`
	PriceLevel       *int       `json:"price_level"`
	MapsURL          string     `json:"maps_url"`

	CreatorReview  *string    `json:"creator_review"`
	Sentiment      *Sentiment `json:"sentiment"`
	MenuHighlights []string   `json:"menu_highlights"`
	Timecodes      []string   `json:"timecodes"`
}
