package domain

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// PlaceCandidate is one loosely specified venue mention produced by the
// understanding stage. Treat it as read-only once produced.
type PlaceCandidate struct {
	Name             string     `json:"name" validate:"required,notblank"`
	AltNames         []string   `json:"alt_names"`
	CityHint         *string    `json:"city_hint"`
	NeighborhoodHint *string    `json:"neighborhood_hint"`
	CountryHint      *string    `json:"country_hint"`
	CategoryHint     *string    `json:"category_hint"` // restaurant|cafe|bar|bakery|...
	MenuHighlights   []string   `json:"menu_highlights"`
	CreatorReview    *string    `json:"creator_review"`
	Sentiment        *Sentiment `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
	Timecodes        []string   `json:"timecodes"`
}

// Extraction is the candidate list for one source item.
type Extraction struct {
	SourceShortcode string           `json:"source_shortcode" validate:"required,notblank"`
	Places          []PlaceCandidate `json:"places" validate:"dive"`
}
