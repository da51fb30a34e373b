package app

import (
	"strings"

	"reelmap/internal/domain"
)

const querySep = ", "

// BuildQuery joins name, city hint and country hint, skipping blanks.
// Neighborhood and category hints are left out of the query.
func BuildQuery(c domain.PlaceCandidate) string {
	parts := []string{strings.TrimSpace(c.Name)}
	for _, hint := range []*string{c.CityHint, c.CountryHint} {
		if hint == nil {
			continue
		}
		if h := strings.TrimSpace(*hint); h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, querySep)
}
