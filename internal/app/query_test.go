package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reelmap/internal/app"
	"reelmap/internal/domain"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		in   domain.PlaceCandidate
		want string
	}{
		{"name only", domain.PlaceCandidate{Name: "Tiong Bahru Bakery"}, "Tiong Bahru Bakery"},
		{"city", domain.PlaceCandidate{Name: "Tiong Bahru Bakery", CityHint: ptr("Singapore")}, "Tiong Bahru Bakery, Singapore"},
		{"city and country", domain.PlaceCandidate{Name: "Ichiran", CityHint: ptr("Tokyo"), CountryHint: ptr("Japan")}, "Ichiran, Tokyo, Japan"},
		{"country without city", domain.PlaceCandidate{Name: "Ichiran", CountryHint: ptr("Japan")}, "Ichiran, Japan"},
		{"blank hint skipped", domain.PlaceCandidate{Name: "Ichiran", CityHint: ptr("  ")}, "Ichiran"},
		{
			"neighborhood and category ignored",
			domain.PlaceCandidate{Name: "Ichiran", NeighborhoodHint: ptr("Shibuya"), CategoryHint: ptr("restaurant")},
			"Ichiran",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, app.BuildQuery(tc.in))
		})
	}
}
