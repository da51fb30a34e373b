package places

import (
	"fmt"
	"strconv"
	"strings"

	"reelmap/internal/domain"
)

// Circle is a circular location bias.
type Circle struct {
	Center domain.LatLng `json:"center"`
	Radius float64       `json:"radius"`
}

// ParseCircle reads the "lat,lng,radius_m" form. An empty string is no bias.
func ParseCircle(s string) (*Circle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: location bias %q: want lat,lng,radius_m", domain.ErrConfiguration, s)
	}
	var vals [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: location bias %q: %v", domain.ErrConfiguration, s, err)
		}
		vals[i] = f
	}
	if vals[2] <= 0 {
		return nil, fmt.Errorf("%w: location bias %q: radius must be positive", domain.ErrConfiguration, s)
	}
	return &Circle{Center: domain.LatLng{Latitude: vals[0], Longitude: vals[1]}, Radius: vals[2]}, nil
}
