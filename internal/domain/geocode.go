package domain

import "context"

// AddressComponent is one typed component of a reverse-geocoded address, as
// returned by the Google Geocoding API.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Geocoder resolves coordinates to a structured address. Implementations
// return the components of the first (best-ranked) candidate only.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]AddressComponent, error)
}

// ExtractComponent returns the long name of the first component carrying the
// given type, or "" when the address has none. The component types of
// interest here are "locality" and "country".
func ExtractComponent(components []AddressComponent, typ string) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == typ {
				return c.LongName
			}
		}
	}
	return ""
}
