package domain

import (
	"context"
	"log/slog"
)

// GeocodingResult contains place data returned by a geocoding provider.
type GeocodingResult struct {
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0-1.0 provider confidence score
}

// PlaceNamer resolves coordinates to a place.
type PlaceNamer interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// Place labels the queried coordinate. Source is "reverse" when a name was
// found, "none" when the provider had nothing, "failed" on error and
// "disabled" without a provider.
type Place struct {
	Name       string  `json:"name,omitempty"`
	Address    string  `json:"address,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source"`
}

// DescribePlace reverse-geocodes c. A nil namer or a failed lookup yields an
// empty place; the query itself never fails because of it.
func DescribePlace(ctx context.Context, c GeoCoordinate, namer PlaceNamer, logger *slog.Logger) Place {
	if namer == nil {
		return Place{Source: "disabled"}
	}
	result, err := namer.ReverseGeocode(ctx, c.Latitude, c.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", c.Latitude,
			"lon", c.Longitude,
			"error", err,
		)
		return Place{Source: "failed"}
	}
	if result.FormattedAddress == "" {
		return Place{Source: "none"}
	}
	return Place{
		Name:       result.PlaceName,
		Address:    result.FormattedAddress,
		Confidence: result.Confidence,
		Source:     "reverse",
	}
}
