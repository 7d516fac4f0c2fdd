package domain

import (
	"math"
	"strconv"
	"strings"
)

// Default coordinate shown on first load (Kuala Lumpur).
const (
	DefaultLatitude  = "3.139"
	DefaultLongitude = "101.6869"
)

// GeoCoordinate is a WGS-84 latitude/longitude pair.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is an inclusive numeric interval.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BoundingBox is the rectangular region all coordinate input is clamped to.
type BoundingBox struct {
	Lat Bounds `json:"lat"`
	Lon Bounds `json:"lon"`
}

// RegionBox covers peninsular Malaysia and Malaysian Borneo.
var RegionBox = BoundingBox{
	Lat: Bounds{Min: 1.0, Max: 7.5},
	Lon: Bounds{Min: 100.0, Max: 120.0},
}

// Clamp pins c inside the box and rounds both axes to 3 decimals.
func (b BoundingBox) Clamp(c GeoCoordinate) GeoCoordinate {
	return GeoCoordinate{
		Latitude:  clampFloat(c.Latitude, b.Lat),
		Longitude: clampFloat(c.Longitude, b.Lon),
	}
}

// SanitizeCoordinateText keeps digits, '.' and '-'.
func SanitizeCoordinateText(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
}

// ClampCoordinate sanitizes raw text, parses it (falling back to the lower
// bound), clamps it into b and rounds to 3 decimals.
func ClampCoordinate(raw string, b Bounds) float64 {
	v, ok := parseNumber(SanitizeCoordinateText(raw))
	if !ok {
		v = b.Min
	}
	return clampFloat(v, b)
}

// FormatCoordinate renders a coordinate the way both linked widgets show it.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func clampFloat(v float64, b Bounds) float64 {
	if math.IsNaN(v) || v < b.Min {
		v = b.Min
	}
	if v > b.Max {
		v = b.Max
	}
	return math.Round(v*1000) / 1000
}
