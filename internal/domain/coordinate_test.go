package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampCoordinate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		b    Bounds
		want string
	}{
		{"longitude above box", "200", RegionBox.Lon, "120.000"},
		{"longitude below box", "0", RegionBox.Lon, "100.000"},
		{"latitude below box", "0", RegionBox.Lat, "1.000"},
		{"latitude above box", "90", RegionBox.Lat, "7.500"},
		{"rounded to 3 decimals", "101.6869", RegionBox.Lon, "101.687"},
		{"unparseable falls back to min", "abc", RegionBox.Lat, "1.000"},
		{"stray characters stripped", "3.1x39", RegionBox.Lat, "3.139"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCoordinate(ClampCoordinate(tt.raw, tt.b)))
		})
	}
}

func TestBoundingBox_Clamp(t *testing.T) {
	got := RegionBox.Clamp(GeoCoordinate{Latitude: -5, Longitude: 110.12345})
	assert.Equal(t, GeoCoordinate{Latitude: 1, Longitude: 110.123}, got)
}

func TestSanitizeCoordinateText(t *testing.T) {
	assert.Equal(t, "-3.5", SanitizeCoordinateText(" -3.5°N"))
}
