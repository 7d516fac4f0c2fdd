package domain

import (
	"encoding/json"
	"math"
)

// MissingSentinel is the POWER marker for "no data". It is converted to an
// absent Amount at the adapter boundary.
const MissingSentinel = -999.0

// Amount is an optional precipitation value in millimetres.
type Amount struct {
	MM    float64
	Valid bool
}

// Present wraps a measured value.
func Present(mm float64) Amount {
	return Amount{MM: mm, Valid: true}
}

// AmountFromRaw maps a decoded JSON number to an Amount. null, NaN and the
// -999 sentinel are all absent.
func AmountFromRaw(v *float64) Amount {
	if v == nil || *v == MissingSentinel || math.IsNaN(*v) {
		return Amount{}
	}
	return Present(*v)
}

// MarshalJSON encodes an absent value as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.MM)
}

// UnmarshalJSON accepts a number, null or the -999 sentinel.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AmountFromRaw(v)
	return nil
}

// RainBand is a rain intensity class.
type RainBand int

const (
	BandUnavailable RainBand = iota
	BandNone
	BandLight
	BandModerate
	BandHeavy
	BandVeryHeavy
)

// ClassifyRain bands a daily or monthly value:
// <2 none, <10 light, <20 moderate, <50 heavy, else very heavy.
func ClassifyRain(a Amount) RainBand {
	if !a.Valid {
		return BandUnavailable
	}
	switch mm := a.MM; {
	case mm < 2:
		return BandNone
	case mm < 10:
		return BandLight
	case mm < 20:
		return BandModerate
	case mm < 50:
		return BandHeavy
	default:
		return BandVeryHeavy
	}
}

// Label is the user-facing band name.
func (b RainBand) Label() string {
	switch b {
	case BandNone:
		return "No rain"
	case BandLight:
		return "Light rain"
	case BandModerate:
		return "Moderate rain"
	case BandHeavy:
		return "Heavy rain"
	case BandVeryHeavy:
		return "Very heavy"
	default:
		return "Data Unavailable"
	}
}

// Class is the badge style class. Heavy and very heavy share a badge.
func (b RainBand) Class() string {
	switch b {
	case BandLight:
		return "rain-light"
	case BandModerate:
		return "rain-moderate"
	case BandHeavy, BandVeryHeavy:
		return "rain-heavy"
	default:
		return "rain-none"
	}
}

// Color is the chart bar color for the band.
func (b RainBand) Color() string {
	switch b {
	case BandNone:
		return "#b0bec5"
	case BandLight:
		return "#4fc3f7"
	case BandModerate:
		return "#29b6f6"
	case BandHeavy:
		return "#1e88e5"
	case BandVeryHeavy:
		return "#0d47a1"
	default:
		return "#9e9e9e"
	}
}

func (b RainBand) String() string {
	return b.Label()
}
