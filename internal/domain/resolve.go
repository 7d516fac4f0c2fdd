package domain

import (
	"fmt"
	"strconv"
)

// DateRange is an inclusive pair of dates with Start <= End.
type DateRange struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// ResolvedQuery is everything needed to issue one upstream request. It is
// rebuilt from the form on every fetch.
type ResolvedQuery struct {
	Range          DateRange     `json:"range"`
	UseClimatology bool          `json:"use_climatology"`
	Coordinate     GeoCoordinate `json:"coordinate"`
	Advisory       string        `json:"advisory,omitempty"`
}

// Mode returns the upstream request shape for the query.
func (q ResolvedQuery) Mode() Mode {
	if q.UseClimatology {
		return ModeClimatology
	}
	return ModeDaily
}

// ResolveDateRange rejects start > end under YYYYMMDD ordering. Ranges are
// never swapped.
func ResolveDateRange(start, end CalendarDate) (DateRange, error) {
	if start.Compact() > end.Compact() {
		return DateRange{}, ErrStartAfterEnd
	}
	return DateRange{Start: start, End: end}, nil
}

// NeedClimatology reports whether r falls outside daily coverage.
func NeedClimatology(r DateRange, maxAvailable CalendarDate) bool {
	return r.Start.Compact() < minSupportedCompact ||
		r.End.Compact() > maxAvailable.Compact() ||
		r.Start.Year < MinSupportedYear ||
		r.End.Year < MinSupportedYear
}

// Resolver turns form state into a query using the fetch-time clamps.
type Resolver struct {
	MaxAvailableDate CalendarDate
}

// NewResolver creates a Resolver. A zero maxAvailable selects
// DefaultMaxAvailableDate.
func NewResolver(maxAvailable CalendarDate) *Resolver {
	if maxAvailable == (CalendarDate{}) {
		maxAvailable = DefaultMaxAvailableDate
	}
	return &Resolver{MaxAvailableDate: maxAvailable}
}

// Resolve sanitizes f, validates the range and picks the request mode. The
// sanitized form is returned even when the range is rejected so callers can
// echo it back.
//
// Years are clamped to [0, current year] here, not to MinSupportedYear, so a
// value that was never committed can still reach the climatology decision.
func (r *Resolver) Resolve(f FormState) (ResolvedQuery, FormState, error) {
	current := CurrentYear()
	currentText := strconv.Itoa(current)

	start := resolveGroup(orDefault(f.StartYear, currentText), f.StartMonth, f.StartDay, current)
	end := resolveGroup(orDefault(f.EndYear, currentText), f.EndMonth, f.EndDay, current)

	f.StartYear, f.StartMonth, f.StartDay = strconv.Itoa(start.Year), strconv.Itoa(start.Month), strconv.Itoa(start.Day)
	f.EndYear, f.EndMonth, f.EndDay = strconv.Itoa(end.Year), strconv.Itoa(end.Month), strconv.Itoa(end.Day)

	dr, err := ResolveDateRange(start, end)
	if err != nil {
		return ResolvedQuery{}, f, err
	}

	coord := GeoCoordinate{
		Latitude:  ClampCoordinate(orDefault(f.Latitude, DefaultLatitude), RegionBox.Lat),
		Longitude: ClampCoordinate(orDefault(f.Longitude, DefaultLongitude), RegionBox.Lon),
	}
	f.Latitude, f.Longitude = FormatCoordinate(coord.Latitude), FormatCoordinate(coord.Longitude)

	q := ResolvedQuery{
		Range:          dr,
		UseClimatology: NeedClimatology(dr, r.MaxAvailableDate),
		Coordinate:     coord,
	}
	if q.UseClimatology {
		q.Advisory = r.ClimatologyAdvisory()
	}
	return q, f, nil
}

// ClimatologyAdvisory is the non-blocking notice shown when daily data
// cannot cover the requested range.
func (r *Resolver) ClimatologyAdvisory() string {
	return fmt.Sprintf("Dates outside %04d-01-01 to %s require climatology; using climatology.",
		MinSupportedYear, r.MaxAvailableDate.ISO())
}

func resolveGroup(year, month, day string, current int) CalendarDate {
	y := clampInt(year, 0, current)
	m := clampInt(orDefault(month, "1"), 1, 12)
	d := clampInt(orDefault(day, "1"), 1, DaysInMonth(max(y, MinSupportedYear), m))
	return CalendarDate{Year: y, Month: m, Day: d}
}
