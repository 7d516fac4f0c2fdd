package domain

import (
	"fmt"
	"strconv"
)

// Field names one input of the query form.
type Field string

const (
	FieldStartYear  Field = "start_year"
	FieldStartMonth Field = "start_month"
	FieldStartDay   Field = "start_day"
	FieldEndYear    Field = "end_year"
	FieldEndMonth   Field = "end_month"
	FieldEndDay     Field = "end_day"
	FieldLatitude   Field = "latitude"
	FieldLongitude  Field = "longitude"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldStartYear, FieldStartMonth, FieldStartDay,
	FieldEndYear, FieldEndMonth, FieldEndDay,
	FieldLatitude, FieldLongitude,
}

// Phase selects the live (keystroke) or commit (blur) policy.
type Phase string

const (
	PhaseLive   Phase = "live"
	PhaseCommit Phase = "commit"
)

// FormState is the text of every input as the user sees it. Latitude and
// Longitude hold the one value shared by the slider and the numeric box.
type FormState struct {
	StartYear  string `json:"start_year"`
	StartMonth string `json:"start_month"`
	StartDay   string `json:"start_day"`
	EndYear    string `json:"end_year"`
	EndMonth   string `json:"end_month"`
	EndDay     string `json:"end_day"`

	StartAdvisory string `json:"start_advisory,omitempty"`
	EndAdvisory   string `json:"end_advisory,omitempty"`

	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// DefaultFormState is today's date in both groups and the default
// coordinate, with every field committed.
func DefaultFormState() FormState {
	today := Today()
	f := FormState{
		StartYear:  strconv.Itoa(today.Year),
		StartMonth: strconv.Itoa(today.Month),
		StartDay:   strconv.Itoa(today.Day),
		EndYear:    strconv.Itoa(today.Year),
		EndMonth:   strconv.Itoa(today.Month),
		EndDay:     strconv.Itoa(today.Day),
		Latitude:   FormatCoordinate(ClampCoordinate(DefaultLatitude, RegionBox.Lat)),
		Longitude:  FormatCoordinate(ClampCoordinate(DefaultLongitude, RegionBox.Lon)),
	}
	return f.CommitAll()
}

// Edit applies raw text to field under the given phase. A commit writes the
// text first and then runs the blur policy on it.
func (f FormState) Edit(field Field, raw string, phase Phase) (FormState, error) {
	switch phase {
	case PhaseLive:
		return f.Type(field, raw)
	case PhaseCommit:
		next, err := f.set(field, raw)
		if err != nil {
			return f, err
		}
		return next.Commit(field)
	default:
		return f, fmt.Errorf("unknown phase %q", phase)
	}
}

// Type applies the live policy for one keystroke. Coordinates have no live
// phase and are clamped immediately so slider and box always agree.
func (f FormState) Type(field Field, raw string) (FormState, error) {
	switch field {
	case FieldStartYear:
		f.StartYear, f.StartAdvisory = SanitizeYearLive(raw)
	case FieldEndYear:
		f.EndYear, f.EndAdvisory = SanitizeYearLive(raw)
	case FieldStartMonth:
		f.StartMonth = SanitizeMonthLive(raw)
	case FieldEndMonth:
		f.EndMonth = SanitizeMonthLive(raw)
	case FieldStartDay:
		f.StartDay = SanitizeDayLive(raw)
	case FieldEndDay:
		f.EndDay = SanitizeDayLive(raw)
	case FieldLatitude, FieldLongitude:
		return f.EditCoordinate(field, raw)
	default:
		return f, fmt.Errorf("unknown field %q", field)
	}
	return f, nil
}

// Commit applies the blur policy to field. Committing a year or month also
// pulls the paired day down to the new month length.
func (f FormState) Commit(field Field) (FormState, error) {
	switch field {
	case FieldStartYear:
		f.StartYear = strconv.Itoa(SanitizeYearCommit(f.StartYear))
		f.StartAdvisory = ""
		f.StartDay = f.reclampDay(field)
	case FieldEndYear:
		f.EndYear = strconv.Itoa(SanitizeYearCommit(f.EndYear))
		f.EndAdvisory = ""
		f.EndDay = f.reclampDay(field)
	case FieldStartMonth:
		f.StartMonth = strconv.Itoa(SanitizeMonthCommit(f.StartMonth))
		f.StartDay = f.reclampDay(field)
	case FieldEndMonth:
		f.EndMonth = strconv.Itoa(SanitizeMonthCommit(f.EndMonth))
		f.EndDay = f.reclampDay(field)
	case FieldStartDay:
		y, m := f.pairedYearMonth(field)
		f.StartDay = strconv.Itoa(SanitizeDayCommit(f.StartDay, y, m))
	case FieldEndDay:
		y, m := f.pairedYearMonth(field)
		f.EndDay = strconv.Itoa(SanitizeDayCommit(f.EndDay, y, m))
	case FieldLatitude, FieldLongitude:
		return f.EditCoordinate(field, f.coordinateText(field))
	default:
		return f, fmt.Errorf("unknown field %q", field)
	}
	return f, nil
}

// CommitAll commits every field in display order, as happens on first load.
func (f FormState) CommitAll() FormState {
	for _, field := range Fields {
		// Fields only holds known names, so Commit cannot fail here.
		f, _ = f.Commit(field)
	}
	return f
}

// EditCoordinate clamps raw text for latitude or longitude into RegionBox.
// Empty or unparseable text falls back to the box minimum.
func (f FormState) EditCoordinate(field Field, raw string) (FormState, error) {
	switch field {
	case FieldLatitude:
		f.Latitude = FormatCoordinate(ClampCoordinate(raw, RegionBox.Lat))
	case FieldLongitude:
		f.Longitude = FormatCoordinate(ClampCoordinate(raw, RegionBox.Lon))
	default:
		return f, fmt.Errorf("field %q is not a coordinate", field)
	}
	return f, nil
}

func (f FormState) set(field Field, raw string) (FormState, error) {
	switch field {
	case FieldStartYear:
		f.StartYear = raw
	case FieldStartMonth:
		f.StartMonth = raw
	case FieldStartDay:
		f.StartDay = raw
	case FieldEndYear:
		f.EndYear = raw
	case FieldEndMonth:
		f.EndMonth = raw
	case FieldEndDay:
		f.EndDay = raw
	case FieldLatitude:
		f.Latitude = raw
	case FieldLongitude:
		f.Longitude = raw
	default:
		return f, fmt.Errorf("unknown field %q", field)
	}
	return f, nil
}

func (f FormState) coordinateText(field Field) string {
	if field == FieldLatitude {
		return f.Latitude
	}
	return f.Longitude
}

func isStartGroup(field Field) bool {
	switch field {
	case FieldStartYear, FieldStartMonth, FieldStartDay:
		return true
	default:
		return false
	}
}

// pairedYearMonth resolves the year and month of field's group with the
// commit bounds, whatever state their text is in.
func (f FormState) pairedYearMonth(field Field) (int, int) {
	if isStartGroup(field) {
		return SanitizeYearCommit(f.StartYear), SanitizeMonthCommit(f.StartMonth)
	}
	return SanitizeYearCommit(f.EndYear), SanitizeMonthCommit(f.EndMonth)
}

func (f FormState) reclampDay(field Field) string {
	y, m := f.pairedYearMonth(field)
	if isStartGroup(field) {
		return ClampDayDown(f.StartDay, y, m)
	}
	return ClampDayDown(f.EndDay, y, m)
}
