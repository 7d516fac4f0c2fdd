package domain

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mode is the upstream request shape.
type Mode string

const (
	ModeDaily       Mode = "daily"
	ModeClimatology Mode = "climatology"
)

// Series maps a response key (YYYYMMDD, month number or month name) to a value.
type Series map[string]Amount

// PrecipitationSource fetches precipitation series for a point.
type PrecipitationSource interface {
	Daily(ctx context.Context, c GeoCoordinate, r DateRange) (Series, error)
	Climatology(ctx context.Context, c GeoCoordinate) (Series, error)
}

// Row is one line of the results table.
type Row struct {
	Key    string        `json:"key"`
	Date   *CalendarDate `json:"date,omitempty"`
	Month  int           `json:"month,omitempty"`
	Amount Amount        `json:"precipitation_mm"`
	Band   RainBand      `json:"-"`
	Level  string        `json:"level"`
	Class  string        `json:"class"`
}

// Table is the rendered response for one query.
type Table struct {
	Mode    Mode     `json:"mode"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	// Annual is the climatology annual mean when the response carries one.
	Annual Amount `json:"annual_mm"`
	// Skipped counts response keys that matched no row.
	Skipped int `json:"skipped,omitempty"`
}

// Chart is a bar chart dataset. Absent values are left out.
type Chart struct {
	Type         string    `json:"type"`
	DatasetLabel string    `json:"dataset_label"`
	XAxisTitle   string    `json:"x_axis_title"`
	YAxisTitle   string    `json:"y_axis_title"`
	Labels       []string  `json:"labels"`
	Values       []float64 `json:"values"`
	Colors       []string  `json:"colors"`
}

// Empty reports whether there is nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

var (
	dailyColumns       = []string{"Year", "Month", "Day", "Precipitation (mm)", "Level"}
	climatologyColumns = []string{"Month", "Precipitation (mm)", "Level"}

	monthNames = map[string]int{
		"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
		"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
	}
)

const annualKey = "ANN"

// BuildDailyTable orders YYYYMMDD keys ascending. Keys that are not valid
// dates are counted in Skipped.
func BuildDailyTable(s Series) Table {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := Table{Mode: ModeDaily, Columns: dailyColumns, Rows: make([]Row, 0, len(keys))}
	for _, k := range keys {
		d, err := ParseCompactDate(k)
		if err != nil {
			t.Skipped++
			continue
		}
		t.Rows = append(t.Rows, newRow(k, s[k], &d, 0))
	}
	return t
}

// BuildClimatologyTable orders month keys 1..12. The annual key is kept
// aside; anything else is counted in Skipped.
func BuildClimatologyTable(s Series) Table {
	t := Table{Mode: ModeClimatology, Columns: climatologyColumns}
	type monthValue struct {
		key   string
		month int
	}
	months := make([]monthValue, 0, 12)
	for k := range s {
		if strings.EqualFold(k, annualKey) {
			t.Annual = s[k]
			continue
		}
		m, ok := parseMonthKey(k)
		if !ok {
			t.Skipped++
			continue
		}
		months = append(months, monthValue{key: k, month: m})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].month < months[j].month })

	t.Rows = make([]Row, 0, len(months))
	for _, mv := range months {
		t.Rows = append(t.Rows, newRow(mv.key, s[mv.key], nil, mv.month))
	}
	return t
}

// BuildTable dispatches on mode.
func BuildTable(mode Mode, s Series) Table {
	if mode == ModeClimatology {
		return BuildClimatologyTable(s)
	}
	return BuildDailyTable(s)
}

// Available counts rows with a value.
func (t Table) Available() int {
	n := 0
	for _, r := range t.Rows {
		if r.Amount.Valid {
			n++
		}
	}
	return n
}

// Chart builds the bar dataset from rows that have a value.
func (t Table) Chart() Chart {
	c := Chart{
		Type:         "bar",
		DatasetLabel: "Precipitation (mm)",
		XAxisTitle:   "Date",
		YAxisTitle:   "Rainfall (mm)",
	}
	if t.Mode == ModeClimatology {
		c.XAxisTitle = "Month"
	}
	for _, r := range t.Rows {
		if !r.Amount.Valid {
			continue
		}
		c.Labels = append(c.Labels, r.Label())
		c.Values = append(c.Values, r.Amount.MM)
		c.Colors = append(c.Colors, r.Band.Color())
	}
	return c
}

// Label is the chart axis label: YYYY-MM-DD for days, Mnn for months.
func (r Row) Label() string {
	if r.Date != nil {
		return r.Date.ISO()
	}
	return fmt.Sprintf("M%02d", r.Month)
}

// Cells renders the row for a text table in column order.
func (r Row) Cells() []string {
	value := FormatAmount(r.Amount)
	if r.Date != nil {
		return []string{
			fmt.Sprintf("%04d", r.Date.Year),
			fmt.Sprintf("%02d", r.Date.Month),
			fmt.Sprintf("%02d", r.Date.Day),
			value,
			r.Level,
		}
	}
	return []string{fmt.Sprintf("%02d", r.Month), value, r.Level}
}

// FormatAmount renders a value with two decimals, or the unavailable label.
func FormatAmount(a Amount) string {
	if !a.Valid {
		return BandUnavailable.Label()
	}
	return strconv.FormatFloat(a.MM, 'f', 2, 64)
}

func newRow(key string, a Amount, d *CalendarDate, month int) Row {
	band := ClassifyRain(a)
	return Row{
		Key:    key,
		Date:   d,
		Month:  month,
		Amount: a,
		Band:   band,
		Level:  band.Label(),
		Class:  band.Class(),
	}
}

func parseMonthKey(k string) (int, bool) {
	if m, ok := monthNames[strings.ToUpper(k)]; ok {
		return m, true
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}
