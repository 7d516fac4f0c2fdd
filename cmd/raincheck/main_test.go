package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	"github.com/couchcryptid/rainfall-explorer/internal/rainfall"
)

type fakeQuerier struct {
	form    domain.FormState
	err     error
	weather domain.CityWeather
}

func (f *fakeQuerier) Query(_ context.Context, form domain.FormState) (rainfall.Result, error) {
	f.form = form
	if f.err != nil {
		return rainfall.Result{Form: form, Elapsed: "00:00.100"}, f.err
	}
	table := domain.BuildClimatologyTable(domain.Series{
		"JAN": domain.Present(1.5),
		"FEB": domain.Present(25),
		"MAR": {},
		"ANN": domain.Present(7.25),
	})
	return rainfall.Result{
		Query: domain.ResolvedQuery{
			Range: domain.DateRange{
				Start: domain.CalendarDate{Year: 1975, Month: 1, Day: 1},
				End:   domain.CalendarDate{Year: 1975, Month: 12, Day: 31},
			},
			UseClimatology: true,
		},
		Form:     form,
		Advisory: "using climatology",
		Mode:     domain.ModeClimatology,
		Table:    table,
		Annual:   table.Annual,
		Elapsed:  "00:02.345",
	}, nil
}

func (f *fakeQuerier) Weather(_ context.Context, city string) (domain.CityWeather, error) {
	if f.err != nil {
		return domain.CityWeather{}, f.err
	}
	w := f.weather
	w.City = city
	return w, nil
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestParseFlags(t *testing.T) {
	opts, verbose, err := parseFlags([]string{"-start-year", "1975", "-end-month", "13", "-v"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, verbose)
	assert.False(t, opts.weather)
	assert.Equal(t, "1975", opts.form.StartYear)
	assert.Equal(t, "13", opts.form.EndMonth)
	assert.Equal(t, domain.DefaultLatitude, opts.form.Latitude)

	opts, _, err = parseFlags([]string{"-city", ""}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.weather, "explicit empty city still selects weather")

	_, _, err = parseFlags([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_CommitsFormAndPrintsTable(t *testing.T) {
	freezeClock(t)
	q := &fakeQuerier{}
	var out, errOut bytes.Buffer

	opts := options{form: domain.FormState{StartYear: "1975", EndMonth: "13", EndDay: "40", Latitude: "9", Longitude: "99"}}
	code := run(context.Background(), q, opts, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "1981", q.form.StartYear, "commit snaps old years up")
	assert.Equal(t, "2025", q.form.EndYear)
	assert.Equal(t, "12", q.form.EndMonth)
	assert.Equal(t, "31", q.form.EndDay)
	assert.Equal(t, "7.500", q.form.Latitude)
	assert.Equal(t, "100.000", q.form.Longitude)

	s := out.String()
	assert.Contains(t, s, "Mode: climatology")
	assert.Contains(t, s, "using climatology")
	assert.Contains(t, s, "Light rain")
	assert.Contains(t, s, "Data Unavailable")
	assert.Contains(t, s, "Annual: 7.25")
	assert.Contains(t, s, "Elapsed: 00:02.345")
}

func TestRun_WritesWorkbook(t *testing.T) {
	freezeClock(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	var out bytes.Buffer

	code := run(context.Background(), &fakeQuerier{}, options{xlsxPath: path}, &out, io.Discard)
	require.Equal(t, 0, code)
	assert.Contains(t, out.String(), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Rainfall")
}

func TestRun_QueryErrorExitsNonZero(t *testing.T) {
	freezeClock(t)
	var out, errOut bytes.Buffer

	code := run(context.Background(), &fakeQuerier{err: domain.ErrStartAfterEnd}, options{}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Start date cannot be after End date.")
	assert.Empty(t, out.String())
}

func TestRun_Weather(t *testing.T) {
	q := &fakeQuerier{weather: domain.CityWeather{
		Country:     "MY",
		DateLabel:   "Friday, 15 August 2025",
		Temperature: 29.44,
		Condition:   "light rain",
		Humidity:    80,
		WindSpeed:   3.1,
		Daily: []domain.DailyTemperature{
			{Label: "Fri", Temperature: 29.4},
			{Label: "Sat", Temperature: 28.1},
		},
	}}
	var out bytes.Buffer

	code := run(context.Background(), q, options{weather: true, city: "Langkawi"}, &out, io.Discard)
	require.Equal(t, 0, code)
	s := out.String()
	assert.Contains(t, s, "Langkawi, MY")
	assert.Contains(t, s, "29.4°C  light rain")
	assert.Contains(t, s, "Humidity: 80%")
	assert.Contains(t, s, "Sat")
}
