package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00.000", FormatElapsed(0))
	assert.Equal(t, "00:00.125", FormatElapsed(125*time.Millisecond))
	assert.Equal(t, "01:01.234", FormatElapsed(61234*time.Millisecond))
	assert.Equal(t, "00:00.000", FormatElapsed(-time.Second))
}

func TestSampleDaily(t *testing.T) {
	start := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	slots := make([]ForecastSlot, 40)
	for i := range slots {
		slots[i] = ForecastSlot{Time: start.Add(time.Duration(i) * 3 * time.Hour), Temperature: float64(i)}
	}

	daily := SampleDaily(slots)

	require.Len(t, daily, 5)
	assert.Equal(t, "Fri", daily[0].Label)
	assert.Equal(t, "Sat", daily[1].Label)
	assert.Equal(t, 8.0, daily[1].Temperature)
	assert.Empty(t, SampleDaily(nil))
}

func TestWeatherHelpers(t *testing.T) {
	assert.Equal(t, "Friday, 15 August 2025", LongDateLabel(fixedNow))
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", WeatherIconURL("10d"))
	assert.Empty(t, WeatherIconURL(""))

	city, err := NormalizeCity("  Langkawi ")
	require.NoError(t, err)
	assert.Equal(t, "Langkawi", city)

	_, err = NormalizeCity("   ")
	assert.ErrorIs(t, err, ErrMissingCity)

	nf := CityNotFound("Atlantis", nil)
	assert.Equal(t, CodeNotFound, nf.Code)
	assert.Equal(t, `City or country "Atlantis" not found.`, UserMessage(nf))
}

func TestErrors(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NewAppError(CodeStartAfterEnd, "x", nil))
	assert.ErrorIs(t, wrapped, ErrStartAfterEnd)
	assert.True(t, IsInputError(wrapped))
	assert.False(t, IsInputError(TransportError("status 500", nil)))

	assert.Equal(t, "Start date cannot be after End date.", UserMessage(ErrStartAfterEnd))
	assert.Equal(t, "Failed to load data: status 500", UserMessage(TransportError("status 500", errors.New("boom"))))
	assert.Equal(t, "Failed to load data: Unknown error", UserMessage(ContractError("", nil)))
	assert.Equal(t, CodeContract, CodeOf(fmt.Errorf("x: %w", ContractError("missing parameter", nil))))
	assert.Empty(t, CodeOf(errors.New("plain")))
}

type stubNamer struct {
	result GeocodingResult
	err    error
	calls  int
}

func (s *stubNamer) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	s.calls++
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDescribePlace(t *testing.T) {
	coord := GeoCoordinate{Latitude: 3.139, Longitude: 101.687}
	ctx := context.Background()

	t.Run("nil namer", func(t *testing.T) {
		assert.Equal(t, Place{Source: "disabled"}, DescribePlace(ctx, coord, nil, discardLogger()))
	})

	t.Run("found", func(t *testing.T) {
		n := &stubNamer{result: GeocodingResult{FormattedAddress: "Kuala Lumpur, Malaysia", PlaceName: "Kuala Lumpur", Confidence: 0.9}}
		p := DescribePlace(ctx, coord, n, discardLogger())
		assert.Equal(t, "Kuala Lumpur", p.Name)
		assert.Equal(t, "reverse", p.Source)
		assert.Equal(t, 1, n.calls)
	})

	t.Run("failure degrades gracefully", func(t *testing.T) {
		n := &stubNamer{err: errors.New("rate limited")}
		assert.Equal(t, Place{Source: "failed"}, DescribePlace(ctx, coord, n, discardLogger()))
	})

	t.Run("nothing found", func(t *testing.T) {
		assert.Equal(t, Place{Source: "none"}, DescribePlace(ctx, coord, &stubNamer{}, discardLogger()))
	})
}

func TestNewRainfallQueryEvent(t *testing.T) {
	freezeClock(t)

	q := ResolvedQuery{
		Range:      DateRange{Start: CalendarDate{2024, 1, 1}, End: CalendarDate{2024, 1, 2}},
		Coordinate: GeoCoordinate{Latitude: 3.139, Longitude: 101.687},
	}
	table := BuildDailyTable(Series{"20240101": Present(3), "20240102": {}})

	evt := NewRainfallQueryEvent("id-1", q, table, Place{Name: "Kuala Lumpur"}, 1500*time.Millisecond)

	assert.Equal(t, "id-1", evt.ID)
	assert.Equal(t, ModeDaily, evt.Mode)
	assert.Equal(t, 2, evt.Rows)
	assert.Equal(t, 1, evt.Available)
	assert.Equal(t, int64(1500), evt.ElapsedMS)
	assert.Equal(t, fixedNow, evt.ProcessedAt)
	assert.Equal(t, "Kuala Lumpur", evt.PlaceName)

	t.Run("query key is deterministic", func(t *testing.T) {
		assert.Equal(t, evt.QueryKey, QueryKey(q))
		assert.Regexp(t, `^daily-[0-9a-f]{16}$`, evt.QueryKey)

		other := q
		other.UseClimatology = true
		assert.NotEqual(t, evt.QueryKey, QueryKey(other))
	})
}
