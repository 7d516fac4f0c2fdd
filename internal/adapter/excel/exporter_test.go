package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
)

func dailyReport() Report {
	return Report{
		Query: domain.ResolvedQuery{
			Range: domain.DateRange{
				Start: domain.CalendarDate{Year: 2024, Month: 1, Day: 1},
				End:   domain.CalendarDate{Year: 2024, Month: 1, Day: 2},
			},
			Coordinate: domain.GeoCoordinate{Latitude: 3.139, Longitude: 101.687},
		},
		Table: domain.BuildDailyTable(domain.Series{
			"20240101": domain.Present(12.5),
			"20240102": {},
		}),
		Place: domain.Place{Address: "Kuala Lumpur, Malaysia", Source: "reverse"},
	}
}

func TestExporter_Daily(t *testing.T) {
	f, err := NewExporter().Export(dailyReport())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Rainfall", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Rainfall")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "Month", "Day", "Precipitation (mm)", "Level"}, rows[0])
	assert.Equal(t, []string{"2024", "1", "1", "12.5", "Moderate rain"}, rows[1])
	assert.Equal(t, []string{"2024", "1", "2", "Data Unavailable", "Data Unavailable"}, rows[2])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Contains(t, summary, []string{"Mode", "daily"})
	assert.Contains(t, summary, []string{"Place", "Kuala Lumpur, Malaysia"})
	assert.Contains(t, summary, []string{"Rows with data", "1"})
}

func TestExporter_Climatology(t *testing.T) {
	q := domain.ResolvedQuery{UseClimatology: true, Advisory: "using climatology"}
	table := domain.BuildClimatologyTable(domain.Series{"JAN": domain.Present(8), "ANN": domain.Present(7.25)})

	f, err := NewExporter().Export(Report{Query: q, Table: table})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rainfall")
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "Precipitation (mm)", "Level"}, rows[0])
	assert.Equal(t, []string{"1", "8", "Light rain"}, rows[1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Contains(t, summary, []string{"Annual mean (mm/day)", "7.25"})
	assert.Contains(t, summary, []string{"Note", "using climatology"})
}

func TestExporter_WriteProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter().Write(&buf, dailyReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Rainfall", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Moderate rain", v)
}

func TestExporter_ExportFailureReturnsNoWorkbook(t *testing.T) {
	r := dailyReport()
	// Without columns there is no level column to style.
	r.Table.Columns = nil

	f, err := NewExporter().Export(r)
	require.Error(t, err)
	assert.Nil(t, f)

	var buf bytes.Buffer
	assert.Error(t, NewExporter().Write(&buf, r))
	assert.Zero(t, buf.Len())
}
