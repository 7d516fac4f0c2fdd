package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
)

const (
	dataSheet    = "Rainfall"
	summarySheet = "Summary"

	// ContentType is the MIME type of an exported workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Report is everything written to one workbook.
type Report struct {
	Query domain.ResolvedQuery
	Table domain.Table
	Place domain.Place
}

// Exporter writes rainfall tables to XLSX workbooks.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export builds a workbook with the table on the first sheet and the query
// summary on the second. The workbook is closed when building it fails.
func (e *Exporter) Export(r Report) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range r.Table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(dataSheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(dataSheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	bandStyles := make(map[domain.RainBand]int)
	levelCol := len(r.Table.Columns)
	for i, row := range r.Table.Rows {
		rowNum := i + 2
		for j, v := range cellValues(row) {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellValue(dataSheet, cell, v); err != nil {
				return nil, err
			}
		}

		style, ok := bandStyles[row.Band]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{row.Band.Color()}, Pattern: 1},
			})
			if err != nil {
				return nil, fmt.Errorf("band style: %w", err)
			}
			bandStyles[row.Band] = style
		}
		cell, _ := excelize.CoordinatesToCellName(levelCol, rowNum)
		if err := f.SetCellStyle(dataSheet, cell, cell, style); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(levelCol)
	_ = f.SetColWidth(dataSheet, "A", lastCol, 12)
	valueCol, _ := excelize.ColumnNumberToName(levelCol - 1)
	_ = f.SetColWidth(dataSheet, valueCol, valueCol, 20)
	_ = f.SetColWidth(dataSheet, lastCol, lastCol, 18)

	if err := writeSummary(f, r, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// Write exports r straight to w.
func (e *Exporter) Write(w io.Writer, r Report) error {
	f, err := e.Export(r)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// cellValues mirrors Row.Cells but keeps numbers numeric.
func cellValues(row domain.Row) []any {
	var value any = domain.BandUnavailable.Label()
	if row.Amount.Valid {
		value = row.Amount.MM
	}
	if row.Date != nil {
		return []any{row.Date.Year, row.Date.Month, row.Date.Day, value, row.Level}
	}
	return []any{row.Month, value, row.Level}
}

func writeSummary(f *excelize.File, r Report, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	q := r.Query
	data := [][]any{
		{"Field", "Value"},
		{"Mode", string(q.Mode())},
		{"Start", q.Range.Start.ISO()},
		{"End", q.Range.End.ISO()},
		{"Latitude", domain.FormatCoordinate(q.Coordinate.Latitude)},
		{"Longitude", domain.FormatCoordinate(q.Coordinate.Longitude)},
		{"Rows", len(r.Table.Rows)},
		{"Rows with data", r.Table.Available()},
	}
	if r.Table.Annual.Valid {
		data = append(data, []any{"Annual mean (mm/day)", r.Table.Annual.MM})
	}
	if r.Place.Address != "" {
		data = append(data, []any{"Place", r.Place.Address})
	}
	if q.Advisory != "" {
		data = append(data, []any{"Note", q.Advisory})
	}

	for i, row := range data {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 60)
	return nil
}
