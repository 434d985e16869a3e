package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet cleaned data is written to.
const SheetName = "Cleaned Data"

// TimeLayout formats capture timestamps in CSV output and previews.
const TimeLayout = "2006-01-02 15:04:05"

// Built-in Excel number formats applied per column type.
const (
	integerFormat  = 1  // "0"
	dateTimeFormat = 22 // "m/d/yy h:mm"
)

// Content types for the export formats.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// WriteXLSX writes the present columns of t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t core.NormalizedTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := columnStyles(f, t.PresentColumns())
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := t.Header()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range t.Records(0) {
		for j, v := range rec {
			if v != nil && styles[j] != 0 {
				rec[j] = excelize.Cell{StyleID: styles[j], Value: v}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// columnStyles returns the cell style for each column by its field type.
// Zero means the default style.
func columnStyles(f *excelize.File, cols []core.Column) ([]int, error) {
	formats := map[core.FieldType]int{
		core.FieldInt:  integerFormat,
		core.FieldDate: dateTimeFormat,
	}

	byType := make(map[core.FieldType]int)
	styles := make([]int, len(cols))
	for i, c := range cols {
		numFmt, ok := formats[c.Type]
		if !ok {
			continue
		}
		id, seen := byType[c.Type]
		if !seen {
			var err error
			if id, err = f.NewStyle(&excelize.Style{NumFmt: numFmt}); err != nil {
				return nil, fmt.Errorf("style for %s: %w", c.Name, err)
			}
			byType[c.Type] = id
		}
		styles[i] = id
	}
	return styles, nil
}

// WriteCSV writes the present columns of t as CSV with a header row.
func WriteCSV(w io.Writer, t core.NormalizedTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}

	for _, rec := range t.Records(0) {
		out := make([]string, len(rec))
		for i, v := range rec {
			out[i] = FormatValue(v)
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a normalized cell as text. Absent values are empty.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case time.Time:
		return val.Format(TimeLayout)
	default:
		return fmt.Sprint(val)
	}
}
