// Package sheet moves tables between spreadsheet files and the core types.
//
// Crawler exports arrive as .xlsx workbooks (read with excelize) or .csv files.
// Cleaned tables are written back as a single-sheet workbook or as CSV.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported upload extensions.
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// Supported reports whether name has an extension ReadFile understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtXLSX, ExtCSV:
		return true
	}
	return false
}

// ReadFile loads the first sheet of a workbook, or a CSV file, into a raw
// table. headerRow is the 0-based physical row holding the column names;
// rows above it are discarded and blank rows below it are skipped.
func ReadFile(name string, r io.Reader, headerRow int) (core.RawTable, error) {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ExtXLSX:
		rows, err = readXLSX(r)
	case ExtCSV:
		rows, err = readCSV(r)
	default:
		return core.RawTable{}, fmt.Errorf("%w: %q", core.ErrUnsupportedFile, ext)
	}
	if err != nil {
		return core.RawTable{}, err
	}

	return core.NewRawTable(rows, headerRow)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptyFile
	}

	// Numeric cells arrive unformatted, so "#,##0.00" prices stay parseable.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	return rows, nil
}

// readCSV strips a byte order mark and replaces invalid UTF-8 before parsing.
func readCSV(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return rows, nil
}
