package core

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// FieldType represents the data type of a normalized column. Spreadsheet
// export picks the cell number format from it.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
	FieldInt
	FieldDate
)

// Product is one normalized row. Optional values use pgtype's Valid flag as
// the absent marker.
type Product struct {
	ProductURL         pgtype.Text
	ProductCode        pgtype.Text
	ProductTitle       pgtype.Text
	ImageURL           pgtype.Text
	ProductDescription pgtype.Text
	ListPrice          pgtype.Float8
	PromoPrice         pgtype.Float8
	Discount           pgtype.Text
	Rating             pgtype.Float8
	Reviews            pgtype.Int8
	StockStatus        pgtype.Text
	Retailer           pgtype.Text
	Captured           Capture
}

// Stock status values.
const (
	InStock    = "In Stock"
	OutOfStock = "Out of Stock"
)

// StockStatus maps a boolean availability signal to its display value.
func StockStatus(inStock bool) pgtype.Text {
	if inStock {
		return pgtype.Text{String: InStock, Valid: true}
	}
	return pgtype.Text{String: OutOfStock, Valid: true}
}

// Column describes one output column: its name, type, and how to read it from
// a Product. Present is decided per run; absent columns are not exported.
type Column struct {
	Name    string
	Type    FieldType
	Present bool
	value   func(Product) any
}

// Value returns the column value for p as a plain Go value
// (string, float64, int64, int or time.Time), or nil when absent.
func (c Column) Value(p Product) any {
	if c.value == nil {
		return nil
	}
	return c.value(p)
}

// NormalizedTable is the output of a retailer normalizer.
type NormalizedTable struct {
	Retailer Retailer
	Columns  []Column
	Rows     []Product
}

// PresentColumns returns the columns exported for this run, in canonical order.
func (t NormalizedTable) PresentColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Present {
			cols = append(cols, c)
		}
	}
	return cols
}

// Header returns the names of the present columns.
func (t NormalizedTable) Header() []string {
	cols := t.PresentColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Records returns the rows as values in present-column order.
// Only the first limit rows are returned when limit > 0.
func (t NormalizedTable) Records(limit int) [][]any {
	cols := t.PresentColumns()
	n := len(t.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([][]any, n)
	for i := 0; i < n; i++ {
		rec := make([]any, len(cols))
		for j, c := range cols {
			rec[j] = c.Value(t.Rows[i])
		}
		out[i] = rec
	}
	return out
}

// Column returns the named column and whether it is part of the schema.
func (t NormalizedTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Empty reports whether the run produced no rows.
func (t NormalizedTable) Empty() bool {
	return len(t.Rows) == 0
}

// RetailerInfo contains display and loading information about a retailer.
type RetailerInfo struct {
	Retailer  Retailer
	Label     string
	HeaderRow int      // 0-based physical row holding the headers
	URLColumn string   // Source column holding the product URL
	Columns   []string // Canonical output column names
}

// NormalizeFunc turns a raw table into a normalized one using one capture timestamp.
type NormalizeFunc func(raw RawTable, captured Capture) (NormalizedTable, error)

// RetailerDefinition contains everything needed to clean one retailer's export.
type RetailerDefinition struct {
	Info      RetailerInfo
	Schema    []Column
	Normalize NormalizeFunc
}

// NewSchema copies the canonical columns of a definition, all marked present.
// Normalizers call this once per run and then tag absent columns.
func (d RetailerDefinition) NewSchema() []Column {
	cols := make([]Column, len(d.Schema))
	for i, c := range d.Schema {
		c.Present = true
		cols[i] = c
	}
	return cols
}

// MarkAbsent tags the named columns as not produced by this run.
func MarkAbsent(cols []Column, names ...string) {
	for i := range cols {
		for _, n := range names {
			if cols[i].Name == n {
				cols[i].Present = false
			}
		}
	}
}

// Text builds a text column reading f.
func Text(name string, f func(Product) pgtype.Text) Column {
	return Column{Name: name, Type: FieldText, value: func(p Product) any {
		v := f(p)
		if !v.Valid {
			return nil
		}
		return v.String
	}}
}

// Numeric builds a float column reading f.
func Numeric(name string, f func(Product) pgtype.Float8) Column {
	return Column{Name: name, Type: FieldNumeric, value: func(p Product) any {
		v := f(p)
		if !v.Valid {
			return nil
		}
		return v.Float64
	}}
}

// Count builds an integer column reading f.
func Count(name string, f func(Product) pgtype.Int8) Column {
	return Column{Name: name, Type: FieldInt, value: func(p Product) any {
		v := f(p)
		if !v.Valid {
			return nil
		}
		return v.Int64
	}}
}

// CaptureColumns returns the timestamp column (named dateName) followed by
// week, month, quarter and year.
func CaptureColumns(dateName string) []Column {
	return []Column{
		{Name: dateName, Type: FieldDate, value: func(p Product) any { return p.Captured.At }},
		{Name: "week", Type: FieldInt, value: func(p Product) any { return p.Captured.Week }},
		{Name: "month", Type: FieldInt, value: func(p Product) any { return p.Captured.Month }},
		{Name: "quarter", Type: FieldInt, value: func(p Product) any { return p.Captured.Quarter }},
		{Name: "year", Type: FieldInt, value: func(p Product) any { return p.Captured.Year }},
	}
}

// CleanResult is the outcome of one clean run.
type CleanResult struct {
	RunID      string
	Retailer   Retailer
	FileName   string
	Table      NormalizedTable
	Validation *Validation
	InputRows  int
	Dropped    int
	Duration   time.Duration
}
