package core

import "strings"

// RawTable is a crawler export as loaded from a spreadsheet: free-form headers
// and untyped string cells. Cells may be missing entirely when a row is shorter
// than the header.
type RawTable struct {
	Headers []string
	Rows    [][]string

	// HeaderRow is the 0-based physical row the headers were taken from.
	HeaderRow int
	// Source holds every physical row as loaded so the table can be re-read
	// at another header row. Nil when the loader did not keep it.
	Source [][]string
}

// NewRawTable builds a table from the physical rows of a sheet, taking the
// headers from headerRow. Rows above it are discarded and blank rows below
// it are skipped. A missing or blank header row is ErrEmptyFile.
func NewRawTable(rows [][]string, headerRow int) (RawTable, error) {
	if headerRow < 0 {
		headerRow = 0
	}
	if len(rows) <= headerRow || isBlankRow(rows[headerRow]) {
		return RawTable{}, ErrEmptyFile
	}

	t := RawTable{
		Headers:   rows[headerRow],
		Rows:      make([][]string, 0, len(rows)-headerRow-1),
		HeaderRow: headerRow,
		Source:    rows,
	}
	for _, row := range rows[headerRow+1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Reheader re-reads the table with its headers at another physical row.
// It reports false when the source rows were not kept or the row is blank.
func (t RawTable) Reheader(headerRow int) (RawTable, bool) {
	if t.Source == nil {
		return RawTable{}, false
	}
	nt, err := NewRawTable(t.Source, headerRow)
	if err != nil {
		return RawTable{}, false
	}
	return nt, true
}

// HeaderIndex maps a header key to its column position.
type HeaderIndex map[string]int

// HeaderKey produces the lookup key for a header under a given normalization.
type HeaderKey func(string) string

// ExactHeader keeps the header as written.
func ExactHeader(h string) string { return h }

// LowerHeader trims and lower-cases the header.
func LowerHeader(h string) string { return strings.ToLower(strings.TrimSpace(h)) }

// SnakeHeader trims, lower-cases and replaces spaces with underscores.
func SnakeHeader(h string) string { return strings.ReplaceAll(LowerHeader(h), " ", "_") }

// MakeHeaderIndex builds an index of the table headers under key.
// When two headers collide, the first occurrence wins.
func (t RawTable) MakeHeaderIndex(key HeaderKey) HeaderIndex {
	idx := make(HeaderIndex, len(t.Headers))
	for i, h := range t.Headers {
		k := key(h)
		if _, dup := idx[k]; dup {
			continue
		}
		idx[k] = i
	}
	return idx
}

// Has reports whether the index contains column name.
func (idx HeaderIndex) Has(name string) bool {
	_, ok := idx[name]
	return ok
}

// Cell returns the cleaned value of column name in row. The second result is
// false when the column does not exist, the row is too short, or the cell holds
// a null-like value.
func (idx HeaderIndex) Cell(row []string, name string) (string, bool) {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return "", false
	}
	v := CleanCell(row[pos])
	if isNullLike(v) {
		return "", false
	}
	return v, true
}

// Value is Cell without the presence flag.
func (idx HeaderIndex) Value(row []string, name string) string {
	v, _ := idx.Cell(row, name)
	return v
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the headers and data rows so a normalizer never
// shares backing arrays with the caller. Source is not carried over.
func (t RawTable) Clone() RawTable {
	out := RawTable{
		Headers:   append([]string(nil), t.Headers...),
		Rows:      make([][]string, len(t.Rows)),
		HeaderRow: t.HeaderRow,
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// CleanCell removes spreadsheet artifacts from a cell value:
//   - surrounding whitespace
//   - Excel formula prefix (="...")
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

// isNullLike reports values spreadsheet exports use for missing data.
func isNullLike(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a", "#n/a":
		return true
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
