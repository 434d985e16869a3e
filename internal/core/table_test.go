package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple string unchanged", input: "hello", want: "hello"},
		{name: "empty string", input: "", want: ""},
		{name: "surrounded by whitespace", input: "  hello \t", want: "hello"},
		{name: "Excel formula with quotes", input: `="B08N5WRWNW"`, want: "B08N5WRWNW"},
		{name: "Excel formula with padding", input: `  ="12345"  `, want: "12345"},
		{name: "formula without quotes kept", input: "=SUM(A1)", want: "=SUM(A1)"},
		{name: "lone prefix kept", input: `="`, want: `="`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		key    HeaderKey
		checks map[string]int
	}{
		{
			name:   "exact keeps case and spaces",
			header: []string{"w-100 href", "w_q67L", "w_q67L 3"},
			key:    ExactHeader,
			checks: map[string]int{"w-100 href": 0, "w_q67L": 1, "w_q67L 3": 2},
		},
		{
			name:   "lower trims and folds",
			header: []string{" A-Link-Normal href ", "A-ICON-ALT"},
			key:    LowerHeader,
			checks: map[string]int{"a-link-normal href": 0, "a-icon-alt": 1},
		},
		{
			name:   "snake replaces spaces",
			header: []string{"Product URL", " Promo Price "},
			key:    SnakeHeader,
			checks: map[string]int{"product_url": 0, "promo_price": 1},
		},
		{
			name:   "first duplicate wins",
			header: []string{"URL", "url"},
			key:    LowerHeader,
			checks: map[string]int{"url": 0},
		},
		{
			name:   "empty header",
			header: []string{},
			key:    LowerHeader,
			checks: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := RawTable{Headers: tt.header}.MakeHeaderIndex(tt.key)
			if len(idx) != len(tt.checks) {
				t.Errorf("len(index) = %d, want %d", len(idx), len(tt.checks))
			}
			for key, wantPos := range tt.checks {
				gotPos, ok := idx[key]
				if !ok {
					t.Errorf("index[%q] not found, want %d", key, wantPos)
					continue
				}
				if gotPos != wantPos {
					t.Errorf("index[%q] = %d, want %d", key, gotPos, wantPos)
				}
			}
		})
	}
}

func TestHeaderIndex_Cell(t *testing.T) {
	idx := RawTable{Headers: []string{"url", "title", "price"}}.MakeHeaderIndex(ExactHeader)

	tests := []struct {
		name   string
		row    []string
		column string
		want   string
		wantOK bool
	}{
		{"present value", []string{"u", " Echo ", "1"}, "title", "Echo", true},
		{"missing column", []string{"u", "t", "1"}, "rating", "", false},
		{"short row", []string{"u"}, "price", "", false},
		{"nan is absent", []string{"u", "NaN", "1"}, "title", "", false},
		{"n/a is absent", []string{"u", "t", "#N/A"}, "price", "", false},
		{"blank is absent", []string{"  ", "t", "1"}, "url", "", false},
		{"zero is a value", []string{"u", "t", "0"}, "price", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idx.Cell(tt.row, tt.column)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Cell(%v, %q) = (%q, %v), want (%q, %v)", tt.row, tt.column, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRawTable_Clone(t *testing.T) {
	orig := RawTable{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3"}},
	}
	c := orig.Clone()
	if !reflect.DeepEqual(orig, c) {
		t.Fatalf("Clone() = %v, want %v", c, orig)
	}

	c.Headers[0] = "changed"
	c.Rows[0][0] = "changed"
	if orig.Headers[0] != "a" || orig.Rows[0][0] != "1" {
		t.Error("Clone shares backing arrays with the original")
	}
}

func TestNewRawTable(t *testing.T) {
	rows := [][]string{
		{"Crawl export"},
		{"url", "title"},
		{"u1", "t1"},
		{"", "  "},
		{"u2", "t2"},
	}

	tests := []struct {
		name      string
		rows      [][]string
		headerRow int
		want      RawTable
		wantErr   error
	}{
		{
			name:      "header on second row",
			rows:      rows,
			headerRow: 1,
			want: RawTable{
				Headers:   []string{"url", "title"},
				Rows:      [][]string{{"u1", "t1"}, {"u2", "t2"}},
				HeaderRow: 1,
				Source:    rows,
			},
		},
		{
			name:      "negative header row reads the first",
			rows:      rows[1:],
			headerRow: -1,
			want: RawTable{
				Headers: []string{"url", "title"},
				Rows:    [][]string{{"u1", "t1"}, {"u2", "t2"}},
				Source:  rows[1:],
			},
		},
		{name: "header past the end", rows: rows, headerRow: 5, wantErr: ErrEmptyFile},
		{name: "blank header", rows: rows, headerRow: 3, wantErr: ErrEmptyFile},
		{name: "no rows", rows: nil, headerRow: 0, wantErr: ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRawTable(tt.rows, tt.headerRow)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewRawTable() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRawTable_Reheader(t *testing.T) {
	rows := [][]string{{"banner"}, {"url"}, {"u1"}}
	table, err := NewRawTable(rows, 0)
	if err != nil {
		t.Fatalf("NewRawTable: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	re, ok := table.Reheader(1)
	if !ok {
		t.Fatal("Reheader(1) = false")
	}
	if re.HeaderRow != 1 || re.Headers[0] != "url" || re.Len() != 1 {
		t.Errorf("Reheader(1) = %+v", re)
	}

	if _, ok := table.Reheader(7); ok {
		t.Error("Reheader past the end should fail")
	}
	if _, ok := table.Clone().Reheader(1); ok {
		t.Error("a clone keeps no source rows to re-read")
	}
}
