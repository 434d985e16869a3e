package core

import (
	"errors"
	"strings"
	"testing"
)

func urlTable(header string, urls ...string) RawTable {
	t := RawTable{Headers: []string{"title", header}}
	for _, u := range urls {
		t.Rows = append(t.Rows, []string{"item", u})
	}
	return t
}

func repeat(n int, s string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestValidateRetailer(t *testing.T) {
	amazon := "https://www.amazon.com/dp/B08N5WRWNW"
	walmart := "https://www.walmart.com/ip/1234567890"
	mercado := "https://www.mercadolivre.com.br/p/MLB1"

	tests := []struct {
		name         string
		table        RawTable
		declared     Retailer
		wantAccepted bool
		wantDetected Retailer
		wantMessage  string
	}{
		{
			name:         "all amazon accepted",
			table:        urlTable("a-link-normal href", repeat(10, amazon)...),
			declared:     Amazon,
			wantAccepted: true,
			wantDetected: Amazon,
			wantMessage:  "File matches Amazon.",
		},
		{
			name:         "six of ten walmart declared amazon suggests walmart",
			table:        urlTable("a-link-normal href", append(repeat(6, walmart), repeat(4, amazon)...)...),
			declared:     Amazon,
			wantAccepted: false,
			wantDetected: Walmart,
			wantMessage:  "This file looks like Walmart data, not Amazon. Select Walmart and try again.",
		},
		{
			name:         "exactly half is enough",
			table:        urlTable("w-100 href", append(repeat(5, walmart), repeat(5, amazon)...)...),
			declared:     Walmart,
			wantAccepted: true,
			wantDetected: Amazon,
			wantMessage:  "File matches Walmart.",
		},
		{
			name:         "nothing crosses threshold",
			table:        urlTable("url", amazon, walmart, mercado, "https://example.com/x"),
			declared:     Mercado,
			wantAccepted: false,
			wantDetected: Amazon,
			wantMessage:  "The uploaded file does not appear to contain Mercado product URLs.",
		},
		{
			name:         "header matched case insensitively",
			table:        urlTable(" Product URL ", repeat(3, mercado)...),
			declared:     Mercado,
			wantAccepted: true,
			wantDetected: Mercado,
			wantMessage:  "File matches Mercado.",
		},
		{
			name:         "domain matched case insensitively",
			table:        urlTable("product_url", "HTTPS://WWW.WALMART.COM/IP/1"),
			declared:     Walmart,
			wantAccepted: true,
			wantDetected: Walmart,
			wantMessage:  "File matches Walmart.",
		},
		{
			name:         "absent urls count against the score",
			table:        urlTable("url", amazon, "", "nan"),
			declared:     Amazon,
			wantAccepted: false,
			wantDetected: Amazon,
			wantMessage:  "The uploaded file does not appear to contain Amazon product URLs.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateRetailer(tt.table, tt.declared)
			if v.Accepted != tt.wantAccepted {
				t.Errorf("Accepted = %v, want %v", v.Accepted, tt.wantAccepted)
			}
			if v.Detected != tt.wantDetected {
				t.Errorf("Detected = %q, want %q", v.Detected, tt.wantDetected)
			}
			if v.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", v.Message, tt.wantMessage)
			}
		})
	}
}

func TestValidateRetailer_TieBreak(t *testing.T) {
	table := urlTable("url",
		"https://www.walmart.com/ip/1",
		"https://www.mercadolivre.com.br/p/MLB1",
	)

	v := ValidateRetailer(table, Walmart)
	if v.Detected != Mercado {
		t.Errorf("Detected = %q, want Mercado (listed before Walmart)", v.Detected)
	}
	if !v.Accepted {
		t.Errorf("Walmart at 50%% should be accepted, got %q", v.Message)
	}
}

func TestValidateRetailer_SamplesLeadingRows(t *testing.T) {
	urls := append(repeat(10, "https://www.amazon.com/dp/B08N5WRWNW"), repeat(30, "https://www.walmart.com/ip/1")...)
	v := ValidateRetailer(urlTable("url", urls...), Amazon)

	if v.Sampled != DefaultSampleSize {
		t.Errorf("Sampled = %d, want %d", v.Sampled, DefaultSampleSize)
	}
	if !v.Accepted {
		t.Errorf("only the first %d rows should be inspected: %q", DefaultSampleSize, v.Message)
	}
}

func TestValidateRetailer_URLColumnPriority(t *testing.T) {
	table := RawTable{
		Headers: []string{"url", "w-100 href"},
		Rows:    [][]string{{"https://www.amazon.com/dp/1", "https://www.walmart.com/ip/1"}},
	}

	v := ValidateRetailer(table, Walmart)
	if v.URLColumn != "w-100 href" {
		t.Errorf("URLColumn = %q, want w-100 href", v.URLColumn)
	}
	if !v.Accepted {
		t.Errorf("expected acceptance, got %q", v.Message)
	}
}

func TestValidateRetailer_Unverifiable(t *testing.T) {
	noColumn := RawTable{Headers: []string{"title"}, Rows: [][]string{{"x"}}}
	v := ValidateRetailer(noColumn, Amazon)
	if v.Accepted || !strings.Contains(v.Message, "Could not find a product URL column") {
		t.Errorf("no url column: Accepted = %v, Message = %q", v.Accepted, v.Message)
	}

	noRows := RawTable{Headers: []string{"url"}}
	v = ValidateRetailer(noRows, Amazon)
	if v.Accepted || v.Message != "The uploaded file has no data rows." {
		t.Errorf("no rows: Accepted = %v, Message = %q", v.Accepted, v.Message)
	}

	err := v.Err()
	if !errors.Is(err, ErrRetailerMismatch) {
		t.Errorf("Err() = %v, want ErrRetailerMismatch", err)
	}
}

func TestNewDetector_Defaults(t *testing.T) {
	d := NewDetector(0, 2)
	if d.SampleSize != DefaultSampleSize || d.Threshold != DefaultMatchThreshold {
		t.Errorf("NewDetector(0, 2) = %+v, want defaults", d)
	}

	strict := NewDetector(4, 1)
	table := urlTable("url",
		"https://www.amazon.com/1", "https://www.amazon.com/2",
		"https://www.amazon.com/3", "https://www.walmart.com/4",
	)
	if v := strict.Validate(table, Amazon); v.Accepted {
		t.Error("threshold 1.0 should reject a 75% match")
	}
}

func TestDetector_HeaderRowFallback(t *testing.T) {
	// A Mercado export: banner line, headers on the second row.
	source := [][]string{
		{"Crawl export 2024-06-01"},
		{"product_url", "title"},
		{"https://produto.mercadolivre.com.br/MLB-1", "Cafeteira"},
		{"https://produto.mercadolivre.com.br/MLB-2", "Liquidificador"},
	}
	atZero, err := NewRawTable(source, 0)
	if err != nil {
		t.Fatalf("NewRawTable: %v", err)
	}

	tests := []struct {
		name         string
		headerRows   []int
		table        RawTable
		wantDetected Retailer
		wantMessage  string
	}{
		{
			name:         "mercado file declared amazon",
			headerRows:   []int{0, 1},
			table:        atZero,
			wantDetected: Mercado,
			wantMessage:  "This file looks like Mercado data, not Amazon. Select Mercado and try again.",
		},
		{
			name:        "no alternate rows",
			headerRows:  nil,
			table:       atZero,
			wantMessage: "Could not find a product URL column to verify this is Amazon data.",
		},
		{
			name:        "source not kept",
			headerRows:  []int{0, 1},
			table:       RawTable{Headers: atZero.Headers, Rows: atZero.Rows},
			wantMessage: "Could not find a product URL column to verify this is Amazon data.",
		},
		{
			name:        "alternate row out of range",
			headerRows:  []int{0, 9},
			table:       atZero,
			wantMessage: "Could not find a product URL column to verify this is Amazon data.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(0, 0)
			d.HeaderRows = tt.headerRows
			v := d.Validate(tt.table, Amazon)
			if v.Accepted {
				t.Fatal("a cross-retailer upload must not be accepted")
			}
			if v.Detected != tt.wantDetected {
				t.Errorf("Detected = %q, want %q", v.Detected, tt.wantDetected)
			}
			if v.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", v.Message, tt.wantMessage)
			}
		})
	}
}

func TestDetector_HeaderRowFallbackNeverAccepts(t *testing.T) {
	// Declared Mercado but read at row 1, so the first URL row became the header.
	source := [][]string{
		{"product_url", "title"},
		{"https://produto.mercadolivre.com.br/MLB-1", "Cafeteira"},
		{"https://produto.mercadolivre.com.br/MLB-2", "Liquidificador"},
	}
	table, err := NewRawTable(source, 1)
	if err != nil {
		t.Fatalf("NewRawTable: %v", err)
	}

	d := NewDetector(0, 0)
	d.HeaderRows = []int{0, 1}
	v := d.Validate(table, Mercado)
	if v.Accepted {
		t.Error("a table read at the wrong header row must not be accepted")
	}
	if v.URLColumn != "" {
		t.Errorf("URLColumn = %q, want the original unverifiable result", v.URLColumn)
	}
}
