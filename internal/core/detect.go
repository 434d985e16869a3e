package core

// detect.go checks that an uploaded table actually came from the retailer the
// user selected, by sampling its product URLs and matching retailer domains.

import (
	"fmt"
	"strings"
)

// DefaultSampleSize is how many leading rows are inspected during detection.
const DefaultSampleSize = 10

// DefaultMatchThreshold is the minimum share of sampled URLs that must contain
// a retailer's domain for the table to count as that retailer's.
const DefaultMatchThreshold = 0.5

// URLColumnCandidates lists the headers that can carry product URLs, in lookup
// order. Matching is case-insensitive and ignores surrounding whitespace.
var URLColumnCandidates = []string{
	"a-link-normal href",
	"w-100 href",
	"product_url",
	"product url",
	"url",
}

// Validation is the outcome of checking a table against a declared retailer.
type Validation struct {
	Accepted  bool                 `json:"accepted"`
	Message   string               `json:"message"`
	Declared  Retailer             `json:"declared"`
	Detected  Retailer             `json:"detected,omitempty"`
	Scores    map[Retailer]float64 `json:"scores,omitempty"`
	URLColumn string               `json:"url_column,omitempty"`
	Sampled   int                  `json:"sampled"`
}

// Err returns a *MismatchError when the table was not accepted, nil otherwise.
func (v Validation) Err() error {
	if v.Accepted {
		return nil
	}
	return &MismatchError{Validation: v}
}

// Detector scores tables against retailer domains.
type Detector struct {
	SampleSize int
	Threshold  float64

	// HeaderRows are other physical header rows to try when no URL column
	// is found at the table's own header row.
	HeaderRows []int
}

// NewDetector returns a detector with the given sample size and threshold,
// falling back to the defaults for non-positive values.
func NewDetector(sampleSize int, threshold float64) Detector {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return Detector{SampleSize: sampleSize, Threshold: threshold}
}

// ValidateRetailer checks table against declared using the default detector.
func ValidateRetailer(table RawTable, declared Retailer) Validation {
	return NewDetector(DefaultSampleSize, DefaultMatchThreshold).Validate(table, declared)
}

// Validate scores the sampled URLs of table for every retailer and accepts the
// table only if the declared retailer's share reaches the threshold.
//
// A table read at the wrong header row has no URL column. When its source
// rows were kept, each of HeaderRows is tried so the result can still name
// the retailer the file belongs to. Such a result is never accepted.
func (d Detector) Validate(table RawTable, declared Retailer) Validation {
	v := d.score(table, declared)
	if v.URLColumn != "" {
		return v
	}
	for _, row := range d.HeaderRows {
		if row == table.HeaderRow {
			continue
		}
		alt, ok := table.Reheader(row)
		if !ok {
			continue
		}
		av := d.score(alt, declared)
		if av.URLColumn != "" && !av.Accepted && av.Detected != declared &&
			av.Scores[av.Detected] >= d.Threshold {
			return av
		}
	}
	return v
}

func (d Detector) score(table RawTable, declared Retailer) Validation {
	v := Validation{Declared: declared}

	idx := table.MakeHeaderIndex(LowerHeader)
	for _, c := range URLColumnCandidates {
		if idx.Has(c) {
			v.URLColumn = c
			break
		}
	}
	if v.URLColumn == "" {
		v.Message = fmt.Sprintf("Could not find a product URL column to verify this is %s data.", declared)
		return v
	}

	n := min(d.SampleSize, table.Len())
	v.Sampled = n
	if n == 0 {
		v.Message = "The uploaded file has no data rows."
		return v
	}

	urls := make([]string, n)
	for i := 0; i < n; i++ {
		urls[i] = strings.ToLower(idx.Value(table.Rows[i], v.URLColumn))
	}

	v.Scores = make(map[Retailer]float64, len(Retailers))
	best := -1.0
	for _, r := range Retailers {
		hits := 0
		for _, u := range urls {
			if strings.Contains(u, r.Domain()) {
				hits++
			}
		}
		score := float64(hits) / float64(n)
		v.Scores[r] = score
		// Strictly greater: ties keep the retailer listed first.
		if score > best {
			best = score
			v.Detected = r
		}
	}

	if v.Scores[declared] >= d.Threshold {
		v.Accepted = true
		v.Message = fmt.Sprintf("File matches %s.", declared)
		return v
	}

	if v.Detected != declared && v.Scores[v.Detected] >= d.Threshold {
		v.Message = fmt.Sprintf("This file looks like %s data, not %s. Select %s and try again.",
			v.Detected, declared, v.Detected)
	} else {
		v.Message = fmt.Sprintf("The uploaded file does not appear to contain %s product URLs.", declared)
	}
	return v
}
