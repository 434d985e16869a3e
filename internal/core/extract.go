package core

// extract.go pulls typed scalars out of noisy scraped text.
//
// Every extractor is total: it returns a pgtype value with Valid=false when the
// pattern is not found or the match does not parse. Crawl data is expected to be
// noisy, so a miss is an absent cell and never an error.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// MaxRating is the top of the star scale used by every retailer.
const MaxRating = 5.0

var (
	halfStarRegex    = regexp.MustCompile(`[0-5](\.\d*)?`)
	outOfFiveRegex   = regexp.MustCompile(`([\d.]+)\s+out of 5 stars`)
	reviewCountRegex = regexp.MustCompile(`(\d+)\s+reviews`)

	productCodeRegex     = regexp.MustCompile(`/([A-Z0-9]{10})(?:[/?]|$)`)
	productCodeFoldRegex = regexp.MustCompile(`(?i)/([A-Z0-9]{10})(?:[/?]|$)`)

	digitsRegex  = regexp.MustCompile(`\d+`)
	decimalRegex = regexp.MustCompile(`\d+\.?\d*`)
	percentRegex = regexp.MustCompile(`\d+%`)
)

// MarketplaceMarker prefixes every Mercado Livre item identifier.
const MarketplaceMarker = "MLB"

// ParseRating finds the first star value in text and rounds it to the nearest
// half star. Halves round to even, so 4.25 becomes 4.0.
func ParseRating(text string) pgtype.Float8 {
	m := halfStarRegex.FindString(text)
	if m == "" {
		return pgtype.Float8{}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return pgtype.Float8{}
	}
	f = math.RoundToEven(f*2) / 2
	if f > MaxRating {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ExtractRatingAndReviews reads "<rating> out of 5 stars" and "<n> reviews"
// from the same text. Either, both or neither may be present.
func ExtractRatingAndReviews(text string) (pgtype.Float8, pgtype.Int8) {
	var rating pgtype.Float8
	var reviews pgtype.Int8

	if m := outOfFiveRegex.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil && f >= 0 && f <= MaxRating {
			rating = pgtype.Float8{Float64: f, Valid: true}
		}
	}
	if m := reviewCountRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			reviews = pgtype.Int8{Int64: n, Valid: true}
		}
	}
	return rating, reviews
}

// ExtractProductCode finds a 10-character alphanumeric path segment bounded by
// '/', '?' or the end of the URL. Amazon ASINs are matched case-sensitively;
// Walmart item ids are not.
func ExtractProductCode(url string, foldCase bool) pgtype.Text {
	re := productCodeRegex
	if foldCase {
		re = productCodeFoldRegex
	}
	m := re.FindStringSubmatch(url)
	if m == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: m[1], Valid: true}
}

// ExtractRetailerHost returns the host segment of a URL (the third
// '/'-delimited part), provided the URL has at least three slashes.
func ExtractRetailerHost(url string) pgtype.Text {
	if strings.Count(url, "/") < 3 {
		return pgtype.Text{}
	}
	return pgtype.Text{String: strings.Split(url, "/")[2], Valid: true}
}

// ParsePrice strips a leading '$' and surrounding whitespace, then parses a
// decimal number.
func ParsePrice(value string) pgtype.Float8 {
	s := strings.TrimSpace(value)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return pgtype.Float8{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ExtractFirstInt parses the first run of digits in text.
func ExtractFirstInt(text string) pgtype.Int8 {
	m := digitsRegex.FindString(text)
	if m == "" {
		return pgtype.Int8{}
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: n, Valid: true}
}

// ExtractDecimal parses the first unsigned decimal number in text.
func ExtractDecimal(text string) pgtype.Float8 {
	m := decimalRegex.FindString(text)
	if m == "" {
		return pgtype.Float8{}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ExtractPercent returns the first "<digits>%" token in text.
func ExtractPercent(text string) pgtype.Text {
	m := percentRegex.FindString(text)
	if m == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: m, Valid: true}
}

// ExtractMarketplaceCode returns the first '/'-delimited URL segment that
// starts with the Mercado Livre item marker.
func ExtractMarketplaceCode(url string) pgtype.Text {
	for _, part := range strings.Split(url, "/") {
		if strings.HasPrefix(part, MarketplaceMarker) {
			return pgtype.Text{String: part, Valid: true}
		}
	}
	return pgtype.Text{}
}

// ToPgText converts a string to pgtype.Text. Empty or whitespace-only input is absent.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// InRating keeps a rating only when it lies on the star scale.
func InRating(f pgtype.Float8) pgtype.Float8 {
	if !f.Valid || f.Float64 < 0 || f.Float64 > MaxRating {
		return pgtype.Float8{}
	}
	return f
}
