package core

import (
	"fmt"
	"strings"
)

// Retailer identifies which normalization pipeline and URL domain apply to a table.
type Retailer string

const (
	Amazon  Retailer = "Amazon"
	Mercado Retailer = "Mercado"
	Walmart Retailer = "Walmart"
)

// Retailers lists every supported retailer in detection order.
// When two retailers score the same during detection, the earlier one wins.
var Retailers = []Retailer{Amazon, Mercado, Walmart}

// retailerDomains holds the substring each retailer's product URLs contain.
var retailerDomains = map[Retailer]string{
	Amazon:  "amazon",
	Mercado: "mercadolivre",
	Walmart: "walmart",
}

// ParseRetailer resolves a user-supplied retailer name (any case).
func ParseRetailer(s string) (Retailer, error) {
	s = strings.TrimSpace(s)
	for _, r := range Retailers {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRetailer, s)
}

// Domain returns the characteristic URL substring for the retailer.
func (r Retailer) Domain() string {
	return retailerDomains[r]
}

// Key returns the lower-cased retailer name used in routes and file names.
func (r Retailer) Key() string {
	return strings.ToLower(string(r))
}

func (r Retailer) String() string {
	return string(r)
}

// ExportFileName returns the download name for a cleaned table.
func ExportFileName(r Retailer) string {
	return r.Key() + "_cleaned_data.xlsx"
}
