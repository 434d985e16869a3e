package retailers

import (
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

// Amazon crawler export headers, matched after trimming and lower-casing.
const (
	amazonURL    = "a-link-normal href"
	amazonImage  = "s-image src"
	amazonTitle  = "a-size-base-plus"
	amazonRating = "a-icon-alt"
	amazonPrice  = "a-offscreen"
)

func init() {
	registerAmazon()
}

func registerAmazon() {
	def := core.RetailerDefinition{
		Info: core.RetailerInfo{
			Retailer:  core.Amazon,
			Label:     "Amazon",
			HeaderRow: 0,
			URLColumn: amazonURL,
		},
		Schema: amazonSchema(),
	}
	def.Normalize = func(raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
		return normalizeAmazon(def, raw, captured)
	}
	core.Register(def)
}

func amazonSchema() []core.Column {
	cols := []core.Column{
		core.Text("product_url", func(p core.Product) pgtype.Text { return p.ProductURL }),
		core.Text("product_code", func(p core.Product) pgtype.Text { return p.ProductCode }),
		core.Text("product_title", func(p core.Product) pgtype.Text { return p.ProductTitle }),
		core.Text("image_url", func(p core.Product) pgtype.Text { return p.ImageURL }),
		core.Numeric("rating", func(p core.Product) pgtype.Float8 { return p.Rating }),
		core.Numeric("list_price", func(p core.Product) pgtype.Float8 { return p.ListPrice }),
		core.Text("product_description", func(p core.Product) pgtype.Text { return p.ProductDescription }),
		core.Text("stock_information", func(p core.Product) pgtype.Text { return p.StockStatus }),
	}
	cols = append(cols, core.CaptureColumns("crawled_date")...)
	return append(cols, core.Text("retailer", func(p core.Product) pgtype.Text { return p.Retailer }))
}

// normalizeAmazon keeps rows that carry both a URL and a title. Ratings are
// quantized to half stars and the retailer is the URL host.
func normalizeAmazon(def core.RetailerDefinition, raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
	out := core.NormalizedTable{Retailer: core.Amazon}

	idx := raw.MakeHeaderIndex(core.LowerHeader)
	for _, required := range []string{amazonURL, amazonTitle} {
		if !idx.Has(required) {
			return out, &core.MissingColumnError{Retailer: core.Amazon, Column: required}
		}
	}

	out.Columns = def.NewSchema()
	out.Rows = make([]core.Product, 0, raw.Len())

	for _, row := range raw.Rows {
		url, ok := idx.Cell(row, amazonURL)
		if !ok {
			continue
		}
		title, ok := idx.Cell(row, amazonTitle)
		if !ok {
			continue
		}

		host := core.ExtractRetailerHost(url)
		out.Rows = append(out.Rows, core.Product{
			ProductURL:         core.ToPgText(url),
			ProductCode:        core.ExtractProductCode(url, false),
			ProductTitle:       core.ToPgText(title),
			ImageURL:           core.ToPgText(idx.Value(row, amazonImage)),
			Rating:             core.ParseRating(idx.Value(row, amazonRating)),
			ListPrice:          parseListPrice(idx.Value(row, amazonPrice)),
			ProductDescription: core.ToPgText(title),
			StockStatus:        core.StockStatus(host.Valid && strings.Contains(strings.ToLower(host.String), "amazon")),
			Retailer:           host,
			Captured:           captured,
		})
	}

	return out, nil
}

// parseListPrice reads the a-offscreen price text, which groups thousands
// with commas ("$1,299.99").
func parseListPrice(text string) pgtype.Float8 {
	return core.ParsePrice(strings.ReplaceAll(text, ",", ""))
}
