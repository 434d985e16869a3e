package retailers

import (
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

// Walmart crawler export headers, matched exactly.
const (
	walmartURL     = "w-100 href"
	walmartTitle   = "w_q67L"
	walmartImage   = "absolute src"
	walmartPrice   = "mr1"
	walmartRatings = "w_q67L 3"

	// walmartHeaderEcho marks a header row the crawler repeated as data.
	walmartHeaderEcho = "promo_price"
)

func init() {
	registerWalmart()
}

func registerWalmart() {
	def := core.RetailerDefinition{
		Info: core.RetailerInfo{
			Retailer:  core.Walmart,
			Label:     "Walmart",
			HeaderRow: 0,
			URLColumn: walmartURL,
		},
		Schema: walmartSchema(),
	}
	def.Normalize = func(raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
		return normalizeWalmart(def, raw, captured)
	}
	core.Register(def)
}

func walmartSchema() []core.Column {
	cols := []core.Column{
		core.Text("product_url", func(p core.Product) pgtype.Text { return p.ProductURL }),
		core.Text("product_title", func(p core.Product) pgtype.Text { return p.ProductTitle }),
		core.Text("image_url", func(p core.Product) pgtype.Text { return p.ImageURL }),
		core.Numeric("promo_price", func(p core.Product) pgtype.Float8 { return p.PromoPrice }),
		core.Numeric("rating", func(p core.Product) pgtype.Float8 { return p.Rating }),
		core.Count("reviews", func(p core.Product) pgtype.Int8 { return p.Reviews }),
		core.Text("product_code", func(p core.Product) pgtype.Text { return p.ProductCode }),
		core.Text("product_description", func(p core.Product) pgtype.Text { return p.ProductDescription }),
		core.Text("stock_status", func(p core.Product) pgtype.Text { return p.StockStatus }),
	}
	cols = append(cols, core.CaptureColumns("date")...)
	return append(cols, core.Text("retailer", func(p core.Product) pgtype.Text { return p.Retailer }))
}

// normalizeWalmart maps every row. Missing source columns leave their output
// cells absent; a product is in stock when its promo price parses.
func normalizeWalmart(def core.RetailerDefinition, raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
	out := core.NormalizedTable{Retailer: core.Walmart, Columns: def.NewSchema()}

	rows := raw.Rows
	if len(rows) > 0 && mentions(rows[0], walmartHeaderEcho) {
		rows = rows[1:]
	}

	idx := raw.MakeHeaderIndex(core.ExactHeader)
	retailer := core.ToPgText(core.Walmart.String())
	out.Rows = make([]core.Product, 0, len(rows))

	for _, row := range rows {
		url := idx.Value(row, walmartURL)
		title := core.ToPgText(idx.Value(row, walmartTitle))
		price := core.ParsePrice(idx.Value(row, walmartPrice))
		rating, reviews := core.ExtractRatingAndReviews(idx.Value(row, walmartRatings))

		out.Rows = append(out.Rows, core.Product{
			ProductURL:         core.ToPgText(url),
			ProductTitle:       title,
			ImageURL:           core.ToPgText(idx.Value(row, walmartImage)),
			PromoPrice:         price,
			Rating:             rating,
			Reviews:            reviews,
			ProductCode:        core.ExtractProductCode(url, true),
			ProductDescription: title,
			StockStatus:        core.StockStatus(price.Valid),
			Retailer:           retailer,
			Captured:           captured,
		})
	}

	return out, nil
}

// mentions reports whether any cell of row contains token, ignoring case.
func mentions(row []string, token string) bool {
	token = strings.ToLower(token)
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), token) {
			return true
		}
	}
	return false
}
