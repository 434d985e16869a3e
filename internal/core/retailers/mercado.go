package retailers

import (
	"strings"

	"github.com/JonMunkholm/CrawlClean/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

// Mercado export headers after trimming, lower-casing and snake-casing.
const (
	mercadoURL      = "product_url"
	mercadoTitle    = "product_title"
	mercadoImage    = "image_url"
	mercadoPrice    = "promo_price"
	mercadoRating   = "rating"
	mercadoReview   = "review"
	mercadoDiscount = "discount"

	// mercadoHeaderRow skips the banner row above the headers.
	mercadoHeaderRow = 1
)

// mercadoOptional are output columns produced only when the export carries them.
var mercadoOptional = []string{mercadoTitle, mercadoImage, mercadoRating, mercadoReview, mercadoDiscount}

func init() {
	registerMercado()
}

func registerMercado() {
	def := core.RetailerDefinition{
		Info: core.RetailerInfo{
			Retailer:  core.Mercado,
			Label:     "Mercado",
			HeaderRow: mercadoHeaderRow,
			URLColumn: mercadoURL,
		},
		Schema: mercadoSchema(),
	}
	def.Normalize = func(raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
		return normalizeMercado(def, raw, captured)
	}
	core.Register(def)
}

func mercadoSchema() []core.Column {
	cols := []core.Column{
		core.Text("product_url", func(p core.Product) pgtype.Text { return p.ProductURL }),
		core.Text("product_code", func(p core.Product) pgtype.Text { return p.ProductCode }),
		core.Text("product_title", func(p core.Product) pgtype.Text { return p.ProductTitle }),
		core.Text("image_url", func(p core.Product) pgtype.Text { return p.ImageURL }),
		core.Numeric("rating", func(p core.Product) pgtype.Float8 { return p.Rating }),
		core.Count("review", func(p core.Product) pgtype.Int8 { return p.Reviews }),
		core.Numeric("promo_price", func(p core.Product) pgtype.Float8 { return p.PromoPrice }),
		core.Numeric("list_price", func(p core.Product) pgtype.Float8 { return p.ListPrice }),
		core.Text("discount", func(p core.Product) pgtype.Text { return p.Discount }),
	}
	return append(cols, core.CaptureColumns("date")...)
}

// normalizeMercado keeps rows whose URL names a marketplace item. Prices fall
// back to zero rather than absent, including when the price column is missing.
func normalizeMercado(def core.RetailerDefinition, raw core.RawTable, captured core.Capture) (core.NormalizedTable, error) {
	out := core.NormalizedTable{Retailer: core.Mercado}

	idx := raw.MakeHeaderIndex(core.SnakeHeader)
	if !idx.Has(mercadoURL) {
		return out, &core.MissingColumnError{Retailer: core.Mercado, Column: mercadoURL}
	}

	out.Columns = def.NewSchema()
	for _, name := range mercadoOptional {
		if !idx.Has(name) {
			core.MarkAbsent(out.Columns, name)
		}
	}
	out.Rows = make([]core.Product, 0, raw.Len())

	for _, row := range raw.Rows {
		url, ok := idx.Cell(row, mercadoURL)
		if !ok || !strings.Contains(url, core.MarketplaceMarker) {
			continue
		}

		price := mercadoPriceOf(idx.Value(row, mercadoPrice))
		out.Rows = append(out.Rows, core.Product{
			ProductURL:   core.ToPgText(url),
			ProductCode:  core.ExtractMarketplaceCode(url),
			ProductTitle: core.ToPgText(idx.Value(row, mercadoTitle)),
			ImageURL:     core.ToPgText(idx.Value(row, mercadoImage)),
			Rating:       core.InRating(core.ExtractDecimal(idx.Value(row, mercadoRating))),
			Reviews:      core.ExtractFirstInt(idx.Value(row, mercadoReview)),
			PromoPrice:   price,
			ListPrice:    price,
			Discount:     core.ExtractPercent(idx.Value(row, mercadoDiscount)),
			Captured:     captured,
		})
	}

	return out, nil
}

// mercadoPriceOf reads the first run of digits as the price, or zero.
func mercadoPriceOf(text string) pgtype.Float8 {
	n := core.ExtractFirstInt(text)
	return pgtype.Float8{Float64: float64(n.Int64), Valid: true}
}
