// Package retailers registers the Amazon, Mercado and Walmart normalizers with
// the core registry. Import it for side effects:
//
//	import _ "github.com/JonMunkholm/CrawlClean/internal/core/retailers"
package retailers

// Each retailer file uses init() to register its definition.
