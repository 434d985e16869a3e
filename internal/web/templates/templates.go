// Package templates renders the upload page and its fragments. The components
// live in page.templ; run "templ generate" after editing it.
package templates

// Banner kinds.
const (
	BannerSuccess = "success"
	BannerWarning = "warning"
	BannerError   = "error"
)

// Banner is a one-line status message shown above the form.
type Banner struct {
	Kind    string
	Message string
	Action  string
	Code    string
}

// RetailerOption is one entry of the retailer dropdown.
type RetailerOption struct {
	Value string
	Label string
}

// Preview is the head of a cleaned table.
type Preview struct {
	RunID     string
	FileName  string
	Columns   []string
	Rows      [][]string
	TotalRows int
	Dropped   int
}

// PageData is everything the upload page shows.
type PageData struct {
	Retailers []RetailerOption
	Selected  string
	MaxSizeMB int64
	Banner    *Banner
	Preview   *Preview
}

// bannerClass maps a banner kind to its CSS class. Unknown kinds render
// as errors.
func bannerClass(kind string) string {
	switch kind {
	case BannerSuccess, BannerWarning, BannerError:
		return "banner-" + kind
	}
	return "banner-" + BannerError
}
