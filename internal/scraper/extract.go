package scraper

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SiteDomain is the only retailer this tracker supports.
const SiteDomain = "zara.com"

var (
	reProductID = regexp.MustCompile(`-p(\d+)\.html`)
	reVariantID = regexp.MustCompile(`v1=(\d+)`)

	reEmbeddedProductID = regexp.MustCompile(`"productId"\s*:\s*(\d+)`)
	reProductPath       = regexp.MustCompile(`/product/(\d+)`)
	reDigits            = regexp.MustCompile(`^\d+$`)
)

// ExtractIDs returns the product id (-p<digits>.html) and the variant id (v1=<digits>)
// found in rawURL. A missing id is returned as an empty string.
func ExtractIDs(rawURL string) (string, string) {
	var productID, variantID string

	if m := reProductID.FindStringSubmatch(rawURL); m != nil {
		productID = m[1]
	}
	if m := reVariantID.FindStringSubmatch(rawURL); m != nil {
		variantID = m[1]
	}

	return productID, variantID
}

// IsSupportedURL reports whether rawURL points to the supported retailer.
func IsSupportedURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	return host == SiteDomain || strings.HasSuffix(host, "."+SiteDomain)
}

// PageGetter downloads a product page.
type PageGetter interface {
	GetPage(ctx context.Context, pageURL string) ([]byte, error)
}

// Extractor finds the variant id inside a product page when the URL lacks it.
type Extractor struct {
	log    *slog.Logger
	client PageGetter
}

func NewExtractor(log *slog.Logger, client PageGetter) *Extractor {
	return &Extractor{log: log, client: client}
}

// FetchVariantID downloads pageURL and looks for an embedded variant id.
// It returns an empty string when the page cannot be loaded or holds no id.
func (e *Extractor) FetchVariantID(ctx context.Context, pageURL string) string {
	const opn = "scraper.FetchVariantID"
	log := e.log.With("op", opn, "url", pageURL)

	body, err := e.client.GetPage(ctx, pageURL)
	if err != nil {
		log.WarnContext(ctx, "Failed to load product page", "error", err)
		return ""
	}

	id := findVariantID(body)
	if id == "" {
		log.WarnContext(ctx, "No variant id found in product page")
		return ""
	}

	log.DebugContext(ctx, "Found variant id in product page", "variant_id", id)

	return id
}

// findVariantID tries the known embeddings in order: JSON state, data attribute, product path.
func findVariantID(body []byte) string {
	if m := reEmbeddedProductID.FindSubmatch(body); m != nil {
		return string(m[1])
	}

	if id := findDataAttribute(body); id != "" {
		return id
	}

	if m := reProductPath.FindSubmatch(body); m != nil {
		return string(m[1])
	}

	return ""
}

func findDataAttribute(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var id string
	doc.Find("[data-product-id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value := strings.TrimSpace(s.AttrOr("data-product-id", ""))
		if reDigits.MatchString(value) {
			id = value
			return false
		}
		return true
	})

	return id
}
