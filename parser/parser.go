package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

// ValidateProduct ensures the scraper captured the required fields.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product missing name")
	}
	if strings.TrimSpace(p.Price) == "" {
		return fmt.Errorf("product missing price for %s", strings.TrimSpace(p.Name))
	}
	if strings.TrimSpace(p.Link) == "" {
		return fmt.Errorf("product missing link for %s", strings.TrimSpace(p.Name))
	}
	return nil
}

// CleanText returns the extracted text, trimmed when the site asks for it.
func CleanText(text string, trim bool) string {
	if trim {
		return strings.TrimSpace(text)
	}
	return text
}

// OrNotAvailable substitutes the N/A sentinel for missing optional values.
func OrNotAvailable(value string, found bool) string {
	if !found {
		return models.NotAvailable
	}
	return value
}

// FormatPrice prefixes the currency symbol the page leaves out. The amount
// is kept as text.
func FormatPrice(prefix, price string) string {
	if prefix == "" || strings.HasPrefix(price, prefix) {
		return price
	}
	return prefix + price
}

// ResolveLink joins a listing href onto the site's domain root. Absolute
// hrefs are returned unchanged.
func ResolveLink(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if parsed, err := url.Parse(href); err == nil && parsed.IsAbs() {
		return href
	}
	return strings.TrimSuffix(baseURL, "/") + href
}

// SearchURL appends the query-escaped search terms to a search URL prefix.
func SearchURL(prefix, query string) string {
	return prefix + url.QueryEscape(query)
}

// SheetName is the workbook sheet a site's results are written to.
func SheetName(site, query string) string {
	return site + "-" + query
}

// ParseCount reads the desired product count typed by the operator.
func ParseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("product count %q is not a number", raw)
	}
	if count <= 0 {
		return 0, fmt.Errorf("product count must be positive, got %d", count)
	}
	return count, nil
}
