package scraper

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

// Extractor pulls product records out of a site's search result markup.
type Extractor struct {
	site    config.Site
	metrics *Metrics
	logger  *slog.Logger
}

// NewExtractor returns an extractor for site.
func NewExtractor(site config.Site, metrics *Metrics) *Extractor {
	return &Extractor{
		site:    site,
		metrics: metrics,
		logger:  slog.Default(),
	}
}

// ExtractHTML parses body and extracts at most max products.
func (e *Extractor) ExtractHTML(body []byte, max int) ([]*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", e.site.Name, err)
	}
	return e.Extract(doc, max), nil
}

// Extract walks the listing blocks in document order and returns the first
// max blocks that carry a name, a price and a link. A page without the
// listing container yields an empty result and a single warning.
func (e *Extractor) Extract(doc *goquery.Document, max int) []*models.Product {
	products := []*models.Product{}
	if max <= 0 {
		return products
	}

	scope := doc.Selection
	if sel := e.site.Selectors.Container; sel != "" {
		scope = doc.Find(sel).First()
	}
	var blocks *goquery.Selection
	if scope.Length() > 0 {
		blocks = scope.Find(e.site.Selectors.Block)
	}
	if blocks == nil || (e.site.Selectors.Container == "" && blocks.Length() == 0) {
		e.metrics.IncContainerMissing(e.site.Name)
		e.logger.Warn("listing container not found, page structure may have changed or the request was blocked",
			slog.String("site", e.site.Name),
		)
		return products
	}

	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		product, missing := e.extractProduct(block)
		if product == nil {
			e.metrics.IncSkipped(e.site.Name, missing)
			e.logger.Debug("skipping listing block",
				slog.String("site", e.site.Name),
				slog.String("missing", missing),
			)
			return true
		}
		products = append(products, product)
		return len(products) < max
	})

	if len(products) == 0 {
		e.logger.Info("no products scraped", slog.String("site", e.site.Name))
	}
	e.metrics.AddProducts(e.site.Name, len(products))
	return products
}

// extractProduct builds a product from one block. When a required field is
// absent it returns nil and the name of that field.
func (e *Extractor) extractProduct(block *goquery.Selection) (*models.Product, string) {
	sel := e.site.Selectors

	name, ok := e.text(block, sel.Name)
	if !ok {
		return nil, "name"
	}
	price, ok := e.text(block, sel.Price)
	if !ok {
		return nil, "price"
	}
	href, ok := block.Find(sel.Link).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil, "link"
	}

	discount, found := e.text(block, sel.Discount)
	discount = parser.OrNotAvailable(discount, found)
	seller, found := e.text(block, sel.Seller)
	seller = parser.OrNotAvailable(seller, found)

	product := &models.Product{
		Name:     name,
		Price:    parser.FormatPrice(e.site.PricePrefix, price),
		Discount: discount,
		Seller:   seller,
		Link:     parser.ResolveLink(e.site.BaseURL, href),
	}
	if err := parser.ValidateProduct(product); err != nil {
		return nil, "invalid"
	}
	return product, ""
}

// text returns the text of the first element matching selector. Elements
// with only whitespace count as missing.
func (e *Extractor) text(block *goquery.Selection, selector string) (string, bool) {
	if selector == "" {
		return "", false
	}
	found := block.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	raw := found.Text()
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return parser.CleanText(raw, e.site.TrimText), true
}
