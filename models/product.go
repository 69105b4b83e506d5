// Package models defines data structures for the scraper.
package models

import "time"

// NotAvailable is stored in optional fields that could not be extracted.
const NotAvailable = "N/A"

// Product is one listing scraped from a search result page.
type Product struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Discount string `json:"discount"`
	Seller   string `json:"seller"`
	Link     string `json:"link"`
}

// Row returns the product fields in sheet column order.
func (p *Product) Row() []interface{} {
	return []interface{}{p.Name, p.Price, p.Discount, p.Seller, p.Link}
}

// ProductHeader is the header row written above product rows.
var ProductHeader = []interface{}{"Name", "Price", "Discount", "Seller", "Link"}

// SearchRequest is the operator input for a single run.
type SearchRequest struct {
	Query string
	Count int
}

// SiteResult records what one site produced during a run.
type SiteResult struct {
	Site       string
	URL        string
	StatusCode int
	Products   []*Product
	Sheet      string
}

// ScraperResult holds the overall result of a scraping run.
type ScraperResult struct {
	Query      string
	Count      int
	OutputFile string
	Sites      []SiteResult
	StartTime  time.Time
	EndTime    time.Time
}

// TotalProducts sums the products found across all sites.
func (r *ScraperResult) TotalProducts() int {
	total := 0
	for _, site := range r.Sites {
		total += len(site.Products)
	}
	return total
}

// SheetsWritten lists the sheet names that were added to the workbook.
func (r *ScraperResult) SheetsWritten() []string {
	var sheets []string
	for _, site := range r.Sites {
		if site.Sheet != "" {
			sheets = append(sheets, site.Sheet)
		}
	}
	return sheets
}
