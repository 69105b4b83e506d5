package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/pipeline"
)

// siteScraper pairs the fetcher and extractor of one site.
type siteScraper struct {
	site      config.Site
	fetcher   *Fetcher
	extractor *Extractor
}

// Scraper runs a search against each configured site in order.
type Scraper struct {
	cfg     *config.Config
	sites   []*siteScraper
	Metrics *Metrics
}

// NewScraper builds a scraper for sites, scraped in the given order.
func NewScraper(cfg *config.Config, sites []config.Site) (*Scraper, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}

	s := &Scraper{
		cfg:     cfg,
		Metrics: NewMetrics(),
	}
	for _, site := range sites {
		if err := site.Validate(); err != nil {
			return nil, err
		}
		s.sites = append(s.sites, &siteScraper{
			site:      site,
			fetcher:   NewFetcher(cfg, site, s.Metrics),
			extractor: NewExtractor(site, s.Metrics),
		})
	}
	return s, nil
}

// Run fetches and extracts every site one after the other, then hands each
// site's products to the pipeline. A fetch failure aborts the run; a site
// whose page has no listings just contributes no sheet.
func (s *Scraper) Run(ctx context.Context, req models.SearchRequest, p *pipeline.Pipeline) (*models.ScraperResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("product count cannot be negative")
	}

	result := &models.ScraperResult{
		Query:      req.Query,
		Count:      req.Count,
		OutputFile: s.cfg.OutputFile,
		StartTime:  time.Now(),
	}

	for _, ss := range s.sites {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scrape interrupted before %s: %w", ss.site.Name, err)
		}

		slog.Info("scraping site", slog.String("site", ss.site.Name), slog.String("query", req.Query))
		siteResult, err := ss.scrape(req)
		if err != nil {
			return nil, err
		}
		result.Sites = append(result.Sites, siteResult)
	}

	for i := range result.Sites {
		site := &result.Sites[i]
		sheet, err := p.Process(site.Site, req.Query, site.Products)
		if err != nil {
			return nil, err
		}
		site.Sheet = sheet
	}

	result.EndTime = time.Now()
	s.Metrics.MarkRun(result.EndTime)
	return result, nil
}

func (ss *siteScraper) scrape(req models.SearchRequest) (models.SiteResult, error) {
	page, err := ss.fetcher.Fetch(req.Query)
	if err != nil {
		slog.Error("request error",
			slog.String("site", ss.site.Name),
			slog.String("category", errorTypeLabel(err)),
			slog.Any("error", err),
		)
		return models.SiteResult{}, fmt.Errorf("%s: %w", ss.site.Name, err)
	}

	products, err := ss.extractor.ExtractHTML(page.Body, req.Count)
	if err != nil {
		return models.SiteResult{}, err
	}

	slog.Debug("extracted products",
		slog.String("site", ss.site.Name),
		slog.Int("products", len(products)),
		slog.String("dump", ss.fetcher.DumpPath()),
	)
	return models.SiteResult{
		Site:       ss.site.Name,
		URL:        page.URL,
		StatusCode: page.StatusCode,
		Products:   products,
	}, nil
}
