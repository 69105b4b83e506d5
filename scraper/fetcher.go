package scraper

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/parser"
	"github.com/gocolly/colly/v2"
)

// Page is a fetched search result page.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher issues the search request for one site and keeps a copy of the
// raw response on disk.
type Fetcher struct {
	site      config.Site
	dumpPath  string
	collector *colly.Collector
	metrics   *Metrics

	page *Page
}

// NewFetcher builds a synchronous collector for site.
func NewFetcher(cfg *config.Config, site config.Site, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.ParseHTTPErrorResponse = true
	if cfg.Timeout > 0 {
		collector.SetRequestTimeout(cfg.Timeout)
	}

	f := &Fetcher{
		site:      site,
		dumpPath:  filepath.Join(cfg.DumpDir, site.DumpFile),
		collector: collector,
		metrics:   metrics,
	}
	f.configureHandlers()
	return f
}

func (f *Fetcher) configureHandlers() {
	f.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("start", time.Now())
		for key, value := range f.site.Headers {
			r.Headers.Set(key, value)
		}
		slog.Debug("requesting search page",
			slog.String("site", f.site.Name),
			slog.String("url", r.URL.String()),
		)
	})

	f.collector.OnResponse(func(r *colly.Response) {
		if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
			f.metrics.ObserveDuration(f.site.Name, time.Since(start))
		}
		f.metrics.IncRequest(f.site.Name, r.StatusCode)

		if err := f.dump(r); err != nil {
			slog.Warn("could not save raw response",
				slog.String("site", f.site.Name),
				slog.String("path", f.dumpPath),
				slog.Any("error", err),
			)
		}

		f.page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       r.Body,
		}
	})
}

// Fetch requests the search page for query. Transport failures and non-2xx
// responses are returned as classified errors.
func (f *Fetcher) Fetch(query string) (*Page, error) {
	target := parser.SearchURL(f.site.SearchURL, query)
	f.page = nil

	if err := f.collector.Visit(target); err != nil {
		classified := classifyError(err, 0)
		f.metrics.IncError(f.site.Name, errorTypeLabel(classified))
		return nil, fmt.Errorf("fetch %s: %w", target, classified)
	}
	if f.page == nil {
		return nil, fmt.Errorf("fetch %s: no response received", target)
	}

	if f.page.StatusCode < http.StatusOK || f.page.StatusCode >= http.StatusMultipleChoices {
		classified := classifyError(nil, f.page.StatusCode)
		f.metrics.IncError(f.site.Name, errorTypeLabel(classified))
		return f.page, fmt.Errorf("fetch %s: %w", target, classified)
	}

	return f.page, nil
}

// DumpPath is where the last raw response body was written.
func (f *Fetcher) DumpPath() string {
	return f.dumpPath
}

func (f *Fetcher) dump(r *colly.Response) error {
	if err := ensureDir(f.dumpPath); err != nil {
		return err
	}
	return r.Save(f.dumpPath)
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
