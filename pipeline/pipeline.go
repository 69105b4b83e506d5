package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	WriteSheet(name string, products []*models.Product) (string, error)
	Validate() error
}

// Pipeline hands each site's extracted products to the writer as they are.
// Records are not filtered, reordered or rewritten here.
type Pipeline struct {
	writer  OutputWriter
	metrics metrics
}

// NewPipeline builds a pipeline writing through writer.
func NewPipeline(writer OutputWriter) *Pipeline {
	return &Pipeline{
		writer:  writer,
		metrics: metrics{},
	}
}

// Process writes one site's products to a sheet named after the site and
// query, and returns the sheet name used. Nothing is written for an empty
// result and the returned name is empty.
func (p *Pipeline) Process(site, query string, products []*models.Product) (string, error) {
	if len(products) == 0 {
		p.metrics.emptySites++
		slog.Info("no data available", slog.String("site", site))
		return "", nil
	}

	sheet, err := p.writer.WriteSheet(parser.SheetName(site, query), products)
	if err != nil {
		return "", fmt.Errorf("write %s sheet: %w", site, err)
	}
	p.metrics.processed += int64(len(products))
	p.metrics.sheets++

	slog.Info("sheet written",
		slog.String("site", site),
		slog.String("sheet", sheet),
		slog.Int("products", len(products)),
	)
	return sheet, nil
}

// Validate checks the writer's output.
func (p *Pipeline) Validate() error {
	return p.writer.Validate()
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

type metrics struct {
	processed  int64
	sheets     int
	emptySites int
}

func (m *metrics) snapshot() map[string]interface{} {
	return map[string]interface{}{
		"processed_products": m.processed,
		"sheets_written":     m.sheets,
		"empty_sites":        m.emptySites,
	}
}
