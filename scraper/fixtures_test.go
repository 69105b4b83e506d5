package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jarcoal/httpmock"
)

const (
	flipkartSearchURL = "https://www.flipkart.com/search?q=shoes"
	amazonSearchURL   = "https://www.amazon.in/s?k=shoes"
)

// flipkartBlock renders one Flipkart listing. Empty fields are left out of
// the markup.
type flipkartBlock struct {
	Name, Price, Discount, Seller, Href string
}

func fullFlipkartBlock(id int) flipkartBlock {
	return flipkartBlock{
		Name:     fmt.Sprintf("Shoe %d", id),
		Price:    fmt.Sprintf("₹%d", 1000+id),
		Discount: fmt.Sprintf("%d%% off", 10+id),
		Seller:   fmt.Sprintf("Seller %d", id),
		Href:     fmt.Sprintf("/shoe-%d/p/itm%d", id, id),
	}
}

func buildFlipkartPage(blocks ...flipkartBlock) string {
	var builder strings.Builder
	builder.WriteString("<html><body><div id=\"container\">")
	for _, b := range blocks {
		builder.WriteString("<div class=\"_1AtVbE\"><div class=\"_13oc-S\">")
		if b.Href != "" {
			fmt.Fprintf(&builder, "<a class=\"_1fQZEK\" href=\"%s\">", b.Href)
		} else {
			builder.WriteString("<a class=\"_1fQZEK\">")
		}
		if b.Name != "" {
			fmt.Fprintf(&builder, "<div class=\"_4rR01T\">%s</div>", b.Name)
		}
		if b.Price != "" {
			fmt.Fprintf(&builder, "<div class=\"_30jeq3 _1_WHN1\">%s</div>", b.Price)
		}
		if b.Discount != "" {
			fmt.Fprintf(&builder, "<div class=\"_3Ay6Sb\"><span>%s</span></div>", b.Discount)
		}
		if b.Seller != "" {
			fmt.Fprintf(&builder, "<div class=\"_2fuX-1\">%s</div>", b.Seller)
		}
		builder.WriteString("</a></div></div>")
	}
	builder.WriteString("</div></body></html>")
	return builder.String()
}

func flipkartPageWith(n int) string {
	blocks := make([]flipkartBlock, 0, n)
	for i := 1; i <= n; i++ {
		blocks = append(blocks, fullFlipkartBlock(i))
	}
	return buildFlipkartPage(blocks...)
}

type amazonBlock struct {
	Name, Price, Seller, Href string
}

func fullAmazonBlock(id int) amazonBlock {
	return amazonBlock{
		Name:   fmt.Sprintf("  Trail Runner %d  ", id),
		Price:  fmt.Sprintf(" 2,%03d ", id),
		Seller: fmt.Sprintf(" Brand %d ", id),
		Href:   fmt.Sprintf("/Trail-Runner-%d/dp/B0%d", id, id),
	}
}

func buildAmazonPage(withContainer bool, blocks ...amazonBlock) string {
	var builder strings.Builder
	builder.WriteString("<html><body><div class=\"s-search-results\">")
	if withContainer {
		builder.WriteString("<div class=\"s-main-slot s-result-list\">")
	}
	for _, b := range blocks {
		builder.WriteString("<div class=\"s-result-item s-asin\">")
		if b.Href != "" {
			fmt.Fprintf(&builder, "<h2><a class=\"a-link-normal s-link-style\" href=\"%s\">", b.Href)
		} else {
			builder.WriteString("<h2><a class=\"a-link-normal\">")
		}
		if b.Name != "" {
			fmt.Fprintf(&builder, "<span class=\"a-size-medium a-color-base\">%s</span>", b.Name)
		}
		builder.WriteString("</a></h2>")
		if b.Price != "" {
			fmt.Fprintf(&builder, "<span class=\"a-price\"><span class=\"a-price-whole\">%s</span></span>", b.Price)
		}
		if b.Seller != "" {
			fmt.Fprintf(&builder, "<span class=\"a-size-small\">%s</span>", b.Seller)
		}
		builder.WriteString("</div>")
	}
	if withContainer {
		builder.WriteString("</div>")
	}
	builder.WriteString("</div></body></html>")
	return builder.String()
}

func amazonPageWith(n int) string {
	blocks := make([]amazonBlock, 0, n)
	for i := 1; i <= n; i++ {
		blocks = append(blocks, fullAmazonBlock(i))
	}
	return buildAmazonPage(true, blocks...)
}

func htmlResponder(status int, body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return httpmock.ResponderFromResponse(resp)
}

// recordingHandler keeps every log record for inspection.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *recordingHandler) WithGroup(string) slog.Handler {
	return h
}

// atLeast returns the records at or above level.
func (h *recordingHandler) atLeast(level slog.Level) []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Level >= level {
			out = append(out, r)
		}
	}
	return out
}

func recordAttr(r slog.Record, key string) string {
	value := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = a.Value.String()
			return false
		}
		return true
	})
	return value
}
