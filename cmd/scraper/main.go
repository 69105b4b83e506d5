package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/pipeline"
	"github.com/aluiziolira/go-scrape-products/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	defaultCfg := config.DefaultConfig()
	countDefault := 0
	if value, ok, err := config.EnvInt("SCRAPER_COUNT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_COUNT: %v\n", err)
		os.Exit(1)
	} else if ok {
		countDefault = value
	}
	timeoutDefault := defaultCfg.Timeout
	if value, ok, err := config.EnvDuration("SCRAPER_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}
	outputDefault := envOr("SCRAPER_OUTPUT", defaultCfg.OutputFile)
	dumpDirDefault := envOr("SCRAPER_DUMP_DIR", defaultCfg.DumpDir)
	sitesDefault := envOr("SCRAPER_SITES_FILE", defaultCfg.SitesFile)
	userAgentDefault := envOr("SCRAPER_USER_AGENT", defaultCfg.UserAgent)
	metricsAddrDefault := envOr("SCRAPER_METRICS_ADDR", defaultCfg.MetricsAddr)
	metricsFileDefault := envOr("SCRAPER_METRICS_FILE", defaultCfg.MetricsFile)

	query := flag.String("query", "", "Product search query (prompted for when empty)")
	count := flag.Int("count", countDefault, "Number of products to fetch per site (prompted for when 0)")
	outputFile := flag.String("output", outputDefault, "Workbook to add result sheets to")
	dumpDir := flag.String("dump-dir", dumpDirDefault, "Directory for raw HTML responses")
	sitesFile := flag.String("sites", sitesDefault, "YAML file with site definitions (built-in Flipkart and Amazon when empty)")
	userAgent := flag.String("user-agent", userAgentDefault, "User-Agent header sent to the shops")
	timeout := flag.Duration("timeout", timeoutDefault, "Request timeout (0 keeps the HTTP client default)")
	metricsAddr := flag.String("metrics-addr", metricsAddrDefault, "Prometheus metrics listen address (e.g. :9090)")
	metricsFile := flag.String("metrics-file", metricsFileDefault, "Write Prometheus metrics to this file when the run ends")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.OutputFile = *outputFile
	cfg.DumpDir = *dumpDir
	cfg.SitesFile = *sitesFile
	cfg.UserAgent = *userAgent
	cfg.Timeout = *timeout
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	cfg.MetricsFile = *metricsFile
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		slog.Error("loading sites", slog.Any("error", err))
		os.Exit(1)
	}

	req, err := readSearchRequest(os.Stdin, os.Stdout, strings.TrimSpace(*query), *count)
	if err != nil {
		slog.Error("invalid input", slog.Any("error", err))
		os.Exit(1)
	}

	s, err := scraper.NewScraper(cfg, sites)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	writer := pipeline.NewWorkbookWriter(cfg.OutputFile)
	p := pipeline.NewPipeline(writer)

	result, err := s.Run(ctx, req, p)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := p.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := s.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		slog.Error("metrics export failed", slog.Any("error", err))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, p.GetMetrics())
}

func envOr(key, fallback string) string {
	if value, ok := config.EnvString(key); ok {
		return value
	}
	return fallback
}

func printSummary(result *models.ScraperResult, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	for _, site := range result.Sites {
		sheet := site.Sheet
		if sheet == "" {
			sheet = "(no data)"
		}
		fmt.Printf("  %-10s %d products -> %s\n", site.Site+":", len(site.Products), sheet)
	}
	if sheets, ok := metrics["sheets_written"].(int); ok {
		fmt.Printf("  Sheets added:  %d\n", sheets)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Println(separator)
	fmt.Printf("Scraped data for '%s' has been added to '%s'.\n", result.Query, result.OutputFile)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
