package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors are the CSS selectors used to pull a product out of a page.
// Container may be empty, in which case blocks are searched in the whole
// document.
type Selectors struct {
	Container string `yaml:"container"`
	Block     string `yaml:"block"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	Discount  string `yaml:"discount"`
	Seller    string `yaml:"seller"`
	Link      string `yaml:"link"`
}

// Site describes one shop search page and how to read it.
type Site struct {
	Name        string            `yaml:"name"`
	SearchURL   string            `yaml:"search_url"`
	BaseURL     string            `yaml:"base_url"`
	DumpFile    string            `yaml:"dump_file"`
	Headers     map[string]string `yaml:"headers"`
	PricePrefix string            `yaml:"price_prefix"`
	TrimText    bool              `yaml:"trim_text"`
	Selectors   Selectors         `yaml:"selectors"`
}

type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// Flipkart returns the built-in Flipkart definition.
func Flipkart() Site {
	return Site{
		Name:      "Flipkart",
		SearchURL: "https://www.flipkart.com/search?q=",
		BaseURL:   "https://www.flipkart.com",
		DumpFile:  "flipkart_response.html",
		Selectors: Selectors{
			Block:    "div._1AtVbE",
			Name:     "div._4rR01T",
			Price:    "div._30jeq3",
			Discount: "div._3Ay6Sb",
			Seller:   "div._2fuX-1",
			Link:     "a._1fQZEK",
		},
	}
}

// Amazon returns the built-in Amazon India definition.
func Amazon() Site {
	return Site{
		Name:      "Amazon",
		SearchURL: "https://www.amazon.in/s?k=",
		BaseURL:   "https://www.amazon.in",
		DumpFile:  "amazon_response.html",
		Headers: map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
		},
		PricePrefix: "₹",
		TrimText:    true,
		Selectors: Selectors{
			Container: "div.s-main-slot",
			Block:     "div.s-result-item",
			Name:      "span.a-size-medium",
			Price:     "span.a-price-whole",
			Seller:    "span.a-size-small",
			Link:      "a.a-link-normal",
		},
	}
}

// DefaultSites returns the sites scraped when no sites file is given, in
// scrape order.
func DefaultSites() []Site {
	return []Site{Flipkart(), Amazon()}
}

// LoadSites reads site definitions from a YAML file. An empty path yields
// DefaultSites.
func LoadSites(path string) ([]Site, error) {
	if path == "" {
		return DefaultSites(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	if len(file.Sites) == 0 {
		return nil, fmt.Errorf("sites file %q defines no sites", path)
	}

	seen := make(map[string]struct{}, len(file.Sites))
	for i := range file.Sites {
		if err := file.Sites[i].Validate(); err != nil {
			return nil, fmt.Errorf("site %d: %w", i, err)
		}
		if _, ok := seen[file.Sites[i].Name]; ok {
			return nil, fmt.Errorf("duplicate site name %q", file.Sites[i].Name)
		}
		seen[file.Sites[i].Name] = struct{}{}
	}
	return file.Sites, nil
}

// Validate checks that a site has everything the fetcher and extractor need.
func (s *Site) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("site name cannot be empty")
	}
	if err := validateURL(s.SearchURL); err != nil {
		return fmt.Errorf("%s: invalid search URL: %w", s.Name, err)
	}
	if err := validateURL(s.BaseURL); err != nil {
		return fmt.Errorf("%s: invalid base URL: %w", s.Name, err)
	}
	if s.DumpFile == "" {
		return fmt.Errorf("%s: dump file cannot be empty", s.Name)
	}
	required := map[string]string{
		"block": s.Selectors.Block,
		"name":  s.Selectors.Name,
		"price": s.Selectors.Price,
		"link":  s.Selectors.Link,
	}
	for field, selector := range required {
		if selector == "" {
			return fmt.Errorf("%s: %s selector cannot be empty", s.Name, field)
		}
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}
