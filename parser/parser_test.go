package parser

import (
	"testing"

	"github.com/aluiziolira/go-scrape-products/models"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		wantErr bool
	}{
		{
			name: "valid product",
			product: &models.Product{
				Name:     "Running Shoe",
				Price:    "₹1,299",
				Discount: "N/A",
				Seller:   "N/A",
				Link:     "https://www.flipkart.com/p/1",
			},
			wantErr: false,
		},
		{
			name:    "nil product",
			product: nil,
			wantErr: true,
		},
		{
			name: "missing name",
			product: &models.Product{
				Price: "₹1,299",
				Link:  "https://www.flipkart.com/p/1",
			},
			wantErr: true,
		},
		{
			name: "whitespace name",
			product: &models.Product{
				Name:  "  \n ",
				Price: "₹1,299",
				Link:  "https://www.flipkart.com/p/1",
			},
			wantErr: true,
		},
		{
			name: "missing price",
			product: &models.Product{
				Name: "Running Shoe",
				Link: "https://www.flipkart.com/p/1",
			},
			wantErr: true,
		},
		{
			name: "missing link",
			product: &models.Product{
				Name:  "Running Shoe",
				Price: "₹1,299",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProduct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Shoe \n", true); got != "Shoe" {
		t.Errorf("CleanText(trim) = %q, want %q", got, "Shoe")
	}
	if got := CleanText("  Shoe \n", false); got != "  Shoe \n" {
		t.Errorf("CleanText(verbatim) = %q, want input unchanged", got)
	}
}

func TestOrNotAvailable(t *testing.T) {
	if got := OrNotAvailable("RetailNet", true); got != "RetailNet" {
		t.Errorf("OrNotAvailable(found) = %q", got)
	}
	if got := OrNotAvailable("", false); got != models.NotAvailable {
		t.Errorf("OrNotAvailable(missing) = %q, want %q", got, models.NotAvailable)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		input    string
		expected string
	}{
		{name: "adds prefix", prefix: "₹", input: "1,299", expected: "₹1,299"},
		{name: "no prefix", prefix: "", input: "₹1,299", expected: "₹1,299"},
		{name: "already prefixed", prefix: "₹", input: "₹1,299", expected: "₹1,299"},
		{name: "keeps trailing dot", prefix: "₹", input: "1,299.", expected: "₹1,299."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.prefix, tt.input); got != tt.expected {
				t.Errorf("FormatPrice(%q, %q) = %q, want %q", tt.prefix, tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		href     string
		expected string
	}{
		{name: "relative path", base: "https://www.flipkart.com", href: "/shoe/p/1?pid=2", expected: "https://www.flipkart.com/shoe/p/1?pid=2"},
		{name: "base with trailing slash", base: "https://www.amazon.in/", href: "/dp/B0", expected: "https://www.amazon.in/dp/B0"},
		{name: "absolute href", base: "https://www.amazon.in", href: "https://aax.amazon.in/x", expected: "https://aax.amazon.in/x"},
		{name: "empty href", base: "https://www.amazon.in", href: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.base, tt.href); got != tt.expected {
				t.Errorf("ResolveLink(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.expected)
			}
		})
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{query: "shoes", expected: "https://www.flipkart.com/search?q=shoes"},
		{query: "running shoes", expected: "https://www.flipkart.com/search?q=running+shoes"},
		{query: "a&b", expected: "https://www.flipkart.com/search?q=a%26b"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := SearchURL("https://www.flipkart.com/search?q=", tt.query); got != tt.expected {
				t.Errorf("SearchURL(%q) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("Flipkart", "shoes"); got != "Flipkart-shoes" {
		t.Errorf("SheetName = %q, want Flipkart-shoes", got)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "3", want: 3},
		{input: " 12\n", want: 12},
		{input: "three", wantErr: true},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
