package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

// readSearchRequest fills in whatever the flags left unset by prompting on
// in. The count is parsed before anything touches the network.
func readSearchRequest(in io.Reader, out io.Writer, query string, count int) (models.SearchRequest, error) {
	reader := bufio.NewReader(in)

	if query == "" {
		line, err := prompt(reader, out, "Enter product name to search: ")
		if err != nil {
			return models.SearchRequest{}, err
		}
		query = line
	}
	if strings.TrimSpace(query) == "" {
		return models.SearchRequest{}, fmt.Errorf("search query cannot be empty")
	}

	if count == 0 {
		line, err := prompt(reader, out, "Enter the number of products to fetch: ")
		if err != nil {
			return models.SearchRequest{}, err
		}
		parsed, err := parser.ParseCount(line)
		if err != nil {
			return models.SearchRequest{}, err
		}
		count = parsed
	} else if count < 0 {
		return models.SearchRequest{}, fmt.Errorf("product count must be positive, got %d", count)
	}

	return models.SearchRequest{Query: query, Count: count}, nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
