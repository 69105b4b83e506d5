package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds scraper configuration.
type Config struct {
	OutputFile  string
	DumpDir     string
	SitesFile   string
	UserAgent   string
	Timeout     time.Duration // zero keeps the HTTP client default
	Verbose     bool
	MetricsAddr string
	MetricsFile string
}

// DefaultConfig returns the defaults used by the command line tool.
func DefaultConfig() *Config {
	return &Config{
		OutputFile: "products.xlsx",
		DumpDir:    ".",
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
		Timeout:    0,
		Verbose:    false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if ext := strings.ToLower(filepath.Ext(c.OutputFile)); ext != ".xlsx" && ext != ".xlsm" {
		return fmt.Errorf("output file must be an .xlsx workbook, got %q", c.OutputFile)
	}
	if c.DumpDir == "" {
		return fmt.Errorf("dump dir cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// EnvString reads a non-empty environment variable.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable. ok is false when unset.
func EnvInt(key string) (int, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// EnvDuration reads a time.ParseDuration formatted environment variable.
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// LoadEnvFile loads variables from a dotenv file without overriding the
// process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}
