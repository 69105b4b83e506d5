package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLen is Excel's limit on sheet name length, in characters.
const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// WorkbookWriter adds one sheet of products per call to an .xlsx file.
// The file is only held open for the duration of a WriteSheet call.
type WorkbookWriter struct {
	path    string
	written []string
}

// NewWorkbookWriter returns a writer for the workbook at path. The file is
// created on the first write if it does not exist yet.
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path}
}

// Path returns the workbook location.
func (w *WorkbookWriter) Path() string {
	return w.path
}

// WriteSheet writes products to a new sheet and returns the name it was
// given. Existing sheets are never modified: a name that is already taken
// gets a numeric suffix.
func (w *WorkbookWriter) WriteSheet(name string, products []*models.Product) (sheet string, err error) {
	f, created, err := w.open()
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	if created {
		sheet = SanitizeSheetName(name)
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return "", fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	} else {
		sheet = uniqueSheetName(f.GetSheetList(), SanitizeSheetName(name))
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("add sheet %q: %w", sheet, err)
		}
	}

	if err := writeProducts(f, sheet, products); err != nil {
		return "", err
	}

	if created {
		if err := ensureDir(w.path); err != nil {
			return "", err
		}
		if err := f.SaveAs(w.path); err != nil {
			return "", fmt.Errorf("save workbook: %w", err)
		}
	} else if err := f.Save(); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	w.written = append(w.written, sheet)
	return sheet, nil
}

// Validate checks that every sheet written by this writer is present in
// the file on disk.
func (w *WorkbookWriter) Validate() error {
	if len(w.written) == 0 {
		return nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]struct{})
	for _, name := range f.GetSheetList() {
		present[name] = struct{}{}
	}
	for _, name := range w.written {
		if _, ok := present[name]; !ok {
			return fmt.Errorf("sheet %q missing from %s", name, w.path)
		}
	}
	return nil
}

// Written lists the sheets added by this writer, in write order.
func (w *WorkbookWriter) Written() []string {
	out := make([]string, len(w.written))
	copy(out, w.written)
	return out
}

func (w *WorkbookWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, fmt.Errorf("stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook %q: %w", w.path, err)
	}
	return f, false, nil
}

func writeProducts(f *excelize.File, sheet string, products []*models.Product) error {
	header := append([]interface{}(nil), models.ProductHeader...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, product := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := product.Row()
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		if strings.HasPrefix(product.Link, "http") {
			linkCell := "E" + strconv.Itoa(i+2)
			if err := f.SetCellHyperLink(sheet, linkCell, product.Link, "External"); err != nil {
				return fmt.Errorf("link row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "E", "E", 80); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

// SanitizeSheetName makes name acceptable to Excel: forbidden characters
// become underscores and the result is cut to 31 characters.
func SanitizeSheetName(name string) string {
	name = sheetNameReplacer.Replace(name)
	name = strings.Trim(name, "'")
	if strings.TrimSpace(name) == "" {
		name = "Sheet"
	}
	return truncateRunes(name, maxSheetNameLen)
}

// uniqueSheetName appends 1, 2, ... to base until it no longer matches an
// existing sheet. Excel compares sheet names case-insensitively.
func uniqueSheetName(existing []string, base string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[strings.ToLower(name)] = struct{}{}
	}
	if _, ok := taken[strings.ToLower(base)]; !ok {
		return base
	}
	for i := 1; ; i++ {
		suffix := strconv.Itoa(i)
		candidate := truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
		if _, ok := taken[strings.ToLower(candidate)]; !ok {
			return candidate
		}
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
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
