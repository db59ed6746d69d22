// Package directory reads the medical network spreadsheet into provider
// records. The spreadsheet is maintained by hand, so column names and order
// drift between revisions; see columns.go for how headers are resolved.
package directory

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a header row plus data rows of raw cell text
type Table struct {
	Header []string
	Rows   [][]string
}

// TableReader reads a tabular file
type TableReader func(path string) (*Table, error)

var readersByExt = map[string]TableReader{
	".xlsx": ReadXLSX,
	".xlsm": ReadXLSX,
	".htm":  ReadHTML,
	".html": ReadHTML,
	".csv":  ReadCSV,
}

// OpenTable reads path with the reader registered for its extension
func OpenTable(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := readersByExt[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported directory source extension %q", ext)
	}
	return reader(path)
}

// newTable splits raw rows into the first non-blank row and the rows below
// it. A title line above the real header is handled by the loader, which
// knows the column aliases.
func newTable(raw [][]string) (*Table, error) {
	start := 0
	for start < len(raw) && rowIsEmpty(raw[start]) {
		start++
	}
	if start == len(raw) {
		return nil, fmt.Errorf("table has no header row")
	}
	return &Table{Header: cleanHeader(raw[start]), Rows: raw[start+1:]}, nil
}

func cleanHeader(row []string) []string {
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}
	return header
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
