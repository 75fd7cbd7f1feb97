// Package ingest parses uploaded tabular files (spreadsheets and CSV) into
// header-addressable rows for the bulk pipelines. File-level problems are
// fatal; interpreting individual rows is left to the caller so that one bad
// row never aborts a batch.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/universalexpress181/universal-express-sub001/internal/errs"
)

// Table is a parsed upload: one header row plus zero or more data rows.
type Table struct {
	headers map[string]int
	Rows    [][]string
}

// Parse reads an uploaded file, dispatching on the filename extension.
// Supported formats: .xlsx, .xlsm, .csv. An unreadable file or a file with
// no data rows is rejected outright.
func Parse(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseExcel(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file format %q", filepath.Ext(filename))
	}
}

func parseExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet open error: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet read error: %v", err)
	}
	return newTable(rows)
}

func parseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per cell

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %v", err)
	}
	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, errs.ErrEmptyFile
	}

	headers := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headers[normalizeHeader(header)] = i
	}

	return &Table{headers: headers, Rows: rows[1:]}, nil
}

// HasColumn reports whether the upload carries the named header.
// Header matching is case-insensitive and ignores surrounding space.
func (t *Table) HasColumn(header string) bool {
	_, ok := t.headers[normalizeHeader(header)]
	return ok
}

// Cell returns the value of the named column in the given data row, trimmed.
// Missing columns and short rows yield the empty string.
func (t *Table) Cell(row []string, header string) string {
	idx, ok := t.headers[normalizeHeader(header)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}
