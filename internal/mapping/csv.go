package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// Header is the CSV header written for mapping table exports.
const Header = "account_number,account_name,tax_line"

// ReadCSV reads a mapping table CSV; columns resolve by header name.
func ReadCSV(r io.Reader) ([]model.MappingEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading mapping CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	var entries []model.MappingEntry
	for _, rec := range records[1:] {
		e := cols.entry(rec)
		if e.Name == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadXLSX reads a mapping table from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]model.MappingEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening mapping workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("mapping workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}

	var entries []model.MappingEntry
	for _, rec := range rows[1:] {
		e := cols.entry(rec)
		if e.Name == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadFile reads a mapping table from a .csv or .xlsx file.
func ReadFile(path string) ([]model.MappingEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported mapping format %q", filepath.Ext(path))
	}
}

// WriteCSV writes a mapping table (including header) to w.
func WriteCSV(w io.Writer, entries []model.MappingEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write([]string{e.Number, e.Name, e.TaxLine}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
