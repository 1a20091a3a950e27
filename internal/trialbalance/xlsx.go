package trialbalance

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// SheetName is the workbook sheet a trial balance is read from.
const SheetName = "TB"

// ReadXLSX reads the "TB" sheet of a workbook.
func ReadXLSX(r io.Reader) ([]model.AccountRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", SheetName, err)
	}

	var tb []model.AccountRecord
	for i, rec := range rows[1:] {
		acct, err := cols.record(rec)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", SheetName, i+2, err)
		}
		if acct.Description == "" {
			continue
		}
		tb = append(tb, acct)
	}
	return tb, nil
}

// ReadFile reads a trial balance from a .csv or .xlsx file.
func ReadFile(path string) ([]model.AccountRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trial balance: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported trial balance format %q", filepath.Ext(path))
	}
}
