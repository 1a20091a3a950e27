// Package extract pulls M-1 adjustment rows out of a fixed-layout
// workpaper workbook. Each category lives on a named sheet with five
// title rows, a header row, and a data window starting at column D; the
// layout is a firm template, so any shape mismatch fails the whole
// extraction with a diagnostic naming the sheet and column.
package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/taxprep-dev/taxprep/internal/trialbalance"
)

// Row is one flattened adjustment row extracted from a category sheet.
type Row struct {
	AccountNumber string
	Description   string
	BookAmount    decimal.Decimal
	Adjustment    decimal.Decimal
	TRAmount      decimal.Decimal // BookAmount - Adjustment
	Source        string
}

// SheetSpec describes one category sheet of the template.
type SheetSpec struct {
	// Sheet is the exact tab name. "Federal Taxes " carries a trailing
	// space in the template; keep it.
	Sheet string
	// ExtraColumn names the third window column for diagnostics, or ""
	// when the rule ignores it.
	ExtraColumn string
	// Adjust derives the adjustment from the book amount and the extra
	// column's cell.
	Adjust func(book decimal.Decimal, extra string) (decimal.Decimal, error)
}

// titleRows is how many rows precede the header row on every sheet.
const titleRows = 5

// firstCol is the 0-based index of the Description column (column D).
const firstCol = 3

// Specs is the template's sheet list. Extraction processes all of them;
// a workbook missing any sheet does not conform.
var Specs = []SheetSpec{
	{Sheet: "Meals & Entertainment", ExtraColumn: "% Disallowed", Adjust: mealsRule},
	{Sheet: "Accrued Expenses", ExtraColumn: "Paid within 2.5 months", Adjust: accrualRule},
	{Sheet: "Payroll Liabilities", ExtraColumn: "Paid within 2.5 months", Adjust: accrualRule},
	{Sheet: "Penalties & Fines", Adjust: fullDisallowanceRule},
	{Sheet: "Federal Taxes ", Adjust: fullDisallowanceRule},
	{Sheet: "Depreciation", ExtraColumn: "Book/Tax Difference", Adjust: depreciationRule},
}

// mealsRule disallows the entered percentage of the book amount.
func mealsRule(book decimal.Decimal, extra string) (decimal.Decimal, error) {
	if strings.TrimSpace(extra) == "" {
		return decimal.Zero, nil
	}
	pct, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(extra), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing disallowed percentage %q: %w", extra, err)
	}
	if strings.HasSuffix(strings.TrimSpace(extra), "%") {
		pct = pct.Div(decimal.NewFromInt(100))
	}
	return book.Mul(pct), nil
}

// accrualRule disallows the full book amount unless the liability was
// paid within 2.5 months of year end.
func accrualRule(book decimal.Decimal, extra string) (decimal.Decimal, error) {
	switch strings.ToUpper(strings.TrimSpace(extra)) {
	case "Y", "YES":
		return decimal.Zero, nil
	default:
		return book, nil
	}
}

// fullDisallowanceRule disallows the full book amount.
func fullDisallowanceRule(book decimal.Decimal, _ string) (decimal.Decimal, error) {
	return book, nil
}

// depreciationRule takes the entered book/tax difference verbatim.
func depreciationRule(_ decimal.Decimal, extra string) (decimal.Decimal, error) {
	diff, err := trialbalance.ParseAmount(extra)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing book/tax difference: %w", err)
	}
	return diff, nil
}

// Workbook extracts all category sheets from an uploaded workbook.
func Workbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var all []Row
	for _, spec := range Specs {
		rows, err := sheet(f, spec)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

func sheet(f *excelize.File, spec SheetSpec) ([]Row, error) {
	raw, err := f.GetRows(spec.Sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", spec.Sheet, err)
	}
	if len(raw) <= titleRows {
		return nil, fmt.Errorf("sheet %q: expected header at row %d, got %d rows", spec.Sheet, titleRows+1, len(raw))
	}

	source := strings.TrimSpace(spec.Sheet)
	var rows []Row
	for i, rec := range raw[titleRows+1:] {
		rowNum := titleRows + 2 + i
		desc := cell(rec, firstCol)
		if desc == "" {
			continue
		}

		book, err := trialbalance.ParseAmount(cell(rec, firstCol+1))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d column %q: %w", spec.Sheet, rowNum, "Trial Balance", err)
		}

		adjustment, err := spec.Adjust(book, cell(rec, firstCol+2))
		if err != nil {
			column := spec.ExtraColumn
			if column == "" {
				column = "Trial Balance"
			}
			return nil, fmt.Errorf("sheet %q row %d column %q: %w", spec.Sheet, rowNum, column, err)
		}

		rows = append(rows, Row{
			Description: desc,
			BookAmount:  book,
			Adjustment:  adjustment,
			TRAmount:    book.Sub(adjustment),
			Source:      source,
		})
	}
	return rows, nil
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
