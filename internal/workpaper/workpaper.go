// Package workpaper assembles the multi-sheet Excel deliverable from the
// reconciliation engine's output tables.
package workpaper

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/taxprep-dev/taxprep/internal/model"
	"github.com/taxprep-dev/taxprep/internal/reconcile"
)

// Info identifies the engagement on the General Information sheet.
type Info struct {
	ClientName string
	TaxYear    string
}

// Summary holds the Schedule M-1 reconciliation arithmetic.
type Summary struct {
	BookIncome      decimal.Decimal
	TotalAdjustment decimal.Decimal
	TaxableIncome   decimal.Decimal
	Balanced        bool
}

// Summarize computes book income (income plus expense balances), the
// total M-1 adjustment, and taxable income.
func Summarize(tb []model.AccountRecord, adjustments []model.Adjustment) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	footing := decimal.Zero
	for _, acct := range tb {
		footing = footing.Add(acct.Amount)
		switch acct.Type {
		case model.AccountTypeIncome:
			income = income.Add(acct.Amount)
		case model.AccountTypeExpense:
			expenses = expenses.Add(acct.Amount)
		}
	}

	total := decimal.Zero
	for _, adj := range adjustments {
		total = total.Add(adj.Adjustment)
	}

	book := income.Add(expenses)
	return Summary{
		BookIncome:      book,
		TotalAdjustment: total,
		TaxableIncome:   book.Add(total),
		Balanced:        footing.Abs().LessThan(decimal.New(1, -2)),
	}
}

// m1LineLabels is the fixed IRS Schedule M-1 template.
var m1LineLabels = []string{
	"1. Net income (loss) per books",
	"2. Federal income tax per books",
	"3. Excess of capital losses over capital gains",
	"4. Income subject to tax not recorded on books this year",
	"5. Expenses recorded on books this year not deducted on this return",
	"6. Add lines 1 through 5",
	"7. Income recorded on books this year not included on this return",
	"8. Deductions on this return not charged against book income",
	"9. Add lines 7 and 8",
	"10. Subtract line 9 from line 6. This is taxable income",
}

// m1LineAmounts fills the template: only lines 1, 5, 6, and 10 are
// derived; the rest stay zero for the preparer.
func m1LineAmounts(s Summary) []decimal.Decimal {
	zero := decimal.Zero
	return []decimal.Decimal{
		s.BookIncome,
		zero, zero, zero,
		s.TotalAdjustment,
		s.TaxableIncome,
		zero, zero, zero,
		s.TaxableIncome,
	}
}

// Sheet names in the workbook.
const (
	SheetGeneralInfo = "General Information"
	SheetM1Summary   = "M-1 Summary"
	SheetAdjustments = "M-1 Adjustments"
	SheetOriginalTB  = "Original TB"
	SheetAdjustedTB  = "Adjusted TB"
)

// maxSheetName is the Excel limit for sheet names.
const maxSheetName = 31

// Build assembles the workbook: general info, the M-1 summary, the
// adjustment ledger, original and adjusted trial balances, and one sheet
// per M-1 category with its balancing offset row.
func Build(info Info, tb []model.AccountRecord, adjustments []model.Adjustment, rows []model.AdjustedRow) (*excelize.File, error) {
	s := Summarize(tb, adjustments)

	f := excelize.NewFile()

	if err := writeGeneralInfo(f, info, s); err != nil {
		return nil, err
	}
	if err := writeM1Summary(f, s); err != nil {
		return nil, err
	}
	if err := writeAdjustments(f, adjustments); err != nil {
		return nil, err
	}
	if err := writeOriginalTB(f, tb); err != nil {
		return nil, err
	}
	if err := writeAdjustedTB(f, rows); err != nil {
		return nil, err
	}
	if err := writeCategorySheets(f, adjustments); err != nil {
		return nil, err
	}

	// Drop the default sheet once real ones exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetGeneralInfo)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", SheetGeneralInfo, err)
	}
	f.SetActiveSheet(idx)
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, info Info, tb []model.AccountRecord, adjustments []model.Adjustment, rows []model.AdjustedRow) error {
	f, err := Build(info, tb, adjustments, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workpaper: %w", err)
	}
	return nil
}

func writeGeneralInfo(f *excelize.File, info Info, s Summary) error {
	if _, err := f.NewSheet(SheetGeneralInfo); err != nil {
		return fmt.Errorf("creating %s: %w", SheetGeneralInfo, err)
	}
	balanced := "Yes"
	if !s.Balanced {
		balanced = "No"
	}
	header := []any{"Client Name", "Tax Year", "Book Income", "Taxable Income", "Is Balanced"}
	values := []any{info.ClientName, info.TaxYear, num(s.BookIncome), num(s.TaxableIncome), balanced}
	if err := setRow(f, SheetGeneralInfo, 1, header); err != nil {
		return err
	}
	return setRow(f, SheetGeneralInfo, 2, values)
}

func writeM1Summary(f *excelize.File, s Summary) error {
	if _, err := f.NewSheet(SheetM1Summary); err != nil {
		return fmt.Errorf("creating %s: %w", SheetM1Summary, err)
	}
	if err := setRow(f, SheetM1Summary, 1, []any{"IRS Schedule M-1 Line", "Amount"}); err != nil {
		return err
	}
	amounts := m1LineAmounts(s)
	for i, label := range m1LineLabels {
		if err := setRow(f, SheetM1Summary, i+2, []any{label, num(amounts[i])}); err != nil {
			return err
		}
	}
	return nil
}

func writeAdjustments(f *excelize.File, adjustments []model.Adjustment) error {
	if _, err := f.NewSheet(SheetAdjustments); err != nil {
		return fmt.Errorf("creating %s: %w", SheetAdjustments, err)
	}
	header := []any{"Account", "Book Amount", "Tax Amount", "Adjustment", "Adjustment Type", "M-1 Category"}
	if err := setRow(f, SheetAdjustments, 1, header); err != nil {
		return err
	}
	for i, adj := range adjustments {
		row := []any{adj.AccountRef, num(adj.BookAmount), num(adj.TaxAmount), num(adj.Adjustment), string(adj.Type), adj.Category}
		if err := setRow(f, SheetAdjustments, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeOriginalTB(f *excelize.File, tb []model.AccountRecord) error {
	if _, err := f.NewSheet(SheetOriginalTB); err != nil {
		return fmt.Errorf("creating %s: %w", SheetOriginalTB, err)
	}
	header := []any{"Account Number", "Account Description", "Amount", "Type"}
	if err := setRow(f, SheetOriginalTB, 1, header); err != nil {
		return err
	}
	for i, acct := range tb {
		row := []any{acct.Number, acct.Description, num(acct.Amount), string(acct.Type)}
		if err := setRow(f, SheetOriginalTB, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAdjustedTB(f *excelize.File, rows []model.AdjustedRow) error {
	if _, err := f.NewSheet(SheetAdjustedTB); err != nil {
		return fmt.Errorf("creating %s: %w", SheetAdjustedTB, err)
	}
	header := []any{"Account Number", "Account Description", "Amount", "Type", "Tax Adjustment", "Tax Balance", "Tax Line", "DR/CR"}
	if err := setRow(f, SheetAdjustedTB, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		row := []any{r.Number, r.Description, num(r.Amount), string(r.Type), num(r.TaxAdjustment), num(r.TaxBalance), r.TaxLine, r.DebitCredit}
		if err := setRow(f, SheetAdjustedTB, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeCategorySheets writes one sheet per M-1 category, in first
// appearance order, each closed with a category offset row.
func writeCategorySheets(f *excelize.File, adjustments []model.Adjustment) error {
	grouped := make(map[string][]model.Adjustment)
	var order []string
	for _, adj := range adjustments {
		if _, seen := grouped[adj.Category]; !seen {
			order = append(order, adj.Category)
		}
		grouped[adj.Category] = append(grouped[adj.Category], adj)
	}

	header := []any{"Account", "Book Amount", "Tax Amount", "Adjustment", "Adjustment Type", "M-1 Category", "DR/CR"}
	for _, category := range order {
		sheet := sheetName(category)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating category sheet %q: %w", sheet, err)
		}
		if err := setRow(f, sheet, 1, header); err != nil {
			return err
		}

		total := decimal.Zero
		rowIdx := 2
		for _, adj := range grouped[category] {
			total = total.Add(adj.Adjustment)
			row := []any{
				adj.AccountRef, num(adj.BookAmount), num(adj.TaxAmount), num(adj.Adjustment),
				string(adj.Type), adj.Category, reconcile.DebitCredit(adj.Adjustment),
			}
			if err := setRow(f, sheet, rowIdx, row); err != nil {
				return err
			}
			rowIdx++
		}

		offset := total.Neg()
		offsetRow := []any{
			"Offset - " + category, "", "", num(offset),
			string(model.AdjustmentOffset), category, reconcile.DebitCredit(offset),
		}
		if err := setRow(f, sheet, rowIdx, offsetRow); err != nil {
			return err
		}
	}
	return nil
}

func sheetName(category string) string {
	if len(category) > maxSheetName {
		return category[:maxSheetName]
	}
	return category
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell (%d,%d): %w", i+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("sheet %q cell %s: %w", sheet, cell, err)
		}
	}
	return nil
}
