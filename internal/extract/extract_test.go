package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// writeSheet lays out one template sheet: five title rows, a header at
// row 6, and data rows from row 7 starting in column D.
func writeSheet(t *testing.T, f *excelize.File, name string, header []string, data [][]any) {
	t.Helper()
	_, err := f.NewSheet(name)
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(name, "A1", name+" workpaper"))
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(4+i, 6)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(name, cell, h))
	}
	for r, row := range data {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(4+c, 7+r)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(name, cell, v))
		}
	}
}

func templateWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	writeSheet(t, f, "Meals & Entertainment",
		[]string{"Description", "Trial Balance", "% Disallowed", "Book/Tax Difference"},
		[][]any{{"Business Meals", 1000, 0.5, ""}})

	writeSheet(t, f, "Accrued Expenses",
		[]string{"Description", "Trial Balance", "Paid within 2.5 months", "Book/Tax Difference"},
		[][]any{
			{"Accrued Bonuses", 3000, "N", ""},
			{"Accrued Rent", 1200, "YES", ""},
		})

	writeSheet(t, f, "Payroll Liabilities",
		[]string{"Description", "Trial Balance", "Paid within 2.5 months", "Book/Tax Difference"},
		[][]any{{"Accrued Payroll", 500, "y", ""}})

	writeSheet(t, f, "Penalties & Fines",
		[]string{"Description", "Trial Balance", "Book/Tax Difference"},
		[][]any{{"IRS Penalty", 200, ""}})

	writeSheet(t, f, "Federal Taxes ",
		[]string{"Description", "Trial Balance", "Book/Tax Difference"},
		[][]any{{"Federal Tax Expense", 4000, ""}})

	writeSheet(t, f, "Depreciation",
		[]string{"Description", "Trial Balance", "Book/Tax Difference"},
		[][]any{{"Depreciation Expense", 9000, 1500}})

	return f
}

func encode(t *testing.T, f *excelize.File) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestWorkbook_AllCategories(t *testing.T) {
	rows, err := Workbook(encode(t, templateWorkbook(t)))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	byDesc := make(map[string]Row, len(rows))
	for _, r := range rows {
		byDesc[r.Description] = r
	}

	meals := byDesc["Business Meals"]
	assert.True(t, meals.Adjustment.Equal(dec("500")), "got %s", meals.Adjustment)
	assert.True(t, meals.TRAmount.Equal(dec("500")))
	assert.Equal(t, "Meals & Entertainment", meals.Source)

	// Unpaid accrual is fully disallowed; a paid one passes.
	assert.True(t, byDesc["Accrued Bonuses"].Adjustment.Equal(dec("3000")))
	assert.True(t, byDesc["Accrued Rent"].Adjustment.IsZero())
	assert.True(t, byDesc["Accrued Payroll"].Adjustment.IsZero())

	assert.True(t, byDesc["IRS Penalty"].Adjustment.Equal(dec("200")))
	assert.True(t, byDesc["IRS Penalty"].TRAmount.IsZero())

	// Trailing space in the tab name is trimmed from the source label.
	assert.Equal(t, "Federal Taxes", byDesc["Federal Tax Expense"].Source)

	depr := byDesc["Depreciation Expense"]
	assert.True(t, depr.Adjustment.Equal(dec("1500")))
	assert.True(t, depr.TRAmount.Equal(dec("7500")))
}

func TestWorkbook_MissingSheetFailsWholeRequest(t *testing.T) {
	f := excelize.NewFile()
	writeSheet(t, f, "Meals & Entertainment",
		[]string{"Description", "Trial Balance", "% Disallowed", "Book/Tax Difference"},
		[][]any{{"Business Meals", 1000, 0.5, ""}})

	_, err := Workbook(encode(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Accrued Expenses")
}

func TestWorkbook_BadCellNamesSheetAndColumn(t *testing.T) {
	f := templateWorkbook(t)
	require.NoError(t, f.SetCellValue("Penalties & Fines", "E7", "not a number"))

	_, err := Workbook(encode(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Penalties & Fines"`)
	assert.Contains(t, err.Error(), "Trial Balance")
}

func TestMealsRule_PercentSuffix(t *testing.T) {
	got, err := mealsRule(dec("1000"), "50%")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("500")))

	got, err = mealsRule(dec("1000"), "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{{
		Description: "Business Meals",
		BookAmount:  dec("1000"),
		Adjustment:  dec("500"),
		TRAmount:    dec("500"),
		Source:      "Meals & Entertainment",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, ",Business Meals,1000.00,500.00,500.00,Meals & Entertainment", lines[1])
}

func TestSpecs_CoverTemplate(t *testing.T) {
	names := make([]string, len(Specs))
	for i, s := range Specs {
		names[i] = s.Sheet
	}
	assert.Equal(t, []string{
		"Meals & Entertainment",
		"Accrued Expenses",
		"Payroll Liabilities",
		"Penalties & Fines",
		"Federal Taxes ",
		"Depreciation",
	}, names)
}
