package reconcile

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxprep-dev/taxprep/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// staticLines resolves every description to a fixed tax line.
type staticLines map[string]string

func (s staticLines) TaxLine(_, description string) string {
	return s[description]
}

func adjustment(ref, book, tax string, typ model.AdjustmentType, category string) model.Adjustment {
	b, t := dec(book), dec(tax)
	return model.Adjustment{
		AccountRef: ref,
		BookAmount: b,
		TaxAmount:  t,
		Adjustment: b.Sub(t),
		Type:       typ,
		Category:   category,
	}
}

func TestApply_ClonesRowsWithTaxLines(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "Rent Expense", Amount: dec("500.00"), Type: model.AccountTypeExpense},
		{Description: "Sales", Amount: dec("-9000.00"), Type: model.AccountTypeIncome},
	}
	rows := Apply(tb, nil, staticLines{"Rent Expense": "Deductions > Rent"})

	require.Len(t, rows, 2)
	assert.Equal(t, "Deductions > Rent", rows[0].TaxLine)
	assert.Empty(t, rows[1].TaxLine)
	assert.True(t, rows[0].TaxAdjustment.IsZero())
	assert.True(t, rows[0].TaxBalance.Equal(dec("500.00")))
}

func TestApply_PenaltyOffsetScenario(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "IRS Penalty", Amount: dec("200.00"), Type: model.AccountTypeExpense},
	}
	adj := adjustment("IRS Penalty", "200.00", "0.00", model.AdjustmentPermanent, "Penalties")

	rows := Apply(tb, []model.Adjustment{adj}, nil)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].TaxAdjustment.Equal(dec("200.00")))
	assert.True(t, rows[0].TaxBalance.Equal(dec("400.00")))

	offset := rows[1]
	assert.Equal(t, "Offset - IRS Penalty", offset.Description)
	assert.Equal(t, model.AccountTypeEquity, offset.Type)
	assert.True(t, offset.Amount.IsZero())
	assert.True(t, offset.TaxAdjustment.Equal(dec("-200.00")))
	assert.True(t, offset.TaxBalance.Equal(dec("-200.00")))
	assert.Equal(t, "DR", offset.DebitCredit)

	assert.NoError(t, CheckBalanced(rows))
}

func TestApply_CaseInsensitiveReference(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "Business Meals", Amount: dec("1000.00"), Type: model.AccountTypeExpense},
	}
	adj := adjustment("BUSINESS MEALS", "1000.00", "500.00", model.AdjustmentTemporary, "Meals and Entertainment")

	rows := Apply(tb, []model.Adjustment{adj}, nil)
	assert.True(t, rows[0].TaxAdjustment.Equal(dec("500.00")))
	assert.NoError(t, CheckBalanced(rows))
}

func TestApply_DuplicateDescriptionsGetFullAdjustmentEach(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "Rent Expense", Amount: dec("500.00"), Type: model.AccountTypeExpense},
		{Description: "Rent Expense", Amount: dec("700.00"), Type: model.AccountTypeExpense},
	}
	adj := adjustment("Rent Expense", "500.00", "400.00", model.AdjustmentTemporary, "Accrued Expenses")

	rows := Apply(tb, []model.Adjustment{adj}, nil)
	require.Len(t, rows, 3)

	// Apply-to-all-matches: both rows carry the full 100, not a split.
	assert.True(t, rows[0].TaxBalance.Equal(dec("600.00")))
	assert.True(t, rows[1].TaxBalance.Equal(dec("800.00")))

	// One offset per adjustment record leaves a residue the balance
	// check must surface.
	err := CheckBalanced(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100.00")
}

func TestApply_ZeroMatchesStillPostsOffset(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "Office Supplies", Amount: dec("50.00"), Type: model.AccountTypeExpense},
	}
	adj := adjustment("Book vs Tax Depreciation", "9000.00", "7500.00", model.AdjustmentTemporary, "Depreciation")

	rows := Apply(tb, []model.Adjustment{adj}, nil)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].TaxAdjustment.IsZero())
	assert.Equal(t, "Offset - Book vs Tax Depreciation", rows[1].Description)
	assert.True(t, rows[1].TaxAdjustment.Equal(dec("-1500.00")))
}

func TestApply_BalancedForAnyUniqueLedger(t *testing.T) {
	tb := []model.AccountRecord{
		{Description: "Business Meals", Amount: dec("1000.00"), Type: model.AccountTypeExpense},
		{Description: "IRS Penalty", Amount: dec("200.00"), Type: model.AccountTypeExpense},
		{Description: "Prepaid Insurance", Amount: dec("1200.00"), Type: model.AccountTypeAsset},
	}
	adjustments := []model.Adjustment{
		adjustment("Business Meals", "1000.00", "500.00", model.AdjustmentTemporary, "Meals and Entertainment"),
		adjustment("IRS Penalty", "200.00", "0.00", model.AdjustmentPermanent, "Penalties"),
		adjustment("Prepaid Insurance", "1200.00", "1200.00", model.AdjustmentTemporary, "Prepaid Insurance"),
	}

	rows := Apply(tb, adjustments, nil)
	require.Len(t, rows, 6)
	assert.NoError(t, CheckBalanced(rows))
	assert.True(t, TotalTaxAdjustment(rows).IsZero())
}

func TestDebitCredit_Convention(t *testing.T) {
	assert.Equal(t, "DR", DebitCredit(dec("-1")))
	assert.Equal(t, "CR", DebitCredit(dec("1")))
	assert.Equal(t, "CR", DebitCredit(decimal.Zero))
}

func TestRows_CSVRoundTrip(t *testing.T) {
	tb := []model.AccountRecord{
		{Number: "5030", Description: "Business Meals", Amount: dec("1000.00"), Type: model.AccountTypeExpense},
	}
	adj := adjustment("Business Meals", "1000.00", "500.00", model.AdjustmentTemporary, "Meals and Entertainment")
	rows := Apply(tb, []model.Adjustment{adj}, staticLines{"Business Meals": "Deductions > Meals"})

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))

	got, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Deductions > Meals", got[0].TaxLine)
	assert.True(t, got[1].TaxAdjustment.Equal(dec("-500.00")))
	assert.Equal(t, "DR", got[1].DebitCredit)
	assert.NoError(t, CheckBalanced(got))
}
