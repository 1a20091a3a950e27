package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taxprep-dev/taxprep/internal/model"
)

func mappingTable() []model.MappingEntry {
	return []model.MappingEntry{
		{Number: "5010", Name: "Rent Expense", TaxLine: "Deductions > Rent"},
		{Number: "5020", Name: "Payroll Expense", TaxLine: "Deductions > Salaries and wages"},
		{Number: "5030", Name: "Meals Expense", TaxLine: "Deductions > Meals"},
	}
}

func TestTaxLine_NumberMatchWinsWithoutThreshold(t *testing.T) {
	m := New(Lexical{}, mappingTable())

	// The description is nothing like "Payroll Expense"; the number key
	// still resolves it.
	assert.Equal(t, "Deductions > Salaries and wages", m.TaxLine(" 5020 ", "zzzz"))
}

func TestTaxLine_FuzzyDescriptionMatch(t *testing.T) {
	m := New(Lexical{}, mappingTable())

	assert.Equal(t, "Deductions > Rent", m.TaxLine("", "Rent Expenses"))
	assert.Equal(t, "Deductions > Meals", m.TaxLine("", "MEALS EXPENSE"))
}

func TestTaxLine_BelowThresholdReturnsEmpty(t *testing.T) {
	table := []model.MappingEntry{
		{Name: "Payroll Expense", TaxLine: "Deductions > Salaries and wages"},
		{Name: "Rent Expense", TaxLine: "Deductions > Rent"},
	}
	m := New(Lexical{}, table)

	assert.Empty(t, m.TaxLine("", "Office Supplies"))
}

func TestTaxLine_UnknownNumberFallsBackToDescription(t *testing.T) {
	m := New(Lexical{}, mappingTable())

	assert.Equal(t, "Deductions > Rent", m.TaxLine("9999", "Rent Expense"))
}

func TestTaxLine_TieBreakIsFirstTableRow(t *testing.T) {
	table := []model.MappingEntry{
		{Name: "Rent Expense", TaxLine: "first"},
		{Name: "Rent Expense", TaxLine: "second"},
	}
	m := New(Lexical{}, table)

	// Identical candidates score identically; the first row must win,
	// and repeatedly so.
	for i := 0; i < 10; i++ {
		assert.Equal(t, "first", m.TaxLine("", "Rent Expense"))
	}
}

func TestTaxLine_EmptyInputs(t *testing.T) {
	m := New(Lexical{}, nil)
	assert.Empty(t, m.TaxLine("", "Rent Expense"))

	m = New(Lexical{}, mappingTable())
	assert.Empty(t, m.TaxLine("", ""))
}

func TestLexical_ExactMatchScoresOne(t *testing.T) {
	scores := Lexical{}.Scores("rent expense", []string{"rent expense", "payroll expense"})
	assert.Equal(t, 1.0, scores[0])
	assert.Less(t, scores[1], 1.0)
}

func TestCosine_SharedTokensScoreAboveThreshold(t *testing.T) {
	c := Cosine{}
	scores := c.Scores("business meals", []string{"meals expense", "rent expense"})
	assert.True(t, c.Accept(scores[0]), "shared token should clear 0.3, got %f", scores[0])
	assert.False(t, c.Accept(scores[1]))
}

func TestCosine_MatcherEndToEnd(t *testing.T) {
	m := New(Cosine{}, mappingTable())

	assert.Equal(t, "Deductions > Meals", m.TaxLine("", "Business Meals"))
	assert.Empty(t, m.TaxLine("", "Interest Income"))
}

func TestCosine_Deterministic(t *testing.T) {
	m := New(Cosine{}, mappingTable())
	first := m.TaxLine("", "rent")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.TaxLine("", "rent"))
	}
}
