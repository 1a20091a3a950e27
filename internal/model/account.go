package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies trial balance rows.
type AccountType string

const (
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeOther     AccountType = "other"
)

// ParseAccountType normalizes a free-text type cell to an AccountType.
// Unrecognized values map to AccountTypeOther.
func ParseAccountType(s string) AccountType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "revenue":
		return AccountTypeIncome
	case "expense", "expenses":
		return AccountTypeExpense
	case "asset", "assets":
		return AccountTypeAsset
	case "liability", "liabilities":
		return AccountTypeLiability
	case "equity":
		return AccountTypeEquity
	default:
		return AccountTypeOther
	}
}

// AccountRecord is one row of the trial balance. Amount carries the
// account's natural debit/credit sign. Records are read-only to the
// engine; reconciliation copies them into AdjustedRows.
type AccountRecord struct {
	Number      string // optional key, stored trimmed
	Description string
	Amount      decimal.Decimal
	Type        AccountType
}

// MappingEntry is one row of the tax-line mapping table. An empty
// TaxLine is the "unmapped" sentinel, not an error.
type MappingEntry struct {
	Number  string // optional key
	Name    string
	TaxLine string
}
