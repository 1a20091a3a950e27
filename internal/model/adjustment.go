package model

import "github.com/shopspring/decimal"

// AdjustmentType distinguishes book-to-tax differences that reverse in a
// future period (temporary) from those that never do (permanent). Offset
// marks the synthetic balancing rows posted by the reconciler.
type AdjustmentType string

const (
	AdjustmentTemporary AdjustmentType = "Temporary"
	AdjustmentPermanent AdjustmentType = "Permanent"
	AdjustmentOffset    AdjustmentType = "Offset"
)

// Adjustment is one proposed or confirmed M-1 adjustment. AccountRef
// matches trial balance rows by case-insensitive description equality.
type Adjustment struct {
	ID         string // uuid, assigned when the record is created
	AccountRef string
	BookAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	Adjustment decimal.Decimal // BookAmount - TaxAmount
	Type       AdjustmentType
	Category   string
}

// AdjustedRow is an AccountRecord extended with the tax columns produced
// by reconciliation. Synthetic offset rows carry a zero Amount and the
// negated adjustment.
type AdjustedRow struct {
	AccountRecord
	TaxAdjustment decimal.Decimal
	TaxBalance    decimal.Decimal // Amount + TaxAdjustment
	TaxLine       string          // matched canonical label, possibly empty
	DebitCredit   string          // "DR"/"CR" on offset rows, blank otherwise
}
