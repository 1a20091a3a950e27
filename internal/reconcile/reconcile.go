package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// TaxLineResolver resolves an account to its canonical tax line, or ""
// when no confident match exists. *match.Matcher satisfies this.
type TaxLineResolver interface {
	TaxLine(number, description string) string
}

// DebitCredit tags an amount with its posting side. One convention is
// used everywhere: negative amounts are debits, all others credits. The
// tag on an offset row is computed from the offset's own tax adjustment.
func DebitCredit(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "DR"
	}
	return "CR"
}

// Apply folds an adjustment ledger into a copy of the trial balance.
//
// Every trial balance row is cloned with a zero tax adjustment and its
// tax line resolved. Each adjustment is then applied to ALL rows whose
// description equals its account ref case-insensitively: zero matches is
// a no-op, multiple matches each receive the full adjustment. One
// synthetic offset row posts per adjustment regardless of match count,
// carrying the negated adjustment so that a ledger over uniquely named
// accounts nets to zero.
func Apply(tb []model.AccountRecord, adjustments []model.Adjustment, lines TaxLineResolver) []model.AdjustedRow {
	rows := make([]model.AdjustedRow, 0, len(tb)+len(adjustments))
	for _, acct := range tb {
		row := model.AdjustedRow{
			AccountRecord: acct,
			TaxAdjustment: decimal.Zero,
			TaxBalance:    acct.Amount,
		}
		if lines != nil {
			row.TaxLine = lines.TaxLine(acct.Number, acct.Description)
		}
		rows = append(rows, row)
	}

	for _, adj := range adjustments {
		ref := strings.ToLower(adj.AccountRef)
		for i := range rows[:len(tb)] {
			if strings.ToLower(rows[i].Description) != ref {
				continue
			}
			rows[i].TaxAdjustment = adj.Adjustment
			rows[i].TaxBalance = rows[i].Amount.Add(adj.Adjustment)
		}

		offset := adj.Adjustment.Neg()
		rows = append(rows, model.AdjustedRow{
			AccountRecord: model.AccountRecord{
				Description: "Offset - " + adj.AccountRef,
				Amount:      decimal.Zero,
				Type:        model.AccountTypeEquity,
			},
			TaxAdjustment: offset,
			TaxBalance:    offset,
			DebitCredit:   DebitCredit(offset),
		})
	}

	return rows
}

// TotalTaxAdjustment sums the tax adjustment column over all rows,
// offsets included.
func TotalTaxAdjustment(rows []model.AdjustedRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TaxAdjustment)
	}
	return total
}

// CheckBalanced verifies the self-balancing invariant: the tax
// adjustments across all rows, synthetic offsets included, net to zero.
// Duplicate account descriptions can legitimately break this (every
// matching row receives the full adjustment but only one offset posts);
// the returned error reports the residue for the preparer to resolve.
func CheckBalanced(rows []model.AdjustedRow) error {
	if total := TotalTaxAdjustment(rows); !total.IsZero() {
		return fmt.Errorf("adjusted trial balance out of balance by %s", total.StringFixed(2))
	}
	return nil
}
