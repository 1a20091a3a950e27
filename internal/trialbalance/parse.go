package trialbalance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// columns holds resolved header positions; -1 marks an absent optional
// column.
type columns struct {
	number      int
	description int
	amount      int
	acctType    int
}

// resolveColumns maps a header row to typed column positions. Matching is
// case-insensitive and tolerant of vendor spellings ("Account
// Description", "Description", "Ending Balance"), but the description and
// amount columns are required: everything downstream operates on typed
// rows, so shape problems surface here, once.
func resolveColumns(header []string) (columns, error) {
	cols := columns{number: -1, description: -1, amount: -1, acctType: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(h, "number"), h == "account no", h == "acct no":
			if cols.number == -1 {
				cols.number = i
			}
		case strings.Contains(h, "description"), h == "account", h == "account name":
			if cols.description == -1 {
				cols.description = i
			}
		case strings.Contains(h, "amount"), strings.Contains(h, "balance"):
			if cols.amount == -1 {
				cols.amount = i
			}
		case strings.Contains(h, "type"):
			if cols.acctType == -1 {
				cols.acctType = i
			}
		}
	}
	if cols.description == -1 {
		return cols, fmt.Errorf("no description column in header %v", header)
	}
	if cols.amount == -1 {
		return cols, fmt.Errorf("no amount column in header %v", header)
	}
	return cols, nil
}

func (c columns) record(row []string) (model.AccountRecord, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	desc := cell(c.description)
	amount, err := ParseAmount(cell(c.amount))
	if err != nil {
		return model.AccountRecord{}, fmt.Errorf("account %q: %w", desc, err)
	}

	return model.AccountRecord{
		Number:      cell(c.number),
		Description: desc,
		Amount:      amount,
		Type:        model.ParseAccountType(cell(c.acctType)),
	}, nil
}

// ParseAmount parses a money cell. Currency symbols and thousands commas
// are stripped; parentheses denote negatives. An empty cell is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// footingTolerance is the rounding slack allowed before a trial balance
// is reported out of balance.
var footingTolerance = decimal.New(1, -2)

// Footing returns the sum of all amounts. A balanced trial balance foots
// to zero.
func Footing(tb []model.AccountRecord) decimal.Decimal {
	total := decimal.Zero
	for _, acct := range tb {
		total = total.Add(acct.Amount)
	}
	return total
}

// IsBalanced reports whether the trial balance foots to zero within a
// one-cent tolerance.
func IsBalanced(tb []model.AccountRecord) bool {
	return Footing(tb).Abs().LessThan(footingTolerance)
}
