// Package prompts serves the fixed follow-up review questions and turns
// the preparer's answers into derived adjustment rows.
package prompts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/extract"
)

// Prompt is one follow-up review question.
type Prompt struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Context  string `json:"context"`
}

// Answer keys recognized by Apply.
const (
	KeyTaxDepreciation    = "tax_depr"
	KeyBookDepreciation   = "book_depr"
	KeyDisallowedInterest = "interest_limit_disallowed"
	KeySection481a        = "sec481a"
)

// Review is the static prompt list served to clients.
var Review = []Prompt{
	{ID: KeyTaxDepreciation, Question: "What is your total tax depreciation?", Context: "MACRS or 179 methods"},
	{ID: KeyDisallowedInterest, Question: "Any disallowed interest under §163(j)?", Context: "Excess interest addback"},
	{ID: KeySection481a, Question: "Is there a Section 481(a) adjustment?", Context: "Accounting method change"},
}

// Apply derives adjustment rows from the answered prompts. Blank answers
// are ignored; a non-numeric answer fails the whole request. The
// depreciation row needs both the book and tax figures.
func Apply(answers map[string]string) ([]extract.Row, error) {
	var rows []extract.Row

	tax, hasTax, err := amount(answers, KeyTaxDepreciation)
	if err != nil {
		return nil, err
	}
	book, hasBook, err := amount(answers, KeyBookDepreciation)
	if err != nil {
		return nil, err
	}
	if hasTax && hasBook {
		rows = append(rows, extract.Row{
			Description: "Book vs Tax Depreciation",
			BookAmount:  book,
			Adjustment:  book.Sub(tax),
			TRAmount:    tax,
			Source:      "Depreciation Prompt",
		})
	}

	if val, ok, err := amount(answers, KeyDisallowedInterest); err != nil {
		return nil, err
	} else if ok {
		rows = append(rows, extract.Row{
			Description: "Disallowed Interest §163(j)",
			BookAmount:  val,
			Adjustment:  val,
			TRAmount:    decimal.Zero,
			Source:      "Interest Prompt",
		})
	}

	if val, ok, err := amount(answers, KeySection481a); err != nil {
		return nil, err
	} else if ok {
		rows = append(rows, extract.Row{
			Description: "Section 481(a) Adjustment",
			BookAmount:  decimal.Zero,
			Adjustment:  val,
			TRAmount:    val,
			Source:      "Sec 481(a) Prompt",
		})
	}

	return rows, nil
}

func amount(answers map[string]string, key string) (decimal.Decimal, bool, error) {
	raw, ok := answers[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("answer %q: parsing %q: %w", key, raw, err)
	}
	return d, true, nil
}
