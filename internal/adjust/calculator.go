package adjust

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/classify"
	"github.com/taxprep-dev/taxprep/internal/model"
)

// Choice is a discrete resolution option for a policy that offers one.
type Choice string

const (
	ChoiceFullyDeductible Choice = "fully_deductible"
	ChoiceNotDeductible   Choice = "not_deductible"
	ChoicePartial         Choice = "partial"
	ChoiceHalfDeductible  Choice = "fifty_percent"
	ChoiceCustom          Choice = "custom"
)

// ParseChoice normalizes preparer-facing spellings ("Fully deductible",
// "50% deductible", ...) to a Choice. Empty input returns an empty Choice.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "fully_deductible", "fully deductible":
		return ChoiceFullyDeductible, nil
	case "not_deductible", "not deductible", "prepaid", "prepaid (not deductible)":
		return ChoiceNotDeductible, nil
	case "partial", "partially deductible":
		return ChoicePartial, nil
	case "fifty_percent", "50% deductible", "50%":
		return ChoiceHalfDeductible, nil
	case "custom", "enter custom":
		return ChoiceCustom, nil
	default:
		return "", fmt.Errorf("unknown choice %q", s)
	}
}

// Resolution carries the preparer's input for one adjustment: a discrete
// choice and/or an entered deductible amount, depending on the policy.
type Resolution struct {
	Choice    Choice
	Amount    decimal.Decimal
	HasAmount bool
}

var half = decimal.New(5, -1)

// TaxAmount computes the deductible tax amount for a policy. A missing
// resolution input is an error: masking an unresolved adjustment as "no
// adjustment needed" would understate the M-1.
func TaxAmount(policy classify.Policy, book decimal.Decimal, res Resolution) (decimal.Decimal, error) {
	switch policy {
	case classify.PolicyFullDeductibleChoice:
		switch res.Choice {
		case ChoiceFullyDeductible:
			return book, nil
		case ChoiceNotDeductible:
			return decimal.Zero, nil
		case ChoicePartial:
			if !res.HasAmount {
				return decimal.Zero, fmt.Errorf("policy %s: partial choice requires an entered amount", policy)
			}
			return res.Amount, nil
		case "":
			return decimal.Zero, fmt.Errorf("policy %s: resolution choice is required", policy)
		default:
			return decimal.Zero, fmt.Errorf("policy %s: invalid choice %q", policy, res.Choice)
		}

	case classify.PolicyMeals:
		switch res.Choice {
		case ChoiceHalfDeductible:
			return book.Mul(half), nil
		case ChoiceCustom:
			if !res.HasAmount {
				return decimal.Zero, fmt.Errorf("policy %s: custom choice requires an entered amount", policy)
			}
			return res.Amount, nil
		case "":
			return decimal.Zero, fmt.Errorf("policy %s: resolution choice is required", policy)
		default:
			return decimal.Zero, fmt.Errorf("policy %s: invalid choice %q", policy, res.Choice)
		}

	case classify.PolicyNondeductible:
		return decimal.Zero, nil

	case classify.PolicyManualEntry:
		if !res.HasAmount {
			return decimal.Zero, fmt.Errorf("policy %s: entered amount is required", policy)
		}
		return res.Amount, nil

	default:
		return decimal.Zero, fmt.Errorf("unknown policy %q", policy)
	}
}

// Build resolves one classified account into an Adjustment record.
// adjustment = book - tax always; the type is Permanent exactly when the
// policy is nondeductible.
func Build(acct model.AccountRecord, cls classify.Classification, res Resolution) (model.Adjustment, error) {
	tax, err := TaxAmount(cls.Policy, acct.Amount, res)
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("resolving %q: %w", acct.Description, err)
	}

	adjType := model.AdjustmentTemporary
	if cls.Policy == classify.PolicyNondeductible {
		adjType = model.AdjustmentPermanent
	}

	return model.Adjustment{
		ID:         uuid.NewString(),
		AccountRef: acct.Description,
		BookAmount: acct.Amount,
		TaxAmount:  tax,
		Adjustment: acct.Amount.Sub(tax),
		Type:       adjType,
		Category:   cls.Category,
	}, nil
}
