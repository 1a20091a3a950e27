package classify

import (
	"strings"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// Policy names how an adjustment's tax amount gets resolved.
type Policy string

const (
	// PolicyFullDeductibleChoice asks the preparer to pick fully
	// deductible, not deductible, or a partial amount.
	PolicyFullDeductibleChoice Policy = "full_deductible_choice"
	// PolicyMeals applies the 50% limitation unless a custom amount is
	// entered.
	PolicyMeals Policy = "meals_policy"
	// PolicyNondeductible fixes the tax amount at zero.
	PolicyNondeductible Policy = "nondeductible"
	// PolicyManualEntry takes the preparer's amount verbatim.
	PolicyManualEntry Policy = "manual_entry"
)

// Classification pairs an M-1 category with its resolution policy.
type Classification struct {
	Category string
	Policy   Policy
}

// Rule is one keyword predicate in the classifier.
type Rule struct {
	Match    func(desc string, accountType model.AccountType) bool
	Category string
	Policy   Policy
}

// Rules is the classifier's rule table, evaluated top-down against the
// lower-cased description; the first hit wins and later rules are not
// evaluated. Downstream adjustment types depend on this order (e.g.
// "meals" must fire before "entertainment" for accounts naming both), so
// treat it as a fixed constant.
var Rules = []Rule{
	{keyword("insurance"), "Prepaid Insurance", PolicyFullDeductibleChoice},
	{keyword("meals"), "Meals and Entertainment", PolicyMeals},
	{keyword("entertainment"), "Entertainment", PolicyNondeductible},
	{expenseKeyword("depreciation"), "Depreciation", PolicyManualEntry},
	{expenseKeyword("amortization"), "Amortization", PolicyManualEntry},
	{anyKeyword("rent", "accrued"), "Accrued Expenses", PolicyFullDeductibleChoice},
	{anyKeyword("penalty", "fine"), "Penalties", PolicyNondeductible},
	{keyword("federal tax"), "Federal Tax", PolicyNondeductible},
}

// Classify returns the account's classification, or ok=false when no
// rule matches. Unmatched accounts are simply absent from the proposed
// adjustment set; the preparer may still add a manual entry.
func Classify(acct model.AccountRecord) (Classification, bool) {
	desc := strings.ToLower(acct.Description)
	for _, r := range Rules {
		if r.Match(desc, acct.Type) {
			return Classification{Category: r.Category, Policy: r.Policy}, true
		}
	}
	return Classification{}, false
}

func keyword(kw string) func(string, model.AccountType) bool {
	return func(desc string, _ model.AccountType) bool {
		return strings.Contains(desc, kw)
	}
}

func anyKeyword(kws ...string) func(string, model.AccountType) bool {
	return func(desc string, _ model.AccountType) bool {
		for _, kw := range kws {
			if strings.Contains(desc, kw) {
				return true
			}
		}
		return false
	}
}

func expenseKeyword(kw string) func(string, model.AccountType) bool {
	return func(desc string, accountType model.AccountType) bool {
		return strings.Contains(desc, kw) && accountType == model.AccountTypeExpense
	}
}
