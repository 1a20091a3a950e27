package nexus

// Formula selects the apportionment method a state applies.
type Formula string

const (
	FormulaSales       Formula = "sales"
	FormulaPayroll     Formula = "payroll"
	FormulaThreeFactor Formula = "three_factor"
)

// Rule holds one state's economic nexus thresholds and apportionment
// formula. Dollar thresholds are whole dollars.
type Rule struct {
	RevenueThreshold int64
	PayrollThreshold int64
	Formula          Formula
}

// DefaultRule applies to states absent from the table.
var DefaultRule = Rule{RevenueThreshold: 500000, PayrollThreshold: 50000, Formula: FormulaSales}

// Rules is the per-state threshold table.
var Rules = map[string]Rule{
	"AL": {500000, 50000, FormulaThreeFactor},
	"AK": {100000, 10000, FormulaThreeFactor},
	"AZ": {200000, 25000, FormulaSales},
	"AR": {500000, 50000, FormulaSales},
	"CA": {69000, 69000, FormulaSales},
	"CO": {500000, 50000, FormulaSales},
	"CT": {500000, 50000, FormulaThreeFactor},
	"DE": {100000, 5000, FormulaThreeFactor},
	"FL": {500000, 50000, FormulaSales},
	"GA": {250000, 25000, FormulaSales},
	"HI": {100000, 10000, FormulaThreeFactor},
	"ID": {100000, 10000, FormulaThreeFactor},
	"IL": {100000, 10000, FormulaSales},
	"IN": {100000, 10000, FormulaSales},
	"IA": {100000, 10000, FormulaThreeFactor},
	"KS": {500000, 50000, FormulaSales},
	"KY": {500000, 50000, FormulaSales},
	"LA": {500000, 50000, FormulaThreeFactor},
	"ME": {250000, 25000, FormulaSales},
	"MD": {100000, 10000, FormulaSales},
	"MA": {500000, 50000, FormulaThreeFactor},
	"MI": {350000, 10000, FormulaSales},
	"MN": {500000, 50000, FormulaSales},
	"MS": {500000, 50000, FormulaThreeFactor},
	"MO": {500000, 50000, FormulaSales},
	"MT": {500000, 50000, FormulaThreeFactor},
	"NE": {500000, 50000, FormulaSales},
	"NV": {100000, 10000, FormulaSales},
	"NH": {200000, 25000, FormulaThreeFactor},
	"NJ": {100000, 10000, FormulaSales},
	"NM": {500000, 50000, FormulaSales},
	"NY": {1000000, 10000, FormulaSales},
	"NC": {500000, 50000, FormulaSales},
	"ND": {500000, 50000, FormulaSales},
	"OH": {500000, 50000, FormulaSales},
	"OK": {500000, 50000, FormulaSales},
	"OR": {750000, 50000, FormulaThreeFactor},
	"PA": {500000, 50000, FormulaSales},
	"RI": {500000, 50000, FormulaThreeFactor},
	"SC": {500000, 50000, FormulaSales},
	"SD": {100000, 10000, FormulaSales},
	"TN": {500000, 50000, FormulaSales},
	"TX": {500000, 50000, FormulaSales},
	"UT": {500000, 50000, FormulaSales},
	"VT": {500000, 50000, FormulaThreeFactor},
	"VA": {100000, 10000, FormulaSales},
	"WA": {100000, 10000, FormulaSales},
	"WV": {100000, 10000, FormulaThreeFactor},
	"WI": {500000, 50000, FormulaSales},
	"WY": {100000, 10000, FormulaSales},
}

// RuleFor returns the state's rule, falling back to DefaultRule.
func RuleFor(state string) Rule {
	if r, ok := Rules[state]; ok {
		return r
	}
	return DefaultRule
}
