// Package nexus evaluates state filing obligations and income
// apportionment from per-state revenue and payroll figures.
package nexus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/trialbalance"
)

// StateInput is one state's revenue and payroll line.
type StateInput struct {
	State   string
	Revenue decimal.Decimal
	Payroll decimal.Decimal
}

// Result is the filing determination and apportionment for one state.
type Result struct {
	State          string
	Revenue        decimal.Decimal
	TotalRevenue   decimal.Decimal
	Payroll        decimal.Decimal
	TotalPayroll   decimal.Decimal
	Apportionment  decimal.Decimal // percentage, rounded to 2 places
	FilingRequired bool
}

// Evaluate determines, per state, whether either economic threshold is
// met and computes the apportionment percentage under the state's
// formula. Zero denominators apportion zero.
func Evaluate(inputs []StateInput) []Result {
	totalRevenue := decimal.Zero
	totalPayroll := decimal.Zero
	for _, in := range inputs {
		totalRevenue = totalRevenue.Add(in.Revenue)
		totalPayroll = totalPayroll.Add(in.Payroll)
	}

	hundred := decimal.NewFromInt(100)
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		rule := RuleFor(in.State)

		required := in.Revenue.GreaterThanOrEqual(decimal.NewFromInt(rule.RevenueThreshold)) ||
			in.Payroll.GreaterThanOrEqual(decimal.NewFromInt(rule.PayrollThreshold))

		var ratio decimal.Decimal
		switch rule.Formula {
		case FormulaSales:
			if !totalRevenue.IsZero() {
				ratio = in.Revenue.Div(totalRevenue)
			}
		case FormulaPayroll:
			if !totalPayroll.IsZero() {
				ratio = in.Payroll.Div(totalPayroll)
			}
		default: // three_factor
			if denom := totalRevenue.Add(totalPayroll); !denom.IsZero() {
				ratio = in.Revenue.Add(in.Payroll).Div(denom)
			}
		}

		results = append(results, Result{
			State:          in.State,
			Revenue:        in.Revenue,
			TotalRevenue:   totalRevenue,
			Payroll:        in.Payroll,
			TotalPayroll:   totalPayroll,
			Apportionment:  ratio.Mul(hundred).Round(2),
			FilingRequired: required,
		})
	}
	return results
}

// ReadCSV reads the state revenue/payroll input file. Expected header:
// State,Revenue,Payroll (order-insensitive, case-insensitive).
func ReadCSV(r io.Reader) ([]StateInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading state CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	stateCol, revenueCol, payrollCol := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "state":
			stateCol = i
		case "revenue":
			revenueCol = i
		case "payroll":
			payrollCol = i
		}
	}
	if stateCol == -1 || revenueCol == -1 || payrollCol == -1 {
		return nil, fmt.Errorf("state CSV needs State, Revenue, and Payroll columns, got %v", records[0])
	}

	var inputs []StateInput
	for i, rec := range records[1:] {
		if stateCol >= len(rec) || strings.TrimSpace(rec[stateCol]) == "" {
			continue
		}
		revenue, err := trialbalance.ParseAmount(rec[revenueCol])
		if err != nil {
			return nil, fmt.Errorf("row %d revenue: %w", i+2, err)
		}
		payroll, err := trialbalance.ParseAmount(rec[payrollCol])
		if err != nil {
			return nil, fmt.Errorf("row %d payroll: %w", i+2, err)
		}
		inputs = append(inputs, StateInput{
			State:   strings.ToUpper(strings.TrimSpace(rec[stateCol])),
			Revenue: revenue,
			Payroll: payroll,
		})
	}
	return inputs, nil
}

// ReportHeader is the CSV header for the nexus report.
const ReportHeader = "State,Revenue (Nominator),Revenue (Denominator),Payroll (Nominator),Payroll (Denominator),Apportionment %,Filing Required"

// WriteReport writes evaluation results (including header) to w.
func WriteReport(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ReportHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, res := range results {
		required := "No"
		if res.FilingRequired {
			required = "Yes"
		}
		rec := []string{
			res.State,
			res.Revenue.StringFixed(2),
			res.TotalRevenue.StringFixed(2),
			res.Payroll.StringFixed(2),
			res.TotalPayroll.StringFixed(2),
			res.Apportionment.StringFixed(2),
			required,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
