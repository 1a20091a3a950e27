package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// Header is the CSV header for the adjusted trial balance.
const Header = "account_number,description,amount,type,tax_adjustment,tax_balance,tax_line,dr_cr"

const (
	numFields  = 8
	colNumber  = 0
	colDesc    = 1
	colAmount  = 2
	colType    = 3
	colTaxAdj  = 4
	colTaxBal  = 5
	colTaxLine = 6
	colDRCR    = 7
)

// WriteRows writes an adjusted trial balance (including header) to w.
func WriteRows(w io.Writer, rows []model.AdjustedRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(marshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadRows reads an adjusted trial balance from r.
func ReadRows(r io.Reader) ([]model.AdjustedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading adjusted TB CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []model.AdjustedRow
	for i, rec := range records[1:] {
		row, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func marshalRow(row model.AdjustedRow) []string {
	rec := make([]string, numFields)
	rec[colNumber] = row.Number
	rec[colDesc] = row.Description
	rec[colAmount] = row.Amount.StringFixed(2)
	rec[colType] = string(row.Type)
	rec[colTaxAdj] = row.TaxAdjustment.StringFixed(2)
	rec[colTaxBal] = row.TaxBalance.StringFixed(2)
	rec[colTaxLine] = row.TaxLine
	rec[colDRCR] = row.DebitCredit
	return rec
}

func unmarshalRow(record []string) (model.AdjustedRow, error) {
	if len(record) != numFields {
		return model.AdjustedRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.AdjustedRow{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	taxAdj, err := decimal.NewFromString(record[colTaxAdj])
	if err != nil {
		return model.AdjustedRow{}, fmt.Errorf("parsing tax_adjustment %q: %w", record[colTaxAdj], err)
	}
	taxBal, err := decimal.NewFromString(record[colTaxBal])
	if err != nil {
		return model.AdjustedRow{}, fmt.Errorf("parsing tax_balance %q: %w", record[colTaxBal], err)
	}

	return model.AdjustedRow{
		AccountRecord: model.AccountRecord{
			Number:      record[colNumber],
			Description: record[colDesc],
			Amount:      amount,
			Type:        model.AccountType(record[colType]),
		},
		TaxAdjustment: taxAdj,
		TaxBalance:    taxBal,
		TaxLine:       record[colTaxLine],
		DebitCredit:   record[colDRCR],
	}, nil
}
