package trialbalance

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// Header is the CSV header written for trial balance exports.
const Header = "account_number,description,amount,type"

// ReadCSV reads a trial balance CSV. The first row must be a header;
// column positions are resolved by name, not index.
func ReadCSV(r io.Reader) ([]model.AccountRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated, columns resolve by header

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trial balance CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	var tb []model.AccountRecord
	for i, rec := range records[1:] {
		acct, err := cols.record(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if acct.Description == "" {
			continue
		}
		tb = append(tb, acct)
	}
	return tb, nil
}

// WriteCSV writes a trial balance (including header) to w.
func WriteCSV(w io.Writer, tb []model.AccountRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range tb {
		row := []string{acct.Number, acct.Description, acct.Amount.StringFixed(2), string(acct.Type)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
