package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Header is the CSV header for flattened extraction output.
const Header = "Account Number,Account Description,Book Amount,Adjustment,TR Amount,Source"

// WriteCSV writes extracted rows (including header) to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		rec := []string{
			r.AccountNumber,
			r.Description,
			r.BookAmount.StringFixed(2),
			r.Adjustment.StringFixed(2),
			r.TRAmount.StringFixed(2),
			r.Source,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
