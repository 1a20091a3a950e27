package adjust

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxprep-dev/taxprep/internal/classify"
	"github.com/taxprep-dev/taxprep/internal/model"
)

// Proposal is one classifier hit awaiting the preparer's resolution. The
// choice and deductible-amount columns are written blank and filled in by
// hand before reconciliation.
type Proposal struct {
	Account    string
	BookAmount decimal.Decimal
	Category   string
	Policy     classify.Policy
	Resolution Resolution
}

// Propose scans a trial balance and returns one Proposal per classified
// account, in trial balance order.
func Propose(tb []model.AccountRecord) []Proposal {
	var proposals []Proposal
	for _, acct := range tb {
		cls, ok := classify.Classify(acct)
		if !ok {
			continue
		}
		proposals = append(proposals, Proposal{
			Account:    acct.Description,
			BookAmount: acct.Amount,
			Category:   cls.Category,
			Policy:     cls.Policy,
		})
	}
	return proposals
}

// BuildAll resolves proposals into Adjustment records. Any proposal with
// a missing or invalid resolution fails the whole batch.
func BuildAll(proposals []Proposal) ([]model.Adjustment, error) {
	adjustments := make([]model.Adjustment, 0, len(proposals))
	for _, p := range proposals {
		acct := model.AccountRecord{Description: p.Account, Amount: p.BookAmount}
		cls := classify.Classification{Category: p.Category, Policy: p.Policy}
		adj, err := Build(acct, cls, p.Resolution)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

// ProposalHeader is the CSV header for proposed-adjustments.csv.
const ProposalHeader = "account,book_amount,category,policy,choice,deductible_amount"

const (
	proposalNumFields = 6
	propColAccount    = 0
	propColBook       = 1
	propColCategory   = 2
	propColPolicy     = 3
	propColChoice     = 4
	propColAmount     = 5
)

// ReadProposals reads a proposed-adjustments CSV, including any
// resolutions the preparer has filled in.
func ReadProposals(r io.Reader) ([]Proposal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = proposalNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading proposals CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var proposals []Proposal
	for i, rec := range records[1:] {
		p, err := unmarshalProposal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// WriteProposals writes proposals (including header) to w.
func WriteProposals(w io.Writer, proposals []Proposal) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ProposalHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range proposals {
		if err := cw.Write(marshalProposal(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalProposal(p Proposal) []string {
	row := make([]string, proposalNumFields)
	row[propColAccount] = p.Account
	row[propColBook] = p.BookAmount.StringFixed(2)
	row[propColCategory] = p.Category
	row[propColPolicy] = string(p.Policy)
	row[propColChoice] = string(p.Resolution.Choice)
	if p.Resolution.HasAmount {
		row[propColAmount] = p.Resolution.Amount.StringFixed(2)
	}
	return row
}

func unmarshalProposal(record []string) (Proposal, error) {
	if len(record) != proposalNumFields {
		return Proposal{}, fmt.Errorf("expected %d fields, got %d", proposalNumFields, len(record))
	}

	book, err := decimal.NewFromString(record[propColBook])
	if err != nil {
		return Proposal{}, fmt.Errorf("parsing book_amount %q: %w", record[propColBook], err)
	}

	choice, err := ParseChoice(record[propColChoice])
	if err != nil {
		return Proposal{}, err
	}

	res := Resolution{Choice: choice}
	if amt := strings.TrimSpace(record[propColAmount]); amt != "" {
		res.Amount, err = decimal.NewFromString(amt)
		if err != nil {
			return Proposal{}, fmt.Errorf("parsing deductible_amount %q: %w", amt, err)
		}
		res.HasAmount = true
	}

	return Proposal{
		Account:    record[propColAccount],
		BookAmount: book,
		Category:   record[propColCategory],
		Policy:     classify.Policy(record[propColPolicy]),
		Resolution: res,
	}, nil
}

// LedgerHeader is the CSV header for the computed adjustment ledger.
const LedgerHeader = "id,account,book_amount,tax_amount,adjustment,adjustment_type,category"

const (
	ledgerNumFields = 7
	ledColID        = 0
	ledColAccount   = 1
	ledColBook      = 2
	ledColTax       = 3
	ledColAdj       = 4
	ledColType      = 5
	ledColCategory  = 6
)

// ReadLedger reads a computed adjustment ledger CSV.
func ReadLedger(r io.Reader) ([]model.Adjustment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ledgerNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var adjustments []model.Adjustment
	for i, rec := range records[1:] {
		adj, err := unmarshalAdjustment(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

// WriteLedger writes the adjustment ledger (including header) to w.
func WriteLedger(w io.Writer, adjustments []model.Adjustment) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LedgerHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, adj := range adjustments {
		if err := cw.Write(marshalAdjustment(adj)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalAdjustment(adj model.Adjustment) []string {
	row := make([]string, ledgerNumFields)
	row[ledColID] = adj.ID
	row[ledColAccount] = adj.AccountRef
	row[ledColBook] = adj.BookAmount.StringFixed(2)
	row[ledColTax] = adj.TaxAmount.StringFixed(2)
	row[ledColAdj] = adj.Adjustment.StringFixed(2)
	row[ledColType] = string(adj.Type)
	row[ledColCategory] = adj.Category
	return row
}

func unmarshalAdjustment(record []string) (model.Adjustment, error) {
	if len(record) != ledgerNumFields {
		return model.Adjustment{}, fmt.Errorf("expected %d fields, got %d", ledgerNumFields, len(record))
	}

	book, err := decimal.NewFromString(record[ledColBook])
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("parsing book_amount %q: %w", record[ledColBook], err)
	}
	tax, err := decimal.NewFromString(record[ledColTax])
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("parsing tax_amount %q: %w", record[ledColTax], err)
	}
	adj, err := decimal.NewFromString(record[ledColAdj])
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("parsing adjustment %q: %w", record[ledColAdj], err)
	}

	return model.Adjustment{
		ID:         record[ledColID],
		AccountRef: record[ledColAccount],
		BookAmount: book,
		TaxAmount:  tax,
		Adjustment: adj,
		Type:       model.AdjustmentType(record[ledColType]),
		Category:   record[ledColCategory],
	}, nil
}
