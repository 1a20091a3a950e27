package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/taxprep-dev/taxprep/internal/auditlog"
)

const testTB = `account_number,description,amount,type
100,Sales Revenue,-10000,income
200,Business Meals,1000,expense
300,IRS Penalty,200,expense
400,Office Supplies,300,expense
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProposeWritesProposals(t *testing.T) {
	dir := t.TempDir()
	tbPath := writeFile(t, dir, "tb.csv", testTB)
	outPath := filepath.Join(dir, "proposals.csv")

	require.NoError(t, runPropose(tbPath, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Business Meals,1000.00,Meals and Entertainment,meals_policy")
	assert.Contains(t, out, "IRS Penalty,200.00,Penalties,nondeductible")
	assert.NotContains(t, out, "Office Supplies")
}

func TestProposeMissingTrialBalance(t *testing.T) {
	err := runPropose(filepath.Join(t.TempDir(), "nope.csv"), "unused.csv")
	assert.ErrorContains(t, err, "reading trial balance")
}

func TestReconcilePipeline(t *testing.T) {
	dir := t.TempDir()
	tbPath := writeFile(t, dir, "tb.csv", testTB)
	proposalsPath := writeFile(t, dir, "proposals.csv",
		`account,book_amount,category,policy,choice,deductible_amount
Business Meals,1000.00,Meals and Entertainment,meals_policy,fifty_percent,
IRS Penalty,200.00,Penalties,nondeductible,not_deductible,
`)
	mappingPath := writeFile(t, dir, "mapping.csv",
		`account_number,account_name,tax_line
200,Business Meals,Meals and entertainment subject to 50% limit
`)

	opts := reconcileOptions{
		tbPath:        tbPath,
		mappingPath:   mappingPath,
		proposalsPath: proposalsPath,
		outPath:       filepath.Join(dir, "adjusted-tb.csv"),
		ledgerPath:    filepath.Join(dir, "adjustments.csv"),
		algorithm:     "lexical",
		auditDir:      filepath.Join(dir, "logs"),
	}
	require.NoError(t, runReconcile(newReconcileCommand(), opts))

	adjusted, err := os.ReadFile(opts.outPath)
	require.NoError(t, err)
	out := string(adjusted)
	assert.Contains(t, out, "Business Meals")
	assert.Contains(t, out, "Meals and entertainment subject to 50% limit")
	assert.Contains(t, out, "Offset - Business Meals")
	assert.Contains(t, out, "Offset - IRS Penalty")

	ledger, err := os.ReadFile(opts.ledgerPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(ledger)), "\n")
	require.Len(t, lines, 3)

	entries, err := auditlog.Read(opts.auditDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "reconcile", entries[0].Action)
}

func TestReconcileUnresolvedProposalFails(t *testing.T) {
	dir := t.TempDir()
	tbPath := writeFile(t, dir, "tb.csv", testTB)
	proposalsPath := writeFile(t, dir, "proposals.csv",
		`account,book_amount,category,policy,choice,deductible_amount
Business Meals,1000.00,Meals and Entertainment,meals_policy,,
`)

	opts := reconcileOptions{
		tbPath:        tbPath,
		proposalsPath: proposalsPath,
		outPath:       filepath.Join(dir, "adjusted-tb.csv"),
		ledgerPath:    filepath.Join(dir, "adjustments.csv"),
		algorithm:     "lexical",
		auditDir:      filepath.Join(dir, "logs"),
	}
	err := runReconcile(newReconcileCommand(), opts)
	assert.Error(t, err)
}

func TestExportWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	tbPath := writeFile(t, dir, "tb.csv", testTB)
	ledgerPath := writeFile(t, dir, "adjustments.csv",
		`id,account,book_amount,tax_amount,adjustment,adjustment_type,category
a1b2,IRS Penalty,200.00,0.00,200.00,Permanent,Penalties
`)

	opts := exportOptions{
		tbPath:     tbPath,
		ledgerPath: ledgerPath,
		outPath:    filepath.Join(dir, "workpaper.xlsx"),
		algorithm:  "lexical",
		client:     "Acme LLC",
		year:       "2023",
		auditDir:   filepath.Join(dir, "logs"),
	}
	require.NoError(t, runExport(opts))

	f, err := excelize.OpenFile(opts.outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "M-1 Summary")
	assert.Contains(t, f.GetSheetList(), "Adjusted TB")

	entries, err := auditlog.Read(opts.auditDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "export", entries[0].Action)
}

func TestNexusReport(t *testing.T) {
	dir := t.TempDir()
	inPath := writeFile(t, dir, "states.csv",
		`State,Revenue,Payroll
CA,600000,0
NY,100000,10000
`)
	outPath := filepath.Join(dir, "report.csv")

	require.NoError(t, runNexus(inPath, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CA")
	assert.Contains(t, string(data), "NY")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"propose", "reconcile", "export", "nexus", "serve"})
}
