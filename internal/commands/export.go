package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxprep-dev/taxprep/internal/adjust"
	"github.com/taxprep-dev/taxprep/internal/auditlog"
	"github.com/taxprep-dev/taxprep/internal/reconcile"
	"github.com/taxprep-dev/taxprep/internal/trialbalance"
	"github.com/taxprep-dev/taxprep/internal/workpaper"
)

func newExportCommand() *cobra.Command {
	var ledgerPath string
	var mappingPath string
	var out string
	var algorithm string
	var client string
	var year string
	var auditDir string

	cmd := &cobra.Command{
		Use:   "export <trial-balance>",
		Short: "Export the multi-sheet M-1 workpaper workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(exportOptions{
				tbPath:      args[0],
				ledgerPath:  ledgerPath,
				mappingPath: mappingPath,
				outPath:     out,
				algorithm:   algorithm,
				client:      client,
				year:        year,
				auditDir:    auditDir,
			})
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "adjustments.csv", "adjustment ledger CSV")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "tax line mapping file (csv or xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "workpaper.xlsx", "output workbook")
	cmd.Flags().StringVar(&algorithm, "matcher", "lexical", "tax line matching algorithm (lexical or cosine)")
	cmd.Flags().StringVar(&client, "client", "", "client name for the General Information sheet")
	cmd.Flags().StringVar(&year, "year", "", "tax year for the General Information sheet")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "logs", "audit log directory")

	return cmd
}

type exportOptions struct {
	tbPath      string
	ledgerPath  string
	mappingPath string
	outPath     string
	algorithm   string
	client      string
	year        string
	auditDir    string
}

func runExport(opts exportOptions) error {
	tb, err := trialbalance.ReadFile(opts.tbPath)
	if err != nil {
		return fmt.Errorf("reading trial balance: %w", err)
	}

	lf, err := os.Open(opts.ledgerPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer lf.Close()

	adjustments, err := adjust.ReadLedger(lf)
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}

	matcher, err := newMatcher(opts.algorithm, opts.mappingPath)
	if err != nil {
		return err
	}

	rows := reconcile.Apply(tb, adjustments, matcher)

	info := workpaper.Info{ClientName: opts.client, TaxYear: opts.year}
	if err := workpaper.WriteFile(opts.outPath, info, tb, adjustments, rows); err != nil {
		return fmt.Errorf("writing workpaper: %w", err)
	}

	if err := auditlog.Append(opts.auditDir, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		User:      currentUser(),
		Action:    "export",
		Details:   fmt.Sprintf("%s -> %s", opts.tbPath, opts.outPath),
	}}); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	fmt.Printf("Exported workpaper with %d adjustments -> %s\n", len(adjustments), opts.outPath)
	return nil
}
