package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxprep-dev/taxprep/internal/adjust"
	"github.com/taxprep-dev/taxprep/internal/auditlog"
	"github.com/taxprep-dev/taxprep/internal/config"
	"github.com/taxprep-dev/taxprep/internal/mapping"
	"github.com/taxprep-dev/taxprep/internal/match"
	"github.com/taxprep-dev/taxprep/internal/model"
	"github.com/taxprep-dev/taxprep/internal/reconcile"
	"github.com/taxprep-dev/taxprep/internal/trialbalance"
)

func newReconcileCommand() *cobra.Command {
	var mappingPath string
	var proposalsPath string
	var out string
	var ledgerOut string
	var algorithm string
	var auditDir string

	cmd := &cobra.Command{
		Use:   "reconcile <trial-balance>",
		Short: "Apply resolved proposals and produce the adjusted trial balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, reconcileOptions{
				tbPath:        args[0],
				mappingPath:   mappingPath,
				proposalsPath: proposalsPath,
				outPath:       out,
				ledgerPath:    ledgerOut,
				algorithm:     algorithm,
				auditDir:      auditDir,
			})
		},
	}

	cmd.Flags().StringVar(&mappingPath, "mapping", "", "tax line mapping file (csv or xlsx)")
	cmd.Flags().StringVar(&proposalsPath, "proposals", "proposals.csv", "resolved proposal CSV")
	cmd.Flags().StringVarP(&out, "out", "o", "adjusted-tb.csv", "adjusted trial balance CSV")
	cmd.Flags().StringVar(&ledgerOut, "ledger", "adjustments.csv", "adjustment ledger CSV")
	cmd.Flags().StringVar(&algorithm, "matcher", "lexical", "tax line matching algorithm (lexical or cosine)")
	cmd.Flags().StringVar(&auditDir, "audit-dir", "logs", "audit log directory")

	return cmd
}

type reconcileOptions struct {
	tbPath        string
	mappingPath   string
	proposalsPath string
	outPath       string
	ledgerPath    string
	algorithm     string
	auditDir      string
}

func runReconcile(cmd *cobra.Command, opts reconcileOptions) error {
	tb, err := trialbalance.ReadFile(opts.tbPath)
	if err != nil {
		return fmt.Errorf("reading trial balance: %w", err)
	}

	matcher, err := newMatcher(opts.algorithm, opts.mappingPath)
	if err != nil {
		return err
	}

	pf, err := os.Open(opts.proposalsPath)
	if err != nil {
		return fmt.Errorf("opening proposals: %w", err)
	}
	defer pf.Close()

	proposals, err := adjust.ReadProposals(pf)
	if err != nil {
		return fmt.Errorf("reading proposals: %w", err)
	}

	adjustments, err := adjust.BuildAll(proposals)
	if err != nil {
		return err
	}

	rows := reconcile.Apply(tb, adjustments, matcher)

	if err := writeCSVFile(opts.outPath, func(f *os.File) error {
		return reconcile.WriteRows(f, rows)
	}); err != nil {
		return err
	}
	if err := writeCSVFile(opts.ledgerPath, func(f *os.File) error {
		return adjust.WriteLedger(f, adjustments)
	}); err != nil {
		return err
	}

	if err := reconcile.CheckBalanced(rows); err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}

	if err := auditlog.Append(opts.auditDir, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		User:      currentUser(),
		Action:    "reconcile",
		Details:   fmt.Sprintf("%s -> %s (%d adjustments)", opts.tbPath, opts.outPath, len(adjustments)),
	}}); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	fmt.Printf("Applied %d adjustments to %d accounts -> %s\n", len(adjustments), len(tb), opts.outPath)
	return nil
}

// newMatcher builds a tax line matcher from the selected algorithm and
// the optional mapping file. With no mapping file every tax line
// resolves to "".
func newMatcher(algorithm, mappingPath string) (*match.Matcher, error) {
	sim, err := config.MatcherConfig{Algorithm: algorithm}.Similarity()
	if err != nil {
		return nil, err
	}

	var entries []model.MappingEntry
	if mappingPath != "" {
		entries, err = mapping.ReadFile(mappingPath)
		if err != nil {
			return nil, fmt.Errorf("reading mapping: %w", err)
		}
	}
	return match.New(sim, entries), nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
