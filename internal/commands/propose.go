package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taxprep-dev/taxprep/internal/adjust"
	"github.com/taxprep-dev/taxprep/internal/trialbalance"
)

func newProposeCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "propose <trial-balance>",
		Short: "Scan a trial balance and propose M-1 adjustments for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropose(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "proposals.csv", "output proposal CSV")

	return cmd
}

func runPropose(tbPath, outPath string) error {
	tb, err := trialbalance.ReadFile(tbPath)
	if err != nil {
		return fmt.Errorf("reading trial balance: %w", err)
	}

	proposals := adjust.Propose(tb)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := adjust.WriteProposals(f, proposals); err != nil {
		return fmt.Errorf("writing proposals: %w", err)
	}

	fmt.Printf("Proposed %d adjustments from %d accounts -> %s\n", len(proposals), len(tb), outPath)
	fmt.Println("Fill in the choice and deductible_amount columns, then run: taxprep reconcile")
	return nil
}
