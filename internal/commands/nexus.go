package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taxprep-dev/taxprep/internal/nexus"
)

func newNexusCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "nexus <state-activity.csv>",
		Short: "Evaluate state nexus and apportionment from activity data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNexus(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "nexus-report.csv", "output report CSV")

	return cmd
}

func runNexus(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening state activity: %w", err)
	}
	defer f.Close()

	inputs, err := nexus.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("reading state activity: %w", err)
	}

	results := nexus.Evaluate(inputs)

	if err := writeCSVFile(outPath, func(out *os.File) error {
		return nexus.WriteReport(out, results)
	}); err != nil {
		return err
	}

	filings := 0
	for _, r := range results {
		if r.FilingRequired {
			filings++
		}
	}
	fmt.Printf("Evaluated %d states, %d require filing -> %s\n", len(results), filings, outPath)
	return nil
}
