package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// totalsCmd represents the totals command.
var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show totals per source",
	Long: `Show the total of every source in the reporting currency, most spent
first, and the grand total.

Example:
  finny totals --start 2024-01-01 --end 2024-03-31`,
	Run: runTotals,
}

func runTotals(cmd *cobra.Command, args []string) {
	p := loadPipeline()

	res, err := p.run(cmd.Context())
	exitOnError(err, "failed to parse messages")

	exitOnError(writeTotals(os.Stdout, res.records, p.converter), "failed to compute totals")
	exitOnError(p.finish(), "failed to write metrics")
}
