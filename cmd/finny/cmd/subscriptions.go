package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// subscriptionsCmd represents the subscriptions command.
var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Detect monthly subscriptions",
	Long: `Detect sources that charge the same amount on the same day every month.

A source qualifies when all of its transactions in the range fall on the
same day of the month, on different dates, with the same amount. Widen the
range with --start to see more than one charge per source.

Example:
  finny subscriptions --start 2024-01-01`,
	Run: runSubscriptions,
}

func runSubscriptions(cmd *cobra.Command, args []string) {
	p := loadPipeline()

	res, err := p.run(cmd.Context())
	exitOnError(err, "failed to parse messages")

	exitOnError(writeSubscriptions(os.Stdout, res.records, p.converter, p.loc), "failed to compute subscriptions")
	exitOnError(p.finish(), "failed to write metrics")
}
