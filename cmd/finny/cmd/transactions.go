package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	showMatcher bool
	asBeancount bool
)

// transactionsCmd represents the transactions command.
var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions",
	Long: `List every transaction found in the messages of the selected range.

Amounts are converted to the reporting currency; debits are negative.
With --beancount the original amounts are printed as Beancount entries.

Example:
  finny transactions --start 2024-01-01
  finny transactions -p
  finny transactions --beancount > 2024-01.beancount`,
	Run: runTransactions,
}

func init() {
	transactionsCmd.Flags().BoolVarP(&showMatcher, "show-matcher", "p", false, "show the matcher that produced each transaction")
	transactionsCmd.Flags().BoolVar(&asBeancount, "beancount", false, "print Beancount entries instead of a table")
}

func runTransactions(cmd *cobra.Command, args []string) {
	p := loadPipeline()

	res, err := p.run(cmd.Context())
	exitOnError(err, "failed to parse messages")

	if asBeancount {
		err = p.ledger.Write(os.Stdout, res.records)
	} else {
		err = writeTransactions(os.Stdout, res.records, p.converter, p.loc, showMatcher)
	}
	exitOnError(err, "failed to write transactions")

	exitOnError(p.finish(), "failed to write metrics")
	slog.Debug("Transactions listed", "count", len(res.records))
}
