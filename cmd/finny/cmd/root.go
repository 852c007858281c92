// Package cmd provides CLI commands for finny.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	envFile        string
	matcherFile    string
	contacts       []string
	excludeSources []string
	startDate      string
	endDate        string
	currencyCode   string
	metricsFile    string
	workers        int
	debug          bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finny",
	Short: "Turn bank alert messages into transactions, totals and subscriptions",
	Long: `finny reads bank and card alerts from the macOS Messages database,
extracts transactions from them with configurable patterns and reports on
them in a single currency.

It supports:
- Listing transactions, optionally as Beancount entries
- Totals per source
- Detecting monthly subscriptions
- Looking up the raw messages behind a source

Example:
  finny transactions --start 2024-01-01 --end 2024-01-31
  finny totals --exclude-sources "Bill Payment"
  finny subscriptions --currency USD`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug || os.Getenv("DEBUG") == "true" {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})).With("run_id", uuid.NewString())
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env", "", "env file (default is .env)")
	flags.StringVar(&matcherFile, "config", "", "matcher config file (default is $FINNY_CONFIG or ./config.yml)")
	flags.StringSliceVar(&contacts, "contacts", nil, "senders to read messages from (default is $FINNY_CONTACTS)")
	flags.StringSliceVar(&excludeSources, "exclude-sources", nil, "sources to leave out (default is $FINNY_EXCLUDE_SOURCES)")
	flags.StringVar(&startDate, "start", "", "start of the range, YYYY-MM-DD or RFC3339 (default is 3 months ago)")
	flags.StringVar(&endDate, "end", "", "end of the range, YYYY-MM-DD or RFC3339 (default is now)")
	flags.StringVar(&currencyCode, "currency", "", "reporting currency (default is $FINNY_CURRENCY)")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	flags.IntVar(&workers, "workers", 0, "messages parsed in parallel (default is $FINNY_WORKERS)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(subscriptionsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(exportCmd)
}

// Helper function to get the env file path.
func getEnvFile() string {
	return envFile
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
