package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/affanshahid/finny/pkg/process"
)

var (
	lookupSources      []string
	lookupFuzzySources []string
)

// lookupCmd represents the lookup command.
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Print the messages behind some sources",
	Long: `Print the raw messages that produced transactions for the given sources.

--sources matches sources exactly; --sources-fuzzy matches any source that
contains one of the values, ignoring case. When both are given a record
must pass both.

Example:
  finny lookup --sources Daraz
  finny lookup --sources-fuzzy netflix,spotify`,
	Run: runLookup,
}

func init() {
	lookupCmd.Flags().StringSliceVar(&lookupSources, "sources", nil, "exact sources to look up")
	lookupCmd.Flags().StringSliceVar(&lookupFuzzySources, "sources-fuzzy", nil, "source substrings to look up, case-insensitive")
}

func runLookup(cmd *cobra.Command, args []string) {
	if len(lookupSources) == 0 && len(lookupFuzzySources) == 0 {
		exitOnError(errors.New("pass --sources or --sources-fuzzy"), "nothing to look up")
	}

	p := loadPipeline()

	res, err := p.run(cmd.Context())
	exitOnError(err, "failed to parse messages")

	records := res.records
	if len(lookupSources) > 0 {
		records = process.FilterInclude(records, lookupSources)
	}
	if len(lookupFuzzySources) > 0 {
		records = process.FilterFuzzyInclude(records, lookupFuzzySources)
	}

	exitOnError(writeLookup(os.Stdout, records, res.messages, p.loc), "failed to write messages")
	exitOnError(p.finish(), "failed to write metrics")
}
