package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/affanshahid/finny/pkg/messages"
)

var exportPath string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the selected messages to a YAML file",
	Long: `Save the messages of the selected contacts and range to a YAML file.

Point FINNY_MESSAGES_FILE at the file to run reports without access to
the Messages database, e.g. on another machine or in tests.

Example:
  finny export --out messages.yml --start 2024-01-01`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "out", "", "output file (required)")
	if err := exportCmd.MarkFlagRequired("out"); err != nil {
		panic(err)
	}
}

func runExport(cmd *cobra.Command, args []string) {
	p := loadPipeline()

	msgs, err := p.fetch(cmd.Context())
	exitOnError(err, "failed to fetch messages")

	exitOnError(p.paths.EnsureParentDir(exportPath), "failed to create output directory")
	exitOnError(messages.WriteFile(exportPath, msgs), "failed to export messages")

	slog.Info("Exported messages", "count", len(msgs), "path", exportPath)
	fmt.Printf("Exported %d messages to %s\n", len(msgs), exportPath)
}
