// =============================================================================
// KCD2 Item Exporter - Export Command
// =============================================================================
//
// This file defines the 'export' command, which converts every item file in
// the input directory into one Excel workbook.
//
// COMMAND USAGE:
//   kcd2items export [flags]
//
// FLAGS:
//   --input-dir, -i : Directory searched for item files
//   --pattern       : Input file pattern, relative to the input directory
//   --output, -o    : Workbook to write
//   --encoding      : Text encoding of the item files
//
// The same flags are accepted by the root command and by 'watch'.
//
// =============================================================================

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kcd2items/internal/config"
	"github.com/ginjaninja78/kcd2items/internal/converter"
	"github.com/ginjaninja78/kcd2items/internal/xlsxwriter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputDir     string
	inputPattern string
	outputFile   string
	encoding     string
)

// =============================================================================
// EXPORT COMMAND DEFINITION
// =============================================================================

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert item files into an Excel workbook",
	Long: `The export command finds every item file in the input directory, in name
order, and writes them to a single workbook: one worksheet per file, titled
with the file name, holding one table per section.

Files without any item lines are reported and skipped. A file that cannot be
read stops the export and no workbook is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout(), appConfig)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addExportFlags(exportCmd)
}

// addExportFlags registers the input/output overrides on cmd.
func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "Directory searched for item files")
	cmd.Flags().StringVar(&inputPattern, "pattern", "", "Input file pattern (default item*.txt)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Workbook to write (default KCD2Items.xlsx)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Text encoding of the item files (default UTF-8)")
}

// applyExportFlags copies the flags the user set onto cfg. Commands that do
// not register the flags are left untouched.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir = inputDir
	}
	if flags.Changed("pattern") {
		cfg.InputPattern = inputPattern
	}
	if flags.Changed("output") {
		cfg.OutputFile = outputFile
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encoding
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// newExporter wires the converter to an excelize workbook.
func newExporter(cfg *config.Config, out io.Writer) *converter.Exporter {
	return converter.New(cfg, out, func(runID string) (converter.DocumentSink, error) {
		w, err := xlsxwriter.New(xlsxwriter.OptionsFromConfig(cfg, runID))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}

// runExport performs one export and prints its console notices to out.
func runExport(ctx context.Context, out io.Writer, cfg *config.Config) error {
	_, err := newExporter(cfg, out).Export(ctx)
	return err
}
