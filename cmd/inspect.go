// =============================================================================
// KCD2 Item Exporter - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which reads a workbook written by
// the exporter and prints its worksheets and section tables.
//
// COMMAND USAGE:
//   kcd2items inspect [workbook]
//
// OUTPUT:
//   Workbook: KCD2Items.xlsx
//   Run ID:   3f0c...
//
//   Sheet: item_weapons (Data from item_weapons.txt)
//     Swords: 2 row(s) [Name, ItemId, damage, weight]
//     Misc: 1 row(s) [Name, ItemId, light]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kcd2items/internal/xlsxreader"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [workbook]",
	Short: "Show the worksheets and sections of an exported workbook",
	Long: `The inspect command opens a workbook written by export and lists every
worksheet with its title and, for each section table, the row count and
column headers. Without an argument the configured output file is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.OutputFile
		if len(args) == 1 {
			path = args[0]
		}
		return runInspect(cmd.OutOrStdout(), path)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// runInspect prints the structure of the workbook at path.
func runInspect(out io.Writer, path string) error {
	book, err := xlsxreader.Read(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Workbook: %s\n", book.Path)
	if book.Identifier != "" {
		fmt.Fprintf(out, "Run ID:   %s\n", book.Identifier)
	}

	for _, sheet := range book.Sheets {
		fmt.Fprintln(out)
		if sheet.Title != "" {
			fmt.Fprintf(out, "Sheet: %s (%s)\n", sheet.Name, sheet.Title)
		} else {
			fmt.Fprintf(out, "Sheet: %s\n", sheet.Name)
		}

		if len(sheet.Sections) == 0 {
			fmt.Fprintln(out, "  (no sections)")
			continue
		}
		for _, section := range sheet.Sections {
			fmt.Fprintf(out, "  %s: %d row(s) [%s]\n",
				section.Label, len(section.Rows), strings.Join(section.Headers, ", "))
		}
	}

	return nil
}
