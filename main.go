// =============================================================================
// KCD2 Item Exporter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the KCD2 Item Exporter CLI. It hands
// control to the Cobra commands in the cmd package.
//
// USAGE:
//   kcd2items               - Export item*.txt to KCD2Items.xlsx
//   kcd2items watch         - Re-export whenever an item file changes
//   kcd2items inspect       - Show the contents of an exported workbook
//   kcd2items version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, grouping, workbook writing and reading
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/kcd2items/cmd"
)

func main() {
	cmd.Execute()
}
