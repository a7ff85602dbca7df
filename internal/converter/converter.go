// =============================================================================
// KCD2 Item Exporter - Converter Module
// =============================================================================
//
// This module orchestrates one export run: every discovered item file becomes
// one worksheet in a single workbook.
//
// CONVERSION PIPELINE:
//   1. Discover item files in the input directory
//   2. For each file, in name order:
//      a. Parse the file into section-tagged records
//      b. Group records by section (first-seen order)
//      c. Lay each group out as a table
//      d. Render the title, section headers and tables into a new worksheet
//   3. Save the workbook
//
// Files are processed one at a time. A file with no item lines is skipped
// with a notice; a file that cannot be read aborts the run before anything
// is saved.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/kcd2items/internal/config"
	"github.com/ginjaninja78/kcd2items/internal/itemparser"
	"github.com/ginjaninja78/kcd2items/internal/logging"
	"github.com/ginjaninja78/kcd2items/internal/types"
	"github.com/ginjaninja78/kcd2items/pkg/utils"
)

// =============================================================================
// DOCUMENT SINK
// =============================================================================

// DocumentSink is the workbook the converter renders into. Rows and columns
// are 0-based.
type DocumentSink interface {
	// AddSheet creates a worksheet and returns the name it was given, which
	// may differ from name when name is invalid or already taken.
	AddSheet(name string) (string, error)

	// WriteTitle writes text merged across the first span columns of row 0.
	WriteTitle(sheet, text string, span int) error

	// WriteSectionHeader writes text merged across columns 0..lastCol of row.
	WriteSectionHeader(sheet string, row, lastCol int, text string) error

	// WriteTable writes the header row at row and the data rows below it.
	WriteTable(sheet string, row int, table types.Table) error

	// SaveAs writes the workbook to path.
	SaveAs(path string) error

	// Close releases the workbook.
	Close() error
}

// SinkFactory opens a new, empty DocumentSink for a run.
type SinkFactory func(runID string) (DocumentSink, error)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the input file.
	FilePath string

	// SheetName is the worksheet the file was rendered into.
	// This is empty if the file had no items.
	SheetName string

	// Sections is the number of section tables written.
	Sections int

	// Items is the number of item records parsed.
	Items int

	// SkippedLines counts item-like lines that did not parse.
	SkippedLines int

	// ProcessingTime is the time taken for this file.
	ProcessingTime time.Duration
}

// Written reports whether the file produced a worksheet.
func (r Result) Written() bool {
	return r.SheetName != ""
}

// Summary describes a whole export run.
type Summary struct {
	RunID      string
	StartTime  time.Time
	EndTime    time.Time
	OutputFile string

	// Saved is false when no input files were found.
	Saved bool

	// Replaced is true when Saved overwrote an existing workbook.
	Replaced bool

	Files []Result
}

// SheetsWritten counts files that produced a worksheet.
func (s *Summary) SheetsWritten() int {
	n := 0
	for _, r := range s.Files {
		if r.Written() {
			n++
		}
	}
	return n
}

// SkippedFiles counts files with no valid item lines.
func (s *Summary) SkippedFiles() int {
	return len(s.Files) - s.SheetsWritten()
}

// TotalItems sums item records across files.
func (s *Summary) TotalItems() int {
	n := 0
	for _, r := range s.Files {
		n += r.Items
	}
	return n
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter runs exports with a fixed configuration.
type Exporter struct {
	cfg     *config.Config
	out     io.Writer
	newSink SinkFactory
}

// New creates an Exporter.
//
// PARAMETERS:
//   - cfg: The exporter configuration.
//   - out: Where console notices are printed.
//   - newSink: Opens the workbook for each run.
func New(cfg *config.Config, out io.Writer, newSink SinkFactory) *Exporter {
	return &Exporter{cfg: cfg, out: out, newSink: newSink}
}

// Export discovers input files and runs the export over them.
func (e *Exporter) Export(ctx context.Context) (*Summary, error) {
	paths, err := utils.DiscoverInputFiles(e.cfg.InputDir, e.cfg.InputPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return e.Run(ctx, paths)
}

// Run exports the given files into one workbook.
//
// RETURNS:
//   - The run summary. When paths is empty nothing is written.
//   - An error if any file cannot be read or the workbook cannot be saved.
func (e *Exporter) Run(ctx context.Context, paths []string) (*Summary, error) {
	runID := utils.NewRunID()
	logger := logging.FromContext(ctx).With("run_id", runID)
	ctx = logging.WithLogger(ctx, logger)

	summary := &Summary{
		RunID:      runID,
		StartTime:  time.Now(),
		OutputFile: e.cfg.OutputFile,
	}

	if len(paths) == 0 {
		fmt.Fprintln(e.out, "No item text files found.")
		summary.EndTime = time.Now()
		return summary, nil
	}

	logger.Info("exporting item files", "files", len(paths), "output", e.cfg.OutputFile)

	sink, err := e.newSink(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}
	defer sink.Close()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := e.convertFile(ctx, sink, path)
		if err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, result)

		if !result.Written() {
			fmt.Fprintf(e.out, "No valid item lines found in %s.\n", path)
		}
	}

	summary.Replaced = utils.FileExists(e.cfg.OutputFile)
	if summary.Replaced {
		logger.Info("replacing existing workbook", "output", e.cfg.OutputFile)
	}

	if err := sink.SaveAs(e.cfg.OutputFile); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	summary.Saved = true
	summary.EndTime = time.Now()

	fmt.Fprintf(e.out, "Excel file saved as %s\n", e.cfg.OutputFile)
	logger.Info("export complete",
		"files", len(summary.Files),
		"sheets", summary.SheetsWritten(),
		"skipped", summary.SkippedFiles(),
		"items", summary.TotalItems(),
		"elapsed", summary.EndTime.Sub(summary.StartTime),
	)

	return summary, nil
}

// convertFile parses one file and renders it into its own worksheet.
func (e *Exporter) convertFile(ctx context.Context, sink DocumentSink, path string) (Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With("file", path)
	result := Result{FilePath: path}

	entries, stats, err := itemparser.ProcessFile(path, e.cfg.Encoding)
	if err != nil {
		return result, fmt.Errorf("failed to process %s: %w", path, err)
	}

	result.Items = len(entries)
	result.SkippedLines = stats.Skipped
	if len(entries) == 0 {
		logger.Warn("no valid item lines", "lines", stats.Lines, "skipped", stats.Skipped)
		return result, nil
	}

	tables := BuildTables(entries, e.cfg.MiscSection)

	sheet, err := RenderSheet(sink, path, tables, e.cfg.TitleSpanColumns)
	if err != nil {
		return result, fmt.Errorf("failed to render %s: %w", path, err)
	}

	result.SheetName = sheet
	result.Sections = len(tables)
	result.ProcessingTime = time.Since(start)

	logger.Debug("rendered worksheet",
		"sheet", sheet,
		"sections", result.Sections,
		"items", result.Items,
		"skipped_lines", result.SkippedLines,
	)
	return result, nil
}

// =============================================================================
// SHEET LAYOUT
// =============================================================================

// RenderSheet writes one file's tables into a new worksheet named after the
// file's base name without extension.
//
// LAYOUT (0-based rows):
//   row 0           "Data from <file name>" merged across span columns
//   row 2           "Section: <label>" merged across the table width
//   row 3           table header
//   rows 4..        one row per item
//   (blank row, then the next section header)
//
// RETURNS:
//   - The worksheet name actually used.
func RenderSheet(sink DocumentSink, path string, tables []types.Table, span int) (string, error) {
	sheet, err := sink.AddSheet(utils.SheetBaseName(path))
	if err != nil {
		return "", err
	}

	if err := sink.WriteTitle(sheet, "Data from "+filepath.Base(path), span); err != nil {
		return "", err
	}

	row := 2
	for _, table := range tables {
		lastCol := len(table.Headers) - 1
		if err := sink.WriteSectionHeader(sheet, row, lastCol, "Section: "+table.Label); err != nil {
			return "", err
		}
		row++

		if err := sink.WriteTable(sheet, row, table); err != nil {
			return "", err
		}
		row += len(table.Rows) + 2
	}

	return sheet, nil
}
