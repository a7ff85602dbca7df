// =============================================================================
// KCD2 Item Exporter - Workbook Writer
// =============================================================================
//
// This module renders item tables into an .xlsx workbook with excelize.
//
// WORKSHEET LAYOUT:
//   Every call takes 0-based rows and columns and converts them to Excel
//   cell names (A1 is row 0, column 0).
//
//   - Title:          bold, centred, merged across the first N columns
//   - Section header: bold, centred, coloured fill, merged across the table
//   - Table:          header row plus data rows, formatted as an Excel table
//                     with banded rows
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/kcd2items/internal/config"
	"github.com/ginjaninja78/kcd2items/internal/types"
	"github.com/ginjaninja78/kcd2items/internal/validation"
)

// DocumentTitle is written to the workbook's document properties.
const DocumentTitle = "KCD2 Items"

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls workbook styling.
type Options struct {
	// TableStyle is the built-in table style, e.g. "TableStyleMedium9".
	TableStyle string

	// SectionFillColor is the section header background (RRGGBB).
	SectionFillColor string

	// SectionFontColor is the section header text colour (RRGGBB).
	SectionFontColor string

	// RunID is stored as the workbook's identifier property.
	RunID string
}

// OptionsFromConfig builds Options from the exporter configuration.
func OptionsFromConfig(cfg *config.Config, runID string) Options {
	return Options{
		TableStyle:       cfg.TableStyle,
		SectionFillColor: strings.TrimPrefix(cfg.SectionFillColor, "#"),
		SectionFontColor: strings.TrimPrefix(cfg.SectionFontColor, "#"),
		RunID:            runID,
	}
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an in-memory .xlsx document.
type Workbook struct {
	file    *excelize.File
	options Options
	names   *validation.SheetNamer

	// defaultSheet is the sheet excelize creates with a new file. It is
	// renamed to the first real sheet.
	defaultSheet string

	titleStyle   int
	sectionStyle int
	tableCount   int
}

// New creates an empty workbook.
func New(options Options) (*Workbook, error) {
	f := excelize.NewFile()

	w := &Workbook{
		file:         f,
		options:      options,
		names:        validation.NewSheetNamer(),
		defaultSheet: f.GetSheetName(0),
	}

	if err := w.createStyles(); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      DocumentTitle,
		Creator:    "kcd2items",
		Identifier: options.RunID,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	return w, nil
}

// createStyles registers the title and section header styles.
func (w *Workbook) createStyles() error {
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	title, err := w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: centered,
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	section, err := w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: w.options.SectionFontColor},
		Alignment: centered,
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{w.options.SectionFillColor},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create section style: %w", err)
	}

	w.titleStyle = title
	w.sectionStyle = section
	return nil
}

// AddSheet creates a worksheet. Invalid characters are replaced and
// duplicate names get a " (n)" suffix; the name actually used is returned.
func (w *Workbook) AddSheet(name string) (string, error) {
	sheet := w.names.Unique(name)
	if err := validation.CheckSheetName(sheet); err != nil {
		return "", fmt.Errorf("sheet %q: %w", name, err)
	}

	if w.defaultSheet != "" {
		if err := w.file.SetSheetName(w.defaultSheet, sheet); err != nil {
			return "", fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
		w.defaultSheet = ""
		return sheet, nil
	}

	if _, err := w.file.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("failed to add sheet %q: %w", sheet, err)
	}
	return sheet, nil
}

// WriteTitle writes text into A1 and merges it across span columns.
func (w *Workbook) WriteTitle(sheet, text string, span int) error {
	return w.mergedText(sheet, 0, span-1, text, w.titleStyle)
}

// WriteSectionHeader writes text at row and merges it across columns
// 0..lastCol with the section style.
func (w *Workbook) WriteSectionHeader(sheet string, row, lastCol int, text string) error {
	return w.mergedText(sheet, row, lastCol, text, w.sectionStyle)
}

// mergedText writes text at (row, 0), styles columns 0..lastCol and merges
// them when more than one column is covered.
func (w *Workbook) mergedText(sheet string, row, lastCol int, text string, style int) error {
	first, err := cellName(0, row)
	if err != nil {
		return err
	}
	last, err := cellName(lastCol, row)
	if err != nil {
		return err
	}

	if err := w.file.SetCellStr(sheet, first, text); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, first, err)
	}
	if lastCol > 0 {
		if err := w.file.MergeCell(sheet, first, last); err != nil {
			return fmt.Errorf("failed to merge %s!%s:%s: %w", sheet, first, last, err)
		}
	}
	if err := w.file.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style %s!%s:%s: %w", sheet, first, last, err)
	}
	return nil
}

// WriteTable writes table's header at row, its data rows below, and turns
// the range into a banded Excel table.
//
// PARAMETERS:
//   - sheet: The worksheet name returned by AddSheet.
//   - row: The 0-based header row.
//   - table: The headers and rows. Rows shorter than Headers leave the
//     remaining cells empty.
func (w *Workbook) WriteTable(sheet string, row int, table types.Table) error {
	if len(table.Headers) == 0 {
		return fmt.Errorf("table %q has no columns", table.Label)
	}

	headers := validation.UniqueColumnNames(table.Headers)
	if err := w.writeRow(sheet, row, headers); err != nil {
		return err
	}
	for i, values := range table.Rows {
		if err := w.writeRow(sheet, row+1+i, values); err != nil {
			return err
		}
	}

	first, err := cellName(0, row)
	if err != nil {
		return err
	}
	last, err := cellName(len(headers)-1, row+len(table.Rows))
	if err != nil {
		return err
	}

	w.tableCount++
	showStripes := true
	if err := w.file.AddTable(sheet, &excelize.Table{
		Range:          first + ":" + last,
		Name:           fmt.Sprintf("Table%d", w.tableCount),
		StyleName:      w.options.TableStyle,
		ShowRowStripes: &showStripes,
	}); err != nil {
		return fmt.Errorf("failed to add table %s!%s:%s: %w", sheet, first, last, err)
	}
	return nil
}

// writeRow writes values left to right starting at column A of row.
func (w *Workbook) writeRow(sheet string, row int, values []string) error {
	cell, err := cellName(0, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetList returns the worksheet names in tab order.
func (w *Workbook) SheetList() []string {
	return w.file.GetSheetList()
}

// cellName converts 0-based coordinates to an Excel cell name.
func cellName(col, row int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", fmt.Errorf("invalid cell (row %d, col %d): %w", row, col, err)
	}
	return name, nil
}
