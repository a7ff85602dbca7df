// =============================================================================
// KCD2 Item Exporter - Workbook Reader
// =============================================================================
//
// This module reads back a workbook written by the exporter and recovers its
// structure: per worksheet, the title and each section's table.
//
// EXPECTED WORKSHEET STRUCTURE:
//   | A1 (merged)            |
//   |                        |
//   | Section: Swords        |   <- row above each table
//   | Name | ItemId | damage |   <- table header
//   | ...  | ...    | ...    |
//
// Tables are found through the worksheet's table parts, so the reader does
// not depend on blank-row spacing.
//
// =============================================================================

package xlsxreader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SectionPrefix starts every section header cell.
const SectionPrefix = "Section: "

// =============================================================================
// WORKBOOK STRUCTURE
// =============================================================================

// Workbook is the recovered structure of an exported workbook.
type Workbook struct {
	// Path is the file that was read.
	Path string

	// Title and Identifier come from the document properties.
	Title      string
	Identifier string

	// Sheets are in tab order.
	Sheets []Sheet
}

// Sheet is one worksheet.
type Sheet struct {
	Name string

	// Title is the value of A1.
	Title string

	// Merges are the merged ranges, e.g. "A1:J1".
	Merges []string

	// Sections are in row order.
	Sections []Section
}

// Section is one table and the header cell above it.
type Section struct {
	// Label is the section header text without SectionPrefix.
	Label string

	// TableName and Range identify the Excel table, e.g. "Table1", "A4:D6".
	TableName string
	Range     string
	Style     string

	// HeaderRow is the 1-based row of the table header.
	HeaderRow int

	Headers []string
	Rows    [][]string
}

// Section returns the section with the given label.
func (s Sheet) Section(label string) (Section, bool) {
	for _, section := range s.Sections {
		if section.Label == label {
			return section, true
		}
	}
	return Section{}, false
}

// Sheet returns the worksheet with the given name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, sheet := range w.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return Sheet{}, false
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// Read opens an exported workbook and recovers its structure.
//
// PARAMETERS:
//   - path: The .xlsx file.
//
// RETURNS:
//   - The workbook structure.
//   - An error if the file cannot be opened or a sheet cannot be read.
func Read(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	workbook := &Workbook{Path: path}

	if props, err := f.GetDocProps(); err == nil && props != nil {
		workbook.Title = props.Title
		workbook.Identifier = props.Identifier
	}

	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet '%s': %w", name, err)
		}
		workbook.Sheets = append(workbook.Sheets, sheet)
	}

	return workbook, nil
}

// readSheet reads one worksheet's title, merges and tables.
func readSheet(f *excelize.File, name string) (Sheet, error) {
	sheet := Sheet{Name: name}

	rows, err := f.GetRows(name)
	if err != nil {
		return sheet, fmt.Errorf("failed to read rows: %w", err)
	}
	sheet.Title = cellAt(rows, 1, 1)

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return sheet, fmt.Errorf("failed to read merged cells: %w", err)
	}
	for _, m := range merges {
		sheet.Merges = append(sheet.Merges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	sort.Strings(sheet.Merges)

	tables, err := f.GetTables(name)
	if err != nil {
		return sheet, fmt.Errorf("failed to read tables: %w", err)
	}

	for _, table := range tables {
		section, err := readSection(rows, table)
		if err != nil {
			return sheet, fmt.Errorf("table %s: %w", table.Name, err)
		}
		sheet.Sections = append(sheet.Sections, section)
	}
	sort.Slice(sheet.Sections, func(i, j int) bool {
		return sheet.Sections[i].HeaderRow < sheet.Sections[j].HeaderRow
	})

	return sheet, nil
}

// readSection extracts a table's header, data rows and the label above it.
func readSection(rows [][]string, table excelize.Table) (Section, error) {
	firstCol, firstRow, lastCol, lastRow, err := parseRange(table.Range)
	if err != nil {
		return Section{}, err
	}

	section := Section{
		Label:     strings.TrimPrefix(cellAt(rows, firstRow-1, 1), SectionPrefix),
		TableName: table.Name,
		Range:     table.Range,
		Style:     table.StyleName,
		HeaderRow: firstRow,
		Headers:   rowSlice(rows, firstRow, firstCol, lastCol),
	}

	for r := firstRow + 1; r <= lastRow; r++ {
		section.Rows = append(section.Rows, rowSlice(rows, r, firstCol, lastCol))
	}

	return section, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseRange splits "A4:D6" into 1-based coordinates.
func parseRange(ref string) (firstCol, firstRow, lastCol, lastRow int, err error) {
	start, end, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q", ref)
	}
	if firstCol, firstRow, err = excelize.CellNameToCoordinates(start); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if lastCol, lastRow, err = excelize.CellNameToCoordinates(end); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	return firstCol, firstRow, lastCol, lastRow, nil
}

// cellAt returns the value at 1-based (row, col), or "" outside the data.
// GetRows drops trailing empty cells, so short rows are expected.
func cellAt(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	cells := rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// rowSlice returns columns firstCol..lastCol of a 1-based row, padded
// with "".
func rowSlice(rows [][]string, row, firstCol, lastCol int) []string {
	out := make([]string, 0, lastCol-firstCol+1)
	for c := firstCol; c <= lastCol; c++ {
		out = append(out, cellAt(rows, row, c))
	}
	return out
}
