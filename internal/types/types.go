// =============================================================================
// KCD2 Item Exporter - Shared Types
// =============================================================================
//
// This package contains the types passed between the parser, the grouping
// stage and the workbook writer:
//   - itemparser produces SectionEntry values
//   - converter folds them into SectionGroup values
//   - xlsxwriter renders each SectionGroup as one table
//
// =============================================================================

package types

// =============================================================================
// ITEM TYPES
// =============================================================================

// ItemRecord is one parsed item line: "<name> [<itemId>] k=v k=v ...".
// Records are never modified after the parser returns them.
type ItemRecord struct {
	// Name is the text before the bracketed id, trimmed.
	Name string

	// ItemID is the text inside the first bracket pair, trimmed.
	ItemID string

	// Properties holds the key=value tokens. Values are kept verbatim,
	// including any '=' after the first one.
	Properties map[string]string
}

// Property returns the value for key, or "" when the record lacks it.
func (r ItemRecord) Property(key string) string {
	return r.Properties[key]
}

// SectionEntry pairs a record with the section that was current when the
// record's line was read. Section is "" when no header had been seen yet.
type SectionEntry struct {
	Section string
	Record  ItemRecord
}

// =============================================================================
// GROUPING TYPES
// =============================================================================

// SectionGroup is the set of records sharing one section label, in file
// order. It is derived from a []SectionEntry and never stored.
type SectionGroup struct {
	// Label is the section name, with the unset section collapsed to the
	// configured misc label.
	Label string

	// Records are the group's items in the order they appeared.
	Records []ItemRecord
}

// Table is the rendered form of a SectionGroup.
type Table struct {
	// Label is the section label shown above the table.
	Label string

	// Headers is "Name", "ItemId", then the sorted property keys.
	Headers []string

	// Rows has one entry per record, aligned with Headers.
	Rows [][]string
}
