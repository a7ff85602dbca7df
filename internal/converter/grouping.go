package converter

import (
	"sort"

	"github.com/ginjaninja78/kcd2items/internal/types"
)

// =============================================================================
// SECTION GROUPING
// =============================================================================

// GroupSections folds section-tagged records into groups ordered by the first
// appearance of each section label. Records keep their file order inside a
// group. Entries with no section are filed under misc, which merges them with
// an explicit section of the same name.
func GroupSections(entries []types.SectionEntry, misc string) []types.SectionGroup {
	var groups []types.SectionGroup
	index := make(map[string]int)

	for _, entry := range entries {
		label := entry.Section
		if label == "" {
			label = misc
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, types.SectionGroup{Label: label})
		}
		groups[i].Records = append(groups[i].Records, entry.Record)
	}

	return groups
}

// PropertyKeys returns the sorted union of property keys across records.
func PropertyKeys(records []types.ItemRecord) []string {
	seen := make(map[string]struct{})
	keys := []string{}
	for _, record := range records {
		for key := range record.Properties {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// BuildTable lays a group out as a header row and one data row per record.
// Records missing a key get "" in that column.
func BuildTable(group types.SectionGroup) types.Table {
	keys := PropertyKeys(group.Records)

	headers := make([]string, 0, len(keys)+2)
	headers = append(headers, "Name", "ItemId")
	headers = append(headers, keys...)

	rows := make([][]string, 0, len(group.Records))
	for _, record := range group.Records {
		row := make([]string, 0, len(headers))
		row = append(row, record.Name, record.ItemID)
		for _, key := range keys {
			row = append(row, record.Property(key))
		}
		rows = append(rows, row)
	}

	return types.Table{Label: group.Label, Headers: headers, Rows: rows}
}

// BuildTables groups entries and lays out every group, in group order.
func BuildTables(entries []types.SectionEntry, misc string) []types.Table {
	groups := GroupSections(entries, misc)
	tables := make([]types.Table, 0, len(groups))
	for _, group := range groups {
		tables = append(tables, BuildTable(group))
	}
	return tables
}
