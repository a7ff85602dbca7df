package converter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/kcd2items/internal/types"
)

func item(name, id string, props map[string]string) types.ItemRecord {
	if props == nil {
		props = map[string]string{}
	}
	return types.ItemRecord{Name: name, ItemID: id, Properties: props}
}

func TestGroupSections_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	entries := []types.SectionEntry{
		{Section: "B", Record: item("b1", "1", nil)},
		{Section: "A", Record: item("a1", "2", nil)},
		{Section: "B", Record: item("b2", "3", nil)},
	}

	groups := GroupSections(entries, "Misc")

	require.Len(t, groups, 2)
	require.Equal(t, "B", groups[0].Label)
	require.Equal(t, "A", groups[1].Label)
	require.Len(t, groups[0].Records, 2)
	require.Equal(t, "b1", groups[0].Records[0].Name)
	require.Equal(t, "b2", groups[0].Records[1].Name)
}

func TestGroupSections_UnsetSectionMergesWithMisc(t *testing.T) {
	t.Parallel()

	entries := []types.SectionEntry{
		{Section: "", Record: item("loose", "1", nil)},
		{Section: "Swords", Record: item("sword", "2", nil)},
		{Section: "Misc", Record: item("torch", "3", nil)},
	}

	groups := GroupSections(entries, "Misc")

	require.Len(t, groups, 2)
	require.Equal(t, "Misc", groups[0].Label)
	require.Equal(t, []string{"loose", "torch"}, []string{groups[0].Records[0].Name, groups[0].Records[1].Name})
	require.Equal(t, "Swords", groups[1].Label)
}

func TestGroupSections_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, GroupSections(nil, "Misc"))
}

func TestPropertyKeys_SortedUnion(t *testing.T) {
	t.Parallel()

	keys := PropertyKeys([]types.ItemRecord{
		item("a", "1", map[string]string{"weight": "1", "damage": "2"}),
		item("b", "2", map[string]string{"armor": "3", "damage": "4"}),
	})

	require.Equal(t, []string{"armor", "damage", "weight"}, keys)
}

func TestBuildTable_MissingKeysRenderEmpty(t *testing.T) {
	t.Parallel()

	table := BuildTable(types.SectionGroup{
		Label: "Swords",
		Records: []types.ItemRecord{
			item("Longsword", "wpn_long01", map[string]string{"damage": "45", "weight": "3.2"}),
			item("Shortsword", "wpn_short01", map[string]string{"damage": "30"}),
		},
	})

	require.Equal(t, "Swords", table.Label)
	require.Equal(t, []string{"Name", "ItemId", "damage", "weight"}, table.Headers)
	require.Equal(t, [][]string{
		{"Longsword", "wpn_long01", "45", "3.2"},
		{"Shortsword", "wpn_short01", "30", ""},
	}, table.Rows)
}

func TestBuildTable_NoProperties(t *testing.T) {
	t.Parallel()

	table := BuildTable(types.SectionGroup{
		Label:   "Misc",
		Records: []types.ItemRecord{item("Rock", "misc_rock", nil)},
	})

	require.Equal(t, []string{"Name", "ItemId"}, table.Headers)
	require.Equal(t, [][]string{{"Rock", "misc_rock"}}, table.Rows)
}

func TestBuildTables_WeaponsScenario(t *testing.T) {
	t.Parallel()

	entries := []types.SectionEntry{
		{Section: "Swords", Record: item("Longsword", "wpn_long01", map[string]string{"damage": "45", "weight": "3.2"})},
		{Section: "Swords", Record: item("Shortsword", "wpn_short01", map[string]string{"damage": "30"})},
		{Section: "Misc", Record: item("Torch", "misc_torch01", map[string]string{"light": "yes"})},
	}

	tables := BuildTables(entries, "Misc")

	require.Len(t, tables, 2)
	require.Equal(t, "Misc", tables[1].Label)
	require.Equal(t, []string{"Name", "ItemId", "light"}, tables[1].Headers)
	require.Equal(t, [][]string{{"Torch", "misc_torch01", "yes"}}, tables[1].Rows)
}
