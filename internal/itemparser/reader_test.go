package itemparser

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/kcd2items/internal/types"
)

const weaponsFile = `=== Swords ===
Longsword [wpn_long01] damage=45 weight=3.2
Shortsword [wpn_short01] damage=30
// comment, ignored
=== Misc ===
Torch [misc_torch01] light=yes
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readAll(t *testing.T, input, encoding string) ([]types.SectionEntry, *Reader) {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), encoding)
	require.NoError(t, err)

	var entries []types.SectionEntry
	for r.Next() {
		entries = append(entries, r.Entry())
	}
	require.NoError(t, r.Err())
	return entries, r
}

func TestProcessFile_WeaponsScenario(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeFile(t, "item_weapons.txt", []byte(weaponsFile))

	// --- Act ---
	entries, _, err := ProcessFile(path, "UTF-8")

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "Swords", entries[0].Section)
	require.Equal(t, "Longsword", entries[0].Record.Name)
	require.Equal(t, "Swords", entries[1].Section)
	require.Equal(t, "Shortsword", entries[1].Record.Name)
	require.Equal(t, "Misc", entries[2].Section)
	require.Equal(t, types.ItemRecord{
		Name:       "Torch",
		ItemID:     "misc_torch01",
		Properties: map[string]string{"light": "yes"},
	}, entries[2].Record)
}

func TestProcessFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := ProcessFile(filepath.Join(t.TempDir(), "item_none.txt"), "UTF-8")

	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestProcessFile_NoItems(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "item_empty.txt", []byte("// only comments\n=== Empty ===\nnot an item\n"))

	entries, _, err := ProcessFile(path, "UTF-8")

	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestProcessFile_InvalidUTF8IsFatal(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "item_bad.txt", []byte("Good [g] a=1\nBad [b] name=\xff\xfe\n"))

	_, _, err := ProcessFile(path, "UTF-8")

	require.ErrorIs(t, err, ErrInvalidUTF8)
	require.Contains(t, err.Error(), "line 2")
}

func TestProcessFile_UnknownEncoding(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "item_a.txt", []byte(weaponsFile))

	_, _, err := ProcessFile(path, "not-a-charset")

	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown encoding")
}

func TestReader_ItemsBeforeAnySectionHaveNoSection(t *testing.T) {
	t.Parallel()

	entries, _ := readAll(t, "Coin [coin] value=1\n=== Money ===\nPurse [purse] size=2\n", "UTF-8")

	require.Len(t, entries, 2)
	require.Equal(t, "", entries[0].Section)
	require.Equal(t, "Money", entries[1].Section)
}

func TestReader_DividerKeepsCurrentSection(t *testing.T) {
	t.Parallel()

	input := "=== Armor ===\nHelmet [arm_helm] def=5\n====\nBoots [arm_boots] def=2\n"

	entries, r := readAll(t, input, "UTF-8")

	require.Len(t, entries, 2)
	require.Equal(t, "Armor", entries[1].Section)
	require.Equal(t, 4, r.LineNumber())
}

func TestReader_SectionStripsEveryEquals(t *testing.T) {
	t.Parallel()

	entries, _ := readAll(t, "== Bows=Crossbows ==\nBow [bow] range=9\n", "UTF-8")

	require.Len(t, entries, 1)
	require.Equal(t, "BowsCrossbows", entries[0].Section)
}

func TestReader_TrimsLinesAndCRLF(t *testing.T) {
	t.Parallel()

	input := "   === Food ===   \r\n\t Apple [food_apple] nutrition=10 \r\n\r\n   // indented comment\r\n"

	entries, r := readAll(t, input, "UTF-8")

	require.Len(t, entries, 1)
	require.Equal(t, "Food", entries[0].Section)
	require.Equal(t, "10", entries[0].Record.Property("nutrition"))
	require.Equal(t, 4, r.LineNumber())
}

func TestReader_CountsSkippedLines(t *testing.T) {
	t.Parallel()

	input := "Torch [t]\nno brackets here\nLamp [lamp] light=1\n"

	entries, r := readAll(t, input, "UTF-8")

	require.Len(t, entries, 1)
	require.Equal(t, 2, r.Skipped())
}

func TestReader_StripsUTF8BOM(t *testing.T) {
	t.Parallel()

	entries, _ := readAll(t, "\xef\xbb\xbf=== Tools ===\nHammer [tool_hammer] weight=2\n", "UTF-8")

	require.Len(t, entries, 1)
	require.Equal(t, "Tools", entries[0].Section)
}

func TestReader_DecodesWindows1252(t *testing.T) {
	t.Parallel()

	// 0xE9 is 'é' in windows-1252.
	entries, _ := readAll(t, "Caf\xe9 Mug [mug_01] material=clay\n", "windows-1252")

	require.Len(t, entries, 1)
	require.Equal(t, "Café Mug", entries[0].Record.Name)
}

func TestProcessFile_Stats(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "item_mixed.txt", []byte("=== Tools ===\nHammer [h] w=2\nTorch [t]\nbroken line\n"))

	entries, stats, err := ProcessFile(path, "UTF-8")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, Stats{Lines: 4, Skipped: 2}, stats)
}

func TestReader_CarriageReturnLineEndings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	input := "=== Swords ===\rLongsword [wpn_long01] damage=45\rTorch [t] light=yes\r"

	// --- Act ---
	entries, r := readAll(t, input, "UTF-8")

	// --- Assert ---
	require.Len(t, entries, 2)
	require.Equal(t, "Swords", entries[0].Section)
	require.Equal(t, "Longsword", entries[0].Record.Name)
	require.Equal(t, "45", entries[0].Record.Property("damage"))
	require.Equal(t, "Torch", entries[1].Record.Name)
	require.Equal(t, 3, r.LineNumber())
}

func TestReader_MixedLineEndings(t *testing.T) {
	t.Parallel()

	entries, r := readAll(t, "A [a] x=1\r\nB [b] x=2\rC [c] x=3\nD [d] x=4", "UTF-8")

	require.Len(t, entries, 4)
	require.Equal(t, "D", entries[3].Record.Name)
	require.Equal(t, 4, r.LineNumber())
}

func TestReader_LongLine(t *testing.T) {
	t.Parallel()

	value := strings.Repeat("x", 2*1024*1024)

	entries, _ := readAll(t, "Scroll [scroll] text="+value+"\n", "UTF-8")

	require.Len(t, entries, 1)
	require.Equal(t, value, entries[0].Record.Property("text"))
}

func TestScanLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		atEOF   bool
		advance int
		token   string
		more    bool
	}{
		{"newline", "ab\ncd", false, 3, "ab", false},
		{"crlf", "ab\r\ncd", false, 4, "ab", false},
		{"lone cr", "ab\rcd", false, 3, "ab", false},
		{"cr at buffer end waits", "ab\r", false, 0, "", true},
		{"cr at eof", "ab\r", true, 3, "ab", false},
		{"no terminator waits", "ab", false, 0, "", true},
		{"no terminator at eof", "ab", true, 2, "ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advance, token, err := scanLines([]byte(tt.data), tt.atEOF)

			require.NoError(t, err)
			require.Equal(t, tt.advance, advance)
			if tt.more {
				require.Nil(t, token)
			} else {
				require.Equal(t, tt.token, string(token))
			}
		})
	}
}
