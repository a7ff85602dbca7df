// =============================================================================
// KCD2 Item Exporter - Item File Parser
// =============================================================================
//
// This module turns item text files into section-tagged item records.
//
// LINE GRAMMAR:
//   // comment                      ignored
//   === Section Name ===            sets the current section
//   Name [item_id] key=value ...    one item record
//
// Anything else, including bracketed lines that do not fit the item pattern,
// is dropped without an error.
//
// =============================================================================

package itemparser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ginjaninja78/kcd2items/internal/types"
)

// CommentPrefix starts a comment line.
const CommentPrefix = "//"

// SectionMarker starts a section header line.
const SectionMarker = "="

// space matches any Unicode whitespace. RE2's \s is ASCII only, so the
// class adds \v, the separator categories, NEL and the information
// separators U+001C..U+001F.
const space = `[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`

// itemLine is "<name> [<id>] <props>". The name is the shortest prefix
// before the first bracket pair; at least one whitespace must follow ']'.
var itemLine = regexp.MustCompile(`^(.*?)` + space + `*\[(.*?)\]` + space + `+(.*)$`)

// isSpace reports whether r is whitespace for trimming and splitting. It is
// unicode.IsSpace plus U+001C..U+001F, matching the regexp class above.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// trimSpace trims isSpace runes from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// =============================================================================
// LINE PARSER
// =============================================================================

// ParseLine parses one trimmed item line. Whitespace is any Unicode
// whitespace, so a no-break space after ']' separates the id from the
// properties like an ordinary space does.
//
// PARAMETERS:
//   - line: A non-empty line that is neither a comment nor a section header.
//
// RETURNS:
//   - The parsed record.
//   - false if the line lacks '[' or ']' or does not match the item pattern.
func ParseLine(line string) (types.ItemRecord, bool) {
	if !strings.Contains(line, "[") || !strings.Contains(line, "]") {
		return types.ItemRecord{}, false
	}

	m := itemLine.FindStringSubmatch(line)
	if m == nil {
		return types.ItemRecord{}, false
	}

	return types.ItemRecord{
		Name:       trimSpace(m[1]),
		ItemID:     trimSpace(m[2]),
		Properties: parseProperties(m[3]),
	}, true
}

// parseProperties splits s on whitespace and keeps tokens containing '='.
// Only the first '=' separates key from value; later keys overwrite earlier
// ones.
func parseProperties(s string) map[string]string {
	props := make(map[string]string)
	for _, token := range strings.FieldsFunc(s, isSpace) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		props[trimSpace(key)] = trimSpace(value)
	}
	return props
}

// =============================================================================
// LINE CLASSIFICATION
// =============================================================================

// LineKind classifies a trimmed line.
type LineKind int

const (
	// KindBlank is an empty line.
	KindBlank LineKind = iota
	// KindComment starts with "//".
	KindComment
	// KindSection starts with "=".
	KindSection
	// KindItem is everything else; it may still fail ParseLine.
	KindItem
)

// Classify reports what kind of line a trimmed line is.
func Classify(line string) LineKind {
	switch {
	case line == "":
		return KindBlank
	case strings.HasPrefix(line, CommentPrefix):
		return KindComment
	case strings.HasPrefix(line, SectionMarker):
		return KindSection
	default:
		return KindItem
	}
}

// SectionLabel strips every '=' from a section line and trims the rest.
// An empty result means the line was a divider and the section is unchanged.
func SectionLabel(line string) string {
	return trimSpace(strings.ReplaceAll(line, SectionMarker, ""))
}
