// =============================================================================
// KCD2 Item Exporter - Workbook Name Validation
// =============================================================================
//
// Excel rejects workbooks whose worksheet names or table column names break
// its rules. This module checks and repairs those names before they reach
// the workbook writer.
//
// WORKSHEET NAME RULES:
//   - 1 to 31 characters
//   - none of  : \ / ? * [ ]
//   - must not start or end with an apostrophe
//   - unique within the workbook, ignoring case
//
// TABLE COLUMN RULES:
//   - non-empty
//   - unique within the table, ignoring case
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is Excel's worksheet name limit, in characters.
const MaxSheetNameLength = 31

// invalidSheetChars are the characters Excel forbids in worksheet names.
const invalidSheetChars = `:\/?*[]`

// fallbackSheetName replaces a name that sanitises to nothing.
const fallbackSheetName = "Sheet"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptySheetName is returned for an empty worksheet name.
	ErrEmptySheetName = errors.New("sheet name is empty")

	// ErrSheetNameTooLong is returned for names over MaxSheetNameLength.
	ErrSheetNameTooLong = errors.New("sheet name is too long")

	// ErrSheetNameChars is returned for names with forbidden characters.
	ErrSheetNameChars = errors.New("sheet name contains invalid characters")
)

// =============================================================================
// WORKSHEET NAMES
// =============================================================================

// CheckSheetName reports why name is not a valid worksheet name, or nil.
func CheckSheetName(name string) error {
	if name == "" {
		return ErrEmptySheetName
	}
	if n := utf8.RuneCountInString(name); n > MaxSheetNameLength {
		return fmt.Errorf("%w: %d characters", ErrSheetNameTooLong, n)
	}
	if i := strings.IndexAny(name, invalidSheetChars); i >= 0 {
		return fmt.Errorf("%w: %q", ErrSheetNameChars, name[i])
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: leading or trailing apostrophe", ErrSheetNameChars)
	}
	return nil
}

// SanitizeSheetName turns name into a valid worksheet name: forbidden
// characters become '_', apostrophes are trimmed from the ends and the
// result is cut to MaxSheetNameLength characters.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '_'
		}
		return r
	}, name)

	name = truncate(strings.Trim(name, "'"), MaxSheetNameLength)
	name = strings.Trim(name, "'")
	if name == "" {
		return fallbackSheetName
	}
	return name
}

// SheetNamer hands out unique, valid worksheet names for one workbook.
type SheetNamer struct {
	used map[string]struct{}
}

// NewSheetNamer creates an empty SheetNamer.
func NewSheetNamer() *SheetNamer {
	return &SheetNamer{used: make(map[string]struct{})}
}

// Unique sanitises name and, if it is already taken, appends " (2)",
// " (3)", ... while staying within MaxSheetNameLength.
func (n *SheetNamer) Unique(name string) string {
	base := SanitizeSheetName(name)
	candidate := base

	for i := 2; n.taken(candidate); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncate(base, MaxSheetNameLength-len(suffix)) + suffix
	}

	n.used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

func (n *SheetNamer) taken(name string) bool {
	_, ok := n.used[strings.ToLower(name)]
	return ok
}

// =============================================================================
// TABLE COLUMN NAMES
// =============================================================================

// UniqueColumnNames returns headers with empty names replaced by
// "Column<n>" and repeated names suffixed with a counter, so "damage",
// "Damage" becomes "damage", "Damage2".
func UniqueColumnNames(headers []string) []string {
	out := make([]string, len(headers))
	used := make(map[string]struct{}, len(headers))

	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("Column%d", i+1)
		}

		candidate := h
		for n := 2; ; n++ {
			if _, dup := used[strings.ToLower(candidate)]; !dup {
				break
			}
			candidate = fmt.Sprintf("%s%d", h, n)
		}

		used[strings.ToLower(candidate)] = struct{}{}
		out[i] = candidate
	}

	return out
}

// truncate cuts s to at most limit characters.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
