// =============================================================================
// KCD2 Item Exporter - File Manager Utility
// =============================================================================
//
// This module provides the file helpers shared by the commands:
//   - Input discovery with doublestar patterns
//   - Matching watch events against the input pattern
//   - Worksheet base names
//   - Run identifiers
//   - Checking for an existing output workbook
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns the regular files under dir whose path relative
// to dir matches pattern, sorted by name.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - pattern: A doublestar pattern, e.g. "item*.txt" or "**/item*.txt".
//
// RETURNS:
//   - The matching file paths joined onto dir. Empty when nothing matches.
//   - An error if the pattern is invalid or dir cannot be read.
func DiscoverInputFiles(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(match)))
	}
	sort.Strings(files)

	return files, nil
}

// MatchesInput reports whether path, a file inside dir, matches pattern.
func MatchesInput(dir, pattern, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// =============================================================================
// NAMING
// =============================================================================

// SheetBaseName returns the file name of path without its extension.
func SheetBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewRunID returns a random identifier for one export run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// OUTPUT
// =============================================================================

// FileExists reports whether path names an existing regular file. A
// directory or an unreadable path reports false.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
