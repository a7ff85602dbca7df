package itemparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/kcd2items/internal/types"
)

// ErrInvalidUTF8 is returned when a UTF-8 input contains a byte sequence
// that does not decode.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// maxLineSize bounds a single input line. Longer lines fail the file with
// bufio.ErrTooLong.
const maxLineSize = 64 * 1024 * 1024

// Stats describes one pass over an item file.
type Stats struct {
	// Lines is the number of lines read.
	Lines int

	// Skipped counts item-like lines that did not parse.
	Skipped int
}

// =============================================================================
// FILE PROCESSOR
// =============================================================================

// ProcessFile reads an item file and returns its records in file order,
// each tagged with the section that was current when it was read.
//
// PARAMETERS:
//   - path: The item text file.
//   - encoding: The file's character set, e.g. "UTF-8" or "windows-1252".
//
// RETURNS:
//   - The section-tagged records. An empty slice means no valid item lines.
//   - Line and skipped-line counts.
//   - An error if the file cannot be opened, read or decoded.
func ProcessFile(path, encoding string) ([]types.SectionEntry, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader, err := NewReader(file, encoding)
	if err != nil {
		return nil, Stats{}, err
	}

	var entries []types.SectionEntry
	for reader.Next() {
		entries = append(entries, reader.Entry())
	}
	if err := reader.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", path, err)
	}

	return entries, Stats{Lines: reader.LineNumber(), Skipped: reader.Skipped()}, nil
}

// =============================================================================
// STREAMING READER
// =============================================================================

// Reader yields section-tagged records one line at a time.
//
// USAGE:
//   r, err := NewReader(file, "UTF-8")
//   if err != nil {
//       return err
//   }
//   for r.Next() {
//       entry := r.Entry()
//       // ...
//   }
//   if err := r.Err(); err != nil {
//       return err
//   }
type Reader struct {
	scanner      *bufio.Scanner
	validateUTF8 bool
	section      string
	current      types.SectionEntry
	lineNumber   int
	skippedLines int
	err          error
}

// NewReader wraps r, decoding it from the named encoding. A leading byte
// order mark is dropped.
func NewReader(r io.Reader, encoding string) (*Reader, error) {
	decoded, isUTF8, err := decode(r, encoding)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)

	return &Reader{
		scanner:      scanner,
		validateUTF8: isUTF8,
	}, nil
}

// decode returns a reader producing UTF-8 text from r.
func decode(r io.Reader, name string) (io.Reader, bool, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, false, fmt.Errorf("unknown encoding %q: %w", name, err)
	}

	canonical, _ := htmlindex.Name(enc)
	if canonical == "utf-8" {
		// Pass bytes through untouched so malformed input is reported
		// rather than replaced with U+FFFD.
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), true, nil
	}

	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), false, nil
}

// Next advances to the next item record. It returns false at end of input
// or on error; check Err afterwards.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.lineNumber++
		raw := r.scanner.Text()

		if r.validateUTF8 && !utf8.ValidString(raw) {
			r.err = fmt.Errorf("line %d: %w", r.lineNumber, ErrInvalidUTF8)
			return false
		}

		line := trimSpace(raw)

		switch Classify(line) {
		case KindBlank, KindComment:
			continue
		case KindSection:
			if label := SectionLabel(line); label != "" {
				r.section = label
			}
			continue
		}

		record, ok := ParseLine(line)
		if !ok {
			r.skippedLines++
			continue
		}

		r.current = types.SectionEntry{Section: r.section, Record: record}
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("error reading line %d: %w", r.lineNumber+1, err)
	}
	return false
}

// Entry returns the record found by the last successful Next.
func (r *Reader) Entry() types.SectionEntry {
	return r.current
}

// LineNumber returns the 1-indexed number of the last line read.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Skipped returns how many item-like lines failed to parse so far.
func (r *Reader) Skipped() int {
	return r.skippedLines
}

// Err returns the first read or decode error.
func (r *Reader) Err() error {
	return r.err
}

// scanLines splits on "\n", "\r\n" or a lone "\r". The terminator is not
// part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n".
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
