package source

import (
	"strings"

	"fortio.org/safecast"
)

// LineCol is a human-readable position: both fields are 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

// NormalizeCRLF replaces every \r\n with \n, leaving lone \r alone.
func NormalizeCRLF(text string) string {
	if !strings.Contains(text, "\r\n") {
		return text
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// LineAt returns the full line containing the byte offset, without its
// trailing newline, and the byte offset of the line start. An offset
// past the end of text yields the last line.
func LineAt(text string, off int) (line string, lineStart int) {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := strings.IndexByte(text[off:], '\n')
	if end < 0 {
		return text[start:], start
	}
	return text[start : off+end], start
}

// LineByNumber returns the 1-based line n of text and the byte offset of
// its start. Returns false when n is out of range.
func LineByNumber(text string, n int) (line string, lineStart int, ok bool) {
	if n < 1 {
		return "", 0, false
	}
	start := 0
	for i := 1; ; i++ {
		end := strings.IndexByte(text[start:], '\n')
		if i == n {
			if end < 0 {
				return text[start:], start, true
			}
			return text[start : start+end], start, true
		}
		if end < 0 {
			return "", 0, false
		}
		start += end + 1
	}
}

// OffsetToLineCol converts a byte offset into 1-based line/column.
func OffsetToLineCol(text string, off int) LineCol {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	line := uint32(1)
	lineStart := 0
	for i := 0; i < off; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col, err := safecast.Conv[uint32](off - lineStart + 1)
	if err != nil {
		col = 1
	}
	return LineCol{Line: line, Col: col}
}
