// Package scan locates the C/C++ type expression touching a cursor
// position inside a single line of source text. It runs four matcher
// strategies in strict priority order and returns the first whose span
// brackets the cursor; no full parser is involved, only local lexical
// context.
package scan

import (
	"strings"

	"fortio.org/safecast"

	"csize/internal/source"
)

// Match is the located type expression: normalized text plus the byte
// span it covers in the line.
type Match struct {
	Text string
	Span source.Span
}

// Known is the caller-supplied set of user-defined type names for the
// current document.
type Known map[string]struct{}

// Strategy is one independent matcher. Strategies report ok=false for
// "no type here", which is a normal outcome.
type Strategy func(line string, off uint32, known Known) (Match, bool)

// strategies in priority order: aggregate-keyword matches are the most
// semantically certain and must win over the generic composite pattern,
// which itself wins over the bare-word fallback. Known identifiers are
// checked before the composite pattern so a typedef'd name resolves
// even without a leading aggregate keyword.
var strategies = []Strategy{
	matchAggregate,
	matchKnownIdentifier,
	matchComposite,
	matchBareWord,
}

// Locate runs the strategies against the line and returns the first
// containing match.
func Locate(line string, cursor int, known Known) (Match, bool) {
	if cursor < 0 || cursor > len(line) {
		return Match{}, false
	}
	off, err := safecast.Conv[uint32](cursor)
	if err != nil {
		return Match{}, false
	}
	for _, strategy := range strategies {
		if m, ok := strategy(line, off, known); ok {
			return m, true
		}
	}
	return Match{}, false
}

// matchAggregate scans for `struct|union|class NAME` with optional
// pointer markers, left to right. A cursor inside the identifier
// sub-span yields just the identifier so lookups can resolve the bare
// name; anywhere else in the span yields the whole collapsed match.
func matchAggregate(line string, off uint32, _ Known) (Match, bool) {
	for _, idx := range aggregateRe.FindAllStringSubmatchIndex(line, -1) {
		whole := spanOf(idx[0], idx[1])
		ident := spanOf(idx[2], idx[3])
		if ident.Contains(off) {
			return Match{Text: line[ident.Start:ident.End], Span: ident}, true
		}
		if whole.Contains(off) {
			return Match{Text: collapse(line[whole.Start:whole.End]), Span: whole}, true
		}
	}
	return Match{}, false
}

// matchKnownIdentifier returns the word under the cursor verbatim when
// it names a user-defined type of the current document.
func matchKnownIdentifier(line string, off uint32, known Known) (Match, bool) {
	word, span, ok := wordAt(line, off, false)
	if !ok || len(known) == 0 {
		return Match{}, false
	}
	if _, found := known[word]; !found {
		return Match{}, false
	}
	return Match{Text: word, Span: span}, true
}

// matchComposite scans for runs of vocabulary tokens with optional
// pointer markers, left to right.
func matchComposite(line string, off uint32, _ Known) (Match, bool) {
	for _, idx := range compositeRe.FindAllStringIndex(line, -1) {
		span := spanOf(idx[0], idx[1])
		if span.Contains(off) {
			return Match{Text: collapse(line[span.Start:span.End]), Span: span}, true
		}
	}
	return Match{}, false
}

// matchBareWord accepts the word under the cursor when it is itself a
// vocabulary token or carries a pointer marker.
func matchBareWord(line string, off uint32, _ Known) (Match, bool) {
	word, span, ok := wordAt(line, off, true)
	if !ok {
		return Match{}, false
	}
	if _, inVocab := vocabularySet[word]; !inVocab && !strings.Contains(word, "*") {
		return Match{}, false
	}
	return Match{Text: word, Span: span}, true
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func spanOf(start, end int) source.Span {
	s, err1 := safecast.Conv[uint32](start)
	e, err2 := safecast.Conv[uint32](end)
	if err1 != nil || err2 != nil {
		return source.Span{}
	}
	return source.Span{Start: s, End: e}
}

func isWordByte(b byte, stars bool) bool {
	if b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' {
		return true
	}
	return stars && b == '*'
}

// wordStart returns the start index of the word touching the cursor, or
// -1 when the cursor touches no word. A cursor sitting just past a word
// still counts as touching it.
func wordStart(line string, cursor int) int {
	if cursor > len(line) {
		cursor = len(line)
	}
	if cursor < len(line) && isWordByte(line[cursor], true) {
		return cursor
	}
	if cursor > 0 && isWordByte(line[cursor-1], true) {
		return cursor - 1
	}
	return -1
}

// wordAt extracts the maximal contiguous word run touching the cursor.
// With stars set, '*' counts as a word byte.
func wordAt(line string, off uint32, stars bool) (string, source.Span, bool) {
	cursor := int(off)
	at := wordStart(line, cursor)
	if at < 0 {
		return "", source.Span{}, false
	}
	start := at
	for start > 0 && isWordByte(line[start-1], stars) {
		start--
	}
	end := at
	for end < len(line) && isWordByte(line[end], stars) {
		end++
	}
	if start == end {
		return "", source.Span{}, false
	}
	return line[start:end], spanOf(start, end), true
}
