// Package aggregate scans C/C++ document text for user-defined
// aggregate types and computes their total size, including padding,
// under the effective architecture. It implements the collaborator
// contract the hover engine consumes; the engine itself only performs
// point lookups against the result.
package aggregate

import (
	"regexp"
	"strings"

	"csize/internal/arch"
	"csize/internal/engine"
	"csize/internal/scan"
)

// DocumentTypes is the scan result for one document: every discovered
// user-defined type name, with a total size for those whose members all
// resolved.
type DocumentTypes struct {
	order   []string
	records map[string]record
}

type record struct {
	kind  string // struct, union, class, typedef
	size  int
	align int
	sized bool
}

// Names returns the discovered type names as a locator-ready set.
func (d *DocumentTypes) Names() scan.Known {
	if d == nil {
		return nil
	}
	known := make(scan.Known, len(d.records))
	for name := range d.records {
		known[name] = struct{}{}
	}
	return known
}

// All returns the discovered names in declaration order.
func (d *DocumentTypes) All() []string {
	if d == nil {
		return nil
	}
	return d.order
}

// Kind returns the declaration kind of a discovered name.
func (d *DocumentTypes) Kind(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	rec, ok := d.records[name]
	return rec.kind, ok
}

// LookupAggregate implements engine.AggregateLookup. Name-only records
// (members that never resolved) report no layout.
func (d *DocumentTypes) LookupAggregate(name string) (engine.AggregateInfo, bool) {
	if d == nil {
		return engine.AggregateInfo{}, false
	}
	rec, ok := d.records[name]
	if !ok || !rec.sized {
		return engine.AggregateInfo{}, false
	}
	return engine.AggregateInfo{TotalSize: rec.size}, true
}

var (
	defRe     = regexp.MustCompile(`(typedef\s+)?\b(struct|union|class)(?:\s+([A-Za-z_][A-Za-z0-9_]*))?\s*\{`)
	tailRe    = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)?\s*;`)
	typedefRe = regexp.MustCompile(`\btypedef\s+([^;{}()]+?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*;`)
	declRe    = regexp.MustCompile(`^((?:[A-Za-z_][A-Za-z0-9_]*\s+)*[A-Za-z_][A-Za-z0-9_]*)\s*(\**)\s*([A-Za-z_][A-Za-z0-9_]*)\s*((?:\[\s*[0-9]+\s*\])*)$`)
	extraRe   = regexp.MustCompile(`^(\**)\s*([A-Za-z_][A-Za-z0-9_]*)\s*((?:\[\s*[0-9]+\s*\])*)$`)
	arrayRe   = regexp.MustCompile(`\[\s*([0-9]+)\s*\]`)
)

// Scan analyzes document text and returns every aggregate and typedef
// it can attribute a name to. Layout follows the resolver's effective
// architecture; the scan never fails, it only degrades to name-only
// records.
func Scan(text string, resolver *arch.Resolver) *DocumentTypes {
	s := &scanner{
		resolver: resolver,
		out:      &DocumentTypes{records: make(map[string]record)},
	}
	text = stripComments(text)
	s.scanDefinitions(text)
	s.scanTypedefAliases(text)
	return s.out
}

type scanner struct {
	resolver *arch.Resolver
	out      *DocumentTypes
}

func (s *scanner) add(name string, rec record) {
	if name == "" {
		return
	}
	if _, exists := s.out.records[name]; !exists {
		s.out.order = append(s.out.order, name)
	}
	s.out.records[name] = rec
}

func (s *scanner) scanDefinitions(text string) {
	for _, idx := range defRe.FindAllStringSubmatchIndex(text, -1) {
		kind := text[idx[4]:idx[5]]
		tag := ""
		if idx[6] >= 0 {
			tag = text[idx[6]:idx[7]]
		}
		openBrace := idx[1] - 1
		body, bodyEnd, ok := braceBody(text, openBrace)
		if !ok {
			continue
		}
		rec := record{kind: kind}
		if size, align, sized := s.layoutMembers(kind, body); sized {
			rec.size, rec.align, rec.sized = size, align, true
		}
		s.add(tag, rec)

		// typedef struct {...} Name; declares an alias; without the
		// typedef keyword the tail identifier is a variable, not a type.
		if idx[2] >= 0 {
			if m := tailRe.FindStringSubmatch(text[bodyEnd+1:]); m != nil && m[1] != "" {
				alias := rec
				alias.kind = "typedef"
				s.add(m[1], alias)
			}
		}
	}
}

// scanTypedefAliases handles one-line aliases of already-known types,
// e.g. `typedef unsigned long ulong;` or `typedef struct Foo Foo;`.
func (s *scanner) scanTypedefAliases(text string) {
	for _, m := range typedefRe.FindAllStringSubmatch(text, -1) {
		base := strings.TrimSpace(m[1])
		name := m[2]
		if base == "" || strings.Contains(base, "{") {
			continue
		}
		rec := record{kind: "typedef"}
		if size, align, ok := s.resolveMemberType(base, false); ok {
			rec.size, rec.align, rec.sized = size, align, true
		}
		s.add(name, rec)
	}
}

// braceBody returns the text between the brace at open and its match.
func braceBody(text string, open int) (body string, end int, ok bool) {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open+1 : i], i, true
			}
		}
	}
	return "", 0, false
}

// layoutMembers computes the aggregate's total size from its member
// declarations: structs and classes accumulate offsets with padding,
// unions take the widest member, and both round the total up to the
// aggregate alignment. Any member that cannot be resolved (nested
// anonymous blocks, bit-fields, unknown types) makes the whole
// aggregate name-only.
func (s *scanner) layoutMembers(kind, body string) (size, align int, ok bool) {
	if strings.ContainsAny(body, "{}") {
		return 0, 0, false
	}
	offset := 0
	maxSize := 0
	align = 1
	for _, stmt := range strings.Split(body, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if strings.ContainsAny(stmt, ":()=") {
			// bit-fields, methods, initializers: out of scope
			return 0, 0, false
		}
		memberSizes, memberAligns, ok := s.parseDeclaration(stmt)
		if !ok {
			return 0, 0, false
		}
		for i, mSize := range memberSizes {
			mAlign := memberAligns[i]
			if mAlign > align {
				align = mAlign
			}
			if kind == "union" {
				if mSize > maxSize {
					maxSize = mSize
				}
				continue
			}
			offset = roundUp(offset, mAlign)
			offset += mSize
		}
	}
	total := offset
	if kind == "union" {
		total = maxSize
	}
	if total == 0 {
		return 0, 0, false
	}
	return roundUp(total, align), align, true
}

// parseDeclaration handles `type a, *b, c[4]` statements, returning one
// size/alignment pair per declarator.
func (s *scanner) parseDeclaration(stmt string) (sizes, aligns []int, ok bool) {
	chunks := strings.Split(stmt, ",")
	first := declRe.FindStringSubmatch(strings.TrimSpace(chunks[0]))
	if first == nil {
		return nil, nil, false
	}
	baseText := first[1]
	size, align, resolved := s.resolveMemberType(baseText, first[2] != "")
	if !resolved {
		return nil, nil, false
	}
	push := func(declSize, declAlign int, arrays string) bool {
		n, ok := arrayCount(arrays)
		if !ok {
			return false
		}
		sizes = append(sizes, declSize*n)
		aligns = append(aligns, declAlign)
		return true
	}
	if !push(size, align, first[4]) {
		return nil, nil, false
	}
	for _, chunk := range chunks[1:] {
		m := extraRe.FindStringSubmatch(strings.TrimSpace(chunk))
		if m == nil {
			return nil, nil, false
		}
		declSize, declAlign, resolved := s.resolveMemberType(baseText, m[1] != "")
		if !resolved {
			return nil, nil, false
		}
		if !push(declSize, declAlign, m[3]) {
			return nil, nil, false
		}
	}
	return sizes, aligns, true
}

// resolveMemberType maps a member's base type text to size/alignment.
// Pointer declarators resolve by bitness alone, even when the pointee
// is unknown.
func (s *scanner) resolveMemberType(baseText string, pointer bool) (size, align int, ok bool) {
	if pointer {
		p := s.resolver.PointerSize()
		return p, p, true
	}
	name := arch.Normalize(baseText)
	for _, prefix := range []string{"struct ", "union ", "class "} {
		if rest, found := strings.CutPrefix(name, prefix); found {
			name = rest
			break
		}
	}
	fields := strings.Fields(baseText)
	if len(fields) == 0 {
		return 0, 0, false
	}
	// user-defined member, matched case-sensitively by its tag
	if tag := fields[len(fields)-1]; tag != "" {
		if rec, found := s.out.records[tag]; found && rec.sized {
			return rec.size, rec.align, true
		}
	}
	if entry, found := s.resolver.Lookup(stripQualifiers(name)); found {
		sixtyFour := s.resolver.SixtyFourBit()
		return entry.Size(sixtyFour), entry.Align(sixtyFour), true
	}
	return 0, 0, false
}

var qualifierTokens = map[string]struct{}{
	"const": {}, "volatile": {}, "static": {}, "extern": {}, "register": {},
}

func stripQualifiers(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if _, isQual := qualifierTokens[f]; !isQual {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

func arrayCount(arrays string) (int, bool) {
	n := 1
	for _, m := range arrayRe.FindAllStringSubmatch(arrays, -1) {
		count := 0
		for _, digit := range m[1] {
			count = count*10 + int(digit-'0')
			if count > 1<<28 {
				return 0, false
			}
		}
		n *= count
		if n > 1<<28 {
			return 0, false
		}
	}
	return n, true
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}

// stripComments blanks out // and /* */ comments so brace matching and
// member parsing cannot trip over commented-out code. String literals
// are not tracked; this is a heuristic scanner.
func stripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '/':
				for i < len(text) && text[i] != '\n' {
					i++
				}
				continue
			case '*':
				i += 2
				for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
					if text[i] == '\n' {
						b.WriteByte('\n')
					}
					i++
				}
				i += 2
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}
