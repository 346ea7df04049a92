package arch

import "strings"

// Entry is the layout of one canonical type name for both supported
// bit-widths. Entries never vary at runtime; only the selected width
// does. Every entry keeps Size % Align == 0 under both widths.
type Entry struct {
	Size32  int
	Align32 int
	Size64  int
	Align64 int
	Desc    string
}

// Size returns the entry's size in bytes for the given bitness.
func (e Entry) Size(sixtyFour bool) int {
	if sixtyFour {
		return e.Size64
	}
	return e.Size32
}

// Align returns the entry's alignment in bytes for the given bitness.
func (e Entry) Align(sixtyFour bool) int {
	if sixtyFour {
		return e.Align64
	}
	return e.Align32
}

// Normalize collapses runs of whitespace to single spaces, trims, and
// lowercases, so that two expressions normalizing to the same string
// are layout-equivalent keys.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Lookup finds the layout entry for a canonical type name. Unknown
// names are a normal outcome, reported via ok=false.
func (r *Resolver) Lookup(name string) (Entry, bool) {
	e, ok := builtinTable[Normalize(name)]
	return e, ok
}

// SizeOf returns the size in bytes of a canonical type name under the
// effective architecture.
func (r *Resolver) SizeOf(name string) (int, bool) {
	e, ok := r.Lookup(name)
	if !ok {
		return 0, false
	}
	return e.Size(r.SixtyFourBit()), true
}

// AlignOf returns the alignment in bytes of a canonical type name under
// the effective architecture.
func (r *Resolver) AlignOf(name string) (int, bool) {
	e, ok := r.Lookup(name)
	if !ok {
		return 0, false
	}
	return e.Align(r.SixtyFourBit()), true
}

// TableNames returns every canonical name present in the builtin table,
// in no particular order.
func TableNames() []string {
	names := make([]string, 0, len(builtinTable))
	for name := range builtinTable {
		names = append(names, name)
	}
	return names
}

// builtinTable follows the System V ABI for i386 (32-bit columns) and
// x86-64 (64-bit columns). Equivalent specifier orderings ("long long"
// vs "long long int") are distinct keys; the table, not a
// canonicalization rule, is the source of truth.
var builtinTable = buildTable()

func buildTable() map[string]Entry {
	table := make(map[string]Entry, 96)
	put := func(e Entry, names ...string) {
		for _, name := range names {
			table[name] = e
		}
	}

	put(Entry{1, 1, 1, 1, "incomplete type"}, "void")
	put(Entry{1, 1, 1, 1, "boolean"}, "bool", "_bool")
	put(Entry{1, 1, 1, 1, "character"},
		"char", "signed char", "unsigned char")
	put(Entry{4, 4, 4, 4, "wide character"}, "wchar_t")

	put(Entry{2, 2, 2, 2, "16-bit integer"},
		"short", "short int", "signed short", "signed short int",
		"unsigned short", "unsigned short int")
	put(Entry{4, 4, 4, 4, "32-bit integer"},
		"int", "signed", "signed int", "unsigned", "unsigned int")
	put(Entry{4, 4, 8, 8, "platform-sized integer"},
		"long", "long int", "signed long", "signed long int",
		"unsigned long", "unsigned long int")
	put(Entry{8, 4, 8, 8, "64-bit integer"},
		"long long", "long long int", "signed long long",
		"signed long long int", "unsigned long long",
		"unsigned long long int")

	put(Entry{4, 4, 4, 4, "single-precision float"}, "float")
	put(Entry{8, 4, 8, 8, "double-precision float"}, "double")
	put(Entry{12, 4, 16, 16, "extended-precision float"}, "long double")

	put(Entry{1, 1, 1, 1, "exact 8-bit integer"}, "int8_t", "uint8_t")
	put(Entry{2, 2, 2, 2, "exact 16-bit integer"}, "int16_t", "uint16_t")
	put(Entry{4, 4, 4, 4, "exact 32-bit integer"}, "int32_t", "uint32_t")
	put(Entry{8, 4, 8, 8, "exact 64-bit integer"}, "int64_t", "uint64_t")

	put(Entry{1, 1, 1, 1, "smallest integer of at least 8 bits"},
		"int_least8_t", "uint_least8_t")
	put(Entry{2, 2, 2, 2, "smallest integer of at least 16 bits"},
		"int_least16_t", "uint_least16_t")
	put(Entry{4, 4, 4, 4, "smallest integer of at least 32 bits"},
		"int_least32_t", "uint_least32_t")
	put(Entry{8, 4, 8, 8, "smallest integer of at least 64 bits"},
		"int_least64_t", "uint_least64_t")

	put(Entry{1, 1, 1, 1, "fastest integer of at least 8 bits"},
		"int_fast8_t", "uint_fast8_t")
	put(Entry{4, 4, 8, 8, "fastest integer of at least 16 bits"},
		"int_fast16_t", "uint_fast16_t")
	put(Entry{4, 4, 8, 8, "fastest integer of at least 32 bits"},
		"int_fast32_t", "uint_fast32_t")
	put(Entry{8, 4, 8, 8, "fastest integer of at least 64 bits"},
		"int_fast64_t", "uint_fast64_t")
	put(Entry{8, 4, 8, 8, "widest integer"}, "intmax_t", "uintmax_t")

	put(Entry{4, 4, 8, 8, "size of any object"}, "size_t")
	put(Entry{4, 4, 8, 8, "pointer difference"}, "ptrdiff_t")
	put(Entry{4, 4, 8, 8, "pointer-sized integer"},
		"intptr_t", "uintptr_t")

	put(Entry{4, 4, 4, 4, "enumeration"}, "enum")

	return table
}
