package scan

import (
	"regexp"
	"sort"
	"strings"
)

// vocabulary is the fixed set of tokens the composite and bare-word
// strategies recognize. Arbitrary repetition and ordering is accepted
// on purpose: the scanner is a hover heuristic, not a grammar checker,
// and tightening it would regress legal-but-unusual orderings.
var vocabulary = buildVocabulary()

var vocabularySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(vocabulary))
	for _, tok := range vocabulary {
		set[tok] = struct{}{}
	}
	return set
}()

func buildVocabulary() []string {
	tokens := []string{
		// qualifiers and storage classes
		"signed", "unsigned", "const", "volatile", "static", "extern", "register",
		// base specifiers
		"short", "long", "char", "int", "float", "double", "bool", "_Bool", "wchar_t",
		// system aliases
		"size_t", "ptrdiff_t", "intptr_t", "uintptr_t",
		"intmax_t", "uintmax_t",
		// aggregate keywords
		"struct", "union", "enum", "class",
		"void",
	}
	for _, n := range []string{"8", "16", "32", "64"} {
		tokens = append(tokens,
			"int"+n+"_t", "uint"+n+"_t",
			"int_fast"+n+"_t", "uint_fast"+n+"_t",
			"int_least"+n+"_t", "uint_least"+n+"_t",
		)
	}
	return tokens
}

// compositeRe matches one or more whitespace-separated vocabulary
// tokens, optionally followed by pointer markers. The alternation is
// sorted longest-first so "intptr_t" is not eaten by its "int" prefix.
var compositeRe = func() *regexp.Regexp {
	alts := make([]string, len(vocabulary))
	copy(alts, vocabulary)
	sort.Slice(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	group := "(?:" + strings.Join(alts, "|") + ")"
	return regexp.MustCompile(`\b` + group + `(?:\s+` + group + `)*\b(?:\s*\*+)?`)
}()

// aggregateRe matches an aggregate keyword, an identifier, and optional
// pointer markers. Capture group 1 is the identifier.
var aggregateRe = regexp.MustCompile(`\b(?:struct|union|class) +([A-Za-z_][A-Za-z0-9_]*)(?:\s*\*+)?`)
