// Package engine resolves a cursor position in a line of C/C++ source
// into a concrete memory layout. It composes the span locator, the
// aggregate collaborator, and the architecture resolver; rendering
// layers need nothing beyond Resolve and ArchitectureLabel.
package engine

import (
	"strings"

	"fortio.org/safecast"

	"csize/internal/arch"
	"csize/internal/scan"
	"csize/internal/source"
)

// AggregateInfo is the collaborator-supplied layout of a user-defined
// aggregate. The engine treats it as an opaque lookup result and never
// computes aggregate padding itself.
type AggregateInfo struct {
	TotalSize int
}

// AggregateLookup supplies per-document aggregate layouts. A nil
// lookup is valid and simply never matches.
type AggregateLookup interface {
	LookupAggregate(name string) (AggregateInfo, bool)
}

// AggregateLookupFunc adapts a function to AggregateLookup.
type AggregateLookupFunc func(name string) (AggregateInfo, bool)

func (f AggregateLookupFunc) LookupAggregate(name string) (AggregateInfo, bool) {
	return f(name)
}

// Result is a resolved layout for the type expression at the cursor.
// Align is zero when unknown: aggregate totals carry no alignment.
type Result struct {
	Text  string
	Span  source.Span
	Size  int
	Align int
	Desc  string
	// Pointer results report pointer size regardless of the pointee;
	// Pointee carries the base type's identity for rendering only.
	Pointer bool
	Pointee string
}

// Engine is a stateless facade over its three collaborators.
type Engine struct {
	arch       *arch.Resolver
	aggregates AggregateLookup
}

func New(resolver *arch.Resolver, aggregates AggregateLookup) *Engine {
	return &Engine{arch: resolver, aggregates: aggregates}
}

// Arch exposes the underlying resolver for consumers that render
// architecture detail.
func (e *Engine) Arch() *arch.Resolver {
	return e.arch
}

// ArchitectureLabel returns the human-readable effective architecture.
func (e *Engine) ArchitectureLabel() string {
	return e.arch.Label()
}

// Resolve locates the type expression at the cursor and maps it to a
// layout. A false return means "no hover information available", which
// covers both "nothing under the cursor" and "unknown type".
func (e *Engine) Resolve(line string, cursor int, known scan.Known) (Result, bool) {
	m, ok := scan.Locate(line, cursor, known)
	if !ok {
		return Result{}, false
	}
	if strings.Contains(m.Text, "*") {
		return e.resolvePointer(m), true
	}
	return e.resolveBase(m)
}

// ResolveText resolves a full type expression directly, as if the whole
// string were the located match. Used by the CLI.
func (e *Engine) ResolveText(text string) (Result, bool) {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return Result{}, false
	}
	end, err := safecast.Conv[uint32](len(collapsed))
	if err != nil {
		return Result{}, false
	}
	m := scan.Match{
		Text: collapsed,
		Span: source.Span{End: end},
	}
	if strings.Contains(collapsed, "*") {
		return e.resolvePointer(m), true
	}
	return e.resolveBase(m)
}

// resolvePointer reports pointer size for any match carrying pointer
// markers. The base type is resolved only to describe the pointee;
// its size, or absence, never changes the result.
func (e *Engine) resolvePointer(m scan.Match) Result {
	base := strings.Join(strings.Fields(strings.ReplaceAll(m.Text, "*", " ")), " ")
	size := e.arch.PointerSize()
	res := Result{
		Text:    m.Text,
		Span:    m.Span,
		Size:    size,
		Align:   size,
		Desc:    "pointer",
		Pointer: true,
		Pointee: base,
	}
	if base == "" {
		res.Pointee = "unknown"
		return res
	}
	if _, ok := e.lookupAggregate(base); ok {
		res.Desc = "pointer to " + base
		return res
	}
	if entry, ok := e.lookupBuiltin(base); ok {
		res.Desc = "pointer to " + base
		if entry.Desc != "" {
			res.Desc += " (" + entry.Desc + ")"
		}
	}
	return res
}

func (e *Engine) resolveBase(m scan.Match) (Result, bool) {
	if info, ok := e.lookupAggregate(m.Text); ok {
		return Result{
			Text: m.Text,
			Span: m.Span,
			Size: info.TotalSize,
			Desc: "user-defined type",
		}, true
	}
	if entry, ok := e.lookupBuiltin(m.Text); ok {
		sixtyFour := e.arch.SixtyFourBit()
		return Result{
			Text:  m.Text,
			Span:  m.Span,
			Size:  entry.Size(sixtyFour),
			Align: entry.Align(sixtyFour),
			Desc:  entry.Desc,
		}, true
	}
	return Result{}, false
}

// lookupAggregate checks the collaborator by exact name and by name
// with a leading aggregate keyword stripped.
func (e *Engine) lookupAggregate(name string) (AggregateInfo, bool) {
	if e.aggregates == nil {
		return AggregateInfo{}, false
	}
	if info, ok := e.aggregates.LookupAggregate(name); ok {
		return info, true
	}
	for _, prefix := range []string{"struct ", "union ", "class "} {
		if rest, found := strings.CutPrefix(name, prefix); found {
			return e.aggregates.LookupAggregate(rest)
		}
	}
	return AggregateInfo{}, false
}

var qualifierTokens = map[string]struct{}{
	"const": {}, "volatile": {}, "static": {}, "extern": {}, "register": {},
}

// lookupBuiltin tries the exact table key first, then retries with
// storage and cv qualifiers stripped, so "const unsigned long" resolves
// through the "unsigned long" entry.
func (e *Engine) lookupBuiltin(name string) (arch.Entry, bool) {
	if entry, ok := e.arch.Lookup(name); ok {
		return entry, true
	}
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if _, isQual := qualifierTokens[strings.ToLower(f)]; !isQual {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 || len(kept) == len(fields) {
		return arch.Entry{}, false
	}
	return e.arch.Lookup(strings.Join(kept, " "))
}
