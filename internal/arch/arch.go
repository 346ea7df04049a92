// Package arch maps canonical C/C++ type names to architecture-aware
// memory layouts. A Resolver holds the effective target bitness, derived
// from configuration on every Refresh, and answers size/alignment
// queries against a fixed builtin table.
package arch

import (
	"math/bits"
	"strings"
	"sync"
)

// Mode selects how the effective architecture is derived.
type Mode string

const (
	// ModeAuto uses the host process's native word size.
	ModeAuto Mode = "auto"
	// ModeX32 forces a 32-bit target.
	ModeX32 Mode = "x32"
	// ModeX64 forces a 64-bit target.
	ModeX64 Mode = "x64"
	// ModeTarget classifies a toolchain-reported target descriptor,
	// falling back to host detection when the descriptor is missing or
	// unrecognized.
	ModeTarget Mode = "target"
)

// Config is the architecture-relevant slice of the tool configuration.
type Config struct {
	Mode Mode
	// TargetDescriptor is a toolchain-reported target string, e.g. an
	// IntelliSense mode identifier like "linux-gcc-x64". Read only in
	// ModeTarget.
	TargetDescriptor string
	// ShowArchitecture controls whether consumers append the
	// architecture label to rendered results.
	ShowArchitecture bool
}

// DefaultConfig returns the configuration used when no manifest or
// editor settings are present.
func DefaultConfig() Config {
	return Config{Mode: ModeAuto, ShowArchitecture: true}
}

// Resolver holds the current effective architecture. State is replaced
// wholesale by Refresh; reads and refreshes may interleave on
// multi-threaded hosts, so the swap is guarded.
type Resolver struct {
	mu        sync.RWMutex
	cfg       Config
	sixtyFour bool
	label     string
}

// New constructs a Resolver and performs an initial Refresh.
func New(cfg Config) *Resolver {
	r := &Resolver{}
	r.Refresh(cfg)
	return r
}

// Refresh re-derives the effective architecture from cfg. It never
// fails: an empty or unknown configuration falls back to host
// detection.
func (r *Resolver) Refresh(cfg Config) {
	sixtyFour, label := derive(cfg)
	r.mu.Lock()
	r.cfg = cfg
	r.sixtyFour = sixtyFour
	r.label = label
	r.mu.Unlock()
}

// SixtyFourBit reports whether the effective target is 64-bit.
func (r *Resolver) SixtyFourBit() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sixtyFour
}

// Label returns a human-readable description of the effective
// architecture and how it was derived.
func (r *Resolver) Label() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.label
}

// Config returns the configuration of the last Refresh.
func (r *Resolver) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// ShowArchitecture reports whether consumers should render the label.
func (r *Resolver) ShowArchitecture() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.ShowArchitecture
}

// PointerSize returns the pointer size in bytes for the effective
// target. Pointers are sized by bitness alone, never by pointee type.
func (r *Resolver) PointerSize() int {
	if r.SixtyFourBit() {
		return 8
	}
	return 4
}

func derive(cfg Config) (sixtyFour bool, label string) {
	switch cfg.Mode {
	case ModeX32:
		return false, "x32 (forced)"
	case ModeX64:
		return true, "x64 (forced)"
	case ModeTarget:
		if sixtyFour, ok := classifyTarget(cfg.TargetDescriptor); ok {
			return sixtyFour, bitsName(sixtyFour) + " (" + cfg.TargetDescriptor + ")"
		}
		host := hostSixtyFour()
		return host, bitsName(host) + " (host fallback)"
	default:
		host := hostSixtyFour()
		return host, bitsName(host) + " (host)"
	}
}

func hostSixtyFour() bool {
	return bits.UintSize == 64
}

func bitsName(sixtyFour bool) string {
	if sixtyFour {
		return "x64"
	}
	return "x32"
}

// 64-bit patterns are checked first so that descriptors matching both
// classes (e.g. "x86_64", "arm64") classify as 64-bit.
var (
	target64Patterns = []string{"x64", "amd64", "arm64", "aarch64"}
	target32Patterns = []string{"x86", "i386", "i686", "arm", "32"}
)

func classifyTarget(desc string) (sixtyFour, ok bool) {
	desc = strings.ToLower(strings.TrimSpace(desc))
	if desc == "" {
		return false, false
	}
	for _, pat := range target64Patterns {
		if strings.Contains(desc, pat) {
			return true, true
		}
	}
	for _, pat := range target32Patterns {
		if strings.Contains(desc, pat) {
			return false, true
		}
	}
	return false, false
}
