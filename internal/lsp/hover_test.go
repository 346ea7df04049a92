package lsp

import (
	"strings"
	"testing"

	"csize/internal/arch"
)

func testServer(cfg arch.Config) *Server {
	return NewServer(strings.NewReader(""), &strings.Builder{}, ServerOptions{Config: cfg})
}

func posOf(t *testing.T, text, substr string) position {
	t.Helper()
	idx := strings.Index(text, substr)
	if idx < 0 {
		t.Fatalf("text does not contain %q", substr)
	}
	return positionForOffset(text, idx)
}

func TestHoverBuiltinType(t *testing.T) {
	src := strings.Join([]string{
		"#include <stddef.h>",
		"",
		"int main(void) {",
		"    unsigned long long total = 0;",
		"    return 0;",
		"}",
	}, "\n")
	s := testServer(arch.Config{Mode: arch.ModeX64, ShowArchitecture: true})
	h := s.buildHover("file:///main.c", src, posOf(t, src, "long long"))
	if h == nil {
		t.Fatal("expected hover")
	}
	if !strings.Contains(h.Contents.Value, "unsigned long long") {
		t.Fatalf("expected the type text, got %q", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "Size: 8 bytes") {
		t.Fatalf("expected the size, got %q", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "x64 (forced)") {
		t.Fatalf("expected the architecture label, got %q", h.Contents.Value)
	}
	if h.Range == nil {
		t.Fatal("expected a hover range")
	}
}

func TestHoverHidesArchitectureWhenDisabled(t *testing.T) {
	src := "double d;"
	s := testServer(arch.Config{Mode: arch.ModeX64, ShowArchitecture: false})
	h := s.buildHover("file:///main.c", src, position{})
	if h == nil {
		t.Fatal("expected hover")
	}
	if strings.Contains(h.Contents.Value, "Architecture:") {
		t.Fatalf("architecture line should be hidden, got %q", h.Contents.Value)
	}
}

func TestHoverUserDefinedAggregate(t *testing.T) {
	src := strings.Join([]string{
		"struct Vec3 {",
		"    float x;",
		"    float y;",
		"    float z;",
		"};",
		"",
		"Vec3 origin;",
	}, "\n")
	s := testServer(arch.Config{Mode: arch.ModeX64})
	h := s.buildHover("file:///vec.cpp", src, posOf(t, src, "Vec3 origin"))
	if h == nil {
		t.Fatal("expected hover for a typedef-free user type")
	}
	if !strings.Contains(h.Contents.Value, "Total size: 12 bytes") {
		t.Fatalf("got %q", h.Contents.Value)
	}
}

func TestHoverPointer(t *testing.T) {
	src := "int *p;"
	s := testServer(arch.Config{Mode: arch.ModeX32})
	h := s.buildHover("file:///p.c", src, position{})
	if h == nil {
		t.Fatal("expected hover")
	}
	if !strings.Contains(h.Contents.Value, "Size: 4 bytes") {
		t.Fatalf("expected pointer size, got %q", h.Contents.Value)
	}
	if !strings.Contains(h.Contents.Value, "int") {
		t.Fatalf("expected the pointee identity, got %q", h.Contents.Value)
	}
}

func TestHoverNothingUnderCursor(t *testing.T) {
	src := "int x; // nothing here"
	s := testServer(arch.DefaultConfig())
	if h := s.buildHover("file:///x.c", src, posOf(t, src, "nothing")); h != nil {
		t.Fatalf("expected no hover, got %q", h.Contents.Value)
	}
}

func TestSettingsRefreshArchitecture(t *testing.T) {
	s := testServer(arch.Config{Mode: arch.ModeX64, ShowArchitecture: true})
	s.applySettings([]byte(`{"csize":{"architecture":"x32"}}`))
	if s.resolver.SixtyFourBit() {
		t.Fatal("settings should have forced 32-bit")
	}
	s.applySettings([]byte(`{"csize":{"architecture":"target","toolchain":{"target":"linux-gcc-x64"}}}`))
	if !s.resolver.SixtyFourBit() {
		t.Fatal("target descriptor should classify as 64-bit")
	}
	if !strings.Contains(s.resolver.Label(), "linux-gcc-x64") {
		t.Fatalf("label should carry the descriptor, got %q", s.resolver.Label())
	}
	// malformed settings leave state untouched
	s.applySettings([]byte(`{"csize":`))
	if !s.resolver.SixtyFourBit() {
		t.Fatal("malformed settings must not change state")
	}
}

func TestSettingsRescanAggregatesOnArchChange(t *testing.T) {
	src := "struct Row { long id; char tag; };\nRow r;"
	s := testServer(arch.Config{Mode: arch.ModeX64})
	h := s.buildHover("file:///row.cpp", src, posOf(t, src, "Row r"))
	if h == nil || !strings.Contains(h.Contents.Value, "Total size: 16 bytes") {
		t.Fatalf("x64 hover: %+v", h)
	}
	s.applySettings([]byte(`{"csize":{"architecture":"x32"}}`))
	h = s.buildHover("file:///row.cpp", src, posOf(t, src, "Row r"))
	if h == nil || !strings.Contains(h.Contents.Value, "Total size: 8 bytes") {
		t.Fatalf("x32 hover after refresh: %+v", h)
	}
}
