package ui

import (
	"strings"
	"testing"

	"csize/internal/engine"
)

func TestRenderResult_SizedType(t *testing.T) {
	res := engine.Result{Text: "long", Size: 8, Align: 8, Desc: "signed long integer"}
	out := RenderResult(res, "x64 (host)", true)
	if !strings.Contains(out, "long") {
		t.Fatalf("expected type text in output, got %q", out)
	}
	if !strings.Contains(out, "size 8, alignment 8") {
		t.Errorf("expected layout line, got %q", out)
	}
	if !strings.Contains(out, "x64 (host)") {
		t.Errorf("expected architecture label, got %q", out)
	}
}

func TestRenderResult_HidesLabel(t *testing.T) {
	res := engine.Result{Text: "int", Size: 4, Align: 4}
	out := RenderResult(res, "x64 (host)", false)
	if strings.Contains(out, "x64") {
		t.Errorf("expected no architecture label, got %q", out)
	}
}

func TestRenderResult_AggregateTotal(t *testing.T) {
	res := engine.Result{Text: "struct Sample", Size: 12}
	out := RenderResult(res, "", false)
	if !strings.Contains(out, "total size 12") {
		t.Errorf("expected total size line, got %q", out)
	}
}

func TestRenderTypeTable_Alignment(t *testing.T) {
	rows := []TypeRow{
		{Name: "Sample", Kind: "struct", Size32: 12, Size64: 12, Sized: true},
		{Name: "Handle", Kind: "struct"},
	}
	out := RenderTypeTable(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "12") {
		t.Errorf("expected sized row to show totals, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "?") {
		t.Errorf("expected unsized row to show placeholders, got %q", lines[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 40); got != "short" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	got := Truncate("a/very/long/path/to/some/file.c", 12)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
