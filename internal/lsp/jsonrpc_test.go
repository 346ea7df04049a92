package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"csize/internal/arch"
)

func frame(t *testing.T, msg any) []byte {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	return []byte(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(payload), payload))
}

func TestReadWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMessage(&buf, []byte(`{"jsonrpc":"2.0"}`)); err != nil {
		t.Fatal(err)
	}
	payload, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if string(payload) != `{"jsonrpc":"2.0"}` {
		t.Fatalf("round trip mismatch: %s", payload)
	}
}

func TestReadMessageMissingLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("X-Other: 1\r\n\r\n"))
	if _, err := readMessage(r); err == nil {
		t.Fatal("expected an error for a missing Content-Length")
	}
}

func TestServerSession(t *testing.T) {
	src := "unsigned long long x;"
	var in bytes.Buffer
	in.Write(frame(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
		"params": map[string]any{},
	}))
	in.Write(frame(t, map[string]any{
		"jsonrpc": "2.0", "method": "textDocument/didOpen",
		"params": map[string]any{
			"textDocument": map[string]any{
				"uri": "file:///a.c", "languageId": "c", "version": 1, "text": src,
			},
		},
	}))
	in.Write(frame(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "textDocument/hover",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file:///a.c"},
			"position":     map[string]any{"line": 0, "character": 10},
		},
	}))
	in.Write(frame(t, map[string]any{"jsonrpc": "2.0", "id": 3, "method": "shutdown"}))
	in.Write(frame(t, map[string]any{"jsonrpc": "2.0", "method": "exit"}))

	var out bytes.Buffer
	s := NewServer(&in, &out, ServerOptions{Config: arch.Config{Mode: arch.ModeX64}})
	if err := s.Run(t.Context()); !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}
	responses := out.String()
	if !strings.Contains(responses, `"hoverProvider":true`) {
		t.Fatalf("initialize response missing hover capability: %s", responses)
	}
	if !strings.Contains(responses, "unsigned long long") {
		t.Fatalf("hover response missing type text: %s", responses)
	}
	if !strings.Contains(responses, "Size: 8 bytes") {
		t.Fatalf("hover response missing layout: %s", responses)
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	var in bytes.Buffer
	in.Write(frame(t, map[string]any{"jsonrpc": "2.0", "method": "exit"}))
	var out bytes.Buffer
	s := NewServer(&in, &out, ServerOptions{})
	if err := s.Run(t.Context()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("expected ErrExitWithoutShutdown, got %v", err)
	}
}
