package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"csize/internal/engine"
	"csize/internal/source"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	result := s.buildHover(params.TextDocument.URI, text, params.Position)
	return s.sendResponse(msg.ID, result)
}

// buildHover resolves the type expression under the position and
// renders it as markdown. A nil return means no hover information,
// which covers both "nothing under the cursor" and "unknown type".
func (s *Server) buildHover(uri, text string, pos position) *hover {
	offset := offsetForPosition(text, pos)
	line, lineStart := source.LineAt(text, offset)
	cursor := offset - lineStart

	types := s.aggregates.Get(uri, text, s.resolver)
	eng := engine.New(s.resolver, types)
	res, ok := eng.Resolve(line, cursor, types.Names())
	if !ok {
		return nil
	}

	lines := []string{"```c\n" + res.Text + "\n```", formatLayout(res)}
	if s.resolver.ShowArchitecture() {
		lines = append(lines, "Architecture: "+s.resolver.Label())
	}

	shift, err := safecast.Conv[uint32](lineStart)
	if err != nil {
		return nil
	}
	span := res.Span.ShiftRight(shift)
	hoverRange := lspRange{
		Start: positionForOffset(text, int(span.Start)),
		End:   positionForOffset(text, int(span.End)),
	}
	return &hover{
		Contents: markupContent{
			Kind:  "markdown",
			Value: strings.Join(lines, "\n\n"),
		},
		Range: &hoverRange,
	}
}

func formatLayout(res engine.Result) string {
	switch {
	case res.Pointer:
		return fmt.Sprintf("Size: %d bytes (%s)", res.Size, res.Desc)
	case res.Align > 0:
		return fmt.Sprintf("Size: %d bytes, alignment: %d bytes (%s)", res.Size, res.Align, res.Desc)
	default:
		return fmt.Sprintf("Total size: %d bytes (%s)", res.Size, res.Desc)
	}
}
