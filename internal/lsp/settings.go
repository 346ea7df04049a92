package lsp

import (
	"encoding/json"

	"csize/internal/arch"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

// applySettings merges editor settings over the base configuration and
// refreshes the architecture state. Aggregate caches are dropped only
// when a layout-relevant key actually changed; showArchitecture alone
// does not alter member layouts.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	s.mu.Lock()
	cfg := s.baseConfig
	s.mu.Unlock()
	if settings.Csize.Architecture != nil {
		cfg.Mode = arch.Mode(*settings.Csize.Architecture)
	}
	if settings.Csize.ShowArchitecture != nil {
		cfg.ShowArchitecture = *settings.Csize.ShowArchitecture
	}
	if settings.Csize.Toolchain.Target != nil {
		cfg.TargetDescriptor = *settings.Csize.Toolchain.Target
	}

	previous := s.resolver.Config()
	s.resolver.Refresh(cfg)
	if previous.Mode != cfg.Mode || previous.TargetDescriptor != cfg.TargetDescriptor {
		s.aggregates.InvalidateAll()
	}
}
