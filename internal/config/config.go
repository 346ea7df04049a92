// Package config loads the optional csize.toml manifest, discovered
// upward from the working directory. Absence of the file or of any key
// falls back to defaults; loading never fails for missing manifests.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"csize/internal/arch"
)

// Manifest is a located and parsed csize.toml.
type Manifest struct {
	Path string
	Root string
	File File
}

// File mirrors the csize.toml schema.
type File struct {
	Architecture ArchitectureSection `toml:"architecture"`
	Toolchain    ToolchainSection    `toml:"toolchain"`
}

type ArchitectureSection struct {
	Mode string `toml:"mode"`
	Show *bool  `toml:"show"`
}

type ToolchainSection struct {
	Target string `toml:"target"`
}

// ArchConfig maps the manifest onto an architecture configuration,
// filling defaults for absent keys.
func (f File) ArchConfig() arch.Config {
	cfg := arch.DefaultConfig()
	switch arch.Mode(f.Architecture.Mode) {
	case arch.ModeAuto, arch.ModeX32, arch.ModeX64, arch.ModeTarget:
		cfg.Mode = arch.Mode(f.Architecture.Mode)
	}
	if f.Architecture.Show != nil {
		cfg.ShowArchitecture = *f.Architecture.Show
	}
	cfg.TargetDescriptor = f.Toolchain.Target
	return cfg
}

func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "csize.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load walks up from startDir looking for csize.toml. The second return
// reports whether a manifest was found; a missing manifest is not an
// error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := find(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, true, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return &Manifest{
		Path: path,
		Root: filepath.Dir(path),
		File: file,
	}, true, nil
}

// EffectiveConfig loads the manifest and returns its architecture
// configuration, or the defaults when no manifest exists.
func EffectiveConfig(startDir string) (arch.Config, error) {
	manifest, ok, err := Load(startDir)
	if err != nil {
		return arch.DefaultConfig(), err
	}
	if !ok {
		return arch.DefaultConfig(), nil
	}
	return manifest.File.ArchConfig(), nil
}
