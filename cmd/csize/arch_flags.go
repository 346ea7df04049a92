package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"csize/internal/arch"
	"csize/internal/config"
)

// effectiveArchConfig merges the manifest architecture settings with
// the --arch flag. The flag wins over the manifest, the manifest over
// defaults.
func effectiveArchConfig(cmd *cobra.Command) (arch.Config, error) {
	cfg, err := config.EffectiveConfig(".")
	if err != nil {
		return cfg, err
	}
	override, _ := cmd.Flags().GetString("arch")
	override = strings.TrimSpace(override)
	if override == "" {
		return cfg, nil
	}
	switch {
	case override == "auto":
		cfg.Mode = arch.ModeAuto
	case override == "x32":
		cfg.Mode = arch.ModeX32
	case override == "x64":
		cfg.Mode = arch.ModeX64
	case strings.HasPrefix(override, "target:"):
		cfg.Mode = arch.ModeTarget
		cfg.TargetDescriptor = strings.TrimSpace(strings.TrimPrefix(override, "target:"))
	default:
		return cfg, fmt.Errorf("invalid --arch value %q (expected auto|x32|x64|target:<descriptor>)", override)
	}
	return cfg, nil
}

// applyColorMode configures fatih/color globally from the --color flag.
func applyColorMode(cmd *cobra.Command) error {
	mode, _ := cmd.Flags().GetString("color")
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}
