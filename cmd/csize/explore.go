package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"csize/internal/aggregate"
	"csize/internal/arch"
	"csize/internal/engine"
	"csize/internal/scan"
	"csize/internal/source"
	"csize/internal/ui"
)

var exploreFile string

func init() {
	exploreCmd.Flags().StringVar(&exploreFile, "file", "", "preload aggregates from a source file")
}

var exploreCmd = &cobra.Command{
	Use:          "explore",
	Short:        "Interactively resolve type expressions under both bit-widths",
	SilenceUsage: true,
	RunE:         runExplore,
}

func runExplore(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("explore needs a terminal, use sizeof for scripted output")
	}

	resolver32 := arch.New(arch.Config{Mode: arch.ModeX32})
	resolver64 := arch.New(arch.Config{Mode: arch.ModeX64})

	var known scan.Known
	var types32, types64 *aggregate.DocumentTypes
	if exploreFile != "" {
		data, err := os.ReadFile(exploreFile)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", exploreFile, err)
		}
		text := source.NormalizeCRLF(string(data))
		types32 = aggregate.Scan(text, resolver32)
		types64 = aggregate.Scan(text, resolver64)
		known = types64.Names()
	}

	eng32 := engine.New(resolver32, types32)
	eng64 := engine.New(resolver64, types64)

	model := ui.NewExploreModel(eng32, eng64, known, exploreFile)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err := program.Run()
	return err
}
