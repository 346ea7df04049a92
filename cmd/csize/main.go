package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"csize/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "csize",
	Short: "C type size and layout inspector",
	Long:  `csize resolves C and C++ type expressions to their size and alignment under 32-bit and 64-bit data models`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status
// code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(sizeofCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("arch", "", "architecture override (auto|x32|x64|target:<descriptor>)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
