package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"csize/internal/aggregate"
	"csize/internal/arch"
	"csize/internal/engine"
	"csize/internal/source"
	"csize/internal/ui"
)

var (
	sizeofFile string
	sizeofLine int
	sizeofCol  int
)

func init() {
	sizeofCmd.Flags().StringVar(&sizeofFile, "file", "", "resolve inside a source file instead of an expression")
	sizeofCmd.Flags().IntVar(&sizeofLine, "line", 1, "1-based line number within --file")
	sizeofCmd.Flags().IntVar(&sizeofCol, "col", 0, "0-based column within the line")
}

var sizeofCmd = &cobra.Command{
	Use:          "sizeof [type expression...]",
	Short:        "Resolve a type expression to its size and alignment",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runSizeof,
}

func runSizeof(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	cfg, err := effectiveArchConfig(cmd)
	if err != nil {
		return err
	}
	resolver := arch.New(cfg)

	var res engine.Result
	var found bool
	switch {
	case sizeofFile != "":
		res, found, err = resolveInFile(resolver, sizeofFile, sizeofLine, sizeofCol)
		if err != nil {
			return err
		}
	case len(args) > 0:
		eng := engine.New(resolver, nil)
		res, found = eng.ResolveText(strings.Join(args, " "))
	default:
		return fmt.Errorf("pass a type expression or --file")
	}

	if !found {
		return fmt.Errorf("no type recognized")
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		fmt.Fprintln(cmd.OutOrStdout(), res.Size)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderResult(res, resolver.Label(), resolver.ShowArchitecture()))
	return nil
}

// resolveInFile resolves the type expression at a file position, with
// the file's own aggregates in scope.
func resolveInFile(resolver *arch.Resolver, path string, lineNum, col int) (engine.Result, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Result{}, false, fmt.Errorf("failed to read %q: %w", path, err)
	}
	text := source.NormalizeCRLF(string(data))
	types := aggregate.Scan(text, resolver)
	line, _, ok := source.LineByNumber(text, lineNum)
	if !ok {
		return engine.Result{}, false, fmt.Errorf("line %d is out of range for %q", lineNum, path)
	}
	line = strings.TrimRight(line, "\r")
	eng := engine.New(resolver, types)
	res, found := eng.Resolve(line, col, types.Names())
	return res, found, nil
}
