package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"csize/internal/aggregate"
	"csize/internal/arch"
	"csize/internal/source"
	"csize/internal/ui"
)

var (
	typesNoCache bool
	typesJobs    int
)

func init() {
	typesCmd.Flags().BoolVar(&typesNoCache, "no-cache", false, "bypass the on-disk scan cache")
	typesCmd.Flags().IntVar(&typesJobs, "jobs", 0, "parallel scan workers (0 = number of CPUs)")
}

var typesCmd = &cobra.Command{
	Use:          "types [files or directories]",
	Short:        "List aggregate types with their x32 and x64 totals",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runTypes,
}

var sourceExtensions = map[string]bool{
	".c": true, ".h": true,
	".cc": true, ".hh": true,
	".cpp": true, ".hpp": true,
	".cxx": true, ".hxx": true,
}

type fileTypes struct {
	path string
	rows []ui.TypeRow
	err  error
}

func runTypes(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	files, err := collectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no C or C++ sources found")
	}

	var dcache *aggregate.DiskCache
	if !typesNoCache {
		// Cache failures degrade to a plain rescan.
		dcache, _ = aggregate.OpenDiskCache("csize")
	}

	resolver32 := arch.New(arch.Config{Mode: arch.ModeX32})
	resolver64 := arch.New(arch.Config{Mode: arch.ModeX64})

	results := make([]fileTypes, len(files))
	g, _ := errgroup.WithContext(cmd.Context())
	jobs := typesJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			results[i] = scanFile(path, resolver32, resolver64, dcache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "csize: %v\n", res.err)
			continue
		}
		if len(res.rows) == 0 {
			continue
		}
		if !quiet {
			fmt.Fprintln(out, ui.Truncate(res.path, 80))
		}
		fmt.Fprintln(out, ui.RenderTypeTable(res.rows))
	}
	return nil
}

func scanFile(path string, resolver32, resolver64 *arch.Resolver, dcache *aggregate.DiskCache) fileTypes {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileTypes{path: path, err: fmt.Errorf("failed to read %q: %w", path, err)}
	}
	text := source.NormalizeCRLF(string(data))
	key := aggregate.ContentKey([]byte(text))

	types32 := cachedScan(dcache, key, text, resolver32, false)
	types64 := cachedScan(dcache, key, text, resolver64, true)

	var rows []ui.TypeRow
	for _, name := range types64.All() {
		kind, _ := types64.Kind(name)
		info32, ok32 := types32.LookupAggregate(name)
		info64, ok64 := types64.LookupAggregate(name)
		rows = append(rows, ui.TypeRow{
			Name:   name,
			Kind:   kind,
			Size32: info32.TotalSize,
			Size64: info64.TotalSize,
			Sized:  ok32 && ok64,
		})
	}
	return fileTypes{path: path, rows: rows}
}

func cachedScan(dcache *aggregate.DiskCache, key [32]byte, text string, resolver *arch.Resolver, sixtyFour bool) *aggregate.DocumentTypes {
	if dcache != nil {
		if types, ok, err := dcache.Get(key, sixtyFour); err == nil && ok {
			return types
		}
	}
	types := aggregate.Scan(text, resolver)
	if dcache != nil {
		_ = dcache.Put(key, types, sixtyFour)
	}
	return types
}

func collectSourceFiles(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, argPath := range args {
		info, err := os.Stat(argPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", argPath, err)
		}
		if !info.IsDir() {
			add(argPath)
			continue
		}
		err = filepath.WalkDir(argPath, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			if sourceExtensions[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", argPath, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
