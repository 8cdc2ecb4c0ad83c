package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csafe/internal/catalog"
	"csafe/internal/diagfmt"
	"csafe/internal/driver"
)

var transpileDirCmd = &cobra.Command{
	Use:   "transpile-dir <dir>",
	Short: "Transpile every *.ast.json translation unit under a directory",
	Long:  `Fans out the ownership/lifetime/verify/codegen pipeline across every *.ast.json file under dir and writes one rendered source file per unit.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTranspileDir,
}

func init() {
	transpileDirCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json|sarif)")
	transpileDirCmd.Flags().String("catalog", "", "path to a TOML allocator/union catalog (merged over the malloc/free default)")
	transpileDirCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto, GOMAXPROCS)")
	transpileDirCmd.Flags().Bool("disk-cache", false, "reuse the on-disk cache for units whose AST content hash is unchanged")
	transpileDirCmd.Flags().String("out-dir", "", "write rendered sources under this directory instead of beside each input")
	transpileDirCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	transpileDirCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostic output")
}

func runTranspileDir(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	dir := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	catalogPath, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return fmt.Errorf("failed to get catalog flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	cat := catalog.Default()
	if catalogPath != "" {
		cat, err = catalog.Load(catalogPath)
		if err != nil {
			return err
		}
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := driver.RunDir(cmd.Context(), dir, driver.RunOptions{
		Catalog:        cat,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		UseCache:       useCache,
	})
	if err != nil {
		return fmt.Errorf("csafe: %s: %w", dir, err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	exit := 0
	for idx, res := range results {
		if res == nil {
			continue
		}
		if idx > 0 {
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "== %s ==\n", res.Path)
		if err := printDiagnostics(cmd, res, format, pathMode, useColor, withNotes); err != nil {
			return err
		}
		if res.Bag != nil && res.Bag.HasErrors() {
			exit = 1
		}
		if err := writeUnitOutput(res, dir, outDir); err != nil {
			return err
		}
	}

	if exit != 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func writeUnitOutput(res *driver.UnitResult, baseDir, outDir string) error {
	dest := res.Path + ".rs"
	if outDir != "" {
		rel, err := filepath.Rel(baseDir, res.Path)
		if err != nil {
			rel = filepath.Base(res.Path)
		}
		dest = filepath.Join(outDir, rel+".rs")
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", dest, err)
		}
	}
	if err := os.WriteFile(dest, []byte(res.Output), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
