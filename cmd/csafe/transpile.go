package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"csafe/internal/catalog"
	"csafe/internal/diagfmt"
	"csafe/internal/driver"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile <file.ast.json>",
	Short: "Transpile one translation unit's AST document into target-language source",
	Long:  `Decodes a single cast.Document, runs it through the ownership/lifetime/verify/codegen pipeline, and writes the rendered source next to the input (or to stdout with --stdout).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTranspile,
}

func init() {
	transpileCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json|sarif)")
	transpileCmd.Flags().Bool("stdout", false, "write the rendered source to stdout instead of a sibling file")
	transpileCmd.Flags().String("out", "", "output path for the rendered source (default: input path with .rs appended)")
	transpileCmd.Flags().String("catalog", "", "path to a TOML allocator/union catalog (merged over the malloc/free default)")
	transpileCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	transpileCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostic output")
	transpileCmd.Flags().Bool("emit-regions", false, "also print the lifetime region manifest as JSON")
}

func runTranspile(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	catalogPath, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return fmt.Errorf("failed to get catalog flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	emitRegions, err := cmd.Flags().GetBool("emit-regions")
	if err != nil {
		return fmt.Errorf("failed to get emit-regions flag: %w", err)
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

	res, err := driver.RunFile(cmd.Context(), path, driver.RunOptions{
		Catalog:        cat,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("csafe: %s: %w", path, err)
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

	if err := printDiagnostics(cmd, res, format, pathMode, useColor, withNotes); err != nil {
		return err
	}

	if emitRegions && res.Manifest != nil {
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Manifest.Regions); err != nil {
			return fmt.Errorf("failed to encode region manifest: %w", err)
		}
	}

	exit := 0
	if res.Bag != nil && res.Bag.HasErrors() {
		exit = 1
	}

	if toStdout {
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
	} else {
		dest := outPath
		if dest == "" {
			dest = path + ".rs"
		}
		if err := os.WriteFile(dest, []byte(res.Output), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
	}

	if exit != 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func printDiagnostics(cmd *cobra.Command, res *driver.UnitResult, format string, pathMode diagfmt.PathMode, useColor, withNotes bool) error {
	if res.Bag == nil || res.FileSet == nil {
		return nil
	}
	switch strings.ToLower(format) {
	case "pretty":
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "json":
		out, err := diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to build diagnostics output: %w", err)
		}
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "sarif":
		diagfmt.Sarif(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:    "csafe",
			ToolVersion: "0.1.0",
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
