package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"csafe/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the allocator/releaser catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Dump the resolved allocator/releaser/reallocator and tagged-union catalog",
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogShowCmd.Flags().String("catalog", "", "path to a TOML catalog file (merged over the malloc/free default)")
	catalogShowCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type catalogFuncJSON struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	PointerArg int    `json:"pointer_arg"`
	SizeArg    int    `json:"size_arg"`
}

type catalogUnionJSON struct {
	Union    string `json:"union"`
	TagField string `json:"tag_field"`
}

type catalogDump struct {
	Funcs  []catalogFuncJSON  `json:"funcs"`
	Unions []catalogUnionJSON `json:"unions"`
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return fmt.Errorf("failed to get catalog flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	cat := catalog.Default()
	if path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			return err
		}
	}

	funcs := cat.Funcs()
	unions := cat.Unions()

	switch format {
	case "json":
		dump := catalogDump{
			Funcs:  make([]catalogFuncJSON, len(funcs)),
			Unions: make([]catalogUnionJSON, len(unions)),
		}
		for i, fr := range funcs {
			dump.Funcs[i] = catalogFuncJSON{Name: fr.Name, Role: fr.Role, PointerArg: fr.PointerArg, SizeArg: fr.SizeArg}
		}
		for i, u := range unions {
			dump.Unions[i] = catalogUnionJSON{Union: u.Union, TagField: u.TagField}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	case "pretty":
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "funcs:")
		for _, fr := range funcs {
			fmt.Fprintf(out, "  %-20s %-8s pointer_arg=%d size_arg=%d\n", fr.Name, fr.Role, fr.PointerArg, fr.SizeArg)
		}
		if len(unions) > 0 {
			fmt.Fprintln(out, "unions:")
			for _, u := range unions {
				fmt.Fprintf(out, "  %-20s tag_field=%s\n", u.Union, u.TagField)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
