package codegen

import (
	"fmt"

	"csafe/internal/symbols"
)

// nameTable resolves a SymbolID to the identifier codegen prints,
// uniquifying on first use and caching the result onto the symbol's own
// UniqueName field so repeated lookups (and any later diagnostic that
// wants to print the same name) agree. No earlier stage populates
// UniqueName (spec.md's "resolver must uniquify names" never landed a
// dedicated pass -- see DESIGN.md), so codegen performs it lazily here,
// the last point before the name actually reaches output text.
type nameTable struct {
	table *symbols.Table
	seen  map[string]int // base identifier -> next suffix to try
}

func newNameTable(table *symbols.Table) *nameTable {
	return &nameTable{table: table, seen: make(map[string]int, 32)}
}

// resolve returns the identifier to print for sym, assigning and caching a
// disambiguated form the first time a base name collides with one already
// emitted elsewhere in the unit.
func (nt *nameTable) resolve(sym symbols.SymbolID) string {
	if !sym.IsValid() || nt.table == nil || nt.table.Symbols == nil {
		return "_"
	}
	s := nt.table.Symbols.Get(sym)
	if s == nil {
		return "_"
	}
	if s.UniqueName != "" {
		return s.UniqueName
	}
	base, ok := nt.table.Strings.Lookup(s.Name)
	if !ok || base == "" {
		base = fmt.Sprintf("v%d", sym)
	}
	n, collided := nt.seen[base]
	nt.seen[base] = n + 1
	name := base
	if collided {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	s.UniqueName = name
	return name
}
