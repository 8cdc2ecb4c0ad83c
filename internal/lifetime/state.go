package lifetime

import (
	"csafe/internal/analyzer"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// regionState is one function's working memory for region assignment,
// mirroring ownership.funcState's shape: a flat per-symbol map plus the
// declaring statement, so the resolved hir.RegionID can be written back
// the same way ownership writes Refinement back.
type regionState struct {
	fn       *hir.Func
	mod      *hir.Module
	res      *analyzer.Result
	table    *symbols.Table
	reporter diag.Reporter

	region   map[symbols.SymbolID]analyzer.RegionID // the symbol's own declaring region
	borrow   map[symbols.SymbolID]analyzer.RegionID // region of what a pointer symbol currently borrows
	declStmt map[symbols.SymbolID]*hir.Stmt
	widened  map[symbols.SymbolID]bool // already reported LifeCycleWidened once
}

func newRegionState(fn *hir.Func, mod *hir.Module, res *analyzer.Result, reporter diag.Reporter) *regionState {
	rs := &regionState{
		fn: fn, mod: mod, res: res, table: mod.Symbols, reporter: reporter,
		region:   make(map[symbols.SymbolID]analyzer.RegionID, 8),
		borrow:   make(map[symbols.SymbolID]analyzer.RegionID, 4),
		declStmt: make(map[symbols.SymbolID]*hir.Stmt, 8),
		widened:  make(map[symbols.SymbolID]bool, 4),
	}
	for _, d := range res.DefUse.Defs {
		if d.Stmt != nil && d.Stmt.Kind == hir.StmtLet {
			rs.declStmt[d.Symbol] = d.Stmt
		}
	}
	return rs
}

// toHIRRegion converts an analyzer.RegionID (sentinel -1, zero-based) to
// the hir.RegionID space (sentinel 0, one-based), since the two packages
// reserve different zero values for "no region".
func toHIRRegion(id analyzer.RegionID) hir.RegionID {
	if id == analyzer.NoRegionID {
		return hir.NoRegionID
	}
	return hir.RegionID(id) + 1
}

// assign resolves every symbol defined or parameter-bound in fn to the
// region of its own declaring scope.
func (rs *regionState) assign() {
	for i := range rs.fn.Params {
		rs.assignSymbol(rs.fn.Params[i].Symbol)
	}
	for sym := range rs.declStmt {
		rs.assignSymbol(sym)
	}
}

func (rs *regionState) assignSymbol(sym symbols.SymbolID) {
	if !sym.IsValid() {
		return
	}
	if _, ok := rs.region[sym]; ok {
		return
	}
	s := rs.table.Symbols.Get(sym)
	if s == nil {
		return
	}
	id, ok := rs.res.Regions.ForScope(s.Scope)
	if !ok {
		rs.region[sym] = analyzer.NoRegionID
		return
	}
	rs.region[sym] = id
}

// apply writes the resolved region back into fn's Params and StmtLets,
// the same write-through pattern ownership.funcState.apply uses, and
// returns the per-symbol map (converted to the hir.RegionID space) for
// the caller's Summary.
func (rs *regionState) apply() map[symbols.SymbolID]hir.RegionID {
	out := make(map[symbols.SymbolID]hir.RegionID, len(rs.region))
	for sym, id := range rs.region {
		out[sym] = toHIRRegion(id)
	}
	for i := range rs.fn.Params {
		if r, ok := out[rs.fn.Params[i].Symbol]; ok {
			rs.fn.Params[i].Ownership.Region = r
		}
	}
	for sym, stmt := range rs.declStmt {
		ld, ok := stmt.Data.(hir.LetData)
		if !ok {
			continue
		}
		ld.Ownership.Region = out[sym]
		stmt.Data = ld
	}
	return out
}

func (rs *regionState) symbolName(sym symbols.SymbolID) (string, bool) {
	if !sym.IsValid() {
		return "", false
	}
	s := rs.table.Symbols.Get(sym)
	if s == nil {
		return "", false
	}
	return rs.table.Strings.Lookup(s.Name)
}
