package ownership

import (
	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// funcState is the working memory for one function's inference: a flat
// per-symbol Ownership map, resolved at the end into each symbol's single
// declaration site (a Param slot or a StmtLet's LetData).
type funcState struct {
	fn       *hir.Func
	mod      *hir.Module
	res      *analyzer.Result
	table    *symbols.Table
	interner *types.Interner
	cat      *catalog.Catalog
	reporter diag.Reporter
	summary  *Summary

	own map[symbols.SymbolID]hir.Ownership
	// releaseSites counts, per symbol, how many distinct call expressions
	// release it -- the ambiguous-free-site heuristic in sink.go.
	releaseSites map[symbols.SymbolID]int
	// declStmt maps a local's symbol to the StmtLet that declared it, so
	// the final apply step can write the resolved Ownership back.
	declStmt map[symbols.SymbolID]*hir.Stmt
	// paramIndex maps a param's symbol to its index in fn.Params.
	paramIndex map[symbols.SymbolID]int
}

func newFuncState(fn *hir.Func, mod *hir.Module, res *analyzer.Result, table *symbols.Table, interner *types.Interner, cat *catalog.Catalog, reporter diag.Reporter, summary *Summary) *funcState {
	fs := &funcState{
		fn: fn, mod: mod, res: res, table: table, interner: interner, cat: cat, reporter: reporter, summary: summary,
		own:          make(map[symbols.SymbolID]hir.Ownership, 8),
		releaseSites: make(map[symbols.SymbolID]int, 4),
		declStmt:     make(map[symbols.SymbolID]*hir.Stmt, 8),
		paramIndex:   make(map[symbols.SymbolID]int, len(fn.Params)),
	}
	for i, p := range fn.Params {
		fs.paramIndex[p.Symbol] = i
		fs.own[p.Symbol] = p.Ownership
	}
	for _, d := range res.DefUse.Defs {
		if d.Stmt != nil && d.Stmt.Kind == hir.StmtLet {
			fs.declStmt[d.Symbol] = d.Stmt
		}
	}
	return fs
}

func (fs *funcState) set(sym symbols.SymbolID, o hir.Ownership) {
	fs.own[sym] = o
}

func (fs *funcState) get(sym symbols.SymbolID) hir.Ownership {
	return fs.own[sym]
}

// apply writes the resolved per-symbol Ownership back into fn.Params and
// every StmtLet's LetData (the only two places the concrete field lives).
func (fs *funcState) apply() map[symbols.SymbolID]hir.Ownership {
	for i := range fs.fn.Params {
		if o, ok := fs.own[fs.fn.Params[i].Symbol]; ok {
			fs.fn.Params[i].Ownership = o
		}
	}
	for sym, stmt := range fs.declStmt {
		ld, ok := stmt.Data.(hir.LetData)
		if !ok {
			continue
		}
		ld.Ownership = fs.own[sym]
		stmt.Data = ld
	}
	return fs.own
}

// symbolName resolves a symbol to its source identifier through the
// shared string interner, the common lookup sink.go/uniqueness.go/seed.go
// all need to turn a called function's SymbolID into a catalog key.
func (fs *funcState) symbolName(sym symbols.SymbolID) (string, bool) {
	if !sym.IsValid() {
		return "", false
	}
	s := fs.table.Symbols.Get(sym)
	if s == nil {
		return "", false
	}
	return fs.table.Strings.Lookup(s.Name)
}

// callee resolves a function name to its interprocedural FuncSummary, if
// the module declares a matching function and the summary stage has
// already produced (or pre-seeded) an entry for it.
func (fs *funcState) callee(name string) (*FuncSummary, bool) {
	if fs.mod == nil || fs.summary == nil {
		return nil, false
	}
	f := fs.mod.FindFunc(name)
	if f == nil {
		return nil, false
	}
	fsum, ok := fs.summary.Funcs[f.ID]
	return fsum, ok
}

func exprName(e *hir.Expr) (symbols.SymbolID, bool) {
	if e == nil || e.Kind != hir.ExprName {
		return symbols.NoSymbolID, false
	}
	return e.Data.(hir.NameData).Symbol, true
}
