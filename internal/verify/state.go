package verify

import (
	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// funcState is one function's working memory for the verification
// passes, reading resolved Refinement/Mode/Region straight off the hir
// tree (ownership and lifetime already wrote those in place) rather than
// taking either stage's Summary as an extra input.
type funcState struct {
	fn       *hir.Func
	mod      *hir.Module
	res      *analyzer.Result
	table    *symbols.Table
	cat      *catalog.Catalog
	reporter diag.Reporter
	summary  *Summary

	declStmt   map[symbols.SymbolID]*hir.Stmt
	paramIndex map[symbols.SymbolID]int
}

func newFuncState(fn *hir.Func, mod *hir.Module, res *analyzer.Result, cat *catalog.Catalog, reporter diag.Reporter, summary *Summary) *funcState {
	fs := &funcState{
		fn: fn, mod: mod, res: res, table: mod.Symbols, cat: cat, reporter: reporter, summary: summary,
		declStmt:   make(map[symbols.SymbolID]*hir.Stmt, 8),
		paramIndex: make(map[symbols.SymbolID]int, len(fn.Params)),
	}
	for i, p := range fn.Params {
		fs.paramIndex[p.Symbol] = i
	}
	for _, d := range res.DefUse.Defs {
		if d.Stmt != nil && d.Stmt.Kind == hir.StmtLet {
			fs.declStmt[d.Symbol] = d.Stmt
		}
	}
	return fs
}

// ownershipOf returns the resolved Ownership (Refinement/Mode/Region) for
// a parameter or local symbol, as ownership/lifetime left it on the hir
// tree.
func (fs *funcState) ownershipOf(sym symbols.SymbolID) (hir.Ownership, bool) {
	if idx, ok := fs.paramIndex[sym]; ok {
		return fs.fn.Params[idx].Ownership, true
	}
	if stmt, ok := fs.declStmt[sym]; ok {
		return stmt.Data.(hir.LetData).Ownership, true
	}
	return hir.Ownership{}, false
}

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

func (fs *funcState) calleeName(callee *hir.Expr) (string, bool) {
	if callee == nil || callee.Kind != hir.ExprName {
		return "", false
	}
	return fs.symbolName(callee.Data.(hir.NameData).Symbol)
}

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

// simpleCopySource reports whether e is a bare name, letting alias
// chasing follow `p = q;`-shape copies without re-deriving the full
// points-to graph.
func simpleCopySource(e *hir.Expr) (symbols.SymbolID, bool) {
	return exprName(e)
}
