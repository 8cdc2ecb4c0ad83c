package verify

import (
	"csafe/internal/analyzer"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// rootRegion converts a function's outermost analyzer.RegionID (always
// index 0 once any region exists) into the hir.RegionID space lifetime
// assigns into -- duplicated from lifetime's own one-line conversion
// rather than imported, since the two stages otherwise share no state.
func rootRegion(res *analyzer.Result) hir.RegionID {
	if res == nil || res.Regions == nil {
		return hir.NoRegionID
	}
	root := res.Regions.Root()
	if root == analyzer.NoRegionID {
		return hir.NoRegionID
	}
	return hir.RegionID(root) + 1
}

// aliasSource looks for a statement anywhere in fn's CFG that assigns sym
// a plain copy of another name (`sym = other;` or `T sym = other;`),
// letting checkEscapesScope chase a returned pointer back through simple
// renames to the binding whose region actually matters.
func (fs *funcState) aliasSource(sym symbols.SymbolID) (symbols.SymbolID, bool) {
	for i := range fs.res.CFG.Blocks {
		for _, stmt := range fs.res.CFG.Blocks[i].Stmts {
			switch d := stmt.Data.(type) {
			case hir.LetData:
				if d.Symbol == sym && d.Value != nil && d.Value.Kind == hir.ExprName {
					return d.Value.Data.(hir.NameData).Symbol, true
				}
			case hir.ExprStmtData:
				if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
					continue
				}
				a := d.Expr.Data.(hir.AssignData)
				if a.Compound || a.Target == nil || a.Target.Kind != hir.ExprName || a.Value == nil || a.Value.Kind != hir.ExprName {
					continue
				}
				if a.Target.Data.(hir.NameData).Symbol == sym {
					return a.Value.Data.(hir.NameData).Symbol, true
				}
			}
		}
	}
	return symbols.NoSymbolID, false
}
