package analyzer

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// Result bundles everything analyzer derives from one function, the
// shared input the ownership, lifetime and verification stages all read.
type Result struct {
	CFG     *CFG
	DefUse  *DefUse
	Points  PointsTo
	Regions *RegionTree
}

// Analyze runs the full analyzer pipeline over one function: CFG
// construction, simplification, def-use, points-to and region-tree
// derivation, in that order (region tree only needs fn.Body/table, so it
// does not depend on CFG and could run first, but is sequenced last here
// to keep the four passes' emitted fields in reading order).
func Analyze(fn *hir.Func, table *symbols.Table) *Result {
	cfg := BuildCFG(fn)
	SimplifyCFG(cfg)
	du := BuildDefUse(cfg)
	pts := BuildPointsTo(cfg)
	regions := BuildRegionTree(fn, table)
	return &Result{CFG: cfg, DefUse: du, Points: pts, Regions: regions}
}

// AnalyzeModule runs Analyze over every function in m that has a body.
func AnalyzeModule(m *hir.Module) map[hir.FuncID]*Result {
	out := make(map[hir.FuncID]*Result, len(m.Funcs))
	for _, fn := range m.Funcs {
		if !fn.HasBody() {
			continue
		}
		out[fn.ID] = Analyze(fn, m.Symbols)
	}
	return out
}
