// Package lifetime assigns each binding's hir.RegionID and checks the
// simplest outlives constraint a borrow can violate: pointing at
// something whose region ends before the borrow holder's own region
// does. It runs after ownership has resolved every Refinement, and
// before verify, whose scope-escape check reads the regions this package
// assigns to decide what it cannot answer from Refinement alone (verify's
// use-after-free check does not consult regions).
//
// Grounded on the teacher's internal/hir/borrow.go (BorrowEdge/ScopeID/
// BorrowGraph: an edge from a borrowing local to what it borrows, tagged
// with the scope the borrow was taken in), generalized from a single
// function's borrow-event log to a region lattice built over
// analyzer.RegionTree, plus internal/mir/validate.go's dispatch-and-join
// reporting shape (one independent check per function, diagnostics
// collected rather than aborting on the first issue).
package lifetime

import (
	"csafe/internal/analyzer"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// Summary is the lifetime stage's output: every function's resolved
// per-symbol region assignment, consumed by verify and codegen instead
// of re-deriving it.
type Summary struct {
	Regions map[hir.FuncID]map[symbols.SymbolID]hir.RegionID
}

// Run assigns regions and checks outlives constraints for every function
// with a body in mod, writing the resolved hir.RegionID back into each
// Param/LetData's Ownership.Region. Must run after ownership.Run, which
// has already resolved every binding's Refinement in place -- this stage
// reads that straight off the hir tree rather than taking a separate
// ownership.Summary, since the values already live on Param/LetData.
func Run(mod *hir.Module, results map[hir.FuncID]*analyzer.Result, reporter diag.Reporter) *Summary {
	sum := &Summary{Regions: make(map[hir.FuncID]map[symbols.SymbolID]hir.RegionID, len(mod.Funcs))}

	for _, fn := range mod.Funcs {
		if !fn.HasBody() {
			continue
		}
		res := results[fn.ID]
		if res == nil {
			res = analyzer.Analyze(fn, mod.Symbols)
		}
		rs := newRegionState(fn, mod, res, reporter)
		rs.assign()
		rs.checkOutlives()
		sum.Regions[fn.ID] = rs.apply()
	}
	return sum
}
