package verify

import (
	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
)

// Run checks every function with a body in mod against the invariants
// ownership and lifetime's resolved Refinement/Mode/Region are supposed
// to guarantee, the pre-emission gate codegen reads the returned Summary
// (and whatever the caller's diag.Reporter collected) before trusting the
// tree is safe to print.
//
// Per-function checks (checkUninitUse, checkUseAfterFree, checkLeakOnPath,
// checkDoubleOwner, checkBorrowConflict, checkEscapesScope) only need the
// function's own analyzer.Result; a bounded interprocedural pass then lets
// a risky-return fact flow from a callee's summary to a caller that just
// forwards its call, the same shape ownership's consumeFromCallees uses.
func Run(mod *hir.Module, results map[hir.FuncID]*analyzer.Result, cat *catalog.Catalog, reporter diag.Reporter) *Summary {
	summary := newSummary()
	states := make(map[hir.FuncID]*funcState, len(mod.Funcs))

	for _, fn := range mod.Funcs {
		if !fn.HasBody() {
			continue
		}
		res := results[fn.ID]
		if res == nil {
			res = analyzer.Analyze(fn, mod.Symbols)
		}
		fsum := &FuncSummary{Func: fn.ID}
		summary.Funcs[fn.ID] = fsum
		states[fn.ID] = newFuncState(fn, mod, res, cat, reporter, summary)
	}

	for id, fs := range states {
		fsum := summary.Funcs[id]
		fs.checkUninitUse()
		fs.checkUseAfterFree()
		fs.checkLeakOnPath()
		fs.checkDoubleOwner()
		fs.checkBorrowConflict()
		fs.checkEscapesScope(fsum)
	}

	const maxIter = 8
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for id, fs := range states {
			if fs.propagateRisky(summary.Funcs[id]) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return summary
}
