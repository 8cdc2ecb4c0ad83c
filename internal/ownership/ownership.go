package ownership

import (
	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
)

// Run infers ownership for every function with a body in mod, resolving
// each binding's hir.Ownership.Refinement/Mode in place and returning the
// interprocedural Summary every later stage (lifetime, verify, codegen)
// reads instead of re-deriving this from scratch.
//
// Pipeline per function: seed (from points-to + catalog) -> propagate
// (copy aliasing fixed point) -> classify (array/cast refinement) ->
// sink (catalog releaser calls). Those four passes only need the
// function's own body. A bounded interprocedural fixed point then lets
// ParamConsumed facts flow from callee summaries to callers
// (consumeFromCallees) until no function's summary changes or the
// iteration bound is reached, at which point remaining disagreements are
// reported as OwnInterproceduralTie rather than looped on forever.
// uniqueness and apply run last, once every function's summary is final.
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
		fsum := &FuncSummary{Func: fn.ID, Params: make([]ParamUse, len(fn.Params))}
		summary.Funcs[fn.ID] = fsum
		states[fn.ID] = newFuncState(fn, mod, res, mod.Symbols, mod.Interner, cat, reporter, summary)
	}

	for _, fs := range states {
		fs.seed()
		fs.propagate()
		fs.classify()
		fs.sink(summary.Funcs[fs.fn.ID])
		fs.reportAmbiguousFreeSites()
	}

	const maxIter = 8
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for id, fs := range states {
			if fs.consumeFromCallees(summary.Funcs[id]) {
				changed = true
			}
		}
		if !changed {
			converged = true
			break
		}
	}
	if !converged {
		diag.ReportInfo(reporter, diag.OwnInterproceduralTie, source.Span{},
			"ownership summaries did not reach a fixed point within the iteration bound; remaining call edges are treated conservatively").Emit()
	}

	for id, fs := range states {
		fs.uniqueness()
		summary.Funcs[id].ReturnsOwning = fs.returnsOwning()
		summary.Locals[id] = fs.apply()
	}

	seedGlobals(mod, cat, reporter)

	return summary
}

// seedGlobals resolves the Ownership of every file-scope variable.
// Open Question (program-lifetime default): a global initialized from a
// recognized allocator is marked Owning but is never expected to be
// released -- its allocation lives for the program's whole run, a fact
// recorded with OwnInfo rather than silently treated as a leak once
// verify exists.
func seedGlobals(mod *hir.Module, cat *catalog.Catalog, reporter diag.Reporter) {
	for i := range mod.Globals {
		g := &mod.Globals[i]
		if g.Value == nil || g.Value.Kind != hir.ExprCall {
			continue
		}
		call := g.Value.Data.(hir.CallData)
		if call.Callee == nil || call.Callee.Kind != hir.ExprName {
			continue
		}
		sym := mod.Symbols.Symbols.Get(call.Callee.Data.(hir.NameData).Symbol)
		if sym == nil {
			continue
		}
		name, ok := mod.Symbols.Strings.Lookup(sym.Name)
		if !ok {
			continue
		}
		if _, isAlloc := cat.IsAllocator(name); !isAlloc {
			continue
		}
		g.Ownership = hir.Ownership{Refinement: hir.RefinementOwning}
		diag.ReportInfo(reporter, diag.OwnInfo, g.Span,
			"global \""+g.Name+"\" holds a program-lifetime allocation, never expected to be released").Emit()
	}
}
