package ownership

import (
	"csafe/internal/analyzer"
	"csafe/internal/hir"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// seed assigns each def'd local and each param its initial Refinement from
// analyzer.PointsTo and the catalog, before propagate narrows aliases and
// sink/classify refine further. Grounded on moveplan.go's MovePolicyUnknown
// starting state, generalized to a four-way lattice instead of a boolean.
func (fs *funcState) seed() {
	for sym, origins := range fs.res.Points {
		fs.set(sym, seedFromOrigins(fs, sym, origins))
	}
	for i, p := range fs.fn.Params {
		if p.Ownership.Refinement != hir.RefinementUnknown {
			continue // adapter or an earlier pass already set this
		}
		if t, ok := fs.interner.Lookup(fs.interner.Resolve(p.Type)); !ok || t.Kind != types.KindPointer {
			continue // only pointer parameters carry a refinement
		}
		fs.own[fs.fn.Params[i].Symbol] = hir.Ownership{Refinement: hir.RefinementBorrow}
	}
}

func seedFromOrigins(fs *funcState, sym symbols.SymbolID, origins []analyzer.Origin) hir.Ownership {
	var best hir.Ownership
	have := false
	for _, o := range origins {
		var cand hir.Ownership
		switch o.Kind {
		case analyzer.OriginAlloc:
			cand = seedFromCallee(fs, o.Callee)
		case analyzer.OriginAddrOf:
			cand = hir.Ownership{Refinement: hir.RefinementBorrow, Mode: hir.BorrowMutable}
		case analyzer.OriginParam:
			cand = fs.get(o.Symbol)
		case analyzer.OriginNull:
			cand = hir.Ownership{Refinement: hir.RefinementNull}
		default:
			cand = hir.Ownership{Refinement: hir.RefinementUnknown}
		}
		if !have {
			best, have = cand, true
			continue
		}
		best = joinOwnership(best, cand)
	}
	if !have {
		return hir.Ownership{Refinement: hir.RefinementUnknown}
	}
	return best
}

// seedFromCallee classifies a call's result by consulting the catalog by
// resolved callee name. analyzer.BuildPointsTo tags every call expression
// as OriginAlloc regardless of what it calls (it cannot see the catalog),
// so the real alloc/not-alloc decision is made here: only a
// catalog-recognized allocator or reallocator seeds Owning; any other
// call result starts Unknown and is left to propagate/classify.
func seedFromCallee(fs *funcState, callee symbols.SymbolID) hir.Ownership {
	name, ok := fs.symbolName(callee)
	if !ok {
		return hir.Ownership{Refinement: hir.RefinementUnknown}
	}
	if _, ok := fs.cat.IsAllocator(name); ok {
		return hir.Ownership{Refinement: hir.RefinementOwning}
	}
	if _, ok := fs.cat.IsReallocator(name); ok {
		return hir.Ownership{Refinement: hir.RefinementOwning}
	}
	if summary, ok := fs.callee(name); ok && summary.ReturnsOwning {
		return hir.Ownership{Refinement: hir.RefinementOwning}
	}
	return hir.Ownership{Refinement: hir.RefinementUnknown}
}

// joinOwnership merges two candidate Ownerships for a symbol with more
// than one possible origin: equal refinements stay put, any mismatch
// (besides Unknown deferring to the other) collapses to RawEscape since a
// single binding genuinely aliasing two different kinds of origin can no
// longer be soundly tracked as one category (spec §4.3 step 6).
func joinOwnership(a, b hir.Ownership) hir.Ownership {
	if a.Refinement == hir.RefinementUnknown {
		return b
	}
	if b.Refinement == hir.RefinementUnknown {
		return a
	}
	if a.Refinement == b.Refinement {
		return a
	}
	if a.Refinement == hir.RefinementNull {
		return b
	}
	if b.Refinement == hir.RefinementNull {
		return a
	}
	return hir.Ownership{Refinement: hir.RefinementRawEscape}
}
