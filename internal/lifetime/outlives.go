package lifetime

import (
	"csafe/internal/analyzer"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/symbols"
)

// checkOutlives walks every pointer binding initialized or reassigned
// from an address-of expression and checks whether the pointer's own
// region outlives the region of the storage it now points at -- the
// simplest shape of dangling-pointer risk a region lattice can catch
// without a full points-to fixed point (verify's scope-escape check reads
// the regions assigned here; its VerifyUseAfterFree check tracks releases
// block by block without them).
func (rs *regionState) checkOutlives() {
	if rs.fn.Body == nil {
		return
	}
	walkBlockStmts(rs.fn.Body, func(s *hir.Stmt) {
		switch s.Kind {
		case hir.StmtLet:
			d := s.Data.(hir.LetData)
			rs.checkBorrow(d.Symbol, d.Value, s.Span)
		case hir.StmtExpr:
			d := s.Data.(hir.ExprStmtData)
			if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
				return
			}
			ad := d.Expr.Data.(hir.AssignData)
			if ad.Target == nil || ad.Target.Kind != hir.ExprName {
				return
			}
			holder := ad.Target.Data.(hir.NameData).Symbol
			rs.checkBorrow(holder, ad.Value, s.Span)
		}
	})
}

// checkBorrow inspects one assignment's right-hand side for an
// address-of expression and, when the operand resolves to a trackable
// base symbol, compares the two bindings' regions.
func (rs *regionState) checkBorrow(holder symbols.SymbolID, value *hir.Expr, span source.Span) {
	if value == nil || value.Kind != hir.ExprAddrOf || !holder.IsValid() {
		return
	}
	target, ok := baseSymbol(value.Data.(hir.AddrOfData).Operand)
	if !ok {
		return
	}
	holderRegion, holderOK := rs.region[holder]
	targetRegion, targetOK := rs.region[target]
	if !holderOK || !targetOK || holderRegion == analyzer.NoRegionID || targetRegion == analyzer.NoRegionID {
		return
	}

	root := rs.res.Regions.Root()

	if prev, seen := rs.borrow[holder]; seen && prev != targetRegion {
		// Two assignments hand holder storage with different lifetimes;
		// no single static region satisfies both, so the only sound
		// resolution is to widen holder itself to the function's root
		// region and say so once.
		diag.ReportWarning(rs.reporter, diag.LifeDisagreeAcrossUse, span,
			"this pointer borrows storage with a different lifetime at different assignments").Emit()
		if !rs.widened[holder] {
			rs.widened[holder] = true
			rs.region[holder] = root
			diag.ReportInfo(rs.reporter, diag.LifeCycleWidened, span,
				"resolved the disagreement by widening the region to the function body").Emit()
		}
	}
	rs.borrow[holder] = targetRegion

	if !rs.isDescendant(targetRegion, holderRegion) {
		return // target's storage already lives at least as long as holder
	}

	// holder's own region is an ancestor of (outlives) target's region:
	// the pointer can survive past the point its referent's storage is
	// released. Widen the referent to the function's root region so
	// later stages treat it as live for the whole function rather than
	// flag every later use as a false use-after-free.
	if rs.region[target] != root {
		rs.region[target] = root
		name, _ := rs.symbolName(target)
		diag.ReportWarning(rs.reporter, diag.LifeRegionOutlivesFn, span,
			"\""+name+"\" is borrowed by a pointer that outlives its declaring scope").
			WithNote(span, "its region is widened to the function body so later checks don't treat it as already released").
			Emit()
	}
}

// isDescendant reports whether child is strictly nested inside ancestor
// (child's region ends no later than ancestor's), walking the region
// tree's parent chain.
func (rs *regionState) isDescendant(child, ancestor analyzer.RegionID) bool {
	if child == ancestor {
		return false
	}
	nodes := rs.res.Regions.Nodes
	for id := child; id != analyzer.NoRegionID; {
		if int(id) < 0 || int(id) >= len(nodes) {
			return false
		}
		parent := nodes[id].Parent
		if parent == ancestor {
			return true
		}
		id = parent
	}
	return false
}

// baseSymbol resolves the base symbol an lvalue expression ultimately
// names, descending through Member/Index/Deref wrappers (&s.field,
// &arr[i], &*p) to the symbol whose storage is actually being addressed.
func baseSymbol(e *hir.Expr) (symbols.SymbolID, bool) {
	for e != nil {
		switch e.Kind {
		case hir.ExprName:
			return e.Data.(hir.NameData).Symbol, true
		case hir.ExprMember:
			e = e.Data.(hir.MemberData).Base
		case hir.ExprIndex:
			e = e.Data.(hir.IndexData).Base
		case hir.ExprDeref:
			e = e.Data.(hir.DerefData).Operand
		default:
			return symbols.NoSymbolID, false
		}
	}
	return symbols.NoSymbolID, false
}
