package ownership

import (
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/types"
)

// classify walks every expression in the function once, upgrading
// Owning locals indexed or pointer-arithmetic'd into OwningArray,
// demoting any binding explicitly cast between unrelated pointer types
// to RawEscape (spec §4.3 step 6: once csafe can no longer tell what a
// binding's static type really is, it stops tracking it), and flagging
// member access into an untagged union.
func (fs *funcState) classify() {
	warnedUnions := make(map[string]bool)
	walkFuncExprs(fs.fn, func(e *hir.Expr) {
		switch e.Kind {
		case hir.ExprIndex:
			d := e.Data.(hir.IndexData)
			fs.upgradeArray(d.Base)
		case hir.ExprBinary:
			d := e.Data.(hir.BinaryData)
			if d.Op == hir.BinAdd || d.Op == hir.BinSub {
				fs.upgradeArray(d.Left)
				fs.upgradeArray(d.Right)
			}
		case hir.ExprUnary:
			d := e.Data.(hir.UnaryData)
			switch d.Op {
			case hir.UnaryPreInc, hir.UnaryPreDec, hir.UnaryPostInc, hir.UnaryPostDec:
				fs.upgradeArray(d.Operand)
			}
		case hir.ExprCast:
			d := e.Data.(hir.CastData)
			if d.Explicit {
				fs.demoteOnCast(d.Operand, e.Type)
			}
		case hir.ExprMember:
			d := e.Data.(hir.MemberData)
			fs.checkUnionTag(d, e, warnedUnions)
		}
	})
}

// checkUnionTag demotes a union member access's own binding (and the
// union value it reads from, when that is itself a tracked local) to
// RawEscape unless the catalog names a discriminator field for this
// union, since C unions otherwise carry no way to know which member is
// live (spec §4.3 step 6).
func (fs *funcState) checkUnionTag(d hir.MemberData, member *hir.Expr, warned map[string]bool) {
	if fs.interner == nil || d.Base == nil {
		return
	}
	baseType, ok := fs.interner.Lookup(d.Base.Type)
	if !ok || baseType.Kind != types.KindUnion {
		return
	}
	info, ok := fs.interner.UnionInfo(d.Base.Type)
	if !ok {
		return
	}
	if _, tagged := fs.cat.TagField(info.Name); tagged {
		return
	}
	if sym, ok := exprName(d.Base); ok {
		fs.set(sym, hir.Ownership{Refinement: hir.RefinementRawEscape})
	}
	if !warned[info.Name] {
		warned[info.Name] = true
		diag.ReportInfo(fs.reporter, diag.OwnUnionNotTagged, member.Span,
			"union \""+info.Name+"\" has no catalog entry identifying its active member").Emit()
	}
}

func (fs *funcState) upgradeArray(e *hir.Expr) {
	sym, ok := exprName(e)
	if !ok {
		return
	}
	o := fs.get(sym)
	if o.Refinement == hir.RefinementOwning {
		o.Refinement = hir.RefinementOwningArray
		fs.set(sym, o)
	}
}

func (fs *funcState) demoteOnCast(operand *hir.Expr, resultType types.TypeID) {
	sym, ok := exprName(operand)
	if !ok {
		return
	}
	o := fs.get(sym)
	if o.Refinement != hir.RefinementOwning && o.Refinement != hir.RefinementOwningArray && o.Refinement != hir.RefinementBorrow {
		return
	}
	if !unrelatedPointerCast(fs.interner, operand.Type, resultType) {
		return
	}
	fs.set(sym, hir.Ownership{Refinement: hir.RefinementRawEscape})
}

// unrelatedPointerCast reports whether a cast from src to dst changes the
// pointee type of a pointer-to-pointer conversion -- `void*` on either
// side is always considered related (it is how C itself spells a generic
// pointer), so only a cast between two distinctly-named concrete pointee
// types counts.
func unrelatedPointerCast(in *types.Interner, src, dst types.TypeID) bool {
	if in == nil {
		return false
	}
	st, ok1 := in.Lookup(src)
	dt, ok2 := in.Lookup(dst)
	if !ok1 || !ok2 || st.Kind != types.KindPointer || dt.Kind != types.KindPointer {
		return false
	}
	if !st.Elem.IsValid() || !dt.Elem.IsValid() {
		return false // `void*` on one side
	}
	return st.Elem != dt.Elem
}
