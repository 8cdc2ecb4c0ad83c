package verify

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// walkExprV visits e and every sub-expression reachable from it, the same
// shape as ownership/lifetime's own private expression walkers -- kept as
// a small per-package duplicate rather than exported, since each stage
// walks for a different purpose and the bodies would diverge anyway.
func walkExprV(e *hir.Expr, visit func(*hir.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch d := e.Data.(type) {
	case hir.UnaryData:
		walkExprV(d.Operand, visit)
	case hir.BinaryData:
		walkExprV(d.Left, visit)
		walkExprV(d.Right, visit)
	case hir.TernaryData:
		walkExprV(d.Cond, visit)
		walkExprV(d.Then, visit)
		walkExprV(d.Else, visit)
	case hir.CallData:
		walkExprV(d.Callee, visit)
		for i := range d.Args {
			walkExprV(&d.Args[i], visit)
		}
	case hir.MemberData:
		walkExprV(d.Base, visit)
	case hir.IndexData:
		walkExprV(d.Base, visit)
		walkExprV(d.Index, visit)
	case hir.CastData:
		walkExprV(d.Operand, visit)
	case hir.AddrOfData:
		walkExprV(d.Operand, visit)
	case hir.DerefData:
		walkExprV(d.Operand, visit)
	case hir.CompoundData:
		for i := range d.Elements {
			walkExprV(&d.Elements[i], visit)
		}
	case hir.SequenceData:
		for i := range d.Exprs {
			walkExprV(&d.Exprs[i], visit)
		}
	case hir.AssignData:
		if d.Compound {
			walkExprV(d.Target, visit)
		}
		walkExprV(d.Value, visit)
	}
}

// readExprs returns the sub-expressions a statement reads, deliberately
// excluding a plain (non-compound) assignment's write-only target --
// mirrors analyzer.DefUse.visitExpr's own read/write split.
func readExprs(s *hir.Stmt) []*hir.Expr {
	switch d := s.Data.(type) {
	case hir.LetData:
		if d.Value != nil {
			return []*hir.Expr{d.Value}
		}
	case hir.ExprStmtData:
		if d.Expr == nil {
			return nil
		}
		if d.Expr.Kind == hir.ExprAssign {
			a := d.Expr.Data.(hir.AssignData)
			if a.Compound {
				return []*hir.Expr{d.Expr}
			}
			return []*hir.Expr{a.Value}
		}
		return []*hir.Expr{d.Expr}
	case hir.ReturnData:
		if d.Value != nil {
			return []*hir.Expr{d.Value}
		}
	}
	return nil
}

// definedSymbol reports the symbol a statement declares or assigns, if
// any.
func definedSymbol(s *hir.Stmt) (symbols.SymbolID, bool) {
	switch d := s.Data.(type) {
	case hir.LetData:
		return d.Symbol, true
	case hir.ExprStmtData:
		if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
			return symbols.NoSymbolID, false
		}
		a := d.Expr.Data.(hir.AssignData)
		if a.Target == nil || a.Target.Kind != hir.ExprName {
			return symbols.NoSymbolID, false
		}
		return a.Target.Data.(hir.NameData).Symbol, true
	}
	return symbols.NoSymbolID, false
}
