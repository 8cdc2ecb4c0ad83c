package ownership

import "csafe/internal/hir"

// walkBlock visits every statement reachable from b, including statements
// nested in control-flow bodies, calling visit once per statement in
// lexical order.
func walkBlock(b *hir.Block, visit func(*hir.Stmt)) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		walkStmt(&b.Stmts[i], visit)
	}
}

func walkStmt(s *hir.Stmt, visit func(*hir.Stmt)) {
	visit(s)
	switch d := s.Data.(type) {
	case hir.IfData:
		walkBlock(d.Then, visit)
		walkBlock(d.Else, visit)
	case hir.WhileData:
		walkBlock(d.Body, visit)
	case hir.ForData:
		if d.Init != nil {
			walkStmt(d.Init, visit)
		}
		walkBlock(d.Body, visit)
	case hir.BlockStmtData:
		walkBlock(d.Block, visit)
	case hir.SwitchData:
		for i := range d.Cases {
			for j := range d.Cases[i].Body {
				walkStmt(&d.Cases[i].Body[j], visit)
			}
		}
	}
}

// stmtExprs returns the top-level expressions a statement directly
// carries (conditions, values, post-expressions), not recursing into
// nested statement bodies -- walkBlock already visits those separately.
func stmtExprs(s *hir.Stmt) []*hir.Expr {
	switch d := s.Data.(type) {
	case hir.LetData:
		if d.Value != nil {
			return []*hir.Expr{d.Value}
		}
	case hir.ExprStmtData:
		if d.Expr != nil {
			return []*hir.Expr{d.Expr}
		}
	case hir.ReturnData:
		if d.Value != nil {
			return []*hir.Expr{d.Value}
		}
	case hir.IfData:
		return []*hir.Expr{d.Cond}
	case hir.WhileData:
		return []*hir.Expr{d.Cond}
	case hir.ForData:
		var out []*hir.Expr
		if d.Cond != nil {
			out = append(out, d.Cond)
		}
		if d.Post != nil {
			out = append(out, d.Post)
		}
		return out
	case hir.SwitchData:
		return []*hir.Expr{d.Cond}
	}
	return nil
}

// walkExpr visits e and every sub-expression reachable from it.
func walkExpr(e *hir.Expr, visit func(*hir.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch d := e.Data.(type) {
	case hir.UnaryData:
		walkExpr(d.Operand, visit)
	case hir.BinaryData:
		walkExpr(d.Left, visit)
		walkExpr(d.Right, visit)
	case hir.TernaryData:
		walkExpr(d.Cond, visit)
		walkExpr(d.Then, visit)
		walkExpr(d.Else, visit)
	case hir.CallData:
		walkExpr(d.Callee, visit)
		for i := range d.Args {
			walkExpr(&d.Args[i], visit)
		}
	case hir.MemberData:
		walkExpr(d.Base, visit)
	case hir.IndexData:
		walkExpr(d.Base, visit)
		walkExpr(d.Index, visit)
	case hir.CastData:
		walkExpr(d.Operand, visit)
	case hir.AddrOfData:
		walkExpr(d.Operand, visit)
	case hir.DerefData:
		walkExpr(d.Operand, visit)
	case hir.CompoundData:
		for i := range d.Elements {
			walkExpr(&d.Elements[i], visit)
		}
	case hir.SequenceData:
		for i := range d.Exprs {
			walkExpr(&d.Exprs[i], visit)
		}
	case hir.AssignData:
		walkExpr(d.Target, visit)
		walkExpr(d.Value, visit)
	}
}

// walkFuncExprs visits every expression in fn's body, in lexical order.
func walkFuncExprs(fn *hir.Func, visit func(*hir.Expr)) {
	if fn == nil || fn.Body == nil {
		return
	}
	walkBlock(fn.Body, func(s *hir.Stmt) {
		for _, e := range stmtExprs(s) {
			walkExpr(e, visit)
		}
	})
}
