package ownership

import "csafe/internal/hir"

// propagate runs a small worklist fixed point over def-use: whenever a
// plain `x = y` assignment's source has a resolved (non-Unknown)
// Ownership and its target is still Unknown, the target inherits it.
// Bounded by len(Defs) passes since each pass can only resolve bindings
// that were Unknown, a strictly shrinking set.
func (fs *funcState) propagate() {
	for pass := 0; pass < len(fs.res.DefUse.Defs)+1; pass++ {
		changed := false
		for _, d := range fs.res.DefUse.Defs {
			if d.Stmt == nil {
				continue
			}
			src, ok := simpleCopySource(d.Stmt)
			if !ok {
				continue
			}
			cur := fs.get(d.Symbol)
			if cur.Refinement != hir.RefinementUnknown {
				continue
			}
			srcSym, ok := exprName(src)
			if !ok {
				continue
			}
			srcOwn := fs.get(srcSym)
			if srcOwn.Refinement == hir.RefinementUnknown {
				continue
			}
			fs.set(d.Symbol, srcOwn)
			changed = true
		}
		if !changed {
			break
		}
	}
}

// simpleCopySource returns the right-hand expression of a Let or plain
// assignment statement whose value is itself a bare name reference
// (`x = y`, not `x = y->f` or `x = f()`), the only shape propagate
// widens across.
func simpleCopySource(s *hir.Stmt) (*hir.Expr, bool) {
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetData)
		if d.Value != nil && d.Value.Kind == hir.ExprName {
			return d.Value, true
		}
	case hir.StmtExpr:
		d := s.Data.(hir.ExprStmtData)
		if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
			return nil, false
		}
		a := d.Expr.Data.(hir.AssignData)
		if !a.Compound && a.Value != nil && a.Value.Kind == hir.ExprName {
			return a.Value, true
		}
	}
	return nil, false
}
