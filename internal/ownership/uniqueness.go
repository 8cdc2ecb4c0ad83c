package ownership

import (
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// uniqueness walks each basic block's straight-line statements in order,
// flagging a fresh allocator-returning assignment to a symbol that
// already holds a live, unreleased allocation from an earlier statement
// in the same block. The check is purely syntactic and block-local: it
// does not attempt to reason about releases occurring in a different
// block (that is the lifetime/verify stages' job, once real regions
// exist), so it only catches the unambiguous same-block case.
func (fs *funcState) uniqueness() {
	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		live := make(map[symbols.SymbolID]bool, 4)
		for _, s := range blk.Stmts {
			if sym, ok := fs.releaseTarget(s); ok {
				live[sym] = false
			}
			if sym, ok := fs.allocAssignTarget(s); ok {
				if live[sym] {
					fs.flagMultipleOwners(sym, s)
				}
				live[sym] = true
			}
		}
	}
}

func (fs *funcState) flagMultipleOwners(sym symbols.SymbolID, at *hir.Stmt) {
	fs.set(sym, hir.Ownership{Refinement: hir.RefinementRawEscape})
	diag.ReportWarning(fs.reporter, diag.OwnMultipleOwnersFound, at.Span,
		"value reassigned to a new allocation before the previous one was released").Emit()
}

func (fs *funcState) releaseTarget(s *hir.Stmt) (symbols.SymbolID, bool) {
	if s.Kind != hir.StmtExpr {
		return symbols.NoSymbolID, false
	}
	d := s.Data.(hir.ExprStmtData)
	if d.Expr == nil || d.Expr.Kind != hir.ExprCall {
		return symbols.NoSymbolID, false
	}
	call := d.Expr.Data.(hir.CallData)
	name, ok := fs.calleeName(call.Callee)
	if !ok {
		return symbols.NoSymbolID, false
	}
	var argIdx int
	if role, ok := fs.cat.IsReleaser(name); ok {
		argIdx = role.PointerArg
	} else if role, ok := fs.cat.IsReallocator(name); ok {
		argIdx = role.PointerArg
	} else {
		return symbols.NoSymbolID, false
	}
	if argIdx < 0 || argIdx >= len(call.Args) {
		return symbols.NoSymbolID, false
	}
	return exprName(&call.Args[argIdx])
}

func (fs *funcState) allocAssignTarget(s *hir.Stmt) (symbols.SymbolID, bool) {
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetData)
		if fs.isAllocCall(d.Value) {
			return d.Symbol, true
		}
	case hir.StmtExpr:
		d := s.Data.(hir.ExprStmtData)
		if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
			return symbols.NoSymbolID, false
		}
		a := d.Expr.Data.(hir.AssignData)
		if a.Compound || !fs.isAllocCall(a.Value) {
			return symbols.NoSymbolID, false
		}
		return exprName(a.Target)
	}
	return symbols.NoSymbolID, false
}

func (fs *funcState) isAllocCall(e *hir.Expr) bool {
	if e == nil || e.Kind != hir.ExprCall {
		return false
	}
	call := e.Data.(hir.CallData)
	name, ok := fs.calleeName(call.Callee)
	if !ok {
		return false
	}
	_, isAlloc := fs.cat.IsAllocator(name)
	return isAlloc
}
