package ownership

import "csafe/internal/hir"

// consumeFromCallees walks every call in the function and, for callees
// whose FuncSummary already marks a parameter ParamConsumed, treats
// passing a bare-name argument there exactly like a direct catalog
// release: the argument is no longer safely readable after the call, and
// if the argument is one of fn's own parameters, fn itself becomes a
// consumer of that parameter too (a forwarding wrapper around a releaser
// inherits "consumed" from its callee, mirroring internal/mono's
// fixed-point propagation of call-graph facts). Returns whether it
// changed fsum, the signal interprocedural.go's driver uses to detect
// convergence.
func (fs *funcState) consumeFromCallees(fsum *FuncSummary) bool {
	changed := false
	walkFuncExprs(fs.fn, func(e *hir.Expr) {
		if e.Kind != hir.ExprCall {
			return
		}
		call := e.Data.(hir.CallData)
		sym, ok := calleeSymbol(call.Callee)
		if !ok {
			return
		}
		name, ok := fs.symbolName(sym)
		if !ok {
			return
		}
		callee, ok := fs.callee(name)
		if !ok {
			return
		}
		for i, use := range callee.Params {
			if use != ParamConsumed || i >= len(call.Args) {
				continue
			}
			argSym, ok := exprName(&call.Args[i])
			if !ok {
				continue
			}
			cur := fs.get(argSym)
			if cur.Refinement != hir.RefinementRawEscape {
				fs.set(argSym, hir.Ownership{Refinement: hir.RefinementRawEscape})
			}
			if pi, isParam := fs.paramIndex[argSym]; isParam && pi < len(fsum.Params) && fsum.Params[pi] != ParamConsumed {
				fsum.Params[pi] = ParamConsumed
				changed = true
			}
		}
	})
	return changed
}

// returnsOwning reports whether any reachable `return` expression names a
// binding currently refined Owning/OwningArray, the fact recorded as
// FuncSummary.ReturnsOwning so callers treat this function like a
// catalog allocator once the fixed point has run.
func (fs *funcState) returnsOwning() bool {
	found := false
	walkBlock(fs.fn.Body, func(s *hir.Stmt) {
		if s.Kind != hir.StmtReturn {
			return
		}
		d := s.Data.(hir.ReturnData)
		sym, ok := exprName(d.Value)
		if !ok {
			return
		}
		switch fs.get(sym).Refinement {
		case hir.RefinementOwning, hir.RefinementOwningArray:
			found = true
		}
	})
	return found
}
