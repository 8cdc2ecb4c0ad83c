package ownership

import (
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// sink walks every call expression in the function, recognizing
// catalog-registered releaser/reallocator calls and recording a release
// for the pointer argument's symbol (when the argument is a bare name).
// Each release demotes the released binding to RefinementRawEscape --
// codegen/verify no longer track what happens to it past that point --
// and, when the released argument is one of fn's own parameters, marks
// that parameter ParamConsumed in the function's interprocedural summary.
func (fs *funcState) sink(fsum *FuncSummary) {
	walkFuncExprs(fs.fn, func(e *hir.Expr) {
		if e.Kind != hir.ExprCall {
			return
		}
		call := e.Data.(hir.CallData)
		name, ok := fs.calleeName(call.Callee)
		if !ok {
			return
		}
		if role, ok := fs.cat.IsReleaser(name); ok {
			fs.release(role.PointerArg, call.Args, fsum)
			return
		}
		if role, ok := fs.cat.IsReallocator(name); ok {
			fs.release(role.PointerArg, call.Args, fsum)
		}
	})
}

func (fs *funcState) release(argIdx int, args []hir.Expr, fsum *FuncSummary) {
	if argIdx < 0 || argIdx >= len(args) {
		return
	}
	sym, ok := exprName(&args[argIdx])
	if !ok {
		return
	}
	fs.releaseSites[sym]++
	cur := fs.get(sym)
	fs.set(sym, hir.Ownership{Refinement: hir.RefinementRawEscape, Mode: cur.Mode})
	if idx, isParam := fs.paramIndex[sym]; isParam && fsum != nil && idx < len(fsum.Params) {
		fsum.Params[idx] = ParamConsumed
	}
}

// reportAmbiguousFreeSites flags every symbol this pass saw released from
// more than one distinct call site: the verify stage cannot tell which
// release actually runs at runtime, so codegen would have to guess.
func (fs *funcState) reportAmbiguousFreeSites() {
	for sym, n := range fs.releaseSites {
		if n <= 1 {
			continue
		}
		span := fs.fn.Span
		if stmt, ok := fs.declStmt[sym]; ok {
			span = stmt.Span
		}
		diag.ReportWarning(fs.reporter, diag.OwnAmbiguousFreeSite, span,
			"this allocation is released from more than one call site").Emit()
	}
}

// calleeName resolves a call's callee expression to the function name the
// catalog is keyed by, reading straight through the symbol table's
// interner rather than requiring the callee to have a hir.Func entry (an
// adapter need not synthesize one for every libc declaration it sees).
func (fs *funcState) calleeName(callee *hir.Expr) (string, bool) {
	if callee == nil || callee.Kind != hir.ExprName {
		return "", false
	}
	return fs.symbolName(callee.Data.(hir.NameData).Symbol)
}

// calleeSymbol resolves a call's callee expression straight to its
// resolved SymbolID, for matching against hir.Module.FindFuncBySymbol
// rather than by name (used by interprocedural.go to find a callee's
// FuncSummary).
func calleeSymbol(callee *hir.Expr) (symbols.SymbolID, bool) {
	if callee == nil || callee.Kind != hir.ExprName {
		return symbols.NoSymbolID, false
	}
	return callee.Data.(hir.NameData).Symbol, true
}
