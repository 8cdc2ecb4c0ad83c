package verify

import (
	"csafe/internal/analyzer"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/symbols"
)

const maxAliasRetry = 4

// stmtReleases reports the symbol a statement releases via a recognized
// releaser/reallocator call, if any -- used by both checkLeakOnPath (to
// know an allocation was accounted for) and checkUseAfterFree (to know
// when a binding stops being safe to read).
func (fs *funcState) stmtReleases(s *hir.Stmt) (symbols.SymbolID, bool) {
	var found symbols.SymbolID
	ok := false
	for _, e := range readExprs(s) {
		walkExprV(e, func(ex *hir.Expr) {
			if ok || ex.Kind != hir.ExprCall {
				return
			}
			call := ex.Data.(hir.CallData)
			name, isName := fs.calleeName(call.Callee)
			if !isName {
				return
			}
			var argIdx int
			if role, isRel := fs.cat.IsReleaser(name); isRel {
				argIdx = role.PointerArg
			} else if role, isRealloc := fs.cat.IsReallocator(name); isRealloc {
				argIdx = role.PointerArg
			} else {
				return
			}
			if argIdx < 0 || argIdx >= len(call.Args) {
				return
			}
			sym, isSym := exprName(&call.Args[argIdx])
			if !isSym {
				return
			}
			found, ok = sym, true
		})
		if ok {
			break
		}
	}
	return found, ok
}

// checkLeakOnPath flags an Owning/OwningArray local that is never
// released through a recognized catalog call and never handed back as
// the function's return value anywhere in fn -- a coarse
// whole-function check (not per-path), so it only fires when the
// allocation is unaccounted for everywhere, never on a local that is
// merely released on some paths and not others (ownership's own
// uniqueness pass already covers the reassignment-without-release
// shape that a per-path check would otherwise re-detect).
func (fs *funcState) checkLeakOnPath() {
	released := make(map[symbols.SymbolID]bool, 4)
	returned := make(map[symbols.SymbolID]bool, 2)

	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		for _, stmt := range blk.Stmts {
			if sym, ok := fs.stmtReleases(stmt); ok {
				released[sym] = true
			}
		}
		if blk.Term.Kind == analyzer.TermReturn && blk.Term.Return != nil {
			if sym, ok := exprName(blk.Term.Return); ok {
				returned[sym] = true
			}
		}
	}

	for sym, stmt := range fs.declStmt {
		ld := stmt.Data.(hir.LetData)
		if ld.Ownership.Refinement != hir.RefinementOwning && ld.Ownership.Refinement != hir.RefinementOwningArray {
			continue
		}
		if released[sym] || returned[sym] {
			continue
		}
		name, _ := fs.symbolName(sym)
		diag.ReportError(fs.reporter, diag.VerifyLeakOnPath, stmt.Span,
			"\""+name+"\" is allocated but never released or returned").Emit()
	}
}

// checkUseAfterFree tracks, one block at a time, which symbols a
// recognized release call has just demoted and flags any later read of
// one within the same block. Deliberately block-local: a release
// followed by a read in a different block would need a full dominance
// analysis this pass does not attempt, so it is left to a future,
// path-sensitive pass rather than guessed at here.
func (fs *funcState) checkUseAfterFree() {
	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		freed := make(map[symbols.SymbolID]bool, 2)
		for _, stmt := range blk.Stmts {
			for _, e := range readExprs(stmt) {
				walkExprV(e, func(ex *hir.Expr) {
					sym, ok := exprName(ex)
					if !ok || !freed[sym] {
						return
					}
					name, _ := fs.symbolName(sym)
					diag.ReportError(fs.reporter, diag.VerifyUseAfterFree, stmt.Span,
						"\""+name+"\" is used after it was released").Emit()
					freed[sym] = false // one diagnostic per release, not one per read
				})
			}
			if sym, ok := definedSymbol(stmt); ok {
				freed[sym] = false
			}
			if sym, ok := fs.stmtReleases(stmt); ok {
				freed[sym] = true
			}
		}
	}
}

// checkDoubleOwner looks for a symbol released from two distinct call
// sites where one site can actually reach the other along the CFG --
// proof, not just suspicion, that both releases run on some concrete
// execution (ownership.OwnAmbiguousFreeSite already warns about the
// weaker, path-insensitive version of this).
func (fs *funcState) checkDoubleOwner() {
	sites := make(map[symbols.SymbolID][]analyzer.BlockID, 4)
	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		for _, stmt := range blk.Stmts {
			if sym, ok := fs.stmtReleases(stmt); ok {
				sites[sym] = append(sites[sym], blk.ID)
			}
		}
	}
	for sym, blocks := range sites {
		if len(blocks) < 2 {
			continue
		}
		for a := 0; a < len(blocks); a++ {
			for b := a + 1; b < len(blocks); b++ {
				if fs.canReach(blocks[a], blocks[b]) || fs.canReach(blocks[b], blocks[a]) {
					name, _ := fs.symbolName(sym)
					diag.ReportError(fs.reporter, diag.VerifyDoubleOwner, fs.declSpan(sym),
						"\""+name+"\" is released from more than one call site reachable on the same path").Emit()
					return
				}
			}
		}
	}
}

// declSpan returns sym's declaring statement's span, or fn's own span if
// sym has no recorded local declaration (e.g. a parameter).
func (fs *funcState) declSpan(sym symbols.SymbolID) source.Span {
	if stmt, ok := fs.declStmt[sym]; ok {
		return stmt.Span
	}
	return fs.fn.Span
}

// canReach reports whether to is reachable from from by following CFG
// successor edges.
func (fs *funcState) canReach(from, to analyzer.BlockID) bool {
	if from == to {
		return false
	}
	seen := make(map[analyzer.BlockID]bool, len(fs.res.CFG.Blocks))
	queue := []analyzer.BlockID{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, s := range fs.res.CFG.Successors(id) {
			if s == to {
				return true
			}
			if !seen[s] {
				queue = append(queue, s)
			}
		}
	}
	return false
}

// checkBorrowConflict flags a call passing the same symbol as two of its
// own arguments when that symbol currently resolves to a mutable borrow
// -- aliased mutable access within a single call (`memmove(p, p, n)`-
// shaped hazards) that the target language's exclusivity rules forbid
// even though C itself permits it silently.
func (fs *funcState) checkBorrowConflict() {
	if fs.fn.Body == nil {
		return
	}
	visited := make(map[*hir.Expr]bool, 8)
	var walk func(*hir.Expr)
	walk = func(e *hir.Expr) {
		walkExprV(e, func(ex *hir.Expr) {
			if ex.Kind != hir.ExprCall || visited[ex] {
				return
			}
			visited[ex] = true
			call := ex.Data.(hir.CallData)
			counts := make(map[symbols.SymbolID]int, len(call.Args))
			for i := range call.Args {
				if sym, ok := exprName(&call.Args[i]); ok {
					counts[sym]++
				}
			}
			for sym, n := range counts {
				if n < 2 {
					continue
				}
				own, ok := fs.ownershipOf(sym)
				if !ok || own.Refinement != hir.RefinementBorrow || own.Mode != hir.BorrowMutable {
					continue
				}
				name, _ := fs.symbolName(sym)
				diag.ReportError(fs.reporter, diag.VerifyBorrowConflict, ex.Span,
					"\""+name+"\" is passed more than once to the same call while mutably borrowed").Emit()
			}
		})
	}
	for i := range fs.res.CFG.Blocks {
		for _, stmt := range fs.res.CFG.Blocks[i].Stmts {
			for _, e := range readExprs(stmt) {
				walk(e)
			}
		}
	}
}

// checkUninitUse flags a local declared with no initializer that is read
// somewhere in fn and never assigned anywhere -- deliberately silent
// about ordering (a declare-then-later-assign-then-use sequence is not
// flagged, since proving that needs the same dominance analysis
// checkUseAfterFree defers).
func (fs *funcState) checkUninitUse() {
	assigned := make(map[symbols.SymbolID]bool, 4)
	for i := range fs.res.CFG.Blocks {
		for _, stmt := range fs.res.CFG.Blocks[i].Stmts {
			if stmt.Kind != hir.StmtExpr {
				continue
			}
			if sym, ok := definedSymbol(stmt); ok {
				assigned[sym] = true
			}
		}
	}
	for sym, stmt := range fs.declStmt {
		ld := stmt.Data.(hir.LetData)
		if ld.Value != nil || assigned[sym] {
			continue
		}
		used := false
		for _, u := range fs.res.DefUse.Uses {
			if u.Symbol == sym {
				used = true
				break
			}
		}
		if !used {
			continue
		}
		name, _ := fs.symbolName(sym)
		diag.ReportWarning(fs.reporter, diag.VerifyUninitUse, stmt.Span,
			"\""+name+"\" may be used before it is ever assigned a value").Emit()
	}
}

// checkEscapesScope chases a returned borrow back through simple renames
// looking for a binding whose region reaches the function's own root
// region. Finding one resolves the return as safe; running out of chain
// before finding one is a confirmed escape (VerifyEscapesScope); hitting
// the retry bound while the chain is still unresolved is reported
// separately (VerifyRetryExhausted) rather than guessed at either way.
func (fs *funcState) checkEscapesScope(fsum *FuncSummary) {
	root := rootRegion(fs.res)
	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		if blk.Term.Kind != analyzer.TermReturn || blk.Term.Return == nil {
			continue
		}
		sym, ok := exprName(blk.Term.Return)
		if !ok {
			continue
		}
		own, ok := fs.ownershipOf(sym)
		if !ok || own.Refinement != hir.RefinementBorrow {
			continue
		}

		cur, curRegion := sym, own.Region
		resolved := curRegion == root
		steps := 0
		for !resolved && steps < maxAliasRetry {
			next, ok := fs.aliasSource(cur)
			if !ok {
				break
			}
			nextOwn, ok := fs.ownershipOf(next)
			if !ok {
				break
			}
			cur, curRegion = next, nextOwn.Region
			steps++
			resolved = curRegion == root
		}
		if resolved {
			continue
		}

		name, _ := fs.symbolName(sym)
		if steps >= maxAliasRetry {
			diag.ReportWarning(fs.reporter, diag.VerifyRetryExhausted, blk.Term.Return.Span,
				"could not resolve whether \""+name+"\" outlives this return within the retry bound").Emit()
		} else {
			diag.ReportError(fs.reporter, diag.VerifyEscapesScope, blk.Term.Return.Span,
				"\""+name+"\" borrows storage that does not outlive this return").Emit()
		}
		fsum.ReturnsRiskyBorrow = true
	}
}
