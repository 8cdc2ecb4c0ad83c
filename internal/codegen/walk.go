package codegen

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// walkStmts visits every statement reachable from b, pre-order, calling
// visit once per statement including the compound ones (If/While/For/
// Switch/Block) themselves before descending into their bodies. The one
// traversal shape every other walker in this package (region collection,
// declStmt indexing, mutated-global detection) builds on.
func walkStmts(b *hir.Block, visit func(*hir.Stmt)) {
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
		walkStmts(d.Then, visit)
		walkStmts(d.Else, visit)
	case hir.WhileData:
		walkStmts(d.Body, visit)
	case hir.ForData:
		if d.Init != nil {
			walkStmt(d.Init, visit)
		}
		walkStmts(d.Body, visit)
	case hir.BlockStmtData:
		walkStmts(d.Block, visit)
	case hir.SwitchData:
		for i := range d.Cases {
			for j := range d.Cases[i].Body {
				walkStmt(&d.Cases[i].Body[j], visit)
			}
		}
	}
}

// blockAssignsSymbol reports whether any statement reachable from b
// assigns sym, used only by global.go's conservative mutated-global
// detection.
func blockAssignsSymbol(b *hir.Block, sym symbols.SymbolID) bool {
	found := false
	walkStmts(b, func(s *hir.Stmt) {
		if found {
			return
		}
		var e *hir.Expr
		switch d := s.Data.(type) {
		case hir.ExprStmtData:
			e = d.Expr
		case hir.WhileData:
			e = d.Cond
		}
		if exprAssignsSymbol(e, sym) {
			found = true
		}
	})
	return found
}

func exprAssignsSymbol(e *hir.Expr, sym symbols.SymbolID) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case hir.ExprAssign:
		a := e.Data.(hir.AssignData)
		if a.Target != nil && a.Target.Kind == hir.ExprName && a.Target.Data.(hir.NameData).Symbol == sym {
			return true
		}
		return exprAssignsSymbol(a.Value, sym)
	case hir.ExprSequence:
		for i := range e.Data.(hir.SequenceData).Exprs {
			if exprAssignsSymbol(&e.Data.(hir.SequenceData).Exprs[i], sym) {
				return true
			}
		}
	case hir.ExprCall:
		c := e.Data.(hir.CallData)
		for i := range c.Args {
			if exprAssignsSymbol(&c.Args[i], sym) {
				return true
			}
		}
	}
	return false
}
