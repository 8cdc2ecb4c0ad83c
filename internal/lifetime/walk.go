package lifetime

import "csafe/internal/hir"

// walkBlockStmts visits every statement reachable from b, including
// statements nested in control-flow bodies, in lexical order.
func walkBlockStmts(b *hir.Block, visit func(*hir.Stmt)) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		walkStmtNested(&b.Stmts[i], visit)
	}
}

func walkStmtNested(s *hir.Stmt, visit func(*hir.Stmt)) {
	visit(s)
	switch d := s.Data.(type) {
	case hir.IfData:
		walkBlockStmts(d.Then, visit)
		walkBlockStmts(d.Else, visit)
	case hir.WhileData:
		walkBlockStmts(d.Body, visit)
	case hir.ForData:
		if d.Init != nil {
			walkStmtNested(d.Init, visit)
		}
		walkBlockStmts(d.Body, visit)
	case hir.BlockStmtData:
		walkBlockStmts(d.Block, visit)
	case hir.SwitchData:
		for i := range d.Cases {
			for j := range d.Cases[i].Body {
				walkStmtNested(&d.Cases[i].Body[j], visit)
			}
		}
	}
}
