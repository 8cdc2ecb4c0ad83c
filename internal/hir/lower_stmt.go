package hir

import (
	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/source"
	"csafe/internal/symbols"
)

func (l *Lowerer) lowerBlock(n *cast.Node) *Block {
	scope := l.resolver.Enter(symbols.ScopeBlock, symbols.ScopeOwner{SourceFile: l.file.ID, Node: n.ID})
	defer l.resolver.Leave(scope)

	block := &Block{Span: n.Span, Scope: scope}
	for _, childID := range n.Children {
		child := l.tree.Node(childID)
		if child == nil {
			continue
		}
		if child.Kind == cast.KindDeclStmt && len(child.Children) > 1 {
			for _, vdID := range child.Children {
				if vd := l.tree.Node(vdID); vd != nil {
					block.Stmts = append(block.Stmts, *l.lowerDeclStmt(vd))
				}
			}
			continue
		}
		if stmt := l.lowerStmt(child); stmt != nil {
			block.Stmts = append(block.Stmts, *stmt)
		}
	}
	return block
}

func (l *Lowerer) lowerStmt(n *cast.Node) *Stmt {
	switch n.Kind {
	case cast.KindDeclStmt:
		return l.lowerDeclStmt(n)
	case cast.KindExprStmt:
		if len(n.Children) == 0 {
			return nil
		}
		return &Stmt{Kind: StmtExpr, Span: n.Span, Data: ExprStmtData{Expr: l.lowerExpr(l.tree.Node(n.Children[0]))}}
	case cast.KindIfStmt:
		return l.lowerIfStmt(n)
	case cast.KindWhileStmt:
		return l.lowerWhileStmt(n)
	case cast.KindDoStmt:
		return l.lowerDoStmt(n)
	case cast.KindForStmt:
		return l.lowerForStmt(n)
	case cast.KindSwitchStmt:
		return l.lowerSwitchStmt(n)
	case cast.KindBreakStmt:
		return &Stmt{Kind: StmtBreak, Span: n.Span, Data: BreakData{}}
	case cast.KindContinueStmt:
		return &Stmt{Kind: StmtContinue, Span: n.Span, Data: ContinueData{}}
	case cast.KindReturnStmt:
		var value *Expr
		if len(n.Children) > 0 {
			value = l.lowerExpr(l.tree.Node(n.Children[0]))
		}
		return &Stmt{Kind: StmtReturn, Span: n.Span, Data: ReturnData{Value: value}}
	case cast.KindGotoStmt:
		ref, _ := n.Data.(cast.LabelRefData)
		target, ok := l.resolver.LookupLabel(l.table.Strings.Intern(ref.Label))
		if !ok {
			l.reportUndefinedLabel(n.Span, ref.Label)
		}
		return &Stmt{Kind: StmtGoto, Span: n.Span, Data: GotoData{Target: target}}
	case cast.KindLabelStmt:
		ref, _ := n.Data.(cast.IdentData)
		// Already declared by the function-wide label prescan; look it up
		// rather than re-declaring (which would report a false duplicate).
		symID, ok := l.resolver.LookupLabel(l.table.Strings.Intern(ref.Name))
		if !ok {
			symID, _ = l.resolver.DeclareLabel(l.table.Strings.Intern(ref.Name), n.Span, symbols.SymbolDecl{SourceFile: l.file.ID, Node: n.ID})
		}
		return &Stmt{Kind: StmtLabel, Span: n.Span, Data: LabelData{Symbol: symID}}
	case cast.KindBlock:
		return &Stmt{Kind: StmtBlock, Span: n.Span, Data: BlockStmtData{Block: l.lowerBlock(n)}}
	case cast.KindUnsupported:
		l.reportUnsupported(n.Span, "unsupported statement")
		return nil
	default:
		l.reportUnsupported(n.Span, "unexpected node kind in statement position: "+n.Kind.String())
		return nil
	}
}

func (l *Lowerer) reportUndefinedLabel(span source.Span, name string) {
	if b := diag.ReportError(l.reporter, diag.SymLabelUndefined, span, "goto target \""+name+"\" has no matching label in this function"); b != nil {
		b.Emit()
	}
}

func (l *Lowerer) lowerDeclStmt(n *cast.Node) *Stmt {
	if n.Kind == cast.KindDeclStmt && len(n.Children) > 0 {
		if vd := l.tree.Node(n.Children[0]); vd != nil {
			n = vd // the VarDecl the DeclStmt wraps carries the name, type and initializer
		}
	}
	decl, _ := declData(n)
	ty := l.lowerType(n.Type)
	symID, _ := l.resolver.Declare(l.table.Strings.Intern(decl.Name), n.Span, symbols.SymbolLocal, l.storageFlags(decl), symbols.SymbolDecl{SourceFile: l.file.ID, Node: n.ID})
	if sym := l.table.Symbols.Get(symID); sym != nil {
		sym.Type = ty
	}
	var value *Expr
	if len(n.Children) > 0 {
		value = l.lowerExpr(l.tree.Node(n.Children[0]))
	}
	return &Stmt{Kind: StmtLet, Span: n.Span, Data: LetData{Symbol: symID, Type: ty, Value: value}}
}

func (l *Lowerer) lowerIfStmt(n *cast.Node) *Stmt {
	if len(n.Children) < 2 {
		return nil
	}
	cond := l.lowerExpr(l.tree.Node(n.Children[0]))
	then := l.lowerBlock(l.tree.Node(n.Children[1]))
	var els *Block
	if len(n.Children) > 2 {
		els = l.lowerBlock(l.tree.Node(n.Children[2]))
	}
	return &Stmt{Kind: StmtIf, Span: n.Span, Data: IfData{Cond: cond, Then: then, Else: els}}
}

func (l *Lowerer) lowerWhileStmt(n *cast.Node) *Stmt {
	if len(n.Children) < 2 {
		return nil
	}
	cond := l.lowerExpr(l.tree.Node(n.Children[0]))
	body := l.lowerBlock(l.tree.Node(n.Children[1]))
	return &Stmt{Kind: StmtWhile, Span: n.Span, Data: WhileData{Cond: cond, Body: body}}
}

func (l *Lowerer) lowerDoStmt(n *cast.Node) *Stmt {
	if len(n.Children) < 2 {
		return nil
	}
	body := l.lowerBlock(l.tree.Node(n.Children[0]))
	cond := l.lowerExpr(l.tree.Node(n.Children[1]))
	return &Stmt{Kind: StmtDoWhile, Span: n.Span, Data: WhileData{Cond: cond, Body: body}}
}

// lowerForStmt expects four children in order init/cond/post/body, with
// init/cond/post nodes replaced by cast.KindInvalid-kind placeholders
// the adapter omits entirely (absent children use NoNodeID, never a
// placeholder kind), matching cast.Node's "children are the only way to
// express an optional clause" convention.
func (l *Lowerer) lowerForStmt(n *cast.Node) *Stmt {
	if len(n.Children) < 4 {
		return nil
	}
	data := ForData{}
	if id := n.Children[0]; id.IsValid() {
		if initNode := l.tree.Node(id); initNode != nil {
			data.Init = l.lowerStmt(initNode)
		}
	}
	if id := n.Children[1]; id.IsValid() {
		if condNode := l.tree.Node(id); condNode != nil {
			data.Cond = l.lowerExpr(condNode)
		}
	}
	if id := n.Children[2]; id.IsValid() {
		if postNode := l.tree.Node(id); postNode != nil {
			data.Post = l.lowerExpr(postNode)
		}
	}
	if bodyNode := l.tree.Node(n.Children[3]); bodyNode != nil {
		data.Body = l.lowerBlock(bodyNode)
	}
	return &Stmt{Kind: StmtFor, Span: n.Span, Data: data}
}

func (l *Lowerer) lowerSwitchStmt(n *cast.Node) *Stmt {
	if len(n.Children) == 0 {
		return nil
	}
	cond := l.lowerExpr(l.tree.Node(n.Children[0]))
	data := SwitchData{Cond: cond}

	var current *SwitchCase
	for _, childID := range n.Children[1:] {
		child := l.tree.Node(childID)
		if child == nil {
			continue
		}
		switch child.Kind {
		case cast.KindCaseStmt:
			sc, _ := child.Data.(cast.SwitchCaseData)
			data.Cases = append(data.Cases, SwitchCase{Value: sc.Value, Span: child.Span})
			current = &data.Cases[len(data.Cases)-1]
		case cast.KindDefaultStmt:
			data.Cases = append(data.Cases, SwitchCase{IsDefault: true, Span: child.Span})
			current = &data.Cases[len(data.Cases)-1]
		default:
			if stmt := l.lowerStmt(child); stmt != nil && current != nil {
				current.Body = append(current.Body, *stmt)
			}
		}
	}
	return &Stmt{Kind: StmtSwitch, Span: n.Span, Data: data}
}
