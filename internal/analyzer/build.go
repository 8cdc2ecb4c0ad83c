package analyzer

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// builder incrementally constructs a CFG by walking one function body,
// grounded on the teacher's mir lowering shape: a "current block" cursor,
// explicit successor wiring on branch/loop constructs, and break/continue
// target stacks for loop and switch bodies.
type builder struct {
	cfg *CFG

	cur BlockID

	breakTargets    []BlockID
	continueTargets []BlockID

	labelBlocks map[symbols.SymbolID]BlockID
	pendingGoto []pendingGoto
}

type pendingGoto struct {
	block BlockID
	label symbols.SymbolID
}

// BuildCFG lowers fn's body into a CFG of basic blocks and terminators.
// Nil fn or a declaration-only function (no body) yields an empty CFG.
func BuildCFG(fn *hir.Func) *CFG {
	cfg := &CFG{Func: fn, Entry: NoBlockID}
	if fn == nil || fn.Body == nil {
		return cfg
	}
	b := &builder{cfg: cfg, labelBlocks: make(map[symbols.SymbolID]BlockID, 4)}
	cfg.Entry = b.newBlock()
	b.cur = cfg.Entry
	b.block(fn.Body)
	b.terminateFallthrough(nil) // function falls off the end: implicit return
	b.resolveGotos()
	return cfg
}

func (b *builder) newBlock() BlockID {
	id := BlockID(len(b.cfg.Blocks))
	b.cfg.Blocks = append(b.cfg.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

func (b *builder) set(id BlockID, term Terminator) {
	b.cfg.Blocks[id].Term = term
}

func (b *builder) append(stmt *hir.Stmt) {
	if !b.cur.IsValid() || b.cfg.Blocks[b.cur].Terminated() {
		return
	}
	b.cfg.Blocks[b.cur].Stmts = append(b.cfg.Blocks[b.cur].Stmts, stmt)
}

// block lowers every statement of blk in order, threading b.cur forward.
func (b *builder) block(blk *hir.Block) {
	if blk == nil {
		return
	}
	for i := range blk.Stmts {
		b.stmt(&blk.Stmts[i])
	}
}

func (b *builder) stmt(s *hir.Stmt) {
	switch s.Kind {
	case hir.StmtLet, hir.StmtExpr:
		b.append(s)
	case hir.StmtReturn:
		d := s.Data.(hir.ReturnData)
		b.set(b.cur, Terminator{Kind: TermReturn, Return: d.Value})
		b.cur = b.newBlock() // unreachable past a return; kept for simplify to prune
	case hir.StmtBreak:
		if n := len(b.breakTargets); n > 0 {
			b.set(b.cur, Terminator{Kind: TermGoto, Goto: b.breakTargets[n-1]})
		}
		b.cur = b.newBlock()
	case hir.StmtContinue:
		if n := len(b.continueTargets); n > 0 {
			b.set(b.cur, Terminator{Kind: TermGoto, Goto: b.continueTargets[n-1]})
		}
		b.cur = b.newBlock()
	case hir.StmtIf:
		b.ifStmt(s.Data.(hir.IfData))
	case hir.StmtWhile:
		b.whileStmt(s.Data.(hir.WhileData), false)
	case hir.StmtDoWhile:
		b.whileStmt(s.Data.(hir.WhileData), true)
	case hir.StmtFor:
		b.forStmt(s.Data.(hir.ForData))
	case hir.StmtSwitch:
		b.switchStmt(s.Data.(hir.SwitchData))
	case hir.StmtBlock:
		b.block(s.Data.(hir.BlockStmtData).Block)
	case hir.StmtGoto:
		ref, _ := s.Data.(hir.GotoData)
		b.pendingGoto = append(b.pendingGoto, pendingGoto{block: b.cur, label: ref.Target})
		b.cur = b.newBlock()
	case hir.StmtLabel:
		d := s.Data.(hir.LabelData)
		// Fall through into the label's block rather than branching, then
		// record it so pending gotos can be patched once the whole
		// function has been walked (labels may appear after their gotos).
		next := b.newBlock()
		if !b.cfg.Blocks[b.cur].Terminated() {
			b.set(b.cur, Terminator{Kind: TermGoto, Goto: next})
		}
		b.cur = next
		b.labelBlocks[d.Symbol] = next
	}
}

func (b *builder) resolveGotos() {
	for _, g := range b.pendingGoto {
		if target, ok := b.labelBlocks[g.label]; ok {
			b.set(g.block, Terminator{Kind: TermGoto, Goto: target})
		} else {
			b.set(g.block, Terminator{Kind: TermUnreachable})
		}
	}
}

// terminateFallthrough closes b.cur with a bare return if it fell off the
// end without an explicit terminator (hir.ensureTrailingReturn already
// guarantees this for void functions, but non-void functions with
// Unsupported bodies may still reach here).
func (b *builder) terminateFallthrough(value *hir.Expr) {
	if b.cur.IsValid() && !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermReturn, Return: value})
	}
}

func (b *builder) ifStmt(d hir.IfData) {
	thenID := b.newBlock()
	join := b.newBlock()
	hasElse := d.Else != nil
	elseID := join // no else: the cond-false edge goes straight to join
	if hasElse {
		elseID = b.newBlock()
	}

	b.set(b.cur, Terminator{Kind: TermIf, IfCond: d.Cond, IfThen: thenID, IfElse: elseID})

	b.cur = thenID
	b.block(d.Then)
	if !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: join})
	}

	if hasElse {
		b.cur = elseID
		b.block(d.Else)
		if !b.cfg.Blocks[b.cur].Terminated() {
			b.set(b.cur, Terminator{Kind: TermGoto, Goto: join})
		}
	}

	b.cur = join
}

func (b *builder) whileStmt(d hir.WhileData, isDo bool) {
	head := b.newBlock()
	body := b.newBlock()
	after := b.newBlock()

	if isDo {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: body})
	} else {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: head})
	}
	b.set(head, Terminator{Kind: TermIf, IfCond: d.Cond, IfThen: body, IfElse: after})

	b.breakTargets = append(b.breakTargets, after)
	b.continueTargets = append(b.continueTargets, head)
	b.cur = body
	b.block(d.Body)
	if !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: head})
	}
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.continueTargets = b.continueTargets[:len(b.continueTargets)-1]

	b.cur = after
}

func (b *builder) forStmt(d hir.ForData) {
	if d.Init != nil {
		b.stmt(d.Init)
	}
	head := b.newBlock()
	body := b.newBlock()
	post := b.newBlock()
	after := b.newBlock()

	if !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: head})
	}
	if d.Cond != nil {
		b.set(head, Terminator{Kind: TermIf, IfCond: d.Cond, IfThen: body, IfElse: after})
	} else {
		b.set(head, Terminator{Kind: TermGoto, Goto: body})
	}

	b.breakTargets = append(b.breakTargets, after)
	b.continueTargets = append(b.continueTargets, post)
	b.cur = body
	b.block(d.Body)
	if !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: post})
	}
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.continueTargets = b.continueTargets[:len(b.continueTargets)-1]

	b.cur = post
	if d.Post != nil {
		b.append(&hir.Stmt{Kind: hir.StmtExpr, Span: d.Post.Span, Data: hir.ExprStmtData{Expr: d.Post}})
	}
	if !b.cfg.Blocks[b.cur].Terminated() {
		b.set(b.cur, Terminator{Kind: TermGoto, Goto: head})
	}

	b.cur = after
}

// switchStmt builds one successor block per case (falling through into
// the next case's block when a case's own body doesn't end in
// break/return/goto, preserving C's implicit-fallthrough semantics per
// hir.SwitchData's own doc comment).
func (b *builder) switchStmt(d hir.SwitchData) {
	after := b.newBlock()
	caseBlocks := make([]BlockID, len(d.Cases))
	for i := range d.Cases {
		caseBlocks[i] = b.newBlock()
	}

	term := Terminator{Kind: TermSwitch, SwitchCond: d.Cond, SwitchDefault: after}
	for i, c := range d.Cases {
		if c.IsDefault {
			term.SwitchDefault = caseBlocks[i]
			continue
		}
		term.SwitchCases = append(term.SwitchCases, SwitchEdge{Value: c.Value, Block: caseBlocks[i]})
	}
	b.set(b.cur, term)

	b.breakTargets = append(b.breakTargets, after)
	for i, c := range d.Cases {
		b.cur = caseBlocks[i]
		for j := range c.Body {
			b.stmt(&c.Body[j])
		}
		if !b.cfg.Blocks[b.cur].Terminated() {
			next := after
			if i+1 < len(caseBlocks) {
				next = caseBlocks[i+1]
			}
			b.set(b.cur, Terminator{Kind: TermGoto, Goto: next})
		}
	}
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]

	b.cur = after
}
