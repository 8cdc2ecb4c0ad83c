package analyzer

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// Def is one assignment to, or declaration of, a symbol.
type Def struct {
	Symbol symbols.SymbolID
	Block  BlockID
	Stmt   *hir.Stmt
}

// Use is one read of a symbol's current value.
type Use struct {
	Symbol symbols.SymbolID
	Block  BlockID
	Expr   *hir.Expr
}

// DefUse is the flat def/use chain for one function: every Let/assignment
// and every name reference, tagged with the block it occurs in. Ownership
// and verification walk this instead of re-traversing hir themselves.
type DefUse struct {
	Defs []Def
	Uses []Use
}

// BuildDefUse walks every block's statements (condition/branch expressions
// included, via the terminators) collecting Defs and Uses in block order.
func BuildDefUse(c *CFG) *DefUse {
	du := &DefUse{}
	if c == nil {
		return du
	}
	for i := range c.Blocks {
		blk := &c.Blocks[i]
		for _, s := range blk.Stmts {
			du.visitStmt(blk.ID, s)
		}
		du.visitTerminator(blk.ID, &blk.Term)
	}
	return du
}

func (du *DefUse) visitTerminator(id BlockID, t *Terminator) {
	switch t.Kind {
	case TermReturn:
		du.visitExpr(id, t.Return)
	case TermIf:
		du.visitExpr(id, t.IfCond)
	case TermSwitch:
		du.visitExpr(id, t.SwitchCond)
	}
}

func (du *DefUse) visitStmt(id BlockID, s *hir.Stmt) {
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetData)
		du.Defs = append(du.Defs, Def{Symbol: d.Symbol, Block: id, Stmt: s})
		du.visitExpr(id, d.Value)
	case hir.StmtExpr:
		d := s.Data.(hir.ExprStmtData)
		du.visitExpr(id, d.Expr)
	}
}

// visitExpr records a Def for the target of a plain/compound assignment
// and a Use for everything else that names a symbol, recursing into
// subexpressions throughout.
func (du *DefUse) visitExpr(id BlockID, e *hir.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case hir.ExprName:
		n := e.Data.(hir.NameData)
		du.Uses = append(du.Uses, Use{Symbol: n.Symbol, Block: id, Expr: e})
	case hir.ExprAssign:
		d := e.Data.(hir.AssignData)
		if d.Compound {
			du.visitExpr(id, d.Target) // compound assign reads then writes
		}
		du.visitExpr(id, d.Value)
		if d.Target != nil && d.Target.Kind == hir.ExprName {
			n := d.Target.Data.(hir.NameData)
			du.Defs = append(du.Defs, Def{Symbol: n.Symbol, Block: id})
		} else {
			du.visitExpr(id, d.Target)
		}
	case hir.ExprUnary:
		d := e.Data.(hir.UnaryData)
		du.visitExpr(id, d.Operand)
	case hir.ExprBinary:
		d := e.Data.(hir.BinaryData)
		du.visitExpr(id, d.Left)
		du.visitExpr(id, d.Right)
	case hir.ExprTernary:
		d := e.Data.(hir.TernaryData)
		du.visitExpr(id, d.Cond)
		du.visitExpr(id, d.Then)
		du.visitExpr(id, d.Else)
	case hir.ExprCall:
		d := e.Data.(hir.CallData)
		du.visitExpr(id, d.Callee)
		for i := range d.Args {
			du.visitExpr(id, &d.Args[i])
		}
	case hir.ExprMember:
		d := e.Data.(hir.MemberData)
		du.visitExpr(id, d.Base)
	case hir.ExprIndex:
		d := e.Data.(hir.IndexData)
		du.visitExpr(id, d.Base)
		du.visitExpr(id, d.Index)
	case hir.ExprCast:
		d := e.Data.(hir.CastData)
		du.visitExpr(id, d.Operand)
	case hir.ExprAddrOf:
		d := e.Data.(hir.AddrOfData)
		du.visitExpr(id, d.Operand)
	case hir.ExprDeref:
		d := e.Data.(hir.DerefData)
		du.visitExpr(id, d.Operand)
	case hir.ExprCompound:
		d := e.Data.(hir.CompoundData)
		for i := range d.Elements {
			du.visitExpr(id, &d.Elements[i])
		}
	case hir.ExprSequence:
		d := e.Data.(hir.SequenceData)
		for i := range d.Exprs {
			du.visitExpr(id, &d.Exprs[i])
		}
	}
}
