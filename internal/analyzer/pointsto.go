package analyzer

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// OriginKind classifies where a pointer-typed value may have come from.
// The ownership stage's seed pass reads this to decide a binding's initial
// Refinement before propagation narrows it further.
type OriginKind uint8

const (
	// OriginUnknown means no single origin could be determined (e.g. a
	// pointer arriving through a union member or an unrecognized call).
	OriginUnknown OriginKind = iota
	// OriginAlloc means the value came directly from a call to a named
	// function. Every such call is tagged, whatever it calls; the ownership
	// stage's seed pass decides from the catalog whether it allocates.
	OriginAlloc
	// OriginAddrOf means the value is `&local` or `&param`.
	OriginAddrOf
	// OriginParam means the value is a parameter's own pointer value,
	// passed in by the caller.
	OriginParam
	// OriginNull means the value is a compile-time-known null constant.
	OriginNull
)

func (k OriginKind) String() string {
	switch k {
	case OriginAlloc:
		return "alloc"
	case OriginAddrOf:
		return "addr-of"
	case OriginParam:
		return "param"
	case OriginNull:
		return "null"
	default:
		return "unknown"
	}
}

// Origin is one possible source of a pointer value.
type Origin struct {
	Kind OriginKind
	// Symbol is the local/param addr-of'd (OriginAddrOf/OriginParam), or
	// NoSymbolID otherwise.
	Symbol symbols.SymbolID
	// Callee is the function symbol called (OriginAlloc), if resolved.
	Callee symbols.SymbolID
}

// PointsTo maps every symbol holding a pointer value to its possible
// origins, built as a flow-insensitive summary over one function's CFG
// blocks: precise enough for the ownership stage's seed pass, which
// only needs "does this come from one recognized allocator, or not."
type PointsTo map[symbols.SymbolID][]Origin

// BuildPointsTo computes a flow-insensitive PointsTo summary directly from
// a CFG's blocks. Assignments of the form `x = &y`, `x = call(...)` and
// `x = NULL` each contribute one Origin to x; anything else leaves x with
// no recorded origin (treated as OriginUnknown by callers).
func BuildPointsTo(c *CFG) PointsTo {
	pt := make(PointsTo, 8)
	for i := range c.Blocks {
		blk := &c.Blocks[i]
		for _, s := range blk.Stmts {
			addFromStmt(pt, s)
		}
	}
	return pt
}

func addFromStmt(pt PointsTo, s *hir.Stmt) {
	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetData)
		if d.Value != nil {
			if o, ok := originOf(d.Value); ok {
				pt[d.Symbol] = append(pt[d.Symbol], o)
			}
		}
	case hir.StmtExpr:
		d := s.Data.(hir.ExprStmtData)
		if d.Expr == nil || d.Expr.Kind != hir.ExprAssign {
			return
		}
		a := d.Expr.Data.(hir.AssignData)
		if a.Compound || a.Target == nil || a.Target.Kind != hir.ExprName {
			return
		}
		target := a.Target.Data.(hir.NameData).Symbol
		if o, ok := originOf(a.Value); ok {
			pt[target] = append(pt[target], o)
		}
	}
}

func originOf(e *hir.Expr) (Origin, bool) {
	if e == nil {
		return Origin{}, false
	}
	switch e.Kind {
	case hir.ExprAddrOf:
		d := e.Data.(hir.AddrOfData)
		if d.Operand != nil && d.Operand.Kind == hir.ExprName {
			return Origin{Kind: OriginAddrOf, Symbol: d.Operand.Data.(hir.NameData).Symbol}, true
		}
		return Origin{Kind: OriginAddrOf}, true
	case hir.ExprCall:
		d := e.Data.(hir.CallData)
		if d.Callee != nil && d.Callee.Kind == hir.ExprName {
			return Origin{Kind: OriginAlloc, Callee: d.Callee.Data.(hir.NameData).Symbol}, true
		}
		return Origin{Kind: OriginUnknown}, true
	case hir.ExprLiteral:
		lit := e.Data.(hir.LiteralData)
		if lit.Kind == hir.LiteralNull || (lit.Kind == hir.LiteralInt && lit.Int == 0) {
			return Origin{Kind: OriginNull}, true
		}
		return Origin{}, false
	case hir.ExprName:
		return Origin{}, false
	default:
		return Origin{}, false
	}
}
