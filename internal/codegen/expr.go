package codegen

import (
	"fmt"
	"strconv"

	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// exprText renders e as a standalone expression, fully bracketed at
// operator boundaries where precedence could otherwise change meaning.
// fe is nil when called from module-level contexts (global initializers)
// that have no lifetime table to consult -- those initializers are
// restricted to literals/constant expressions, which never need one.
func (e *Emitter) exprText(ex *hir.Expr, fe *funcEmitter) string {
	if ex == nil {
		return ""
	}
	switch ex.Kind {
	case hir.ExprLiteral:
		return literalText(ex.Data.(hir.LiteralData))
	case hir.ExprName:
		return e.names.resolve(ex.Data.(hir.NameData).Symbol)
	case hir.ExprUnary:
		return e.unaryText(ex.Data.(hir.UnaryData), fe)
	case hir.ExprBinary:
		d := ex.Data.(hir.BinaryData)
		return fmt.Sprintf("(%s %s %s)", e.exprText(d.Left, fe), d.Op, e.exprText(d.Right, fe))
	case hir.ExprTernary:
		d := ex.Data.(hir.TernaryData)
		return fmt.Sprintf("(if %s { %s } else { %s })", e.exprText(d.Cond, fe), e.exprText(d.Then, fe), e.exprText(d.Else, fe))
	case hir.ExprCall:
		return e.callText(ex, fe)
	case hir.ExprMember:
		d := ex.Data.(hir.MemberData)
		return fmt.Sprintf("%s.%s", e.exprText(d.Base, fe), fieldName(d.Field))
	case hir.ExprIndex:
		d := ex.Data.(hir.IndexData)
		return fmt.Sprintf("%s[%s as usize]", e.exprText(d.Base, fe), e.exprText(d.Index, fe))
	case hir.ExprCast:
		d := ex.Data.(hir.CastData)
		return fmt.Sprintf("(%s as %s)", e.exprText(d.Operand, fe), e.baseTypeName(ex.Type))
	case hir.ExprAddrOf:
		return e.addrOfText(ex.Data.(hir.AddrOfData), fe)
	case hir.ExprDeref:
		d := ex.Data.(hir.DerefData)
		return fmt.Sprintf("(*%s)", e.exprText(d.Operand, fe))
	case hir.ExprCompound:
		return e.compoundText(ex, fe)
	case hir.ExprSequence:
		d := ex.Data.(hir.SequenceData)
		if len(d.Exprs) == 0 {
			return "()"
		}
		stmts := make([]string, len(d.Exprs)-1)
		for i := 0; i < len(d.Exprs)-1; i++ {
			stmts[i] = e.exprText(&d.Exprs[i], fe) + ";"
		}
		tail := e.exprText(&d.Exprs[len(d.Exprs)-1], fe)
		return fmt.Sprintf("{ %s %s }", joinSpace(stmts), tail)
	case hir.ExprAssign:
		return e.assignText(ex.Data.(hir.AssignData), fe)
	default:
		e.note("unhandled expression kind emitted as a placeholder")
		diag.ReportInfo(e.reporter, diag.CodegenRawBlockEmitted, ex.Span,
			"unhandled expression kind emitted as a placeholder").Emit()
		return "todo!(\"unhandled expression\")"
	}
}

func literalText(d hir.LiteralData) string {
	switch d.Kind {
	case hir.LiteralInt:
		return strconv.FormatInt(d.Int, 10)
	case hir.LiteralFloat:
		return strconv.FormatFloat(d.Float, 'g', -1, 64)
	case hir.LiteralChar:
		return fmt.Sprintf("%d", d.Char)
	case hir.LiteralString:
		return strconv.Quote(d.StringVal)
	case hir.LiteralNull:
		return "None"
	default:
		return "0"
	}
}

func (e *Emitter) unaryText(d hir.UnaryData, fe *funcEmitter) string {
	operand := e.exprText(d.Operand, fe)
	switch d.Op {
	case hir.UnaryNeg:
		return fmt.Sprintf("(-%s)", operand)
	case hir.UnaryNot:
		return fmt.Sprintf("(!%s)", operand)
	case hir.UnaryBitNot:
		return fmt.Sprintf("(!%s)", operand)
	case hir.UnaryPreInc:
		return fmt.Sprintf("{ %s += 1; %s }", operand, operand)
	case hir.UnaryPreDec:
		return fmt.Sprintf("{ %s -= 1; %s }", operand, operand)
	case hir.UnaryPostInc:
		return fmt.Sprintf("{ let __t = %s; %s += 1; __t }", operand, operand)
	case hir.UnaryPostDec:
		return fmt.Sprintf("{ let __t = %s; %s -= 1; __t }", operand, operand)
	default:
		return operand
	}
}

// addrOfText renders `&expr`/`&mut expr`. Ownership isn't visible on an
// arbitrary address-of site (it rides on the binding the result flows
// into, resolved back in lifetime/outlives.go), so this defaults to a
// shared reference; a mutable borrow is only emitted when the pointee
// symbol's own Ownership says so, matching the teacher's llvm backend's
// policy of trusting the upstream analysis rather than re-deriving it.
func (e *Emitter) addrOfText(d hir.AddrOfData, fe *funcEmitter) string {
	if fe != nil {
		if sym, ok := exprName(d.Operand); ok {
			if own, ok := fe.ownershipOf(sym); ok && own.Refinement == hir.RefinementBorrow && own.Mode == hir.BorrowMutable {
				return fmt.Sprintf("(&mut %s)", e.exprText(d.Operand, fe))
			}
		}
	}
	return fmt.Sprintf("(&%s)", e.exprText(d.Operand, fe))
}

func exprName(e *hir.Expr) (symbols.SymbolID, bool) {
	if e == nil || e.Kind != hir.ExprName {
		return symbols.NoSymbolID, false
	}
	return e.Data.(hir.NameData).Symbol, true
}

// compoundText renders a compound literal either as a struct literal
// (when its resolved type is a record and field names are available) or
// an array literal, matching whichever shape the source initializer list
// actually targeted.
func (e *Emitter) compoundText(ex *hir.Expr, fe *funcEmitter) string {
	d := ex.Data.(hir.CompoundData)
	t, ok := e.interner.Lookup(ex.Type)
	isRecord := ok && t.Kind == types.KindRecord && len(d.FieldNames) > 0
	parts := make([]string, len(d.Elements))
	for i := range d.Elements {
		el := e.exprText(&d.Elements[i], fe)
		if isRecord && i < len(d.FieldNames) && d.FieldNames[i] != "" {
			parts[i] = fmt.Sprintf("%s: %s", fieldName(d.FieldNames[i]), el)
		} else {
			parts[i] = el
		}
	}
	if isRecord {
		return fmt.Sprintf("%s { %s }", e.baseTypeName(ex.Type), joinComma(parts))
	}
	return fmt.Sprintf("[%s]", joinComma(parts))
}

func (e *Emitter) assignText(d hir.AssignData, fe *funcEmitter) string {
	target := e.exprText(d.Target, fe)
	if !d.Compound {
		return fmt.Sprintf("{ %s = %s; %s }", target, e.exprText(d.Value, fe), target)
	}
	return fmt.Sprintf("{ %s %s= %s; %s }", target, d.Op, e.exprText(d.Value, fe), target)
}
