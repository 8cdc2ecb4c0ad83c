package codegen

import (
	"fmt"

	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/types"
)

// ownedTypeName applies spec §4.6's pointer-refinement row to base,
// the already-rendered pointee type name. regionName resolves a borrow's
// hir.RegionID to the lifetime parameter the enclosing function declared
// for it (func.go's collectRegions); span/reporter let a RawEscape
// pointer or an unresolved region record the diagnostic spec requires
// ("every demotion is recorded in the diagnostics stream").
func (e *Emitter) ownedTypeName(id types.TypeID, own hir.Ownership, regionName func(hir.RegionID) string, span source.Span) string {
	t, ok := e.interner.Lookup(id)
	if !ok || t.Kind != types.KindPointer {
		return e.baseTypeName(id)
	}
	base := e.baseTypeName(t.Elem)
	switch own.Refinement {
	case hir.RefinementOwning:
		return fmt.Sprintf("Box<%s>", base)
	case hir.RefinementOwningArray:
		return fmt.Sprintf("Vec<%s>", base)
	case hir.RefinementBorrow:
		lt := regionName(own.Region)
		if own.Mode == hir.BorrowMutable {
			return fmt.Sprintf("&%smut %s", lt, base)
		}
		return fmt.Sprintf("&%s%s", lt, base)
	case hir.RefinementNull:
		// No inner classification rides along a Null refinement (see
		// hir.Ownership's doc comment); the dominant shape in practice is
		// a pointer initialized to NULL and later assigned an allocation,
		// so this backend defaults to an owning Option rather than
		// guessing borrow vs. raw.
		return fmt.Sprintf("Option<Box<%s>>", base)
	case hir.RefinementRawEscape:
		e.note(fmt.Sprintf("raw pointer to %s kept as an escape hatch (ownership inference could not classify it)", base))
		diag.ReportInfo(e.reporter, diag.CodegenRawBlockEmitted, span,
			"emitting a raw pointer inside an explicit unsafe block").Emit()
		qual := "*mut"
		if t.Quals.Const {
			qual = "*const"
		}
		return fmt.Sprintf("%s %s /* unsafe escape hatch */", qual, base)
	default:
		e.note(fmt.Sprintf("pointer to %s has no resolved ownership classification", base))
		diag.ReportInfo(e.reporter, diag.CodegenRawBlockEmitted, span,
			"ownership was never resolved for this pointer; emitting it raw").Emit()
		return fmt.Sprintf("*mut %s /* unresolved ownership */", base)
	}
}
