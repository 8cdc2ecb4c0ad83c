package codegen

import (
	"fmt"

	"csafe/internal/diag"
	"csafe/internal/hir"
)

// calleeName resolves a call's callee expression to the plain function
// name, mirroring ownership/verify's own funcState.calleeName -- codegen
// needs the same lookup to decide whether a call is to a cataloged
// allocator/releaser/reallocator, but has no funcState of its own (calls
// can appear in global initializers, where fe is nil).
func (e *Emitter) calleeName(callee *hir.Expr) (string, bool) {
	sym, ok := exprName(callee)
	if !ok {
		return "", false
	}
	return e.symbolName(sym)
}

// callText renders a call expression, applying spec §4.6's call-mapping
// table: an allocator call becomes the owning container's constructor, a
// releaser call is elided (its effect is implicit in the owning value's
// drop), and a reallocator call becomes a single owning-container
// operation rather than a pointer-returning call, so no second token ever
// exists for the same allocation.
func (e *Emitter) callText(ex *hir.Expr, fe *funcEmitter) string {
	d := ex.Data.(hir.CallData)
	name, isName := e.calleeName(d.Callee)
	if isName {
		if _, ok := e.cat.IsAllocator(name); ok {
			return e.allocatorCallText(name, d, fe)
		}
		if _, ok := e.cat.IsReleaser(name); ok {
			return e.releaserCallText(name, d, ex, fe)
		}
		if _, ok := e.cat.IsReallocator(name); ok {
			return e.reallocatorCallText(name, d, fe)
		}
	}
	args := make([]string, len(d.Args))
	for i := range d.Args {
		args[i] = e.exprText(&d.Args[i], fe)
	}
	callee := e.exprText(d.Callee, fe)
	if d.Variadic {
		e.note(fmt.Sprintf("variadic call to %q rewritten to pass its trailing arguments as a slice", callee))
		diag.ReportInfo(e.reporter, diag.CodegenVariadicRewrite, ex.Span,
			"variadic call rewritten to an explicit slice argument").Emit()
		fixed := len(args)
		if info, ok := e.interner.FnInfo(e.interner.Resolve(d.Callee.Type)); ok && len(info.Params) < fixed {
			fixed = len(info.Params)
		}
		return fmt.Sprintf("%s(%s, &[%s])", callee, joinComma(args[:fixed]), joinComma(args[fixed:]))
	}
	return fmt.Sprintf("%s(%s)", callee, joinComma(args))
}

// allocatorCallText renders malloc/calloc-family calls as the owning
// container's constructor; the byte-count argument the C call passed
// becomes a capacity hint rather than a raw allocation size, since the
// target container tracks its own element size.
func (e *Emitter) allocatorCallText(name string, d hir.CallData, fe *funcEmitter) string {
	e.note(fmt.Sprintf("allocator call %q rewritten to an owning container constructor", name))
	if len(d.Args) == 0 {
		return "Box::new(Default::default())"
	}
	size := e.exprText(&d.Args[0], fe)
	return fmt.Sprintf("Vec::with_capacity((%s) as usize)", size)
}

// releaserCallText elides a free/destroy-family call: the owning value's
// drop glue already runs the release, so the call's only surviving trace
// is the diagnostic recording that a demotion happened here.
func (e *Emitter) releaserCallText(name string, d hir.CallData, ex *hir.Expr, fe *funcEmitter) string {
	e.note(fmt.Sprintf("releaser call %q elided; drop glue now performs the release", name))
	diag.ReportInfo(e.reporter, diag.CodegenInfo, ex.Span,
		"releaser call elided in favor of automatic drop").Emit()
	return "()"
}

// reallocatorCallText renders realloc-family calls as a single owning-
// container operation (Vec::reserve/resize), never producing a second
// token for the same allocation the way a raw realloc pointer-swap would.
func (e *Emitter) reallocatorCallText(name string, d hir.CallData, fe *funcEmitter) string {
	e.note(fmt.Sprintf("reallocator call %q rewritten to a single owning-container resize", name))
	if len(d.Args) < 2 {
		return "()"
	}
	target := e.exprText(&d.Args[0], fe)
	size := e.exprText(&d.Args[1], fe)
	return fmt.Sprintf("{ %s.reserve((%s) as usize); %s }", target, size, target)
}
