// Package codegen renders a frozen HIR module, carrying the ownership and
// lifetime decisions the earlier stages wrote onto it, as target-language
// source text.
//
// Grounded on the teacher's internal/backend/llvm (emit.go's Emitter/
// funcEmitter split: a module-level pass that collects naming tables
// before any text is written, followed by one funcEmitter per function
// threading a *strings.Builder and an indent level) scaled down from an
// LLVM-IR textual backend to this package's target-language textual
// backend. Declarations emit in source order; codegen never rejects an
// unhandled construct -- it emits a labeled placeholder and records a
// diagnostic so the rest of the unit still produces output.
package codegen

import (
	"fmt"
	"strings"

	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
	"csafe/internal/types"
	"csafe/internal/verify"
)

// Emitter holds the module-wide state every function emission reads:
// the type interner, symbol table, allocator catalog and naming caches.
// Mirrors the teacher's Emitter struct, minus the LLVM-specific string-
// constant/runtime-declaration bookkeeping this backend has no use for.
type Emitter struct {
	mod      *hir.Module
	interner *types.Interner
	table    *symbols.Table
	cat      *catalog.Catalog
	ver      *verify.Summary
	reporter diag.Reporter

	names    *nameTable
	buf      strings.Builder
	demotes  []string       // header summary lines, collected while emitting
	regions  []RegionRecord // debug manifest, one entry per assigned lifetime
}

// RegionRecord names one lifetime letter codegen assigned to a borrow
// region while emitting a function, for the optional debug manifest
// (--emit-regions). It carries no information codegen doesn't already
// need internally -- it's func.go's collectRegions table, surfaced.
type RegionRecord struct {
	Func   string
	Region string
}

// Manifest is Emit's second return value: debug information about the
// emission that isn't part of the rendered source itself.
type Manifest struct {
	Regions []RegionRecord
}

// Emit renders mod as target-language source text. ver carries the
// per-function ReturnsRiskyBorrow facts verify.Run resolved, consulted
// when deciding whether a returned borrow needs an escape-hatch comment
// instead of a plain reference.
func Emit(mod *hir.Module, cat *catalog.Catalog, ver *verify.Summary, reporter diag.Reporter) (string, *Manifest, error) {
	if mod == nil {
		return "", &Manifest{}, nil
	}
	e := &Emitter{
		mod:      mod,
		interner: mod.Interner,
		table:    mod.Symbols,
		cat:      cat,
		ver:      ver,
		reporter: reporter,
		names:    newNameTable(mod.Symbols),
	}
	for _, td := range mod.Types {
		e.emitTypeDecl(td)
	}
	for _, g := range mod.Globals {
		e.emitGlobal(g)
	}
	for _, fn := range mod.Funcs {
		if err := e.emitFunc(fn); err != nil {
			return "", nil, err
		}
	}
	// The review notes are only known once every declaration has been
	// walked, so the rendered declarations are set aside and written back
	// after the header and the notes.
	body := e.buf.String()
	e.buf.Reset()
	e.emitHeader()
	e.emitNotes()
	e.buf.WriteString(body)
	return e.buf.String(), &Manifest{Regions: e.regions}, nil
}

// emitHeader writes the translation unit's identifying comment, the first
// line of the output; emitNotes follows it with the demotion/unsupported-
// construct summary collected while walking the module (see note).
func (e *Emitter) emitHeader() {
	fmt.Fprintf(&e.buf, "// generated from %s -- do not edit by hand\n\n", e.mod.Name)
}

func (e *Emitter) note(msg string) {
	e.demotes = append(e.demotes, msg)
}

// emitNotes writes the collected demotion/unsupported-construct summary as
// a comment block placed right after the header, ahead of any code.
func (e *Emitter) emitNotes() {
	if len(e.demotes) == 0 {
		return
	}
	e.buf.WriteString("// review notes:\n")
	for _, d := range e.demotes {
		fmt.Fprintf(&e.buf, "//   - %s\n", d)
	}
	e.buf.WriteString("\n")
}
