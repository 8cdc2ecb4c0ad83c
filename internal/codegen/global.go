package codegen

import (
	"fmt"

	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// emitGlobal renders one file-scope variable. Spec §9's redesign flags
// call for a process-wide owning location, wrapped in an explicit
// synchronization primitive once more than one function mutates it;
// determining "more than one function" precisely needs cross-function
// def-use data this backend does not have on hand (codegen runs after
// verify, not alongside the analyzer), so it conservatively treats any
// assignment anywhere in the unit as potential sharing and reaches for
// the synchronization wrapper whenever one exists, rather than trying to
// prove there is exactly one writer.
func (e *Emitter) emitGlobal(g hir.GlobalVar) {
	ty := e.baseTypeName(g.Type)
	init := "Default::default()"
	if g.Value != nil {
		init = e.exprText(g.Value, nil)
	}
	vis := "pub "
	if g.Static {
		vis = ""
	}
	if !e.globalIsAssignedSomewhere(g.Symbol) {
		fmt.Fprintf(&e.buf, "%sstatic %s: %s = %s;\n\n", vis, e.names.resolve(g.Symbol), ty, init)
		return
	}
	name, _ := e.symbolName(g.Symbol)
	e.note(fmt.Sprintf("global %q is mutated and shared under a synchronization wrapper", name))
	fmt.Fprintf(&e.buf, "%sstatic %s: std::sync::Mutex<%s> = std::sync::Mutex::new(%s);\n\n",
		vis, e.names.resolve(g.Symbol), ty, init)
}

func (e *Emitter) globalIsAssignedSomewhere(sym symbols.SymbolID) bool {
	for _, fn := range e.mod.Funcs {
		if fn.Body != nil && blockAssignsSymbol(fn.Body, sym) {
			return true
		}
	}
	return false
}

func (e *Emitter) symbolName(sym symbols.SymbolID) (string, bool) {
	if !sym.IsValid() || e.table == nil {
		return "", false
	}
	s := e.table.Symbols.Get(sym)
	if s == nil {
		return "", false
	}
	return e.table.Strings.Lookup(s.Name)
}
