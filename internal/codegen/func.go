package codegen

import (
	"fmt"

	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// funcEmitter is one function's emission state: its own indent level and
// lifetime-name table, mirroring the teacher's funcEmitter (a per-function
// struct wrapping the module-wide Emitter plus whatever only this
// function's body needs -- there tmpID/localAlloca, here indent/regions).
type funcEmitter struct {
	e       *Emitter
	fn      *hir.Func
	regions map[hir.RegionID]string
	// paramOwn/declStmt mirror ownership/verify's own funcState maps,
	// giving addrOfText something to consult when deciding whether a
	// borrow it renders needs `&mut`.
	paramOwn map[symbols.SymbolID]hir.Ownership
	declStmt map[symbols.SymbolID]*hir.Stmt
	indent   int
}

// ownershipOf resolves sym's current Ownership from wherever it was
// declared, or false if sym names neither a param nor a local this
// function declared.
func (fe *funcEmitter) ownershipOf(sym symbols.SymbolID) (hir.Ownership, bool) {
	if own, ok := fe.paramOwn[sym]; ok {
		return own, true
	}
	if stmt, ok := fe.declStmt[sym]; ok {
		return stmt.Data.(hir.LetData).Ownership, true
	}
	return hir.Ownership{}, false
}

func (e *Emitter) emitFunc(fn *hir.Func) error {
	if !fn.HasBody() {
		e.emitExternDecl(fn)
		return nil
	}
	fe := &funcEmitter{
		e:        e,
		fn:       fn,
		paramOwn: make(map[symbols.SymbolID]hir.Ownership, len(fn.Params)),
		declStmt: make(map[symbols.SymbolID]*hir.Stmt, 8),
	}
	for _, p := range fn.Params {
		fe.paramOwn[p.Symbol] = p.Ownership
	}
	walkStmts(fn.Body, func(s *hir.Stmt) {
		if ld, ok := s.Data.(hir.LetData); ok {
			fe.declStmt[ld.Symbol] = s
		}
	})
	fe.collectRegions()
	for _, letter := range fe.sortedRegionLetters() {
		e.regions = append(e.regions, RegionRecord{Func: fn.Name, Region: letter})
	}

	fmt.Fprintf(&e.buf, "pub fn %s%s(%s)%s {\n", e.names.resolve(fn.Symbol), fe.lifetimeIntro(), fe.paramList(), fe.returnClause())
	fe.indent = 1
	fe.emitBlock(fn.Body)
	e.buf.WriteString("}\n\n")
	return nil
}

func (e *Emitter) emitExternDecl(fn *hir.Func) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, e.baseTypeName(p.Type))
	}
	ret := ""
	if rt := e.baseTypeName(fn.Result); rt != "()" {
		ret = " -> " + rt
	}
	name, _ := e.symbolName(fn.Symbol)
	if name == "" {
		name = fn.Name
	}
	fmt.Fprintf(&e.buf, "extern \"C\" {\n    fn %s(%s)%s;\n}\n\n", name, joinComma(params), ret)
}

// collectRegions assigns each distinct Borrow region appearing among this
// function's params and locals a short lifetime name ('a, 'b, ...), in
// order of first appearance: params first in declaration order, then
// locals in the order their declaring statement is walked. 'a therefore
// goes to whichever Borrow region appears first, so a function with a
// single borrow region always names it 'a.
func (fe *funcEmitter) collectRegions() {
	fe.regions = make(map[hir.RegionID]string, 2)
	for _, p := range fe.fn.Params {
		fe.noteRegion(p.Ownership)
	}
	// Walks the tree directly (source order) rather than ranging over
	// fe.declStmt, whose map iteration order is not stable -- region
	// letters must be assigned deterministically for codegen's
	// byte-equal-output guarantee.
	walkStmts(fe.fn.Body, func(s *hir.Stmt) {
		if ld, ok := s.Data.(hir.LetData); ok {
			fe.noteRegion(ld.Ownership)
		}
	})
}

func (fe *funcEmitter) noteRegion(own hir.Ownership) {
	if own.Refinement != hir.RefinementBorrow || !own.Region.IsValid() {
		return
	}
	if _, ok := fe.regions[own.Region]; ok {
		return
	}
	fe.regions[own.Region] = lifetimeLetter(len(fe.regions))
}

func lifetimeLetter(i int) string {
	if i < 26 {
		return fmt.Sprintf("'%c", 'a'+rune(i))
	}
	return fmt.Sprintf("'r%d", i)
}

// regionName resolves a RegionID already assigned a lifetime name, falling
// back to an anonymous elided lifetime when the region never appeared in
// collectRegions (e.g. a borrow whose region was widened to the function
// body after params were walked -- still correct, just less specific).
func (fe *funcEmitter) regionName(id hir.RegionID) string {
	if name, ok := fe.regions[id]; ok {
		return name + " "
	}
	return ""
}

// sortedRegionLetters returns this function's assigned lifetime letters in
// lexical order ('a, 'b, ...), which matches first-appearance order since
// lifetimeLetter assigns them in that sequence; sorting here just makes
// the result independent of fe.regions' map iteration order.
func (fe *funcEmitter) sortedRegionLetters() []string {
	if len(fe.regions) == 0 {
		return nil
	}
	names := make([]string, 0, len(fe.regions))
	for i := range fe.regions {
		names = append(names, fe.regions[i])
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func (fe *funcEmitter) lifetimeIntro() string {
	names := fe.sortedRegionLetters()
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("<%s>", joinComma(names))
}

func (fe *funcEmitter) paramList() string {
	parts := make([]string, 0, len(fe.fn.Params)+1)
	for _, p := range fe.fn.Params {
		ty := fe.e.ownedTypeName(p.Type, p.Ownership, fe.regionName, p.Span)
		parts = append(parts, fmt.Sprintf("%s: %s", fe.e.names.resolve(p.Symbol), ty))
	}
	if fe.fn.IsVariadic() {
		diag.ReportInfo(fe.e.reporter, diag.CodegenVariadicRewrite, fe.fn.Span,
			"variadic parameter rewritten to an explicit slice parameter").Emit()
		fe.e.note(fmt.Sprintf("function %q is variadic; rewritten to take an explicit varargs slice", fe.fn.Name))
		parts = append(parts, "varargs: &[i64]")
	}
	return joinComma(parts)
}

func (fe *funcEmitter) returnClause() string {
	ret := fe.e.baseTypeName(fe.fn.Result)
	if ret == "()" {
		return ""
	}
	return " -> " + ret
}
