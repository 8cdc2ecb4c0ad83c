package codegen

import (
	"strings"
	"testing"

	"csafe/internal/catalog"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/symbols"
	"csafe/internal/types"
	"csafe/internal/verify"
)

// fixture bundles the plumbing every test needs to hand-build a minimal
// HIR module: codegen is tested as a unit, downstream of ownership/
// lifetime/verify, so fixtures build their Ownership/verify.Summary
// values directly rather than re-running the earlier pipeline stages.
type fixture struct {
	interner *types.Interner
	table    *symbols.Table
	strings  *source.Interner
}

func newFixture() *fixture {
	strs := source.NewInterner()
	return &fixture{
		interner: types.NewInterner(),
		table:    symbols.NewTable(symbols.Hints{}, strs),
		strings:  strs,
	}
}

func (f *fixture) newSymbol(name string, kind symbols.SymbolKind, ty types.TypeID) symbols.SymbolID {
	return f.table.Symbols.New(symbols.Symbol{
		Name: f.strings.Intern(name),
		Kind: kind,
		Type: ty,
	})
}

func (f *fixture) emit(t *testing.T, mod *hir.Module, ver *verify.Summary) string {
	t.Helper()
	bag := diag.NewBag(32)
	out, _, err := Emit(mod, catalog.Default(), ver, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return out
}

func TestEmitScalarFunction(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	sym := f.newSymbol("add_one", symbols.SymbolFunction, intTy)
	paramSym := f.newSymbol("x", symbols.SymbolParam, intTy)

	body := &hir.Block{Stmts: []hir.Stmt{
		{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
			Kind: hir.ExprBinary, Type: intTy,
			Data: hir.BinaryData{
				Op:   hir.BinAdd,
				Left: &hir.Expr{Kind: hir.ExprName, Type: intTy, Data: hir.NameData{Symbol: paramSym}},
				Right: &hir.Expr{Kind: hir.ExprLiteral, Type: intTy, Data: hir.LiteralData{
					Kind: hir.LiteralInt, Int: 1,
				}},
			},
		}}},
	}}
	fn := &hir.Func{
		ID: 1, Name: "add_one", Symbol: sym, Result: intTy,
		Params: []hir.Param{{Symbol: paramSym, Type: intTy}},
		Body:   body,
	}
	mod := &hir.Module{Name: "f.c", Funcs: []*hir.Func{fn}, Interner: f.interner, Symbols: f.table}

	out := f.emit(t, mod, nil)
	if !strings.Contains(out, "pub fn add_one(x: i32) -> i32 {") {
		t.Fatalf("missing function signature, got:\n%s", out)
	}
	if !strings.Contains(out, "return (x + 1);") {
		t.Fatalf("missing return statement, got:\n%s", out)
	}
}

func TestOwnedTypeNameMapping(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	ptrTy := f.interner.Intern(types.Type{Kind: types.KindPointer, Elem: intTy})

	e := &Emitter{interner: f.interner, table: f.table, names: newNameTable(f.table)}
	bag := diag.NewBag(8)
	e.reporter = diag.BagReporter{Bag: bag}

	cases := []struct {
		name string
		own  hir.Ownership
		want string
	}{
		{"owning", hir.Ownership{Refinement: hir.RefinementOwning}, "Box<i32>"},
		{"owning-array", hir.Ownership{Refinement: hir.RefinementOwningArray}, "Vec<i32>"},
		{"borrow-shared", hir.Ownership{Refinement: hir.RefinementBorrow, Mode: hir.BorrowShared, Region: 1}, "&'a i32"},
		{"borrow-mut", hir.Ownership{Refinement: hir.RefinementBorrow, Mode: hir.BorrowMutable, Region: 1}, "&'a mut i32"},
		{"null", hir.Ownership{Refinement: hir.RefinementNull}, "Option<Box<i32>>"},
	}
	regionName := func(id hir.RegionID) string {
		if id == 1 {
			return "'a "
		}
		return ""
	}
	for _, c := range cases {
		got := e.ownedTypeName(ptrTy, c.own, regionName, source.Span{})
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestOwnedTypeNameRawEscapeRecordsDiagnostic(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	ptrTy := f.interner.Intern(types.Type{Kind: types.KindPointer, Elem: intTy})

	bag := diag.NewBag(8)
	e := &Emitter{interner: f.interner, table: f.table, names: newNameTable(f.table), reporter: diag.BagReporter{Bag: bag}}
	got := e.ownedTypeName(ptrTy, hir.Ownership{Refinement: hir.RefinementRawEscape}, func(hir.RegionID) string { return "" }, source.Span{})
	if !strings.Contains(got, "*mut i32") {
		t.Fatalf("expected a raw pointer rendering, got %q", got)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.CodegenRawBlockEmitted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CodegenRawBlockEmitted diagnostic for a raw-escape pointer")
	}
}

func TestEmitRecordDecl(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	recTy := f.interner.RegisterRecord(types.RecordInfo{
		Name:   "point",
		Fields: []types.Field{{Name: "x", Type: intTy}, {Name: "y", Type: intTy}},
	})

	e := &Emitter{interner: f.interner, table: f.table, names: newNameTable(f.table)}
	e.emitTypeDecl(hir.TypeDecl{Name: "point", Type: recTy, Kind: hir.TypeDeclRecord})
	out := e.buf.String()
	if !strings.Contains(out, "pub struct Point {") {
		t.Fatalf("missing struct declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "pub x: i32,") || !strings.Contains(out, "pub y: i32,") {
		t.Fatalf("missing struct fields, got:\n%s", out)
	}
}

func TestEmitEnumDecl(t *testing.T) {
	f := newFixture()
	enumTy := f.interner.RegisterEnum(types.EnumInfo{
		Name:       "color",
		Underlying: types.Width32,
		Signed:     true,
		Members:    []types.Enumerator{{Name: "red", Value: 0}, {Name: "green", Value: 1}},
	})

	e := &Emitter{interner: f.interner, table: f.table, names: newNameTable(f.table)}
	e.emitTypeDecl(hir.TypeDecl{Name: "color", Type: enumTy, Kind: hir.TypeDeclEnum})
	out := e.buf.String()
	if !strings.Contains(out, "pub enum Color {") {
		t.Fatalf("missing enum declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "Red = 0,") || !strings.Contains(out, "Green = 1,") {
		t.Fatalf("missing enum members, got:\n%s", out)
	}
}

func TestEmitUntaggedUnionIsRawEscapeHatch(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	unionTy := f.interner.RegisterUnion(types.UnionInfo{
		Name:   "raw_bits",
		Fields: []types.Field{{Name: "i", Type: intTy}},
	})

	bag := diag.NewBag(8)
	e := &Emitter{interner: f.interner, table: f.table, cat: catalog.Default(), names: newNameTable(f.table), reporter: diag.BagReporter{Bag: bag}}
	e.emitTypeDecl(hir.TypeDecl{Name: "raw_bits", Type: unionTy, Kind: hir.TypeDeclUnion})
	out := e.buf.String()
	if !strings.Contains(out, "raw: [u8;") {
		t.Fatalf("expected a raw byte buffer fallback, got:\n%s", out)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.CodegenRawBlockEmitted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CodegenRawBlockEmitted diagnostic for an untagged union")
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	sym := f.newSymbol("zero", symbols.SymbolFunction, intTy)
	fn := &hir.Func{
		ID: 1, Name: "zero", Symbol: sym, Result: intTy,
		Body: &hir.Block{Stmts: []hir.Stmt{
			{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
				Kind: hir.ExprLiteral, Type: intTy, Data: hir.LiteralData{Kind: hir.LiteralInt, Int: 0},
			}}},
		}},
	}
	mod := &hir.Module{Name: "f.c", Funcs: []*hir.Func{fn}, Interner: f.interner, Symbols: f.table}

	first := f.emit(t, mod, nil)

	f2 := newFixture()
	intTy2 := f2.interner.Intern(types.MakeInt(types.Width32))
	sym2 := f2.newSymbol("zero", symbols.SymbolFunction, intTy2)
	fn2 := &hir.Func{
		ID: 1, Name: "zero", Symbol: sym2, Result: intTy2,
		Body: &hir.Block{Stmts: []hir.Stmt{
			{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
				Kind: hir.ExprLiteral, Type: intTy2, Data: hir.LiteralData{Kind: hir.LiteralInt, Int: 0},
			}}},
		}},
	}
	mod2 := &hir.Module{Name: "f.c", Funcs: []*hir.Func{fn2}, Interner: f2.interner, Symbols: f2.table}
	second := f2.emit(t, mod2, nil)

	if first != second {
		t.Fatalf("emission is not deterministic:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

func TestEmitReturnFlagsRiskyBorrow(t *testing.T) {
	f := newFixture()
	intTy := f.interner.Intern(types.MakeInt(types.Width32))
	ptrTy := f.interner.Intern(types.Type{Kind: types.KindPointer, Elem: intTy})
	sym := f.newSymbol("get", symbols.SymbolFunction, ptrTy)
	localSym := f.newSymbol("p", symbols.SymbolLocal, ptrTy)

	fn := &hir.Func{
		ID: 7, Name: "get", Symbol: sym, Result: ptrTy,
		Body: &hir.Block{Stmts: []hir.Stmt{
			{Kind: hir.StmtReturn, Data: hir.ReturnData{Value: &hir.Expr{
				Kind: hir.ExprName, Type: ptrTy, Data: hir.NameData{Symbol: localSym},
			}}},
		}},
	}
	mod := &hir.Module{Name: "f.c", Funcs: []*hir.Func{fn}, Interner: f.interner, Symbols: f.table}
	ver := &verify.Summary{Funcs: map[hir.FuncID]*verify.FuncSummary{
		7: {ReturnsRiskyBorrow: true},
	}}

	out := f.emit(t, mod, ver)
	if !strings.Contains(out, "// unsafe: this return may hand back a borrow") {
		t.Fatalf("expected a risky-borrow escape-hatch comment, got:\n%s", out)
	}
}
