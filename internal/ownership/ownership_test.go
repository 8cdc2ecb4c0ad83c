package ownership

import (
	"testing"

	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/symbols"
)

// buildAllocFree constructs:
//
//	void f() { int *p = malloc(4); free(p); }
func buildAllocFree() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	mallocRef := b.DeclRef(source.Span{}, ptrTy, "malloc")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	call := b.Call(source.Span{}, ptrTy, mallocRef, four)
	decl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, call)
	freeRef := b.DeclRef(source.Span{}, voidTy, "free")
	pRef := b.DeclRef(source.Span{}, ptrTy, "p")
	freeCall := b.Call(source.Span{}, voidTy, freeRef, pRef)
	body := b.Block(source.Span{}, b.DeclStmt(source.Span{}, decl), b.ExprStmt(source.Span{}, freeCall))
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){int *p=malloc(4);free(p);}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

// buildDoubleAlloc constructs:
//
//	void f() { int *p = malloc(4); p = malloc(8); }
func buildDoubleAlloc() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	mallocRef1 := b.DeclRef(source.Span{}, ptrTy, "malloc")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	call1 := b.Call(source.Span{}, ptrTy, mallocRef1, four)
	decl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, call1)

	mallocRef2 := b.DeclRef(source.Span{}, ptrTy, "malloc")
	eight := b.IntLiteral(source.Span{}, intTy, 8, "8")
	call2 := b.Call(source.Span{}, ptrTy, mallocRef2, eight)
	pTarget := b.DeclRef(source.Span{}, ptrTy, "p")
	reassign := b.Assign(source.Span{}, ptrTy, "=", pTarget, call2)

	body := b.Block(source.Span{}, b.DeclStmt(source.Span{}, decl), b.ExprStmt(source.Span{}, reassign))
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){int *p=malloc(4);p=malloc(8);}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

// buildConsumingWrapper constructs:
//
//	void release(int *p) { free(p); }
func buildConsumingWrapper() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	param := b.Param(source.Span{}, ptrTy, "p")
	freeRef := b.DeclRef(source.Span{}, voidTy, "free")
	pRef := b.DeclRef(source.Span{}, ptrTy, "p")
	freeCall := b.Call(source.Span{}, voidTy, freeRef, pRef)
	body := b.Block(source.Span{}, b.ExprStmt(source.Span{}, freeCall))
	fn := b.FuncDecl(source.Span{}, voidTy, "release", []cast.NodeID{param}, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("release.c", []byte("void release(int *p){free(p);}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

func runOwnership(t *testing.T, mod *hir.Module) (*Summary, *diag.Bag) {
	t.Helper()
	results := analyzer.AnalyzeModule(mod)
	bag := diag.NewBag(64)
	summary := Run(mod, results, catalog.Default(), diag.BagReporter{Bag: bag})
	return summary, bag
}

func TestOwnershipMallocFreeDemotesToRawEscape(t *testing.T) {
	mod := buildAllocFree()
	fn := mod.FindFunc("f")
	summary, _ := runOwnership(t, mod)

	pSym := findLocalNamed(t, mod, fn, "p")
	got := summary.Locals[fn.ID][pSym]
	if got.Refinement != hir.RefinementRawEscape {
		t.Fatalf("expected p to be demoted to raw-escape after free, got %s", got)
	}
}

func TestOwnershipFlagsReassignmentWithoutRelease(t *testing.T) {
	mod := buildDoubleAlloc()
	_, bag := runOwnership(t, mod)

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.OwnMultipleOwnersFound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OwnMultipleOwnersFound diagnostic for the unreleased reassignment")
	}
}

func TestOwnershipConsumedParamSummary(t *testing.T) {
	mod := buildConsumingWrapper()
	fn := mod.FindFunc("release")
	summary, _ := runOwnership(t, mod)

	fsum, ok := summary.Funcs[fn.ID]
	if !ok {
		t.Fatalf("expected a summary for release")
	}
	if len(fsum.Params) != 1 || fsum.Params[0] != ParamConsumed {
		t.Fatalf("expected release's only parameter to be classified ParamConsumed, got %v", fsum.Params)
	}
}

// findLocalNamed scans fn's body for the StmtLet declaring a local named
// name, resolving through the module's shared string interner.
func findLocalNamed(t *testing.T, mod *hir.Module, fn *hir.Func, name string) symbols.SymbolID {
	t.Helper()
	var found symbols.SymbolID
	walkBlock(fn.Body, func(s *hir.Stmt) {
		if found.IsValid() || s.Kind != hir.StmtLet {
			return
		}
		d := s.Data.(hir.LetData)
		sym := mod.Symbols.Symbols.Get(d.Symbol)
		if sym == nil {
			return
		}
		if n, ok := mod.Symbols.Strings.Lookup(sym.Name); ok && n == name {
			found = d.Symbol
		}
	})
	if !found.IsValid() {
		t.Fatalf("no local named %q found", name)
	}
	return found
}
