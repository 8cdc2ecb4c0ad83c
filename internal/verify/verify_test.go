package verify

import (
	"testing"

	"csafe/internal/analyzer"
	"csafe/internal/catalog"
	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/lifetime"
	"csafe/internal/ownership"
	"csafe/internal/source"
)

// buildLeak constructs:
//
//	void f() { int *p = malloc(4); }
func buildLeak() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	mallocRef := b.DeclRef(source.Span{}, ptrTy, "malloc")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	call := b.Call(source.Span{}, ptrTy, mallocRef, four)
	decl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, call)
	body := b.Block(source.Span{}, b.DeclStmt(source.Span{}, decl))
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){int *p=malloc(4);}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

// buildDoubleFree constructs:
//
//	void f() { int *p = malloc(4); free(p); free(p); }
func buildDoubleFree() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	mallocRef := b.DeclRef(source.Span{}, ptrTy, "malloc")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	call := b.Call(source.Span{}, ptrTy, mallocRef, four)
	decl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, call)

	freeRef1 := b.DeclRef(source.Span{}, voidTy, "free")
	pRef1 := b.DeclRef(source.Span{}, ptrTy, "p")
	freeCall1 := b.Call(source.Span{}, voidTy, freeRef1, pRef1)

	freeRef2 := b.DeclRef(source.Span{}, voidTy, "free")
	pRef2 := b.DeclRef(source.Span{}, ptrTy, "p")
	freeCall2 := b.Call(source.Span{}, voidTy, freeRef2, pRef2)

	body := b.Block(source.Span{}, b.DeclStmt(source.Span{}, decl),
		b.ExprStmt(source.Span{}, freeCall1), b.ExprStmt(source.Span{}, freeCall2))
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){int *p=malloc(4);free(p);free(p);}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

func runVerify(t *testing.T, mod *hir.Module) *diag.Bag {
	t.Helper()
	results := analyzer.AnalyzeModule(mod)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	cat := catalog.Default()
	ownership.Run(mod, results, cat, reporter)
	lifetime.Run(mod, results, reporter)
	Run(mod, results, cat, reporter)
	return bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestVerifyFlagsLeakOnPath(t *testing.T) {
	bag := runVerify(t, buildLeak())
	if !hasCode(bag, diag.VerifyLeakOnPath) {
		t.Fatalf("expected a VerifyLeakOnPath diagnostic for the unreleased allocation")
	}
}

func TestVerifyFlagsUseAfterFreeOnDoubleRelease(t *testing.T) {
	bag := runVerify(t, buildDoubleFree())
	if !hasCode(bag, diag.VerifyUseAfterFree) {
		t.Fatalf("expected a VerifyUseAfterFree diagnostic for the second free() call")
	}
}
