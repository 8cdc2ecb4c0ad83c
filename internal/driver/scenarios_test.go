package driver

import (
	"strings"
	"testing"

	"csafe/internal/cast"
	"csafe/internal/source"
)

// buildMallocFreeBalanced constructs:
//
//	int f() { int *p = malloc(4); *p = 42; printf("%d", *p); free(p); return 0; }
//
// the first end-to-end scenario: emission must allocate an owning integer
// (no raw pointer), assign 42, print, return 0, with no explicit release
// call and no diagnostics.
func buildMallocFreeBalanced() *cast.Tree {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})
	charTy := b.Int(8)
	fmtTy := b.Pointer(charTy, cast.PointerQuals{Const: true})

	mallocRef := b.DeclRef(source.Span{}, ptrTy, "malloc")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	mallocCall := b.Call(source.Span{}, ptrTy, mallocRef, four)
	pDecl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, mallocCall)

	pRef1 := b.DeclRef(source.Span{}, ptrTy, "p")
	deref1 := b.Unary(source.Span{}, intTy, "*", false, pRef1)
	fortyTwo := b.IntLiteral(source.Span{}, intTy, 42, "42")
	assign := b.Assign(source.Span{}, intTy, "=", deref1, fortyTwo)

	printfRef := b.DeclRef(source.Span{}, voidTy, "printf")
	fmtLit := b.IntLiteral(source.Span{}, fmtTy, 0, "\"%d\"")
	pRef2 := b.DeclRef(source.Span{}, ptrTy, "p")
	deref2 := b.Unary(source.Span{}, intTy, "*", false, pRef2)
	printfCall := b.Call(source.Span{}, voidTy, printfRef, fmtLit, deref2)

	freeRef := b.DeclRef(source.Span{}, voidTy, "free")
	pRef3 := b.DeclRef(source.Span{}, ptrTy, "p")
	freeCall := b.Call(source.Span{}, voidTy, freeRef, pRef3)

	zero := b.IntLiteral(source.Span{}, intTy, 0, "0")

	body := b.Block(source.Span{},
		b.DeclStmt(source.Span{}, pDecl),
		b.ExprStmt(source.Span{}, assign),
		b.ExprStmt(source.Span{}, printfCall),
		b.ExprStmt(source.Span{}, freeCall),
		b.Return(source.Span{}, zero),
	)
	fn := b.FuncDecl(source.Span{}, intTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)
	return b.Tree
}

func TestScenarioMallocFreeBalanced(t *testing.T) {
	res, err := runTree("balanced.c", buildMallocFreeBalanced(), RunOptions{})
	if err != nil {
		t.Fatalf("runTree: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got:\n%v", res.Bag.Items())
	}
	if strings.Contains(res.Output, "*mut") || strings.Contains(res.Output, "*const") {
		t.Fatalf("expected no raw pointer in output:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "free(") {
		t.Fatalf("expected no explicit release call, got:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "Vec::with_capacity") {
		t.Fatalf("expected the allocation to become an owning container constructor:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "return 0;") {
		t.Fatalf("expected the function to return 0:\n%s", res.Output)
	}
}

// buildReallocGrowingVector constructs:
//
//	int *grow(int *buf, int n) {
//	    if (n > 4) { buf = realloc(buf, n); }
//	    return buf;
//	}
//
// the sixth end-to-end scenario: a reallocation emits as a single owning-
// container resize, never producing a second token for the same
// allocation.
func buildReallocGrowingVector() *cast.Tree {
	b := cast.NewBuilder()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})

	bufParam := b.Param(source.Span{}, ptrTy, "buf")
	nParam := b.Param(source.Span{}, intTy, "n")

	nRef := b.DeclRef(source.Span{}, intTy, "n")
	four := b.IntLiteral(source.Span{}, intTy, 4, "4")
	cond := b.Binary(source.Span{}, intTy, ">", nRef, four)

	reallocRef := b.DeclRef(source.Span{}, ptrTy, "realloc")
	bufRef1 := b.DeclRef(source.Span{}, ptrTy, "buf")
	nRef2 := b.DeclRef(source.Span{}, intTy, "n")
	reallocCall := b.Call(source.Span{}, ptrTy, reallocRef, bufRef1, nRef2)
	bufTarget := b.DeclRef(source.Span{}, ptrTy, "buf")
	reassign := b.Assign(source.Span{}, ptrTy, "=", bufTarget, reallocCall)
	thenBlock := b.Block(source.Span{}, b.ExprStmt(source.Span{}, reassign))
	ifStmt := b.IfStmt(source.Span{}, cond, thenBlock, cast.NoNodeID)

	bufRef3 := b.DeclRef(source.Span{}, ptrTy, "buf")
	ret := b.Return(source.Span{}, bufRef3)

	body := b.Block(source.Span{}, ifStmt, ret)
	fn := b.FuncDecl(source.Span{}, ptrTy, "grow", []cast.NodeID{bufParam, nParam}, body)
	b.TranslationUnit(source.Span{}, fn)
	return b.Tree
}

func TestScenarioReallocatingDynamicArray(t *testing.T) {
	res, err := runTree("grow.c", buildReallocGrowingVector(), RunOptions{})
	if err != nil {
		t.Fatalf("runTree: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got:\n%v", res.Bag.Items())
	}
	if !strings.Contains(res.Output, ".reserve(") {
		t.Fatalf("expected the reallocation to become a single owning-container resize:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "realloc(") {
		t.Fatalf("no raw realloc call should survive the transformation:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "*mut") || strings.Contains(res.Output, "*const") {
		t.Fatalf("expected no raw pointer in output:\n%s", res.Output)
	}
}
