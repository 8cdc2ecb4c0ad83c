package analyzer

import (
	"testing"

	"csafe/internal/cast"
	"csafe/internal/hir"
	"csafe/internal/source"
)

// buildIfReturn constructs:
//
//	int f(int x) { if (x) { return 1; } return 0; }
func buildIfReturn() *hir.Module {
	b := cast.NewBuilder()
	intTy := b.Int(32)
	x := b.Param(source.Span{}, intTy, "x")
	xRef := b.DeclRef(source.Span{}, intTy, "x")
	thenBlock := b.Block(source.Span{}, b.Return(source.Span{}, b.IntLiteral(source.Span{}, intTy, 1, "1")))
	ifStmt := b.IfStmt(source.Span{}, xRef, thenBlock, cast.NoNodeID)
	ret0 := b.Return(source.Span{}, b.IntLiteral(source.Span{}, intTy, 0, "0"))
	body := b.Block(source.Span{}, ifStmt, ret0)
	fn := b.FuncDecl(source.Span{}, intTy, "f", []cast.NodeID{x}, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("int f(int x){if(x){return 1;}return 0;}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

func TestBuildCFGIfBranches(t *testing.T) {
	mod := buildIfReturn()
	fn := mod.FindFunc("f")
	if fn == nil {
		t.Fatalf("expected function f to be lowered")
	}
	cfg := BuildCFG(fn)
	if !cfg.Entry.IsValid() {
		t.Fatalf("expected a valid entry block")
	}
	entry := cfg.Block(cfg.Entry)
	if entry.Term.Kind != TermIf {
		t.Fatalf("expected entry block to end in an if terminator, got %s", entry.Term.Kind)
	}
	succs := cfg.Successors(cfg.Entry)
	if len(succs) != 2 {
		t.Fatalf("expected two successors from the if block, got %d", len(succs))
	}

	SimplifyCFG(cfg)
	sawReturn := false
	for i := range cfg.Blocks {
		if cfg.Blocks[i].Term.Kind == TermReturn {
			sawReturn = true
		}
	}
	if !sawReturn {
		t.Fatalf("expected at least one return terminator to survive simplification")
	}
}

// buildWhileLoop constructs:
//
//	void f(int n) { while (n) { n = n - 1; } }
func buildWhileLoop() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	n := b.Param(source.Span{}, intTy, "n")
	nRefCond := b.DeclRef(source.Span{}, intTy, "n")
	nRefLHS := b.DeclRef(source.Span{}, intTy, "n")
	one := b.IntLiteral(source.Span{}, intTy, 1, "1")
	sub := b.Binary(source.Span{}, intTy, "-", nRefLHS, one)
	assign := b.Assign(source.Span{}, intTy, "=", b.DeclRef(source.Span{}, intTy, "n"), sub)
	body := b.Block(source.Span{}, b.ExprStmt(source.Span{}, assign))
	loop := b.WhileStmt(source.Span{}, nRefCond, body)
	fnBody := b.Block(source.Span{}, loop)
	fn := b.FuncDecl(source.Span{}, voidTy, "f", []cast.NodeID{n}, fnBody)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(int n){while(n){n=n-1;}}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

func TestBuildCFGLoopHasBackEdge(t *testing.T) {
	mod := buildWhileLoop()
	fn := mod.FindFunc("f")
	cfg := BuildCFG(fn)
	SimplifyCFG(cfg)

	found := false
	for i := range cfg.Blocks {
		for _, s := range cfg.Successors(cfg.Blocks[i].ID) {
			if s == cfg.Entry || int(s) <= i {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a back edge somewhere in a while loop's CFG")
	}
}

func TestBuildDefUseTracksAssignment(t *testing.T) {
	mod := buildWhileLoop()
	fn := mod.FindFunc("f")
	cfg := BuildCFG(fn)
	du := BuildDefUse(cfg)
	if len(du.Uses) == 0 {
		t.Fatalf("expected at least one use of n")
	}
	if len(du.Defs) == 0 {
		t.Fatalf("expected at least one def from n = n - 1")
	}
}

// buildMallocFree constructs a function that assigns a pointer from a
// call, exercising points-to's OriginAlloc classification:
//
//	void f() { int *p = malloc(4); }
func buildMallocFree() *hir.Module {
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

func TestPointsToClassifiesAllocCall(t *testing.T) {
	mod := buildMallocFree()
	fn := mod.FindFunc("f")
	cfg := BuildCFG(fn)
	pts := BuildPointsTo(cfg)

	found := false
	for _, origins := range pts {
		for _, o := range origins {
			if o.Kind == OriginAlloc {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected p's points-to set to record an OriginAlloc entry")
	}
}

func TestBuildRegionTreeNestsBlockScopes(t *testing.T) {
	mod := buildIfReturn()
	fn := mod.FindFunc("f")
	regions := BuildRegionTree(fn, mod.Symbols)
	if len(regions.Nodes) < 2 {
		t.Fatalf("expected at least two regions (function body + if-then block), got %d", len(regions.Nodes))
	}
	if regions.Root() != 0 {
		t.Fatalf("expected the function's own scope to be region 0")
	}
}
