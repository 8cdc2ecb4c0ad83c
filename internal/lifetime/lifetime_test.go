package lifetime

import (
	"testing"

	"csafe/internal/analyzer"
	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/source"
	"csafe/internal/symbols"
)

// buildEscapingBorrow constructs:
//
//	void f() {
//	    int *p;
//	    { int y; p = &y; }
//	}
//
// p is declared in the function's outer region; y lives only in the
// nested block that follows. Assigning &y into p lets p outlive y.
func buildEscapingBorrow() *hir.Module {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ptrTy := b.Pointer(intTy, cast.PointerQuals{})

	pDecl := b.VarDecl(source.Span{}, ptrTy, "p", cast.StorageAuto, cast.NoNodeID)

	yDecl := b.VarDecl(source.Span{}, intTy, "y", cast.StorageAuto, cast.NoNodeID)
	yRef := b.DeclRef(source.Span{}, intTy, "y")
	addrY := b.Unary(source.Span{}, ptrTy, "&", false, yRef)
	pTarget := b.DeclRef(source.Span{}, ptrTy, "p")
	assign := b.Assign(source.Span{}, ptrTy, "=", pTarget, addrY)
	inner := b.Block(source.Span{}, b.DeclStmt(source.Span{}, yDecl), b.ExprStmt(source.Span{}, assign))

	body := b.Block(source.Span{}, b.DeclStmt(source.Span{}, pDecl), inner)
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){int *p;{int y;p=&y;}}"))
	l := hir.NewLowerer(b.Tree, fs.Get(id), nil)
	return l.LowerModule()
}

func runLifetime(t *testing.T, mod *hir.Module) (*Summary, *diag.Bag) {
	t.Helper()
	results := analyzer.AnalyzeModule(mod)
	bag := diag.NewBag(64)
	summary := Run(mod, results, diag.BagReporter{Bag: bag})
	return summary, bag
}

func TestLifetimeWidensEscapingBorrow(t *testing.T) {
	mod := buildEscapingBorrow()
	fn := mod.FindFunc("f")
	summary, bag := runLifetime(t, mod)

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LifeRegionOutlivesFn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a LifeRegionOutlivesFn diagnostic for the escaping borrow")
	}

	ySym := findLocalNamed(t, mod, fn, "y")
	root, ok := summary.Regions[fn.ID][ySym]
	if !ok || root == hir.NoRegionID {
		t.Fatalf("expected y to have a resolved region after widening, got %v", root)
	}
}

// findLocalNamed scans fn's body for the StmtLet declaring a local named
// name, resolving through the module's shared string interner.
func findLocalNamed(t *testing.T, mod *hir.Module, fn *hir.Func, name string) symbols.SymbolID {
	t.Helper()
	var found symbols.SymbolID
	walkBlockStmts(fn.Body, func(s *hir.Stmt) {
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
