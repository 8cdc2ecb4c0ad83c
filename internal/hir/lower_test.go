package hir

import (
	"testing"

	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/source"
)

// diagBag is a minimal diag.Reporter recording the codes it was given, for
// tests that only care whether (and how often) lowering reported problems.
type diagBag struct {
	codes []diag.Code
}

func (b *diagBag) Report(code diag.Code, _ diag.Severity, _ source.Span, _ string, _ []diag.Note, _ []diag.Fix) {
	b.codes = append(b.codes, code)
}

func buildReturnZero() (*cast.Tree, *source.File) {
	b := cast.NewBuilder()
	intTy := b.Int(32)
	zero := b.IntLiteral(source.Span{}, intTy, 0, "0")
	ret := b.Return(source.Span{}, zero)
	body := b.Block(source.Span{}, ret)
	fn := b.FuncDecl(source.Span{}, intTy, "main", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("main.c", []byte("int main(){return 0;}"))
	return b.Tree, fs.Get(id)
}

func TestLowerFuncWithReturn(t *testing.T) {
	tree, file := buildReturnZero()
	l := NewLowerer(tree, file, nil)
	mod := l.LowerModule()

	if len(mod.Funcs) != 1 {
		t.Fatalf("expected one function, got %d", len(mod.Funcs))
	}
	fn := mod.Funcs[0]
	if fn.Name != "main" {
		t.Fatalf("expected name main, got %q", fn.Name)
	}
	if !fn.IsEntrypoint() {
		t.Fatalf("expected main to be flagged as entrypoint")
	}
	if fn.Body == nil || len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected one statement in body")
	}
	if fn.Body.Stmts[0].Kind != StmtReturn {
		t.Fatalf("expected a return statement, got %s", fn.Body.Stmts[0].Kind)
	}
}

func buildVoidFallsOffEnd() (*cast.Tree, *source.File) {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	x := b.VarDecl(source.Span{}, intTy, "x", cast.StorageAuto, b.IntLiteral(source.Span{}, intTy, 1, "1"))
	decl := b.DeclStmt(source.Span{}, x)
	body := b.Block(source.Span{}, decl)
	fn := b.FuncDecl(source.Span{}, voidTy, "touch", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("touch.c", []byte("void touch(){int x = 1;}"))
	return b.Tree, fs.Get(id)
}

func TestLowerInsertsSyntheticReturnForVoidFunc(t *testing.T) {
	tree, file := buildVoidFallsOffEnd()
	l := NewLowerer(tree, file, nil)
	mod := l.LowerModule()

	fn := mod.FindFunc("touch")
	if fn == nil {
		t.Fatalf("expected function touch to be lowered")
	}
	last := fn.Body.LastStmt()
	if last == nil || last.Kind != StmtReturn {
		t.Fatalf("expected a synthetic trailing return, got %v", last)
	}
	if !last.Data.(ReturnData).IsSynthetic {
		t.Fatalf("expected the inserted return to be marked synthetic")
	}
}

func buildUndeclaredRef() (*cast.Tree, *source.File) {
	b := cast.NewBuilder()
	voidTy := b.Void()
	intTy := b.Int(32)
	ref := b.DeclRef(source.Span{}, intTy, "undeclared")
	stmt := b.ExprStmt(source.Span{}, ref)
	body := b.Block(source.Span{}, stmt)
	fn := b.FuncDecl(source.Span{}, voidTy, "f", nil, body)
	b.TranslationUnit(source.Span{}, fn)

	fs := source.NewFileSet()
	id := fs.AddVirtual("f.c", []byte("void f(){undeclared;}"))
	return b.Tree, fs.Get(id)
}

func TestLowerReportsUnresolvedIdentifier(t *testing.T) {
	tree, file := buildUndeclaredRef()
	bag := &diagBag{}
	l := NewLowerer(tree, file, bag)
	l.LowerModule()

	if len(bag.codes) == 0 {
		t.Fatalf("expected an unresolved-identifier diagnostic")
	}
}
