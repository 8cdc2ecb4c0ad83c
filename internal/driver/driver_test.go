package driver

import (
	"strings"
	"testing"

	"csafe/internal/cast"
	"csafe/internal/source"
)

// buildAdd constructs:
//
//	int add(int a, int b) { return a + b; }
func buildAdd() *cast.Tree {
	b := cast.NewBuilder()
	intTy := b.Int(32)
	aParam := b.Param(source.Span{}, intTy, "a")
	bParam := b.Param(source.Span{}, intTy, "b")
	aRef := b.DeclRef(source.Span{}, intTy, "a")
	bRef := b.DeclRef(source.Span{}, intTy, "b")
	sum := b.Binary(source.Span{}, intTy, "+", aRef, bRef)
	body := b.Block(source.Span{}, b.Return(source.Span{}, sum))
	fn := b.FuncDecl(source.Span{}, intTy, "add", []cast.NodeID{aParam, bParam}, body)
	b.TranslationUnit(source.Span{}, fn)
	return b.Tree
}

func TestRunTreeEmitsFunction(t *testing.T) {
	res, err := runTree("add.c", buildAdd(), RunOptions{})
	if err != nil {
		t.Fatalf("runTree: %v", err)
	}
	if !strings.Contains(res.Output, "pub fn add(a: i32, b: i32) -> i32") {
		t.Fatalf("missing expected signature, got:\n%s", res.Output)
	}
	if !res.Clean {
		t.Fatalf("expected a clean verify result for a trivial function")
	}
}

func TestRunFileMissing(t *testing.T) {
	if _, err := RunFile(t.Context(), "/nonexistent/unit.ast.json", RunOptions{}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
