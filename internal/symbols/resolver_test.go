package symbols

import (
	"testing"

	"csafe/internal/source"
)

func newTestResolver() (*Resolver, *Table) {
	table := NewTable(Hints{}, nil)
	file := table.FileRoot(source.FileID(1), ScopeOwner{SourceFile: source.FileID(1)})
	return NewResolver(table, file, nil), table
}

func TestDeclareAndLookup(t *testing.T) {
	r, table := newTestResolver()
	x := table.Strings.Intern("x")
	id, ok := r.Declare(x, source.Span{}, SymbolGlobal, 0, SymbolDecl{})
	if !ok || !id.IsValid() {
		t.Fatalf("expected declaration to succeed")
	}
	if found, ok := r.Lookup(x); !ok || found != id {
		t.Fatalf("expected lookup to find declared symbol")
	}
}

func TestDuplicateDeclarationRejected(t *testing.T) {
	r, table := newTestResolver()
	name := table.Strings.Intern("x")
	if _, ok := r.Declare(name, source.Span{}, SymbolGlobal, 0, SymbolDecl{}); !ok {
		t.Fatalf("first declaration should succeed")
	}
	if _, ok := r.Declare(name, source.Span{}, SymbolGlobal, 0, SymbolDecl{}); ok {
		t.Fatalf("duplicate declaration in the same scope should fail")
	}
}

func TestTagAndOrdinaryNamespacesAreDisjoint(t *testing.T) {
	r, table := newTestResolver()
	name := table.Strings.Intern("point")
	if _, ok := r.Declare(name, source.Span{}, SymbolTag, 0, SymbolDecl{}); !ok {
		t.Fatalf("tag declaration should succeed")
	}
	if _, ok := r.Declare(name, source.Span{}, SymbolGlobal, 0, SymbolDecl{}); !ok {
		t.Fatalf("a variable may share a name with a struct tag")
	}
}

func TestShadowingIsAllowedAndRecorded(t *testing.T) {
	r, table := newTestResolver()
	name := table.Strings.Intern("n")
	outer, ok := r.Declare(name, source.Span{}, SymbolGlobal, 0, SymbolDecl{})
	if !ok {
		t.Fatalf("outer declaration should succeed")
	}
	fnScope := r.Enter(ScopeFunction, ScopeOwner{})
	blockScope := r.Enter(ScopeBlock, ScopeOwner{})
	inner, ok := r.Declare(name, source.Span{}, SymbolLocal, 0, SymbolDecl{})
	if !ok {
		t.Fatalf("inner declaration should succeed (C permits shadowing)")
	}
	sym := table.Symbols.Get(inner)
	if sym.Shadows != outer {
		t.Fatalf("expected inner symbol to record the outer one as shadowed, got %d want %d", sym.Shadows, outer)
	}
	r.Leave(blockScope)
	r.Leave(fnScope)
}

func TestLabelNamespaceIsFlatPerFunction(t *testing.T) {
	r, table := newTestResolver()
	fnScope := r.Enter(ScopeFunction, ScopeOwner{})
	label := table.Strings.Intern("done")
	if _, ok := r.DeclareLabel(label, source.Span{}, SymbolDecl{}); !ok {
		t.Fatalf("first label declaration should succeed")
	}
	blockScope := r.Enter(ScopeBlock, ScopeOwner{})
	if _, ok := r.DeclareLabel(label, source.Span{}, SymbolDecl{}); ok {
		t.Fatalf("duplicate label within the same function should fail, even across nested blocks")
	}
	if _, ok := r.LookupLabel(label); !ok {
		t.Fatalf("label should be visible from a nested block")
	}
	r.Leave(blockScope)
	r.Leave(fnScope)
}
