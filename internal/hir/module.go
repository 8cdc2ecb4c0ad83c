package hir

import (
	"csafe/internal/source"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// TypeDeclKind enumerates top-level type declaration kinds.
type TypeDeclKind uint8

const (
	TypeDeclRecord TypeDeclKind = iota
	TypeDeclUnion
	TypeDeclEnum
	TypeDeclAlias
)

func (k TypeDeclKind) String() string {
	switch k {
	case TypeDeclRecord:
		return "record"
	case TypeDeclUnion:
		return "union"
	case TypeDeclEnum:
		return "enum"
	case TypeDeclAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// TypeDecl is a named type declaration at translation-unit scope.
type TypeDecl struct {
	Name   string
	Symbol symbols.SymbolID
	Type   types.TypeID
	Kind   TypeDeclKind
	Span   source.Span
}

// GlobalVar is a file-scope variable declaration.
type GlobalVar struct {
	Name      string
	Symbol    symbols.SymbolID
	Type      types.TypeID
	Value     *Expr // nil if uninitialized
	Ownership Ownership
	Static    bool
	Span      source.Span
}

// Module is the HIR for one translation unit.
type Module struct {
	Name string // adapter-reported source file name, for diagnostics/codegen headers

	Funcs   []*Func
	Types   []TypeDecl
	Globals []GlobalVar

	Interner *types.Interner
	Symbols  *symbols.Table
}

// FindFunc looks up a function by name.
func (m *Module) FindFunc(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindFuncBySymbol looks up a function by its resolved symbol.
func (m *Module) FindFuncBySymbol(id symbols.SymbolID) *Func {
	for _, f := range m.Funcs {
		if f.Symbol == id {
			return f
		}
	}
	return nil
}
