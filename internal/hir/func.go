package hir

import (
	"csafe/internal/source"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// FuncFlags records function-level modifiers lowering reads off the
// originating cast.Node's DeclData/StorageClass.
type FuncFlags uint32

const (
	// FuncStatic marks internal linkage (no external visibility).
	FuncStatic FuncFlags = 1 << iota
	// FuncVariadic marks a varargs function (spec §4.4: va_list/va_arg
	// handling is one of the explicit Unsupported-construct triggers
	// unless it matches a recognized printf/scanf-family shape).
	FuncVariadic
	// FuncEntrypoint marks `main`.
	FuncEntrypoint
	// FuncExternalDecl marks a prototype with no body (declared, not
	// defined, in this translation unit).
	FuncExternalDecl
)

// HasFlag reports whether flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool { return f&flag != 0 }

// Param is one function parameter.
type Param struct {
	Symbol    symbols.SymbolID
	Type      types.TypeID
	Ownership Ownership
	Span      source.Span
}

// Func is one HIR function.
type Func struct {
	ID       FuncID
	Name     string
	Symbol   symbols.SymbolID
	Span     source.Span
	Params   []Param
	Result   types.TypeID
	Flags    FuncFlags
	Body     *Block // nil for FuncExternalDecl
	Scope    symbols.ScopeID

	// AllocatorRole carries cast.DeclData.AllocatorRole forward (empty
	// unless the adapter or the catalog recognized this function as an
	// allocator/releaser/reallocator), consumed by the ownership stage's
	// seed pass.
	AllocatorRole string
}

// IsVariadic reports whether the function accepts varargs.
func (f *Func) IsVariadic() bool { return f.Flags.HasFlag(FuncVariadic) }

// IsEntrypoint reports whether this is `main`.
func (f *Func) IsEntrypoint() bool { return f.Flags.HasFlag(FuncEntrypoint) }

// HasBody reports whether the function is defined (not just declared) in
// this translation unit.
func (f *Func) HasBody() bool { return f.Body != nil }
