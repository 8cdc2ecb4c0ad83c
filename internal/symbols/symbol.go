package symbols

import (
	"csafe/internal/cast"
	"csafe/internal/source"
	"csafe/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol. C keeps several
// disjoint namespaces (ordinary identifiers, tags, labels); Kind lets one
// Table hold all of them while resolution still looks each up in the
// right namespace (spec §4.1).
type SymbolKind uint8

const (
	// SymbolInvalid represents an uninitialized or erroneous symbol.
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolGlobal
	SymbolLocal
	SymbolParam
	SymbolTypedef
	SymbolTag   // struct/union/enum tag namespace
	SymbolLabel // goto target namespace, function-local
	SymbolEnumConst
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolGlobal:
		return "global"
	case SymbolLocal:
		return "local"
	case SymbolParam:
		return "param"
	case SymbolTypedef:
		return "typedef"
	case SymbolTag:
		return "tag"
	case SymbolLabel:
		return "label"
	case SymbolEnumConst:
		return "enum-const"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagStatic marks internal linkage (`static`) or a function-local
	// static that keeps storage across calls -- both affect ownership
	// inference, which treats static storage as program-lifetime (spec §9,
	// Open Question "global/static escape").
	SymbolFlagStatic SymbolFlags = 1 << iota
	SymbolFlagExtern
	SymbolFlagRegister
	SymbolFlagParamArray // declared `T name[]`/`T name[N]`, decays to pointer
)

// SymbolDecl points back at the cast.Tree origin for diagnostics.
type SymbolDecl struct {
	SourceFile source.FileID
	Node       cast.NodeID
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  SymbolDecl
	Type  types.TypeID

	// Shadows links to the symbol this one shadows in an enclosing scope
	// (nil/NoSymbolID if none), so ownership/uniquification passes can
	// rename the inner binding without losing the chain (spec §4.1:
	// "C permits shadowing across block scopes; the target usually does
	// not permit silent shadowing, so the resolver must uniquify names").
	Shadows SymbolID

	// UniqueName is the renamed identifier codegen emits once shadowing
	// has been resolved; empty until the resolver assigns one.
	UniqueName string
}
