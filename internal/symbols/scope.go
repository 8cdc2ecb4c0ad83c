package symbols

import (
	"csafe/internal/cast"
	"csafe/internal/source"
)

// ScopeKind enumerates supported scope categories (spec §4.1: "identifiers
// are resolved per C's lexical scoping rules -- file scope, function
// prototype scope, block scope").
type ScopeKind uint8

const (
	// ScopeInvalid represents an uninitialized or erroneous scope.
	ScopeInvalid ScopeKind = iota
	// ScopeFile is the translation-unit-level (file) scope.
	ScopeFile
	// ScopeFunction is a function body's top-level scope, holding its
	// parameters alongside the outermost block's locals.
	ScopeFunction
	// ScopeBlock is a nested compound-statement scope.
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ScopeOwner references the cast.Tree construct that introduced a scope.
type ScopeOwner struct {
	SourceFile source.FileID
	Node       cast.NodeID
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
