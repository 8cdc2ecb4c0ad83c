// Package hir provides the typed intermediate representation the core
// builds from an adapter's cast.Tree: every expression carries a resolved
// types.TypeID, every binding carries a name-resolution Symbol, and every
// statement is desugared just enough (explicit returns, normalized loops)
// to give the ownership/lifetime/verification/codegen stages a uniform
// shape to walk.
package hir

// FuncID identifies a function within a Module.
type FuncID uint32

// NoFuncID marks the absence of a function.
const NoFuncID FuncID = 0

// IsValid reports whether the ID names an allocated function.
func (id FuncID) IsValid() bool { return id != NoFuncID }
