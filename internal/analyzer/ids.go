// Package analyzer builds the control-flow graph, def-use chains,
// points-to summary and region tree that the ownership, lifetime and
// verification stages all read rather than re-deriving from hir.Func
// themselves. Grounded on the teacher's internal/mir package (a function
// body lowered to basic blocks + terminators) and internal/sema's scope
// stack (region nesting mirrors lexical block nesting).
package analyzer

// BlockID identifies a basic block within a CFG.
type BlockID int32

// NoBlockID marks the absence of a block (an unset successor edge).
const NoBlockID BlockID = -1

// IsValid reports whether the ID names an allocated block.
func (id BlockID) IsValid() bool { return id >= 0 }

// RegionID identifies a node in a Func's region tree -- a candidate
// lifetime region the lifetime stage (component 4) later assigns
// hir.RegionID values from. One RegionID per lexical block scope.
type RegionID int32

// NoRegionID marks the absence of a region.
const NoRegionID RegionID = -1

// IsValid reports whether the ID names an allocated region.
func (id RegionID) IsValid() bool { return id >= 0 }
