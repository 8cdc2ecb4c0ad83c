package hir

import "fmt"

// Refinement is the ownership qualifier a binding carries on top of its
// structural type (types.Type has no concept of ownership -- see
// types.Kind's doc comment). It starts at RefinementUnknown on every
// Param/LetData lowered straight from a cast.Tree and is narrowed by the
// ownership stage's seed/propagate/sink passes.
type Refinement uint8

const (
	// RefinementUnknown means ownership has not been inferred yet.
	RefinementUnknown Refinement = iota
	// RefinementOwning means the binding is the unique owner of a single
	// heap allocation it is responsible for releasing.
	RefinementOwning
	// RefinementOwningArray means the binding owns a heap allocation that
	// must be indexed/iterated, not just released as one block.
	RefinementOwningArray
	// RefinementBorrow means the binding observes (and may, if Mutable,
	// write through) memory it does not own.
	RefinementBorrow
	// RefinementRawEscape means inference could not assign a single
	// ownership story (e.g. a pointer threaded through a union, or
	// returned from an unrecognized allocator) and the binding must be
	// treated conservatively by verification and emitted as-is by codegen.
	RefinementRawEscape
	// RefinementNull means the binding is a compile-time-known null
	// pointer constant, never dereferenced.
	RefinementNull
)

func (r Refinement) String() string {
	switch r {
	case RefinementOwning:
		return "owning"
	case RefinementOwningArray:
		return "owning-array"
	case RefinementBorrow:
		return "borrow"
	case RefinementRawEscape:
		return "raw-escape"
	case RefinementNull:
		return "null"
	default:
		return "unknown"
	}
}

// BorrowMode distinguishes read-only from mutable borrows; meaningful only
// when Refinement == RefinementBorrow.
type BorrowMode uint8

const (
	BorrowShared BorrowMode = iota
	BorrowMutable
)

func (m BorrowMode) String() string {
	if m == BorrowMutable {
		return "mut"
	}
	return "shared"
}

// RegionID names a lifetime region assigned by the lifetime stage. Zero
// means "not yet assigned".
type RegionID uint32

// NoRegionID marks the absence of a region assignment.
const NoRegionID RegionID = 0

// IsValid reports whether the ID names an assigned region.
func (id RegionID) IsValid() bool { return id != NoRegionID }

// Ownership bundles the refinement marker and the extra bits that ride
// along with particular refinements, so Param and LetData can share one
// field instead of repeating BorrowMode/RegionID individually.
type Ownership struct {
	Refinement Refinement
	Mode       BorrowMode // meaningful iff Refinement == RefinementBorrow
	Region     RegionID   // assigned by the lifetime stage, post-ownership
}

func (o Ownership) String() string {
	switch o.Refinement {
	case RefinementBorrow:
		return fmt.Sprintf("borrow(%s)", o.Mode)
	default:
		return o.Refinement.String()
	}
}
