package types

import "fmt"

// Kind enumerates the structural shapes of HIR types (spec §3: "HIR type.
// A tagged variant over: integral types..., floating types, boolean,
// character, void, record reference, union reference, enumeration
// reference, alias reference, pointer(...), array(...), function(...)").
//
// Refinement markers (Owning/OwningArray/Borrow/RawEscape/Null) are
// deliberately NOT part of Kind or Type: the same pointer *shape* (e.g.
// "pointer to int") can be Owning in one binding and a Borrow in another,
// so refinement rides on the binding (hir.Param/hir.LetData), not on the
// interned structural type — mirroring how the teacher's hir.Ownership
// field lives on Param/LetData rather than on types.Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindArray
	KindRecord
	KindUnion
	KindEnum
	KindAlias
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integral/floating types. WidthAny means
// "implementation-defined" (plain C `int`/`unsigned`/`double` before a
// target ABI pins it down).
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayDynamicLength marks an array type whose extent is not fixed
// (spec §3: "array(inner, extent | unknown)").
const ArrayDynamicLength = ^uint32(0)

// Quals mirrors the C pointee qualifiers an adapter reports on cast.TypeRef
// (spec §6); ownership inference consults Const when deciding whether a
// Borrow may be mutable.
type Quals struct {
	Const    bool
	Volatile bool
}

// Type is a compact structural descriptor. Payload indexes into the
// Interner's per-kind side table (RecordInfo, UnionInfo, EnumInfo,
// AliasInfo, FnInfo) exactly as the teacher's types.Type does for its own
// struct/union/enum/fn/tuple side tables.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointee (Pointer/Array), underlying type (Alias)
	Count   uint32 // array extent; ArrayDynamicLength if unknown
	Width   Width  // Int/Uint/Float precision
	Quals   Quals  // pointee qualifiers, meaningful for Pointer
	Payload uint32 // index into Interner.records/unions/enums/aliases/fns
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type { return Type{Kind: KindInt, Width: width} }

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type { return Type{Kind: KindUint, Width: width} }

// MakeFloat describes a floating-point type of the given width.
func MakeFloat(width Width) Type { return Type{Kind: KindFloat, Width: width} }

// MakePointer describes a pointer to elem with the given pointee quals.
// The refinement (Owning/Borrow/RawEscape/...) is not part of the
// structural type; see the Kind doc comment.
func MakePointer(elem TypeID, quals Quals) Type {
	return Type{Kind: KindPointer, Elem: elem, Quals: quals}
}

// MakeArray describes an array of elem with the given extent
// (ArrayDynamicLength for an unknown/flexible extent).
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}
