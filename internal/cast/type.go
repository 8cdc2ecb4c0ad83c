package cast

// TypeKind enumerates the resolved C type shapes an adapter may report.
// This is the *input-side* type vocabulary; internal/types carries the
// richer, refinement-bearing vocabulary the core builds during lowering.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeChar
	TypeInt
	TypeFloat
	TypePointer
	TypeArray
	TypeRecord
	TypeUnion
	TypeEnum
	TypeAlias
	TypeFunction
)

func (k TypeKind) String() string {
	switch k {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypePointer:
		return "pointer"
	case TypeArray:
		return "array"
	case TypeRecord:
		return "record"
	case TypeUnion:
		return "union"
	case TypeEnum:
		return "enum"
	case TypeAlias:
		return "alias"
	case TypeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// ArrayDynamicExtent marks an array type whose extent is not known at the
// C AST level (a flexible array member, or a pointer-decayed parameter).
const ArrayDynamicExtent = ^uint32(0)

// PointerQuals captures the `const`/`volatile` qualifiers C attaches to a
// pointer's pointee; the adapter reports these, ownership inference reads
// them when deciding whether a borrow may be mutable (spec §4.3 step 5).
type PointerQuals struct {
	Const    bool
	Volatile bool
}

// TypeRef describes one resolved C type. Records/unions/enums/aliases are
// named and further described by a RecordDecl/UnionDecl/EnumDecl/
// TypedefDecl node elsewhere in the tree; TypeRef only carries the
// reference, not the full member list.
type TypeRef struct {
	ID     TypeRefID
	Kind   TypeKind
	Name   string // for Record/Union/Enum/Alias/Function (empty otherwise)
	Signed bool   // for Int
	Width  uint8  // bit width for Int/Float (0 = "unspecified/implementation")
	Elem   TypeRefID
	Quals  PointerQuals // meaningful for Pointer (qualifies the pointee)
	Extent uint32       // for Array; ArrayDynamicExtent if unknown

	// Function shape, meaningful when Kind == TypeFunction.
	Params   []TypeRefID
	Return   TypeRefID
	Variadic bool
}
