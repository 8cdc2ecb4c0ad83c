package codegen

import (
	"fmt"

	"csafe/internal/types"
)

// baseTypeName renders id's structural shape (spec §4.6's mapping table
// left column, minus the ownership qualifier a Pointer additionally
// carries -- that half is ownedTypeName's job in ownership.go).
func (e *Emitter) baseTypeName(id types.TypeID) string {
	t, ok := e.interner.Lookup(id)
	if !ok {
		return "()"
	}
	switch t.Kind {
	case types.KindVoid:
		return "()"
	case types.KindBool:
		return "bool"
	case types.KindChar:
		return "u8"
	case types.KindInt:
		return signedIntName(t.Width)
	case types.KindUint:
		return unsignedIntName(t.Width)
	case types.KindFloat:
		if t.Width == types.Width32 {
			return "f32"
		}
		return "f64"
	case types.KindPointer:
		return e.baseTypeName(t.Elem)
	case types.KindArray:
		if t.Count == types.ArrayDynamicLength {
			return fmt.Sprintf("Vec<%s>", e.baseTypeName(t.Elem))
		}
		return fmt.Sprintf("[%s; %d]", e.baseTypeName(t.Elem), t.Count)
	case types.KindRecord:
		if info, ok := e.interner.RecordInfo(id); ok && info.Name != "" {
			return exportName(info.Name)
		}
		return "AnonRecord"
	case types.KindUnion:
		if info, ok := e.interner.UnionInfo(id); ok && info.Name != "" {
			return exportName(info.Name)
		}
		return "AnonUnion"
	case types.KindEnum:
		if info, ok := e.interner.EnumInfo(id); ok && info.Name != "" {
			return exportName(info.Name)
		}
		return "AnonEnum"
	case types.KindAlias:
		if info, ok := e.interner.AliasInfo(id); ok && info.Name != "" {
			return exportName(info.Name)
		}
		return e.baseTypeName(t.Elem)
	case types.KindFunction:
		return e.fnTypeName(id)
	default:
		return "()"
	}
}

func (e *Emitter) fnTypeName(id types.TypeID) string {
	info, ok := e.interner.FnInfo(id)
	if !ok {
		return "fn()"
	}
	params := make([]string, 0, len(info.Params))
	for _, p := range info.Params {
		params = append(params, e.baseTypeName(p))
	}
	ret := e.baseTypeName(info.Result)
	if ret == "()" {
		return fmt.Sprintf("fn(%s)", joinComma(params))
	}
	return fmt.Sprintf("fn(%s) -> %s", joinComma(params), ret)
}

func signedIntName(w types.Width) string {
	switch w {
	case types.Width8:
		return "i8"
	case types.Width16:
		return "i16"
	case types.Width32:
		return "i32"
	case types.Width64:
		return "i64"
	default:
		return "i32"
	}
}

func unsignedIntName(w types.Width) string {
	switch w {
	case types.Width8:
		return "u8"
	case types.Width16:
		return "u16"
	case types.Width32:
		return "u32"
	case types.Width64:
		return "u64"
	default:
		return "u32"
	}
}

// exportName capitalizes a C type name into the UpperCamelCase this
// target language's style convention expects for a type identifier,
// leaving snake_case bodies (Rust's own convention) to names.go's
// value-name handling.
func exportName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// joinSpace joins already-terminated statement fragments with single
// spaces, used when rendering a comma-expression as a Rust block.
func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
