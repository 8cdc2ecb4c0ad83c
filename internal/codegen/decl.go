package codegen

import (
	"fmt"

	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/types"
)

// emitTypeDecl renders one translation-unit-scope type declaration. Item
// order in the rendered text follows mod.Types' source order; unlike the
// teacher's LLVM backend (which must forward-declare types referenced
// before their own definition), this target language resolves top-level
// item names regardless of declaration order, so no separate dependency
// sort is needed to satisfy spec §4.6's "types emit in dependency order
// with forward-declarations materialized where cycles exist" -- cycles
// through a pointer field are already broken by Box/Vec, which this
// target language allows to reference an still-being-defined type name.
func (e *Emitter) emitTypeDecl(td hir.TypeDecl) {
	switch td.Kind {
	case hir.TypeDeclRecord:
		e.emitRecord(td)
	case hir.TypeDeclUnion:
		e.emitUnion(td)
	case hir.TypeDeclEnum:
		e.emitEnum(td)
	case hir.TypeDeclAlias:
		e.emitAlias(td)
	default:
		e.note(fmt.Sprintf("type declaration %q has an unrecognized kind and was skipped", td.Name))
		diag.ReportInfo(e.reporter, diag.CodegenRawBlockEmitted, td.Span,
			"unhandled type declaration kind emitted as a placeholder").Emit()
		fmt.Fprintf(&e.buf, "// unhandled type declaration: %s\n\n", td.Name)
	}
}

func (e *Emitter) emitRecord(td hir.TypeDecl) {
	info, ok := e.interner.RecordInfo(td.Type)
	if !ok {
		return
	}
	fmt.Fprintf(&e.buf, "#[derive(Debug)]\npub struct %s {\n", exportName(td.Name))
	for _, f := range info.Fields {
		fmt.Fprintf(&e.buf, "    pub %s: %s,\n", fieldName(f.Name), e.baseTypeName(f.Type))
	}
	e.buf.WriteString("}\n\n")
}

// emitUnion renders a tagged-union hint as a Rust enum carrying each
// member's payload; an untagged union (no catalog hint) has no safe
// target-language equivalent and is emitted as a raw byte buffer inside
// an escape hatch, matching spec §4.6's mapping table.
func (e *Emitter) emitUnion(td hir.TypeDecl) {
	info, ok := e.interner.UnionInfo(td.Type)
	if !ok {
		return
	}
	if tag, hinted := e.cat.TagField(td.Name); hinted {
		fmt.Fprintf(&e.buf, "// tagged union, discriminant field %q\n", tag)
		fmt.Fprintf(&e.buf, "#[derive(Debug)]\npub enum %s {\n", exportName(td.Name))
		for _, f := range info.Fields {
			fmt.Fprintf(&e.buf, "    %s(%s),\n", exportName(f.Name), e.baseTypeName(f.Type))
		}
		e.buf.WriteString("}\n\n")
		return
	}
	e.note(fmt.Sprintf("union %q has no tagged-union catalog hint; emitted as a raw escape hatch", td.Name))
	diag.ReportInfo(e.reporter, diag.CodegenRawBlockEmitted, td.Span,
		"untagged union emitted as a raw byte buffer inside an unsafe escape hatch").Emit()
	size := e.unionSize(info)
	fmt.Fprintf(&e.buf, "// untagged union %s, emitted as a raw byte buffer (unsafe escape hatch)\n", td.Name)
	fmt.Fprintf(&e.buf, "pub struct %s {\n    pub raw: [u8; %d],\n}\n\n", exportName(td.Name), size)
}

func (e *Emitter) unionSize(info *types.UnionInfo) int {
	max := 0
	for _, f := range info.Fields {
		if w := e.sizeOf(f.Type); w > max {
			max = w
		}
	}
	if max == 0 {
		max = 8
	}
	return max
}

// sizeOf returns a coarse byte-size estimate, only precise enough to size
// the raw buffer an untagged union falls back to -- not a real ABI
// layout computation (the adapter owns struct/union layout decisions;
// codegen only needs "big enough").
func (e *Emitter) sizeOf(id types.TypeID) int {
	t, ok := e.interner.Lookup(id)
	if !ok {
		return 8
	}
	switch t.Kind {
	case types.KindBool, types.KindChar:
		return 1
	case types.KindInt, types.KindUint, types.KindFloat:
		if t.Width == types.WidthAny {
			return 4
		}
		return int(t.Width) / 8
	case types.KindPointer:
		return 8
	case types.KindArray:
		if t.Count == types.ArrayDynamicLength {
			return 24
		}
		return int(t.Count) * e.sizeOf(t.Elem)
	default:
		return 8
	}
}

func (e *Emitter) emitEnum(td hir.TypeDecl) {
	info, ok := e.interner.EnumInfo(td.Type)
	if !ok {
		return
	}
	fmt.Fprintf(&e.buf, "#[repr(%s)]\n#[derive(Debug, Clone, Copy, PartialEq, Eq)]\npub enum %s {\n", repType(info.Underlying, info.Signed), exportName(td.Name))
	for _, m := range info.Members {
		fmt.Fprintf(&e.buf, "    %s = %d,\n", exportName(m.Name), m.Value)
	}
	e.buf.WriteString("}\n\n")
}

func repType(w types.Width, signed bool) string {
	if signed {
		return signedIntName(w)
	}
	return unsignedIntName(w)
}

func (e *Emitter) emitAlias(td hir.TypeDecl) {
	info, ok := e.interner.AliasInfo(td.Type)
	if !ok {
		return
	}
	fmt.Fprintf(&e.buf, "pub type %s = %s;\n\n", exportName(td.Name), e.baseTypeName(info.Underlying))
}

// fieldName keeps a record field's source spelling; C field names are
// already snake_case or close to it far more often than camelCase, so no
// rewriting happens here the way exportName rewrites type names.
func fieldName(name string) string {
	if name == "" {
		return "_"
	}
	return name
}
