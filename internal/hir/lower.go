package hir

import (
	"csafe/internal/cast"
	"csafe/internal/diag"
	"csafe/internal/source"
	"csafe/internal/symbols"
	"csafe/internal/types"
)

// Lowerer builds a Module from one adapter-produced cast.Tree, resolving
// names against a fresh symbols.Table as it walks (grounded on the
// teacher's hir/lower.go: one Lowerer per translation unit, holding the
// shared interner/table rather than re-deriving them per function).
type Lowerer struct {
	tree     *cast.Tree
	file     *source.File
	reporter diag.Reporter

	interner *types.Interner
	table    *symbols.Table
	resolver *symbols.Resolver

	typeCache map[cast.TypeRefID]types.TypeID
	fnSeq     FuncID
}

// NewLowerer wires a Lowerer to a translation unit's tree and file,
// allocating a fresh type interner and symbol table for it.
func NewLowerer(tree *cast.Tree, file *source.File, reporter diag.Reporter) *Lowerer {
	interner := types.NewInterner()
	table := symbols.NewTable(symbols.Hints{}, nil)
	fileScope := table.FileRoot(file.ID, symbols.ScopeOwner{SourceFile: file.ID, Node: tree.Root})
	return &Lowerer{
		tree:      tree,
		file:      file,
		reporter:  reporter,
		interner:  interner,
		table:     table,
		resolver:  symbols.NewResolver(table, fileScope, reporter),
		typeCache: make(map[cast.TypeRefID]types.TypeID, 32),
	}
}

// LowerModule walks the translation unit's top-level declarations and
// produces a Module. Declarations the adapter marked cast.KindUnsupported
// are skipped with a diagnostic rather than aborting the whole unit, so
// one unsupported construct does not block lowering the rest of the file.
func (l *Lowerer) LowerModule() *Module {
	mod := &Module{
		Name:     l.file.Path,
		Interner: l.interner,
		Symbols:  l.table,
	}

	root := l.tree.Node(l.tree.Root)
	if root == nil {
		return mod
	}

	for _, childID := range root.Children {
		n := l.tree.Node(childID)
		if n == nil {
			continue
		}
		switch n.Kind {
		case cast.KindFuncDecl:
			if fn := l.lowerFunc(n); fn != nil {
				mod.Funcs = append(mod.Funcs, fn)
			}
		case cast.KindVarDecl:
			if gv := l.lowerGlobalVar(n); gv != nil {
				mod.Globals = append(mod.Globals, *gv)
			}
		case cast.KindRecordDecl:
			if td := l.lowerRecordDecl(n, false); td != nil {
				mod.Types = append(mod.Types, *td)
			}
		case cast.KindUnionDecl:
			if td := l.lowerRecordDecl(n, true); td != nil {
				mod.Types = append(mod.Types, *td)
			}
		case cast.KindEnumDecl:
			if td := l.lowerEnumDecl(n); td != nil {
				mod.Types = append(mod.Types, *td)
			}
		case cast.KindTypedefDecl:
			if td := l.lowerTypedefDecl(n); td != nil {
				mod.Types = append(mod.Types, *td)
			}
		case cast.KindUnsupported:
			l.reportUnsupported(n.Span, "unrecognized top-level declaration")
		default:
			l.reportUnsupported(n.Span, "unexpected node kind at translation-unit scope: "+n.Kind.String())
		}
	}
	return mod
}

func (l *Lowerer) reportUnsupported(span source.Span, msg string) {
	if b := diag.ReportError(l.reporter, diag.UnsupportedConstruct, span, msg); b != nil {
		b.Emit()
	}
}

func (l *Lowerer) reportUnresolved(span source.Span, name string) {
	if b := diag.ReportError(l.reporter, diag.SymUnresolved, span, "use of undeclared identifier \""+name+"\""); b != nil {
		b.Emit()
	}
}

// lowerType resolves a cast.TypeRefID into a types.TypeID, caching the
// result since the same TypeRef is referenced from many nodes.
func (l *Lowerer) lowerType(id cast.TypeRefID) types.TypeID {
	if !id.IsValid() {
		return l.interner.Builtins().Void
	}
	if cached, ok := l.typeCache[id]; ok {
		return cached
	}
	ref := l.tree.Type(id)
	if ref == nil {
		return l.interner.Builtins().Void
	}
	resolved := l.convertType(ref)
	l.typeCache[id] = resolved
	return resolved
}

func (l *Lowerer) convertType(ref *cast.TypeRef) types.TypeID {
	b := l.interner.Builtins()
	switch ref.Kind {
	case cast.TypeVoid:
		return b.Void
	case cast.TypeBool:
		return b.Bool
	case cast.TypeChar:
		return b.Char
	case cast.TypeInt:
		return l.intTypeFor(ref)
	case cast.TypeFloat:
		return l.floatTypeFor(ref)
	case cast.TypePointer:
		elem := l.lowerType(ref.Elem)
		quals := types.Quals{Const: ref.Quals.Const, Volatile: ref.Quals.Volatile}
		return l.interner.Intern(types.MakePointer(elem, quals))
	case cast.TypeArray:
		elem := l.lowerType(ref.Elem)
		extent := ref.Extent
		if extent == cast.ArrayDynamicExtent {
			extent = types.ArrayDynamicLength
		}
		return l.interner.Intern(types.MakeArray(elem, extent))
	case cast.TypeRecord:
		return l.interner.RegisterRecord(types.RecordInfo{Name: ref.Name})
	case cast.TypeUnion:
		return l.interner.RegisterUnion(types.UnionInfo{Name: ref.Name})
	case cast.TypeEnum:
		return l.interner.RegisterEnum(types.EnumInfo{Name: ref.Name, Underlying: types.WidthAny, Signed: true})
	case cast.TypeAlias:
		return l.interner.RegisterAlias(ref.Name, l.lowerType(ref.Elem))
	case cast.TypeFunction:
		params := make([]types.TypeID, 0, len(ref.Params))
		for _, p := range ref.Params {
			params = append(params, l.lowerType(p))
		}
		return l.interner.RegisterFn(params, l.lowerType(ref.Return), ref.Variadic)
	default:
		return b.Void
	}
}

func (l *Lowerer) intTypeFor(ref *cast.TypeRef) types.TypeID {
	b := l.interner.Builtins()
	width := types.Width(ref.Width)
	if ref.Signed {
		switch width {
		case types.Width8:
			return b.Int8
		case types.Width16:
			return b.Int16
		case types.Width32:
			return b.Int32
		case types.Width64:
			return b.Int64
		default:
			return b.Int
		}
	}
	switch width {
	case types.Width8:
		return b.Uint8
	case types.Width16:
		return b.Uint16
	case types.Width32:
		return b.Uint32
	case types.Width64:
		return b.Uint64
	default:
		return b.Uint
	}
}

func (l *Lowerer) floatTypeFor(ref *cast.TypeRef) types.TypeID {
	b := l.interner.Builtins()
	if ref.Width == uint8(types.Width64) {
		return b.Float64
	}
	return b.Float32
}

func declData(n *cast.Node) (cast.DeclData, bool) {
	d, ok := n.Data.(cast.DeclData)
	return d, ok
}
