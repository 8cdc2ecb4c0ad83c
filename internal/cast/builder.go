package cast

import "csafe/internal/source"

// Builder provides ergonomic construction of a Tree, mainly for tests and
// for reference adapters. Mirrors the shape of the teacher's ast.Builder
// (a thin helper over direct arena allocation) without the full grammar
// surface Surge's own builder needs.
type Builder struct {
	Tree *Tree
}

// NewBuilder creates a Builder wrapping a fresh Tree.
func NewBuilder() *Builder {
	return &Builder{Tree: NewTree()}
}

func (b *Builder) node(kind NodeKind, sp source.Span, ty TypeRefID, data NodeData, children ...NodeID) NodeID {
	return b.Tree.AddNode(Node{
		Kind:     kind,
		Span:     sp,
		Type:     ty,
		Data:     data,
		Children: children,
	})
}

// IntLiteral builds an IntLiteral node.
func (b *Builder) IntLiteral(sp source.Span, ty TypeRefID, v int64, text string) NodeID {
	return b.node(KindIntLiteral, sp, ty, LiteralData{Int: v, Text: text})
}

// DeclRef builds a DeclRefExpr node naming an existing declaration.
func (b *Builder) DeclRef(sp source.Span, ty TypeRefID, name string) NodeID {
	return b.node(KindDeclRefExpr, sp, ty, IdentData{Name: name})
}

// Unary builds a UnaryOperator node (e.g. "*", "&", "++", "!"). postfix
// only matters for "++"/"--".
func (b *Builder) Unary(sp source.Span, ty TypeRefID, op string, postfix bool, operand NodeID) NodeID {
	return b.node(KindUnaryOperator, sp, ty, OperatorData{Op: op, IsPostfix: postfix}, operand)
}

// Binary builds a BinaryOperator node.
func (b *Builder) Binary(sp source.Span, ty TypeRefID, op string, lhs, rhs NodeID) NodeID {
	return b.node(KindBinaryOperator, sp, ty, OperatorData{Op: op}, lhs, rhs)
}

// Assign builds an AssignExpr node (compound or simple; op is "=", "+=", ...).
func (b *Builder) Assign(sp source.Span, ty TypeRefID, op string, lhs, rhs NodeID) NodeID {
	return b.node(KindAssignExpr, sp, ty, OperatorData{Op: op}, lhs, rhs)
}

// Call builds a CallExpr node; children[0] is the callee, the rest are args.
func (b *Builder) Call(sp source.Span, ty TypeRefID, callee NodeID, args ...NodeID) NodeID {
	return b.node(KindCallExpr, sp, ty, nil, append([]NodeID{callee}, args...)...)
}

// Member builds a MemberExpr node (object.field or object->field collapse
// into the same node kind once pointer decay has been normalized upstream).
func (b *Builder) Member(sp source.Span, ty TypeRefID, obj NodeID, field string) NodeID {
	return b.node(KindMemberExpr, sp, ty, IdentData{Name: field}, obj)
}

// Index builds an ArraySubscriptExpr node.
func (b *Builder) Index(sp source.Span, ty TypeRefID, arr, idx NodeID) NodeID {
	return b.node(KindArraySubscriptExpr, sp, ty, nil, arr, idx)
}

// Block builds a Block node from a list of statement children.
func (b *Builder) Block(sp source.Span, stmts ...NodeID) NodeID {
	return b.node(KindBlock, sp, NoTypeRefID, nil, stmts...)
}

// ExprStmt wraps an expression node as a statement.
func (b *Builder) ExprStmt(sp source.Span, expr NodeID) NodeID {
	return b.node(KindExprStmt, sp, NoTypeRefID, nil, expr)
}

// Return builds a ReturnStmt; value may be NoNodeID for a bare return.
func (b *Builder) Return(sp source.Span, value NodeID) NodeID {
	if value == NoNodeID {
		return b.node(KindReturnStmt, sp, NoTypeRefID, nil)
	}
	return b.node(KindReturnStmt, sp, NoTypeRefID, nil, value)
}

// VarDecl builds a VarDecl node; init may be NoNodeID.
func (b *Builder) VarDecl(sp source.Span, ty TypeRefID, name string, storage StorageClass, init NodeID) NodeID {
	if init == NoNodeID {
		return b.node(KindVarDecl, sp, ty, DeclData{Name: name, Storage: storage})
	}
	return b.node(KindVarDecl, sp, ty, DeclData{Name: name, Storage: storage}, init)
}

// DeclStmt wraps a VarDecl (or several) as a statement.
func (b *Builder) DeclStmt(sp source.Span, decls ...NodeID) NodeID {
	return b.node(KindDeclStmt, sp, NoTypeRefID, nil, decls...)
}

// FuncDecl builds a FuncDecl node; body may be NoNodeID for a declaration
// without a definition (extern prototypes).
func (b *Builder) FuncDecl(sp source.Span, ty TypeRefID, name string, params []NodeID, body NodeID) NodeID {
	children := append([]NodeID{}, params...)
	if body != NoNodeID {
		children = append(children, body)
	}
	return b.node(KindFuncDecl, sp, ty, DeclData{Name: name}, children...)
}

// Param builds a ParamDecl node.
func (b *Builder) Param(sp source.Span, ty TypeRefID, name string) NodeID {
	return b.node(KindParamDecl, sp, ty, DeclData{Name: name})
}

// IfStmt builds an IfStmt node; elseBlock may be NoNodeID.
func (b *Builder) IfStmt(sp source.Span, cond, thenBlock, elseBlock NodeID) NodeID {
	children := []NodeID{cond, thenBlock}
	if elseBlock != NoNodeID {
		children = append(children, elseBlock)
	}
	return b.node(KindIfStmt, sp, NoTypeRefID, nil, children...)
}

// WhileStmt builds a WhileStmt node.
func (b *Builder) WhileStmt(sp source.Span, cond, body NodeID) NodeID {
	return b.node(KindWhileStmt, sp, NoTypeRefID, nil, cond, body)
}

// DoStmt builds a DoStmt node (body first, matching cast.KindDoStmt's
// lowering convention of reading children[0] as the body).
func (b *Builder) DoStmt(sp source.Span, body, cond NodeID) NodeID {
	return b.node(KindDoStmt, sp, NoTypeRefID, nil, body, cond)
}

// ForStmt builds a ForStmt node; init/cond/post may each be NoNodeID for
// an omitted clause.
func (b *Builder) ForStmt(sp source.Span, init, cond, post, body NodeID) NodeID {
	return b.node(KindForStmt, sp, NoTypeRefID, nil, init, cond, post, body)
}

// BreakStmt builds a BreakStmt node.
func (b *Builder) BreakStmt(sp source.Span) NodeID {
	return b.node(KindBreakStmt, sp, NoTypeRefID, nil)
}

// ContinueStmt builds a ContinueStmt node.
func (b *Builder) ContinueStmt(sp source.Span) NodeID {
	return b.node(KindContinueStmt, sp, NoTypeRefID, nil)
}

// GotoStmt builds a GotoStmt node naming its target label.
func (b *Builder) GotoStmt(sp source.Span, label string) NodeID {
	return b.node(KindGotoStmt, sp, NoTypeRefID, LabelRefData{Label: label})
}

// LabelStmt builds a LabelStmt node introducing a label.
func (b *Builder) LabelStmt(sp source.Span, name string) NodeID {
	return b.node(KindLabelStmt, sp, NoTypeRefID, IdentData{Name: name})
}

// SwitchStmt builds a SwitchStmt node; cases are KindCaseStmt/
// KindDefaultStmt nodes interleaved with the statements they guard, per
// hir's lowerSwitchStmt convention.
func (b *Builder) SwitchStmt(sp source.Span, cond NodeID, cases ...NodeID) NodeID {
	return b.node(KindSwitchStmt, sp, NoTypeRefID, nil, append([]NodeID{cond}, cases...)...)
}

// CaseStmt builds a CaseStmt label node for a constant value.
func (b *Builder) CaseStmt(sp source.Span, value int64) NodeID {
	return b.node(KindCaseStmt, sp, NoTypeRefID, SwitchCaseData{Value: value})
}

// DefaultStmt builds a DefaultStmt label node.
func (b *Builder) DefaultStmt(sp source.Span) NodeID {
	return b.node(KindDefaultStmt, sp, NoTypeRefID, nil)
}

// TranslationUnit builds the root node collecting top-level declarations.
func (b *Builder) TranslationUnit(sp source.Span, decls ...NodeID) NodeID {
	id := b.node(KindTranslationUnit, sp, NoTypeRefID, nil, decls...)
	b.Tree.Root = id
	return id
}

// Int declares (interns) a plain signed integer TypeRef of the given width.
func (b *Builder) Int(width uint8) TypeRefID {
	return b.Tree.AddType(TypeRef{Kind: TypeInt, Signed: true, Width: width})
}

// Pointer declares a pointer-to-elem TypeRef with the given pointee quals.
func (b *Builder) Pointer(elem TypeRefID, quals PointerQuals) TypeRefID {
	return b.Tree.AddType(TypeRef{Kind: TypePointer, Elem: elem, Quals: quals})
}

// Void declares the Void TypeRef (interned fresh each call; callers should
// cache the result if reused many times).
func (b *Builder) Void() TypeRefID {
	return b.Tree.AddType(TypeRef{Kind: TypeVoid})
}
