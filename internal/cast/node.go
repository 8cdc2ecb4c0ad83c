package cast

import "csafe/internal/source"

// NodeKind enumerates the C constructs a conforming adapter may hand to
// the core. This is the normalized surface of spec §6's AST contract: no
// node kind implies re-tokenizing or re-parsing, and no kind requires the
// core to see raw preprocessor state (the adapter is responsible for
// preprocessing having already happened).
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// Top level.
	KindTranslationUnit
	KindFuncDecl
	KindParamDecl
	KindVarDecl
	KindTypedefDecl
	KindRecordDecl // struct
	KindUnionDecl
	KindEnumDecl
	KindFieldDecl
	KindEnumeratorDecl

	// Statements.
	KindBlock
	KindDeclStmt
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindBreakStmt
	KindContinueStmt
	KindReturnStmt
	KindGotoStmt
	KindLabelStmt

	// Expressions.
	KindIntLiteral
	KindFloatLiteral
	KindCharLiteral
	KindStringLiteral
	KindDeclRefExpr
	KindMemberExpr
	KindArraySubscriptExpr
	KindUnaryOperator
	KindBinaryOperator
	KindConditionalOperator // ternary
	KindCallExpr
	KindCastExpr
	KindCompoundLiteralExpr
	KindInitListExpr
	KindCommaExpr
	KindAssignExpr

	// Unsupported marks a construct the adapter could not normalize
	// (a raw escape from the *parser's* side, distinct from hir.Unsupported
	// which the core itself produces when it can't lower a supported node).
	KindUnsupported
)

func (k NodeKind) String() string {
	switch k {
	case KindTranslationUnit:
		return "TranslationUnit"
	case KindFuncDecl:
		return "FuncDecl"
	case KindParamDecl:
		return "ParamDecl"
	case KindVarDecl:
		return "VarDecl"
	case KindTypedefDecl:
		return "TypedefDecl"
	case KindRecordDecl:
		return "RecordDecl"
	case KindUnionDecl:
		return "UnionDecl"
	case KindEnumDecl:
		return "EnumDecl"
	case KindFieldDecl:
		return "FieldDecl"
	case KindEnumeratorDecl:
		return "EnumeratorDecl"
	case KindBlock:
		return "Block"
	case KindDeclStmt:
		return "DeclStmt"
	case KindExprStmt:
		return "ExprStmt"
	case KindIfStmt:
		return "IfStmt"
	case KindWhileStmt:
		return "WhileStmt"
	case KindDoStmt:
		return "DoStmt"
	case KindForStmt:
		return "ForStmt"
	case KindSwitchStmt:
		return "SwitchStmt"
	case KindCaseStmt:
		return "CaseStmt"
	case KindDefaultStmt:
		return "DefaultStmt"
	case KindBreakStmt:
		return "BreakStmt"
	case KindContinueStmt:
		return "ContinueStmt"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindGotoStmt:
		return "GotoStmt"
	case KindLabelStmt:
		return "LabelStmt"
	case KindIntLiteral:
		return "IntLiteral"
	case KindFloatLiteral:
		return "FloatLiteral"
	case KindCharLiteral:
		return "CharLiteral"
	case KindStringLiteral:
		return "StringLiteral"
	case KindDeclRefExpr:
		return "DeclRefExpr"
	case KindMemberExpr:
		return "MemberExpr"
	case KindArraySubscriptExpr:
		return "ArraySubscriptExpr"
	case KindUnaryOperator:
		return "UnaryOperator"
	case KindBinaryOperator:
		return "BinaryOperator"
	case KindConditionalOperator:
		return "ConditionalOperator"
	case KindCallExpr:
		return "CallExpr"
	case KindCastExpr:
		return "CastExpr"
	case KindCompoundLiteralExpr:
		return "CompoundLiteralExpr"
	case KindInitListExpr:
		return "InitListExpr"
	case KindCommaExpr:
		return "CommaExpr"
	case KindAssignExpr:
		return "AssignExpr"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Invalid"
	}
}

// NodeData carries kind-specific payload. Mirrors the teacher's
// ast.ExprData/ast.StmtData tagged-interface convention (internal/hir's
// Expr/Stmt do the same for the downstream IR).
type NodeData interface {
	nodeData()
}

// IdentData names a declaration or a reference to one (DeclRefExpr,
// FuncDecl, VarDecl, ParamDecl, FieldDecl, records/unions/enums, labels).
type IdentData struct {
	Name string
}

func (IdentData) nodeData() {}

// LiteralData holds the raw text and decoded value of a literal.
type LiteralData struct {
	Text      string
	Int       int64
	Float     float64
	Char      rune
	StringVal string
}

func (LiteralData) nodeData() {}

// OperatorData names the C operator spelling for unary/binary/assign nodes
// (e.g. "+", "*", "->", "++", "+="). IsPostfix distinguishes postfix from
// prefix "++"/"--" on a UnaryOperator node; meaningless for any other op.
type OperatorData struct {
	Op        string
	IsPostfix bool
}

func (OperatorData) nodeData() {}

// StorageClass enumerates C storage-class specifiers relevant to ownership
// and lifetime inference (static locals become process-wide owning cells
// per spec §9; extern/global sinks feed the ownership "stored to a global"
// rule).
type StorageClass uint8

const (
	StorageAuto StorageClass = iota
	StorageStatic
	StorageExtern
	StorageRegister
)

// DeclData carries the declaration-specific bits VarDecl/ParamDecl/FuncDecl
// need beyond a plain name.
type DeclData struct {
	Name    string
	Storage StorageClass
	// AllocatorRole is filled in by the adapter when the catalog (spec §6)
	// recognizes this FuncDecl's name as an allocator/releaser/reallocator;
	// left empty otherwise and re-derived by the core from the catalog.
	AllocatorRole string
}

func (DeclData) nodeData() {}

// SwitchCaseData marks a CaseStmt's constant label; DefaultStmt carries no
// data of its own (its presence as a child is enough).
type SwitchCaseData struct {
	Value int64
}

func (SwitchCaseData) nodeData() {}

// LabelRefData names the target of a GotoStmt.
type LabelRefData struct {
	Label string
}

func (LabelRefData) nodeData() {}

// Node is one entry in a normalized C AST, per spec §6: source location,
// node kind, children, and a resolved type reference.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Span     source.Span
	Children []NodeID
	Type     TypeRefID
	Data     NodeData
}
