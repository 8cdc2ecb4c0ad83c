package cast

import (
	"encoding/json"
	"fmt"

	"csafe/internal/source"
)

// Document is the wire format a conforming external C front end emits to
// satisfy spec §6's "already-parsed, already-typed AST" contract. The
// core never parses C source; csafe's CLI only ever decodes one of these
// and hands the resulting Tree to the pipeline.
type Document struct {
	Root  NodeID     `json:"root"`
	Nodes []WireNode `json:"nodes"`
	Types []TypeRef  `json:"types,omitempty"`
}

// WireNode is the JSON shape of one Node. Data is kind-dependent raw JSON,
// decoded by DecodeDocument once Kind is known.
type WireNode struct {
	ID       NodeID          `json:"id"`
	Kind     string          `json:"kind"`
	Span     source.Span     `json:"span"`
	Children []NodeID        `json:"children,omitempty"`
	Type     TypeRefID       `json:"type,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

var kindByName map[string]NodeKind

func init() {
	kindByName = make(map[string]NodeKind, KindUnsupported+1)
	for k := KindInvalid; k <= KindUnsupported; k++ {
		kindByName[k.String()] = k
	}
}

// DecodeDocument parses a Document and rebuilds the Tree it describes,
// keeping node IDs stable with what the adapter reported (so Children
// references in the wire format resolve without remapping).
func DecodeDocument(raw []byte) (*Tree, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cast: decode document: %w", err)
	}

	tree := NewTree()
	for _, ty := range doc.Types {
		id := tree.AddType(ty)
		if id != ty.ID && ty.ID != 0 {
			return nil, fmt.Errorf("cast: type %d did not land at its declared ID (got %d); adapter must emit types in ID order starting at 1", ty.ID, id)
		}
	}

	for _, wn := range doc.Nodes {
		kind, ok := kindByName[wn.Kind]
		if !ok {
			return nil, fmt.Errorf("cast: unknown node kind %q (node %d)", wn.Kind, wn.ID)
		}
		data, err := decodeNodeData(kind, wn.Data)
		if err != nil {
			return nil, fmt.Errorf("cast: node %d (%s): %w", wn.ID, wn.Kind, err)
		}
		n := Node{Kind: kind, Span: wn.Span, Children: wn.Children, Type: wn.Type, Data: data}
		id := tree.AddNode(n)
		if id != wn.ID && wn.ID != 0 {
			return nil, fmt.Errorf("cast: node %d did not land at its declared ID (got %d); adapter must emit nodes in ID order starting at 1", wn.ID, id)
		}
	}

	tree.Root = doc.Root
	return tree, nil
}

// declDataKinds/identDataKinds/... group the node kinds sharing one
// NodeData payload shape, mirroring the switch hir's lowerer itself uses
// to type-assert n.Data (lower_decl.go, lower_expr.go, lower_stmt.go).
func decodeNodeData(kind NodeKind, raw json.RawMessage) (NodeData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case KindFuncDecl, KindVarDecl, KindParamDecl, KindTypedefDecl,
		KindRecordDecl, KindUnionDecl, KindEnumDecl, KindFieldDecl, KindEnumeratorDecl:
		var d DeclData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindDeclRefExpr, KindMemberExpr, KindLabelStmt:
		var d IdentData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindIntLiteral, KindFloatLiteral, KindCharLiteral, KindStringLiteral:
		var d LiteralData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindUnaryOperator, KindBinaryOperator, KindAssignExpr:
		var d OperatorData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindCaseStmt:
		var d SwitchCaseData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case KindGotoStmt:
		var d LabelRefData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, nil
	}
}
