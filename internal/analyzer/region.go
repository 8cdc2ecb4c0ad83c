package analyzer

import (
	"csafe/internal/hir"
	"csafe/internal/symbols"
)

// RegionNode is one candidate lifetime region: the lexical extent of a
// function's top-level scope or one nested block scope. The lifetime
// stage later assigns each live RegionNode an hir.RegionID and computes
// outlives constraints between parent and child; analyzer only records
// the nesting.
type RegionNode struct {
	ID     RegionID
	Scope  symbols.ScopeID
	Parent RegionID // NoRegionID for the function's outermost region
}

// RegionTree is one function's region nesting, indexed by the block
// scopes the hir lowering pass already recorded on every hir.Block.
type RegionTree struct {
	Nodes   []RegionNode
	byScope map[symbols.ScopeID]RegionID
}

// Root returns the outermost region (the function body's own scope), or
// NoRegionID if the tree is empty.
func (t *RegionTree) Root() RegionID {
	if len(t.Nodes) == 0 {
		return NoRegionID
	}
	return 0
}

// ForScope returns the region recorded for a given lexical scope.
func (t *RegionTree) ForScope(scope symbols.ScopeID) (RegionID, bool) {
	id, ok := t.byScope[scope]
	return id, ok
}

// BuildRegionTree walks every block reachable in fn (via its Blocks,
// recursing into nested If/While/For/Switch bodies) and records one
// RegionNode per distinct hir.Block.Scope, parented on the scope chain
// symbols.Table already maintains.
func BuildRegionTree(fn *hir.Func, table *symbols.Table) *RegionTree {
	t := &RegionTree{byScope: make(map[symbols.ScopeID]RegionID, 8)}
	if fn == nil || fn.Body == nil || table == nil {
		return t
	}
	t.addScope(fn.Scope, table)
	walkBlockScopes(fn.Body, table, t)
	return t
}

func (t *RegionTree) addScope(scope symbols.ScopeID, table *symbols.Table) RegionID {
	if id, ok := t.byScope[scope]; ok {
		return id
	}
	parent := NoRegionID
	if s := table.Scopes.Get(scope); s != nil && s.Parent != symbols.NoScopeID {
		parent = t.addScope(s.Parent, table)
	}
	id := RegionID(len(t.Nodes))
	t.Nodes = append(t.Nodes, RegionNode{ID: id, Scope: scope, Parent: parent})
	t.byScope[scope] = id
	return id
}

func walkBlockScopes(b *hir.Block, table *symbols.Table, t *RegionTree) {
	if b == nil {
		return
	}
	t.addScope(b.Scope, table)
	for i := range b.Stmts {
		walkStmtScopes(&b.Stmts[i], table, t)
	}
}

func walkStmtScopes(s *hir.Stmt, table *symbols.Table, t *RegionTree) {
	switch d := s.Data.(type) {
	case hir.IfData:
		walkBlockScopes(d.Then, table, t)
		walkBlockScopes(d.Else, table, t)
	case hir.WhileData:
		walkBlockScopes(d.Body, table, t)
	case hir.ForData:
		walkBlockScopes(d.Body, table, t)
	case hir.BlockStmtData:
		walkBlockScopes(d.Block, table, t)
	case hir.SwitchData:
		for i := range d.Cases {
			for j := range d.Cases[i].Body {
				walkStmtScopes(&d.Cases[i].Body[j], table, t)
			}
		}
	}
}
