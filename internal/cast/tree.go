package cast

// Tree is the normalized AST for one translation unit, as handed in by the
// external C front end (spec §1, §6). The core treats a Tree as read-only
// input: construction is the adapter's job, consumption is the core's.
type Tree struct {
	nodes *Arena[Node]
	types *Arena[TypeRef]
	Root  NodeID
}

// NewTree creates an empty Tree ready for an adapter to populate.
func NewTree() *Tree {
	return &Tree{
		nodes: NewArena[Node](256),
		types: NewArena[TypeRef](64),
	}
}

// Node returns the node for id, or nil if id is invalid.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.nodes.Get(uint32(id))
}

// Type returns the resolved type for id, or nil if id is invalid.
func (t *Tree) Type(id TypeRefID) *TypeRef {
	if t == nil {
		return nil
	}
	return t.types.Get(uint32(id))
}

// AddNode allocates n and returns its NodeID. The caller fills n.ID to
// match the returned value if it wants self-referential bookkeeping.
func (t *Tree) AddNode(n Node) NodeID {
	id := NodeID(t.nodes.Allocate(n))
	stored := t.nodes.Get(uint32(id))
	stored.ID = id
	return id
}

// AddType interns a resolved type and returns its TypeRefID.
func (t *Tree) AddType(ty TypeRef) TypeRefID {
	id := TypeRefID(t.types.Allocate(ty))
	stored := t.types.Get(uint32(id))
	stored.ID = id
	return id
}

// NodeCount reports how many nodes the tree holds (for diagnostics/sizing).
func (t *Tree) NodeCount() uint32 {
	if t == nil {
		return 0
	}
	return t.nodes.Len()
}
