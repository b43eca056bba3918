package store

import "github.com/substancehq/substance/internal/schema"

// Index is implemented by secondary indices the store dispatches every
// applied op to via a `{onCreate, onDelete, onSet, onUpdate}` callback
// surface.
type Index interface {
	OnCreate(n *Node)
	OnDelete(n *Node)
	OnSet(n *Node, path Path, oldVal, newVal any)
	OnUpdate(n *Node, path Path, diff Diff)
}

// IndexFactory builds a fresh Index bound to sch. Stores keep the factory
// list (not the Index instances) so Clone can rebuild indices from scratch
// by replaying creates over the cloned node table — indices are always
// fully derivable from the table, so a factory-based rebuild is sufficient
// and avoids needing a Clone method on every Index.
type IndexFactory func(sch *schema.Schema) Index

// TypeIndex is the store's required "by type" index: for each node type,
// the set of ids currently holding that type.
type TypeIndex struct {
	byType map[string][]string
	pos    map[string]int // id -> index within byType[node.Type], for O(1) removal
}

// NewTypeIndex builds an empty TypeIndex. It matches the IndexFactory
// signature via the small adapter in store.go.
func NewTypeIndex() *TypeIndex {
	return &TypeIndex{byType: map[string][]string{}, pos: map[string]int{}}
}

func (t *TypeIndex) OnCreate(n *Node) {
	t.pos[n.ID] = len(t.byType[n.Type])
	t.byType[n.Type] = append(t.byType[n.Type], n.ID)
}

func (t *TypeIndex) OnDelete(n *Node) {
	ids := t.byType[n.Type]
	i, ok := t.pos[n.ID]
	if !ok {
		return
	}
	last := len(ids) - 1
	ids[i] = ids[last]
	t.pos[ids[i]] = i
	t.byType[n.Type] = ids[:last]
	delete(t.pos, n.ID)
}

func (t *TypeIndex) OnSet(n *Node, path Path, oldVal, newVal any)  {}
func (t *TypeIndex) OnUpdate(n *Node, path Path, diff Diff)        {}

// IDsByType returns the ids currently registered under typeName, in
// creation order (subject to the swap-remove above reordering on delete).
func (t *TypeIndex) IDsByType(typeName string) []string {
	ids := t.byType[typeName]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
