// Package container implements the container node operations: showing and
// hiding child ids in a container's ordered node list, and resolving a
// child's current position for selection range math.
package container

import (
	"fmt"

	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/selection"
	"github.com/substancehq/substance/internal/store"
)

// Nodes returns n's current child id list (the "nodes" property), in order.
func Nodes(n *store.Node) []string {
	list, _ := n.StringList("nodes")
	return list
}

func indexOf(list []string, id string) int {
	for i, existing := range list {
		if existing == id {
			return i
		}
	}
	return -1
}

// Show compiles the op that inserts id into n's child list at pos. A
// negative pos (or one past the end) appends. It does not check whether id
// is already present: callers that need at-most-once semantics should call
// GetPosition first.
func Show(n *store.Node, id string, pos int) *store.UpdateOp {
	list := Nodes(n)
	if pos < 0 || pos > len(list) {
		pos = len(list)
	}
	return &store.UpdateOp{
		P: store.Path{NodeID: n.ID, Property: "nodes"},
		D: store.ListSplice{Pos: pos, Delete: 0, Insert: []string{id}},
	}
}

// Hide compiles the op that removes id's first occurrence from n's child
// list. It errors if id is not currently shown.
func Hide(n *store.Node, id string) (*store.UpdateOp, error) {
	list := Nodes(n)
	idx := indexOf(list, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q is not a child of container %q", docerr.ErrInvalidOperation, id, n.ID)
	}
	return &store.UpdateOp{
		P: store.Path{NodeID: n.ID, Property: "nodes"},
		D: store.ListSplice{Pos: idx, Delete: 1},
	}, nil
}

// GetPosition returns id's index within n's child list, or ok=false if it
// is not currently shown.
func GetPosition(n *store.Node, id string) (int, bool) {
	idx := indexOf(Nodes(n), id)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// StoreOrder adapts a live store to selection.Order, resolving a node's
// position by reading its container's current "nodes" list.
type StoreOrder struct {
	Store *store.Store
}

func (o StoreOrder) Position(containerID, nodeID string) (int, bool) {
	cn, ok := o.Store.Get(containerID)
	if !ok {
		return 0, false
	}
	return GetPosition(cn, nodeID)
}

var _ selection.Order = StoreOrder{}
