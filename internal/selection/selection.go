// Package selection implements the property and container selection
// variants, plus the null selection.
package selection

import "github.com/substancehq/substance/internal/store"

// Endpoint names one end of a selection, for Collapse.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

// Order resolves a node's position among a container's current children,
// which selection range math over ContainerSelections needs because the
// spatial extent of a container span depends on live document order.
type Order interface {
	Position(containerID, nodeID string) (int, bool)
}

// Selection is implemented by Null, Property and Container: a tagged-variant
// re-modeling of a selection class hierarchy as a small interface plus
// concrete value types.
type Selection interface {
	IsNull() bool
	IsCollapsed() bool
	Collapse(which Endpoint) Selection
	Overlaps(other Selection, order Order) bool
	Contains(other Selection, order Order) bool
	Equals(other Selection) bool
	Reversed() bool
}

// Null is the distinct empty/no-selection variant.
type Null struct{}

func (Null) IsNull() bool                             { return true }
func (Null) IsCollapsed() bool                        { return true }
func (n Null) Collapse(Endpoint) Selection             { return n }
func (Null) Overlaps(Selection, Order) bool            { return false }
func (Null) Contains(Selection, Order) bool            { return false }
func (Null) Reversed() bool                            { return false }
func (n Null) Equals(other Selection) bool {
	_, ok := other.(Null)
	return ok
}

// Property is a selection within a single property: both endpoints share
// Path. StartOffset and EndOffset are always normalized so StartOffset <=
// EndOffset; IsReversed records which endpoint the user's gesture actually
// anchored on, for UI purposes only — it does not affect range math.
type Property struct {
	Path        store.Path
	StartOffset int
	EndOffset   int
	IsReversed  bool
}

func (p Property) IsNull() bool      { return false }
func (p Property) IsCollapsed() bool { return p.StartOffset == p.EndOffset }
func (p Property) Reversed() bool    { return p.IsReversed }

func (p Property) Collapse(which Endpoint) Selection {
	if which == Start {
		return Property{Path: p.Path, StartOffset: p.StartOffset, EndOffset: p.StartOffset}
	}
	return Property{Path: p.Path, StartOffset: p.EndOffset, EndOffset: p.EndOffset}
}

func (p Property) Overlaps(other Selection, _ Order) bool {
	op, ok := other.(Property)
	if !ok || op.Path != p.Path {
		return false
	}
	return maxInt(p.StartOffset, op.StartOffset) <= minInt(p.EndOffset, op.EndOffset)
}

func (p Property) Contains(other Selection, _ Order) bool {
	op, ok := other.(Property)
	if !ok || op.Path != p.Path {
		return false
	}
	return p.StartOffset <= op.StartOffset && op.EndOffset <= p.EndOffset
}

func (p Property) Equals(other Selection) bool {
	op, ok := other.(Property)
	return ok && op.Path == p.Path && op.StartOffset == p.StartOffset && op.EndOffset == p.EndOffset
}

// Container is a selection spanning one or more children of a container.
// StartPath/EndPath are always normalized so Start comes no later than End
// in document order.
type Container struct {
	ContainerID string
	StartPath   store.Path
	StartOffset int
	EndPath     store.Path
	EndOffset   int
	IsReversed  bool
}

func (c Container) IsNull() bool { return false }

func (c Container) IsCollapsed() bool {
	return c.StartPath == c.EndPath && c.StartOffset == c.EndOffset
}

func (c Container) Reversed() bool { return c.IsReversed }

func (c Container) Collapse(which Endpoint) Selection {
	if which == Start {
		return Container{ContainerID: c.ContainerID, StartPath: c.StartPath, StartOffset: c.StartOffset, EndPath: c.StartPath, EndOffset: c.StartOffset}
	}
	return Container{ContainerID: c.ContainerID, StartPath: c.EndPath, StartOffset: c.EndOffset, EndPath: c.EndPath, EndOffset: c.EndOffset}
}

type tuple struct {
	index  int
	offset int
}

func (c Container) bounds(order Order) (tuple, tuple, bool) {
	si, ok := order.Position(c.ContainerID, c.StartPath.NodeID)
	if !ok {
		return tuple{}, tuple{}, false
	}
	ei, ok := order.Position(c.ContainerID, c.EndPath.NodeID)
	if !ok {
		return tuple{}, tuple{}, false
	}
	return tuple{si, c.StartOffset}, tuple{ei, c.EndOffset}, true
}

func tupleLess(a, b tuple) bool {
	if a.index != b.index {
		return a.index < b.index
	}
	return a.offset < b.offset
}

func maxTuple(a, b tuple) tuple {
	if tupleLess(a, b) {
		return b
	}
	return a
}

func minTuple(a, b tuple) tuple {
	if tupleLess(a, b) {
		return a
	}
	return b
}

func (c Container) Overlaps(other Selection, order Order) bool {
	oc, ok := other.(Container)
	if !ok || oc.ContainerID != c.ContainerID {
		return false
	}
	lo, hi, ok := c.bounds(order)
	if !ok {
		return false
	}
	olo, ohi, ok := oc.bounds(order)
	if !ok {
		return false
	}
	return !tupleLess(hi, maxTuple(lo, olo)) && !tupleLess(minTuple(hi, ohi), maxTuple(lo, olo))
}

func (c Container) Contains(other Selection, order Order) bool {
	oc, ok := other.(Container)
	if !ok || oc.ContainerID != c.ContainerID {
		return false
	}
	lo, hi, ok := c.bounds(order)
	if !ok {
		return false
	}
	olo, ohi, ok := oc.bounds(order)
	if !ok {
		return false
	}
	return !tupleLess(olo, lo) && !tupleLess(ohi, olo) && !tupleLess(hi, ohi)
}

func (c Container) Equals(other Selection) bool {
	oc, ok := other.(Container)
	return ok && oc.ContainerID == c.ContainerID && oc.StartPath == c.StartPath &&
		oc.StartOffset == c.StartOffset && oc.EndPath == c.EndPath && oc.EndOffset == c.EndOffset
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
