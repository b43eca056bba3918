package store

import (
	"fmt"
	"time"

	"github.com/substancehq/substance/internal/datecoerce"
	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/schema"
)

// Op is an atomic, invertible mutation. Apply executes it against a store
// and captures whatever state is needed to produce its own inverse; Invert
// is valid only after a successful Apply — inverses are generated when the
// op is applied, not when undo is requested.
type Op interface {
	Apply(s *Store) error
	Invert() Op
	// Path returns the affected property path for Set/Update ops; Create
	// and Delete operate on a whole node and return ok=false.
	Path() (Path, bool)
	// AffectedNodeID returns the id of the node this op targets.
	AffectedNodeID() string
}

// CreateOp inserts Node into the store. Its inverse is DeleteOp(Node.ID).
type CreateOp struct {
	Node *Node
}

func (op *CreateOp) Apply(s *Store) error {
	if op.Node == nil || op.Node.ID == "" {
		return fmt.Errorf("%w: create requires a node with an id", docerr.ErrInvalidOperation)
	}
	if _, exists := s.nodes[op.Node.ID]; exists {
		return fmt.Errorf("%w: node %q already exists", docerr.ErrInvalidOperation, op.Node.ID)
	}
	if _, err := s.schema.GetNodeClass(op.Node.Type); err != nil {
		return err
	}
	stored := op.Node.Clone()
	if err := coerceDateProperties(s, stored); err != nil {
		return err
	}
	s.nodes[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	s.dispatch(func(idx Index) { idx.OnCreate(stored) })
	return nil
}

func (op *CreateOp) Invert() Op                  { return &DeleteOp{ID: op.Node.ID, captured: op.Node.Clone()} }
func (op *CreateOp) Path() (Path, bool)           { return Path{}, false }
func (op *CreateOp) AffectedNodeID() string       { return op.Node.ID }

// coerceDateProperties parses every string-valued KindDate property on n
// into a time.Time, the same coercion SetOp.Apply performs for a single
// property on update. CreateOp needs it too: a snapshot restore (or any
// other caller building a Node from JSON) hands create ops a date
// property as a plain string, and without this it would stick around as
// a string forever instead of matching the in-memory shape a normal
// transaction produces.
func coerceDateProperties(s *Store, n *Node) error {
	for prop, value := range n.Properties {
		text, isString := value.(string)
		if !isString {
			continue
		}
		spec, ok := s.schema.Property(n.Type, prop)
		if !ok || spec.Kind != schema.KindDate {
			continue
		}
		coerced, err := coerceDate(text, s.clock())
		if err != nil {
			return fmt.Errorf("%w: %v", docerr.ErrInvalidOperation, err)
		}
		n.Properties[prop] = coerced
	}
	return nil
}

// DeleteOp removes a node from the store, capturing it so the op can
// invert itself back into a CreateOp. The caller is responsible for
// having removed any references to id first.
type DeleteOp struct {
	ID       string
	captured *Node
}

func (op *DeleteOp) Apply(s *Store) error {
	n, ok := s.nodes[op.ID]
	if !ok {
		return fmt.Errorf("%w: node %q not found", docerr.ErrInvalidOperation, op.ID)
	}
	op.captured = n.Clone()
	s.dispatch(func(idx Index) { idx.OnDelete(n) })
	delete(s.nodes, op.ID)
	s.removeFromOrder(op.ID)
	return nil
}

func (op *DeleteOp) Invert() Op            { return &CreateOp{Node: op.captured.Clone()} }
func (op *DeleteOp) Path() (Path, bool)    { return Path{}, false }
func (op *DeleteOp) AffectedNodeID() string { return op.ID }

// Captured returns the node record as it stood immediately before
// deletion. Valid only after Apply.
func (op *DeleteOp) Captured() *Node { return op.captured }

// SetOp replaces a property's value wholesale, capturing the previous
// value so it can invert itself back to a SetOp with the original value.
type SetOp struct {
	P     Path
	Value any

	original any
}

func (op *SetOp) Apply(s *Store) error {
	n, ok := s.nodes[op.P.NodeID]
	if !ok {
		return fmt.Errorf("%w: node %q not found", docerr.ErrInvalidOperation, op.P.NodeID)
	}
	value := op.Value
	if text, isString := value.(string); isString {
		if spec, ok := s.schema.Property(n.Type, op.P.Property); ok && spec.Kind == schema.KindDate {
			coerced, err := coerceDate(text, s.clock())
			if err != nil {
				return fmt.Errorf("%w: %v", docerr.ErrInvalidOperation, err)
			}
			value = coerced
		}
	}
	op.original = n.Properties[op.P.Property]
	n.Properties[op.P.Property] = value
	s.dispatch(func(idx Index) { idx.OnSet(n, op.P, op.original, value) })
	return nil
}

func coerceDate(raw any, now time.Time) (time.Time, error) {
	return datecoerce.Coerce(raw, now)
}

func (op *SetOp) Invert() Op            { return &SetOp{P: op.P, Value: op.original} }
func (op *SetOp) Path() (Path, bool)    { return op.P, true }
func (op *SetOp) AffectedNodeID() string { return op.P.NodeID }

// Original returns the value that was replaced. Valid only after Apply.
func (op *SetOp) Original() any { return op.original }

// UpdateOp applies a typed Diff to a property, capturing the diff's own
// inverse so the op can invert itself without re-touching the store.
type UpdateOp struct {
	P Path
	D Diff

	inverse Diff
}

func (op *UpdateOp) Apply(s *Store) error {
	n, ok := s.nodes[op.P.NodeID]
	if !ok {
		return fmt.Errorf("%w: node %q not found", docerr.ErrInvalidOperation, op.P.NodeID)
	}
	old := n.Properties[op.P.Property]
	newVal, inverse, err := op.D.Apply(old)
	if err != nil {
		return err
	}
	n.Properties[op.P.Property] = newVal
	op.inverse = inverse
	s.dispatch(func(idx Index) { idx.OnUpdate(n, op.P, op.D) })
	return nil
}

func (op *UpdateOp) Invert() Op            { return &UpdateOp{P: op.P, D: op.inverse} }
func (op *UpdateOp) Path() (Path, bool)    { return op.P, true }
func (op *UpdateOp) AffectedNodeID() string { return op.P.NodeID }
