package store

import (
	"fmt"
	"time"

	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
)

// Store is the in-memory mapping id -> node plus secondary indices. It
// owns its node table exclusively; external callers only ever see clones
// or resolve-on-access references.
type Store struct {
	schema    *schema.Schema
	generator idgen.Generator
	clock     func() time.Time

	nodes map[string]*Node
	order []string // insertion order, for deterministic replay on Clone

	factories []IndexFactory
	indices   []Index
}

// New builds an empty store bound to sch. TypeIndex (the required "by
// type" index) is always registered; extraFactories adds more (e.g. the
// property and container annotation indices).
func New(sch *schema.Schema, gen idgen.Generator, extraFactories ...IndexFactory) *Store {
	factories := append([]IndexFactory{typeIndexFactory}, extraFactories...)
	s := &Store{
		schema:    sch,
		generator: gen,
		clock:     time.Now,
		nodes:     map[string]*Node{},
		factories: factories,
	}
	for _, f := range factories {
		s.indices = append(s.indices, f(sch))
	}
	return s
}

// SetClock overrides the reference time used to resolve relative date
// expressions ("in 3 days") set on date-kind properties. Tests use this to
// get deterministic coercion; production stores leave it at time.Now.
func (s *Store) SetClock(clock func() time.Time) { s.clock = clock }

func typeIndexFactory(*schema.Schema) Index { return NewTypeIndex() }

// Schema returns the schema the store validates nodes against.
func (s *Store) Schema() *schema.Schema { return s.schema }

// NewID generates a fresh id for nodeType using the store's id generator.
func (s *Store) NewID(nodeType string) string { return s.generator.NewID(nodeType) }

// Get resolves id against the current table. It is the mechanism behind
// view-handle re-resolution: callers that hold only an id never dereference
// stale memory, they just get ok=false once the node is gone.
func (s *Store) Get(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of nodes currently in the store.
func (s *Store) Len() int { return len(s.nodes) }

// IDs returns every node id in insertion order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IndexByType returns the first registered index for which matcher reports
// true, or false if none matches. Typical use:
//
//	idx, ok := s.IndexByType(func(i Index) bool { _, ok := i.(*TypeIndex); return ok })
func (s *Store) IndexByType(matcher func(Index) bool) (Index, bool) {
	for _, idx := range s.indices {
		if matcher(idx) {
			return idx, true
		}
	}
	return nil, false
}

// Indices returns all registered indices, in registration order (TypeIndex
// first).
func (s *Store) Indices() []Index {
	out := make([]Index, len(s.indices))
	copy(out, s.indices)
	return out
}

func (s *Store) dispatch(fn func(Index)) {
	for _, idx := range s.indices {
		fn(idx)
	}
}

func (s *Store) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Apply executes op against the store (dispatching to all indices) and
// returns the error, if any. The op itself captures whatever it needs to
// produce Invert() afterward.
func (s *Store) Apply(op Op) error {
	return op.Apply(s)
}

// Clone returns a deep, independent copy of the store: its own node table
// and freshly built indices replayed over that table. This is how the
// transaction stage gets a shadow document that starts
// byte-identical to the live store.
func (s *Store) Clone() *Store {
	clone := &Store{
		schema:    s.schema,
		generator: s.generator,
		clock:     s.clock,
		nodes:     make(map[string]*Node, len(s.nodes)),
		factories: s.factories,
	}
	for _, f := range clone.factories {
		clone.indices = append(clone.indices, f(clone.schema))
	}
	clone.order = append(clone.order, s.order...)
	for _, id := range s.order {
		clone.nodes[id] = s.nodes[id].Clone()
	}
	for _, id := range clone.order {
		n := clone.nodes[id]
		clone.dispatch(func(idx Index) { idx.OnCreate(n) })
	}
	return clone
}

// Equal reports whether s and other hold byte-identical node tables
// (same ids, same types, same property values). Used by the round-trip
// round-trip invariant tests: applying a sequence of ops then inverting
// each in reverse order must restore a store byte-identical to its
// original state.
func (s *Store) Equal(other *Store) bool {
	if len(s.nodes) != len(other.nodes) {
		return false
	}
	for id, n := range s.nodes {
		on, ok := other.nodes[id]
		if !ok || !nodesEqual(n, on) {
			return false
		}
	}
	return true
}

func nodesEqual(a, b *Node) bool {
	if a.ID != b.ID || a.Type != b.Type {
		return false
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for k, av := range a.Properties {
		bv, ok := b.Properties[k]
		if !ok || !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	as, aok := a.([]string)
	bs, bok := b.([]string)
	if aok || bok {
		if !aok || !bok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
		return true
	}
	return a == b
}

// ValidateReference checks that targetID names an existing node of a type
// permitted for a reference property. An empty TargetTypes list permits
// any registered type.
func (s *Store) ValidateReference(spec schema.PropertySpec, targetID string) error {
	target, ok := s.Get(targetID)
	if !ok {
		return fmt.Errorf("%w: reference target %q does not exist", docerr.ErrInvalidOperation, targetID)
	}
	if len(spec.TargetTypes) == 0 {
		return nil
	}
	for _, t := range spec.TargetTypes {
		if s.schema.IsSubtype(target.Type, t) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a permitted reference target for this property", docerr.ErrInvalidOperation, targetID)
}
