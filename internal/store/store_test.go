package store

import (
	"testing"

	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New("notes", "1.0")
	must(t, s.AddNodeClass(schema.NodeClass{Name: "paragraph", Role: schema.RoleText}))
	must(t, s.AddNodeClass(schema.NodeClass{Name: "strong", Role: schema.RoleAnnotation}))
	must(t, s.AddNodeClass(schema.NodeClass{Name: "body", Role: schema.RoleContainer}))
	must(t, s.SetDefaultTextType("paragraph"))
	s.Freeze()
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testSchema(t), idgen.UUIDGenerator{})
}

func TestCreateGetDelete(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("p1", "paragraph")
	n.Properties["content"] = "Hello World"

	create := &CreateOp{Node: n}
	if err := s.Apply(create); err != nil {
		t.Fatalf("Apply(create): %v", err)
	}

	got, ok := s.Get("p1")
	if !ok {
		t.Fatal("expected p1 to exist after create")
	}
	if v, _ := got.Str("content"); v != "Hello World" {
		t.Errorf("content = %q, want %q", v, "Hello World")
	}

	del := &DeleteOp{ID: "p1"}
	if err := s.Apply(del); err != nil {
		t.Fatalf("Apply(delete): %v", err)
	}
	if _, ok := s.Get("p1"); ok {
		t.Fatal("expected p1 to be gone after delete")
	}
}

func TestCreateUnknownTypeFails(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("x1", "bogus")
	if err := s.Apply(&CreateOp{Node: n}); err == nil {
		t.Fatal("expected error for unregistered node type")
	}
}

func TestCreateDuplicateIDFails(t *testing.T) {
	s := newTestStore(t)
	n1 := NewNode("p1", "paragraph")
	must(t, s.Apply(&CreateOp{Node: n1}))
	n2 := NewNode("p1", "paragraph")
	if err := s.Apply(&CreateOp{Node: n2}); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestSetInvert(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("p1", "paragraph")
	n.Properties["content"] = "Hello"
	must(t, s.Apply(&CreateOp{Node: n}))

	set := &SetOp{P: Path{NodeID: "p1", Property: "content"}, Value: "Goodbye"}
	must(t, s.Apply(set))

	got, _ := s.Get("p1")
	if v, _ := got.Str("content"); v != "Goodbye" {
		t.Fatalf("content = %q, want Goodbye", v)
	}

	inv := set.Invert()
	must(t, s.Apply(inv))
	got, _ = s.Get("p1")
	if v, _ := got.Str("content"); v != "Hello" {
		t.Fatalf("after invert, content = %q, want Hello", v)
	}
}

func TestUpdateStringSpliceInvert(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("p1", "paragraph")
	n.Properties["content"] = "Hello World"
	must(t, s.Apply(&CreateOp{Node: n}))

	op := &UpdateOp{P: Path{NodeID: "p1", Property: "content"}, D: StringSplice{Pos: 6, Delete: 0, Insert: "brave "}}
	must(t, s.Apply(op))

	got, _ := s.Get("p1")
	if v, _ := got.Str("content"); v != "Hello brave World" {
		t.Fatalf("content = %q, want %q", v, "Hello brave World")
	}

	must(t, s.Apply(op.Invert()))
	got, _ = s.Get("p1")
	if v, _ := got.Str("content"); v != "Hello World" {
		t.Fatalf("after invert, content = %q, want %q", v, "Hello World")
	}
}

func TestUpdateOutOfRangeFails(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("p1", "paragraph")
	n.Properties["content"] = "Hi"
	must(t, s.Apply(&CreateOp{Node: n}))

	op := &UpdateOp{P: Path{NodeID: "p1", Property: "content"}, D: StringSplice{Pos: 10, Delete: 0, Insert: "x"}}
	if err := s.Apply(op); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

// TestRoundTripInvariant is the §8 property: applying a sequence of ops
// then inverting each in reverse order restores the original store.
func TestRoundTripInvariant(t *testing.T) {
	s := newTestStore(t)
	base := s.Clone()

	ops := []Op{
		&CreateOp{Node: func() *Node { n := NewNode("p1", "paragraph"); n.Properties["content"] = "Hello World"; return n }()},
		&CreateOp{Node: func() *Node { n := NewNode("s1", "strong"); n.Properties["path"] = Path{NodeID: "p1", Property: "content"}; n.Properties["startOffset"] = 6; n.Properties["endOffset"] = 11; return n }()},
		&UpdateOp{P: Path{NodeID: "p1", Property: "content"}, D: StringSplice{Pos: 6, Delete: 0, Insert: "brave "}},
		&SetOp{P: Path{NodeID: "s1", Property: "endOffset"}, Value: 17},
	}

	var inverses []Op
	for _, op := range ops {
		must(t, s.Apply(op))
		inverses = append(inverses, op.Invert())
	}

	for i := len(inverses) - 1; i >= 0; i-- {
		must(t, s.Apply(inverses[i]))
	}

	if !s.Equal(base) {
		t.Fatal("expected store to be byte-identical to its pre-op state after full inversion")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestStore(t)
	n := NewNode("p1", "paragraph")
	n.Properties["content"] = "Hello"
	must(t, s.Apply(&CreateOp{Node: n}))

	clone := s.Clone()
	must(t, clone.Apply(&SetOp{P: Path{NodeID: "p1", Property: "content"}, Value: "Changed"}))

	orig, _ := s.Get("p1")
	if v, _ := orig.Str("content"); v != "Hello" {
		t.Fatalf("mutating clone leaked into original: content = %q", v)
	}
}

func TestTypeIndexTracksMembership(t *testing.T) {
	s := newTestStore(t)
	must(t, s.Apply(&CreateOp{Node: NewNode("p1", "paragraph")}))
	must(t, s.Apply(&CreateOp{Node: NewNode("p2", "paragraph")}))

	idx, ok := s.IndexByType(func(i Index) bool { _, ok := i.(*TypeIndex); return ok })
	if !ok {
		t.Fatal("expected a TypeIndex to be registered")
	}
	ti := idx.(*TypeIndex)
	ids := ti.IDsByType("paragraph")
	if len(ids) != 2 {
		t.Fatalf("IDsByType(paragraph) = %v, want 2 ids", ids)
	}

	must(t, s.Apply(&DeleteOp{ID: "p1"}))
	ids = ti.IDsByType("paragraph")
	if len(ids) != 1 || ids[0] != "p2" {
		t.Fatalf("after delete, IDsByType(paragraph) = %v, want [p2]", ids)
	}
}
