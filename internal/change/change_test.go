package change

import (
	"testing"

	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	sch := schema.New("notes", "1.0")
	if err := sch.AddNodeClass(schema.NodeClass{Name: "paragraph", Role: schema.RoleText}); err != nil {
		t.Fatal(err)
	}
	if err := sch.SetDefaultTextType("paragraph"); err != nil {
		t.Fatal(err)
	}
	sch.Freeze()
	return store.New(sch, idgen.UUIDGenerator{})
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := testStore(t)
	n := store.NewNode("p1", "paragraph")
	n.Properties["content"] = "Hello"
	create := &store.CreateOp{Node: n}
	if err := s.Apply(create); err != nil {
		t.Fatal(err)
	}

	h := NewHistory()
	h.Push(&DocumentChange{Ops: []store.Op{create}})

	if _, err := h.Undo(s); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, ok := s.Get("p1"); ok {
		t.Fatal("expected p1 gone after undo")
	}
	if !h.CanRedo() {
		t.Fatal("expected CanRedo after an undo")
	}

	if _, err := h.Redo(s); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	got, ok := s.Get("p1")
	if !ok {
		t.Fatal("expected p1 back after redo")
	}
	if v, _ := got.Str("content"); v != "Hello" {
		t.Fatalf("content = %q, want Hello", v)
	}
}

func TestUndoWithNothingToUndoFails(t *testing.T) {
	s := testStore(t)
	h := NewHistory()
	if _, err := h.Undo(s); err == nil {
		t.Fatal("expected ErrNoChangeToUndo")
	}
}

func TestPushClearsRedoStack(t *testing.T) {
	s := testStore(t)
	n1 := &store.CreateOp{Node: store.NewNode("p1", "paragraph")}
	n2 := &store.CreateOp{Node: store.NewNode("p2", "paragraph")}
	must(t, s.Apply(n1))
	must(t, s.Apply(n2))

	h := NewHistory()
	h.Push(&DocumentChange{Ops: []store.Op{n1}})
	h.Push(&DocumentChange{Ops: []store.Op{n2}})

	if _, err := h.Undo(s); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected a pending redo")
	}

	h.Push(&DocumentChange{Ops: nil})
	if h.CanRedo() {
		t.Fatal("expected Push to clear the redo stack")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
