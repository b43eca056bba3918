package container

import (
	"testing"

	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/store"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New("notes", "1.0")
	if err := s.AddNodeClass(schema.NodeClass{Name: "paragraph", Role: schema.RoleText}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNodeClass(schema.NodeClass{Name: "body", Role: schema.RoleContainer}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDefaultTextType("paragraph"); err != nil {
		t.Fatal(err)
	}
	s.Freeze()
	return s
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testSchema(t), idgen.UUIDGenerator{})
}

func mustApply(t *testing.T, s *store.Store, op store.Op) {
	t.Helper()
	if err := s.Apply(op); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestShowAppendsAndHideRemoves(t *testing.T) {
	s := newStore(t)
	body := store.NewNode("body1", "body")
	mustApply(t, s, &store.CreateOp{Node: body})
	mustApply(t, s, &store.CreateOp{Node: store.NewNode("p1", "paragraph")})
	mustApply(t, s, &store.CreateOp{Node: store.NewNode("p2", "paragraph")})

	bodyNode, _ := s.Get("body1")
	mustApply(t, s, Show(bodyNode, "p1", -1))
	bodyNode, _ = s.Get("body1")
	mustApply(t, s, Show(bodyNode, "p2", -1))

	bodyNode, _ = s.Get("body1")
	if got := Nodes(bodyNode); len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Fatalf("Nodes = %v, want [p1 p2]", got)
	}

	pos, ok := GetPosition(bodyNode, "p2")
	if !ok || pos != 1 {
		t.Fatalf("GetPosition(p2) = %d,%v want 1,true", pos, ok)
	}

	hideOp, err := Hide(bodyNode, "p1")
	if err != nil {
		t.Fatal(err)
	}
	mustApply(t, s, hideOp)
	bodyNode, _ = s.Get("body1")
	if got := Nodes(bodyNode); len(got) != 1 || got[0] != "p2" {
		t.Fatalf("Nodes after hide = %v, want [p2]", got)
	}
}

func TestHideUnknownIDFails(t *testing.T) {
	s := newStore(t)
	body := store.NewNode("body1", "body")
	mustApply(t, s, &store.CreateOp{Node: body})
	bodyNode, _ := s.Get("body1")
	if _, err := Hide(bodyNode, "missing"); err == nil {
		t.Fatal("expected error hiding an id that was never shown")
	}
}

func TestStoreOrderResolvesPosition(t *testing.T) {
	s := newStore(t)
	mustApply(t, s, &store.CreateOp{Node: store.NewNode("body1", "body")})
	mustApply(t, s, &store.CreateOp{Node: store.NewNode("p1", "paragraph")})
	bodyNode, _ := s.Get("body1")
	mustApply(t, s, Show(bodyNode, "p1", -1))

	order := StoreOrder{Store: s}
	pos, ok := order.Position("body1", "p1")
	if !ok || pos != 0 {
		t.Fatalf("Position = %d,%v want 0,true", pos, ok)
	}
	if _, ok := order.Position("body1", "missing"); ok {
		t.Fatal("expected ok=false for a node not in the container")
	}
}
