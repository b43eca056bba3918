package containerindex

import (
	"testing"

	"github.com/substancehq/substance/internal/container"
	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/selection"
	"github.com/substancehq/substance/internal/store"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New("notes", "1.0")
	must(t, s.AddNodeClass(schema.NodeClass{Name: "paragraph", Role: schema.RoleText}))
	must(t, s.AddNodeClass(schema.NodeClass{Name: "body", Role: schema.RoleContainer}))
	must(t, s.AddNodeClass(schema.NodeClass{Name: "comment", Role: schema.RoleContainerAnnotation}))
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

func TestIndexTracksContainerAnnotations(t *testing.T) {
	sch := testSchema(t)
	s := store.New(sch, idgen.UUIDGenerator{}, Factory)
	must(t, s.Apply(&store.CreateOp{Node: store.NewNode("body1", "body")}))
	must(t, s.Apply(&store.CreateOp{Node: store.NewNode("p1", "paragraph")}))
	must(t, s.Apply(&store.CreateOp{Node: store.NewNode("p2", "paragraph")}))
	must(t, s.Apply(&store.CreateOp{Node: store.NewNode("p3", "paragraph")}))

	bodyNode, _ := s.Get("body1")
	must(t, s.Apply(container.Show(bodyNode, "p1", -1)))
	bodyNode, _ = s.Get("body1")
	must(t, s.Apply(container.Show(bodyNode, "p2", -1)))
	bodyNode, _ = s.Get("body1")
	must(t, s.Apply(container.Show(bodyNode, "p3", -1)))

	c := store.NewNode("c1", "comment")
	c.Properties["container"] = "body1"
	c.Properties["startPath"] = store.Path{NodeID: "p1", Property: "content"}
	c.Properties["startOffset"] = 0
	c.Properties["endPath"] = store.Path{NodeID: "p2", Property: "content"}
	c.Properties["endOffset"] = 0
	c.Properties["resolved"] = "false"
	must(t, s.Apply(&store.CreateOp{Node: c}))

	idx, ok := s.IndexByType(func(i store.Index) bool { _, ok := i.(*Index); return ok })
	if !ok {
		t.Fatal("expected a container annotation Index to be registered")
	}
	ci := idx.(*Index)

	recs := ci.ForContainer("body1", "")
	if len(recs) != 1 || recs[0].ID != "c1" {
		t.Fatalf("ForContainer = %v, want [c1]", recs)
	}

	order := container.StoreOrder{Store: s}

	overlapping := selection.Container{
		ContainerID: "body1",
		StartPath:   store.Path{NodeID: "p1", Property: "content"},
		EndPath:     store.Path{NodeID: "p1", Property: "content"},
	}
	got := ci.Get("body1", overlapping, order, "")
	if len(got) != 1 {
		t.Fatalf("Get(overlapping) = %v, want 1 match", got)
	}

	nonOverlapping := selection.Container{
		ContainerID: "body1",
		StartPath:   store.Path{NodeID: "p3", Property: "content"},
		EndPath:     store.Path{NodeID: "p3", Property: "content"},
	}
	got = ci.Get("body1", nonOverlapping, order, "")
	if len(got) != 0 {
		t.Fatalf("Get(nonOverlapping) = %v, want no matches", got)
	}

	resolved, err := ci.Where("body1", "type=comment AND resolved=false")
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved) != 1 || resolved[0].ID != "c1" {
		t.Fatalf("Where(unresolved comment) = %v, want [c1]", resolved)
	}

	none, err := ci.Where("body1", "type=comment AND resolved=true")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("Where(resolved comment) = %v, want none", none)
	}

	must(t, s.Apply(&store.DeleteOp{ID: "c1"}))
	if recs := ci.ForContainer("body1", ""); len(recs) != 0 {
		t.Fatalf("ForContainer after delete = %v, want none", recs)
	}
}
