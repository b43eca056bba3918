package surface

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/substancehq/substance/internal/store"
)

func elem(tag string, attrs map[string]string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for k, v := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func buildDoc() (root, p1Span, worldText, p2Span *html.Node) {
	bullet := elem("span", map[string]string{"data-external": "1"}, text("•"))
	strong := elem("strong", nil, text("World"))
	worldText = strong.FirstChild
	p1Span = elem("span", map[string]string{"data-path": "p1.content"}, bullet, text("Hello "), strong)
	between := text(" ")
	p2Span = elem("span", map[string]string{"data-path": "p2.content"}, text("Next"))
	root = elem("div", nil, p1Span, between, p2Span)
	return
}

func TestDOMToModelSkipsExternalAndWalksNestedSpans(t *testing.T) {
	root, _, worldText, _ := buildDoc()
	coord, err := DOMToModel(root, worldText, 3, DirForward)
	if err != nil {
		t.Fatal(err)
	}
	if coord.Path != (store.Path{NodeID: "p1", Property: "content"}) {
		t.Fatalf("Path = %v", coord.Path)
	}
	if coord.Offset != len("Hello ")+3 {
		t.Fatalf("Offset = %d, want %d", coord.Offset, len("Hello ")+3)
	}
}

func TestDOMToModelCoordinateSearchForward(t *testing.T) {
	root, _, _, _ := buildDoc()
	between := root.FirstChild.NextSibling // the bare text node between the two spans
	coord, err := DOMToModel(root, between, 0, DirForward)
	if err != nil {
		t.Fatal(err)
	}
	if coord.Path != (store.Path{NodeID: "p2", Property: "content"}) || coord.Offset != 0 {
		t.Fatalf("coord = %+v, want p2.content:0", coord)
	}
}

func TestDOMToModelCoordinateSearchLeft(t *testing.T) {
	root, _, _, _ := buildDoc()
	between := root.FirstChild.NextSibling
	coord, err := DOMToModel(root, between, 0, DirLeft)
	if err != nil {
		t.Fatal(err)
	}
	want := len("Hello ") + len("World")
	if coord.Path != (store.Path{NodeID: "p1", Property: "content"}) || coord.Offset != want {
		t.Fatalf("coord = %+v, want p1.content:%d", coord, want)
	}
}

func TestDOMToModelEmptyPropertyReturnsZero(t *testing.T) {
	empty := elem("span", map[string]string{"data-path": "p3.content"})
	root := elem("div", nil, empty)
	coord, err := DOMToModel(root, empty, 0, DirForward)
	if err != nil {
		t.Fatal(err)
	}
	if coord.Offset != 0 {
		t.Fatalf("Offset = %d, want 0", coord.Offset)
	}
}

func TestModelToDOMRoundTrip(t *testing.T) {
	root, p1Span, worldText, _ := buildDoc()
	_ = p1Span
	node, local, err := ModelToDOM(root, Coordinate{Path: store.Path{NodeID: "p1", Property: "content"}, Offset: len("Hello ") + 3})
	if err != nil {
		t.Fatal(err)
	}
	if node != worldText || local != 3 {
		t.Fatalf("ModelToDOM = (%v,%d), want (World text node, 3)", node.Data, local)
	}
}

func TestModelToDOMEndOfPropertyIsValid(t *testing.T) {
	root, _, _, _ := buildDoc()
	total := len("Hello ") + len("World")
	node, local, err := ModelToDOM(root, Coordinate{Path: store.Path{NodeID: "p1", Property: "content"}, Offset: total})
	if err != nil {
		t.Fatal(err)
	}
	if node.Data != "World" || local != len("World") {
		t.Fatalf("ModelToDOM end = (%q,%d)", node.Data, local)
	}
}

func TestModelToDOMUnknownPathFails(t *testing.T) {
	root, _, _, _ := buildDoc()
	if _, _, err := ModelToDOM(root, Coordinate{Path: store.Path{NodeID: "missing", Property: "content"}}); err == nil {
		t.Fatal("expected ErrCoordinateNotFound for an unknown path")
	}
}
