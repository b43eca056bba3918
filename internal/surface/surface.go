// Package surface implements the coordinate resolver: translating between
// DOM positions in a rendered contenteditable subtree and model coordinates
// (a property path plus an offset into its text).
package surface

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/store"
)

const (
	dataPathAttr     = "data-path"
	dataExternalAttr = "data-external"
)

// Coordinate is a model position: a property path plus an offset into its
// text content.
type Coordinate struct {
	Path   store.Path
	Offset int
}

// Direction picks which way coordinate search looks when the DOM position
// doesn't fall under any data-path element.
type Direction int

const (
	DirForward Direction = iota
	DirLeft
)

func attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isExternal(n *html.Node) bool {
	v, ok := attr(n, dataExternalAttr)
	return ok && v != "" && v != "0" && v != "false"
}

func parsePath(s string) (store.Path, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return store.Path{}, fmt.Errorf("%w: malformed data-path %q", docerr.ErrCoordinateNotFound, s)
	}
	return store.Path{NodeID: s[:i], Property: s[i+1:]}, nil
}

func nearestDataPathAncestor(n *html.Node) (*html.Node, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if _, ok := attr(cur, dataPathAttr); ok {
			return cur, true
		}
	}
	return nil, false
}

// textLen sums the text content under n, skipping any subtree rooted at an
// element marked data-external.
func textLen(n *html.Node) int {
	if isExternal(n) {
		return 0
	}
	if n.Type == html.TextNode {
		return len(n.Data)
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLen(c)
	}
	return total
}

// offsetWalker accumulates the text length preceding a target DOM position
// within a single data-path ancestor's subtree.
type offsetWalker struct {
	target       *html.Node
	targetOffset int
	acc          int
	found        bool
	result       int
}

func (w *offsetWalker) visit(n *html.Node) {
	if w.found {
		return
	}
	if n == w.target {
		if n.Type == html.TextNode {
			off := w.targetOffset
			if off < 0 {
				off = 0
			}
			if off > len(n.Data) {
				off = len(n.Data)
			}
			w.result = w.acc + off
		} else {
			idx := 0
			for c := n.FirstChild; c != nil && idx < w.targetOffset; c = c.NextSibling {
				w.acc += textLen(c)
				idx++
			}
			w.result = w.acc
		}
		w.found = true
		return
	}
	if isExternal(n) {
		return
	}
	if n.Type == html.TextNode {
		w.acc += len(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
		if w.found {
			return
		}
	}
}

func preorder(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !preorder(c, visit) {
			return false
		}
	}
	return true
}

// DOMToModel resolves a (domNode, domOffset) DOM position to a model
// Coordinate within root's subtree. If domNode falls under an element
// carrying data-path, the offset is the accumulated text length of
// preceding non-external descendants. Otherwise it falls back to
// coordinate search in dir.
func DOMToModel(root, domNode *html.Node, domOffset int, dir Direction) (Coordinate, error) {
	if domNode == nil {
		return Coordinate{}, docerr.ErrCoordinateNotFound
	}
	if anc, ok := nearestDataPathAncestor(domNode); ok {
		pathAttr, _ := attr(anc, dataPathAttr)
		path, err := parsePath(pathAttr)
		if err != nil {
			return Coordinate{}, err
		}
		w := &offsetWalker{target: domNode, targetOffset: domOffset}
		for c := anc.FirstChild; c != nil; c = c.NextSibling {
			w.visit(c)
			if w.found {
				break
			}
		}
		if !w.found {
			return Coordinate{Path: path, Offset: 0}, nil
		}
		return Coordinate{Path: path, Offset: w.result}, nil
	}
	return coordinateSearch(root, domNode, dir)
}

func coordinateSearch(root, domNode *html.Node, dir Direction) (Coordinate, error) {
	var all []*html.Node
	preorder(root, func(n *html.Node) bool { all = append(all, n); return true })

	domIdx := -1
	for i, n := range all {
		if n == domNode {
			domIdx = i
			break
		}
	}
	if domIdx < 0 {
		domIdx = 0
	}

	if dir == DirForward {
		for i := domIdx; i < len(all); i++ {
			if p, ok := attr(all[i], dataPathAttr); ok {
				path, err := parsePath(p)
				if err != nil {
					return Coordinate{}, err
				}
				return Coordinate{Path: path, Offset: 0}, nil
			}
		}
		return Coordinate{}, docerr.ErrCoordinateNotFound
	}

	for i := domIdx; i >= 0; i-- {
		if p, ok := attr(all[i], dataPathAttr); ok {
			path, err := parsePath(p)
			if err != nil {
				return Coordinate{}, err
			}
			return Coordinate{Path: path, Offset: textLen(all[i])}, nil
		}
	}
	return Coordinate{}, docerr.ErrCoordinateNotFound
}

func findByDataPath(root *html.Node, pathStr string) *html.Node {
	var found *html.Node
	preorder(root, func(n *html.Node) bool {
		if p, ok := attr(n, dataPathAttr); ok && p == pathStr {
			found = n
			return false
		}
		return true
	})
	return found
}

type domLocator struct {
	targetOffset int
	acc          int
	found        bool
	node         *html.Node
	local        int
}

func (w *domLocator) visit(n *html.Node) {
	if w.found || isExternal(n) {
		return
	}
	if n.Type == html.TextNode {
		l := len(n.Data)
		if w.acc+l >= w.targetOffset {
			w.node = n
			w.local = w.targetOffset - w.acc
			w.found = true
			return
		}
		w.acc += l
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
		if w.found {
			return
		}
	}
}

// ModelToDOM locates the element carrying data-path==coord.Path.String()
// within root's subtree, then returns the text node and local offset
// coord.Offset resolves to.
func ModelToDOM(root *html.Node, coord Coordinate) (*html.Node, int, error) {
	target := findByDataPath(root, coord.Path.String())
	if target == nil {
		return nil, 0, docerr.ErrCoordinateNotFound
	}
	w := &domLocator{targetOffset: coord.Offset}
	for c := target.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
		if w.found {
			break
		}
	}
	if !w.found {
		return target, 0, nil
	}
	return w.node, w.local, nil
}
