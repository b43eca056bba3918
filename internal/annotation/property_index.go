// Package annotation implements the property-scoped annotation index
// and the algorithm for keeping annotation offsets in sync
// when the text they anchor to is spliced.
package annotation

import (
	"sort"

	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/store"
)

// Record is the lightweight, index-local view of an annotation: just
// enough to answer overlap queries without dereferencing the store. The
// full node (and any other properties) is still fetched from the store by
// id when a caller needs it.
type Record struct {
	ID    string
	Type  string
	Start int
	End   int
}

// PropertyIndex maintains, per text path, a sorted-by-start list of
// annotation records.
type PropertyIndex struct {
	sch    *schema.Schema
	byPath map[store.Path][]Record
}

// NewPropertyIndex builds an empty index bound to sch. It satisfies
// store.IndexFactory via the adapter below.
func NewPropertyIndex(sch *schema.Schema) *PropertyIndex {
	return &PropertyIndex{sch: sch, byPath: map[store.Path][]Record{}}
}

// Factory adapts NewPropertyIndex to store.IndexFactory.
func Factory(sch *schema.Schema) store.Index { return NewPropertyIndex(sch) }

func (idx *PropertyIndex) OnCreate(n *store.Node) {
	if !idx.sch.IsAnnotationType(n.Type) {
		return
	}
	path, ok := recordPath(n)
	if !ok {
		return
	}
	start, _ := n.Int("startOffset")
	end, _ := n.Int("endOffset")
	idx.insert(path, Record{ID: n.ID, Type: n.Type, Start: start, End: end})
}

func (idx *PropertyIndex) OnDelete(n *store.Node) {
	if !idx.sch.IsAnnotationType(n.Type) {
		return
	}
	path, ok := recordPath(n)
	if !ok {
		return
	}
	idx.remove(path, n.ID)
}

func (idx *PropertyIndex) OnSet(n *store.Node, path store.Path, oldVal, newVal any) {
	if !idx.sch.IsAnnotationType(n.Type) {
		return
	}
	idx.resyncFromNode(n)
}

func (idx *PropertyIndex) OnUpdate(n *store.Node, path store.Path, diff store.Diff) {
	if !idx.sch.IsAnnotationType(n.Type) {
		return
	}
	idx.resyncFromNode(n)
}

// resyncFromNode removes and re-inserts n's record from its current
// property values. It is simpler and just as cheap as patching the record
// in place for the offset/path fields that change during Set/Update.
func (idx *PropertyIndex) resyncFromNode(n *store.Node) {
	for p, records := range idx.byPath {
		for _, r := range records {
			if r.ID == n.ID {
				idx.remove(p, n.ID)
				break
			}
		}
	}
	path, ok := recordPath(n)
	if !ok {
		return
	}
	start, _ := n.Int("startOffset")
	end, _ := n.Int("endOffset")
	idx.insert(path, Record{ID: n.ID, Type: n.Type, Start: start, End: end})
}

func recordPath(n *store.Node) (store.Path, bool) {
	v, ok := n.Properties["path"]
	if !ok {
		return store.Path{}, false
	}
	p, ok := v.(store.Path)
	return p, ok
}

func (idx *PropertyIndex) insert(path store.Path, r Record) {
	list := idx.byPath[path]
	i := sort.Search(len(list), func(i int) bool { return list[i].Start >= r.Start })
	list = append(list, Record{})
	copy(list[i+1:], list[i:])
	list[i] = r
	idx.byPath[path] = list
}

func (idx *PropertyIndex) remove(path store.Path, id string) {
	list := idx.byPath[path]
	for i, r := range list {
		if r.ID == id {
			idx.byPath[path] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Get returns every annotation anchored to path whose [Start,End] range
// intersects the closed interval [start,end], optionally narrowed to
// typeFilter. A zero-length query (start == end) matches any annotation
// containing that offset.
func (idx *PropertyIndex) Get(path store.Path, start, end int, typeFilter string) []Record {
	list := idx.byPath[path]
	var out []Record
	for _, r := range list {
		if r.Start > end {
			break // sorted by Start; nothing further can overlap [start,end]
		}
		if r.End < start {
			continue
		}
		if typeFilter != "" && r.Type != typeFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}
