// Package containerindex maintains the index of container-scoped
// annotations: records that span one or more children of a container
// rather than a single text property. Unlike the property index, it does
// not keep candidates sorted by offset, since a candidate's spatial extent
// depends on its container's live child order — callers overlap-test each
// candidate against the query selection at query time instead.
package containerindex

import (
	"time"

	"github.com/substancehq/substance/internal/query"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/selection"
	"github.com/substancehq/substance/internal/store"
)

// Record is the index-local view of a container annotation.
type Record struct {
	ID          string
	Type        string
	ContainerID string
	StartPath   store.Path
	StartOffset int
	EndPath     store.Path
	EndOffset   int
	Properties  map[string]any
}

func (r Record) selection() selection.Container {
	return selection.Container{
		ContainerID: r.ContainerID,
		StartPath:   r.StartPath,
		StartOffset: r.StartOffset,
		EndPath:     r.EndPath,
		EndOffset:   r.EndOffset,
	}
}

// Index tracks every container annotation by id, plus a reverse lookup by
// the container it targets.
type Index struct {
	sch         *schema.Schema
	byID        map[string]Record
	byContainer map[string][]string // container id -> annotation ids, insertion order
}

// New builds an empty index bound to sch.
func New(sch *schema.Schema) *Index {
	return &Index{sch: sch, byID: map[string]Record{}, byContainer: map[string][]string{}}
}

// Factory adapts New to store.IndexFactory.
func Factory(sch *schema.Schema) store.Index { return New(sch) }

func recordFromNode(n *store.Node) (Record, bool) {
	container, ok := n.Str("container")
	if !ok || container == "" {
		return Record{}, false
	}
	startPath, ok := n.Properties["startPath"].(store.Path)
	if !ok {
		return Record{}, false
	}
	endPath, ok := n.Properties["endPath"].(store.Path)
	if !ok {
		return Record{}, false
	}
	startOffset, _ := n.Int("startOffset")
	endOffset, _ := n.Int("endOffset")
	return Record{
		ID: n.ID, Type: n.Type, ContainerID: container,
		StartPath: startPath, StartOffset: startOffset,
		EndPath: endPath, EndOffset: endOffset,
		Properties: n.Properties,
	}, true
}

func (idx *Index) OnCreate(n *store.Node) {
	if !idx.sch.IsContainerAnnotationType(n.Type) {
		return
	}
	r, ok := recordFromNode(n)
	if !ok {
		return
	}
	idx.byID[r.ID] = r
	idx.byContainer[r.ContainerID] = append(idx.byContainer[r.ContainerID], r.ID)
}

func (idx *Index) OnDelete(n *store.Node) {
	r, ok := idx.byID[n.ID]
	if !ok {
		return
	}
	delete(idx.byID, n.ID)
	idx.removeFromContainer(r.ContainerID, n.ID)
}

func (idx *Index) OnSet(n *store.Node, path store.Path, oldVal, newVal any) {
	idx.resync(n)
}

func (idx *Index) OnUpdate(n *store.Node, path store.Path, diff store.Diff) {
	idx.resync(n)
}

// resync drops n's old record (if any) and reinserts from its current
// property values, since a container annotation's container or span can
// change with any Set/Update.
func (idx *Index) resync(n *store.Node) {
	if old, ok := idx.byID[n.ID]; ok {
		delete(idx.byID, n.ID)
		idx.removeFromContainer(old.ContainerID, n.ID)
	}
	if !idx.sch.IsContainerAnnotationType(n.Type) {
		return
	}
	r, ok := recordFromNode(n)
	if !ok {
		return
	}
	idx.byID[r.ID] = r
	idx.byContainer[r.ContainerID] = append(idx.byContainer[r.ContainerID], r.ID)
}

func (idx *Index) removeFromContainer(containerID, id string) {
	list := idx.byContainer[containerID]
	for i, existing := range list {
		if existing == id {
			idx.byContainer[containerID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ForContainer returns every container annotation targeting containerID,
// optionally narrowed to typeFilter, with no ordering guarantee beyond
// insertion order.
func (idx *Index) ForContainer(containerID, typeFilter string) []Record {
	var out []Record
	for _, id := range idx.byContainer[containerID] {
		r := idx.byID[id]
		if typeFilter != "" && r.Type != typeFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Get returns every annotation in containerID whose span overlaps sel, per
// order (the container's current child positions), optionally narrowed to
// typeFilter. No spatial acceleration structure is used; callers that
// expect many annotations per container should pre-filter by type.
func (idx *Index) Get(containerID string, sel selection.Container, order selection.Order, typeFilter string) []Record {
	var out []Record
	for _, r := range idx.ForContainer(containerID, typeFilter) {
		if r.selection().Overlaps(sel, order) {
			out = append(out, r)
		}
	}
	return out
}

// Where returns every annotation in containerID that satisfies the boolean
// filter expression where (e.g. "type=comment AND resolved=false"), the
// same grammar docctl's query subcommand accepts as its <where> argument.
func (idx *Index) Where(containerID, where string) ([]Record, error) {
	node, err := query.Parse(where)
	if err != nil {
		return nil, err
	}
	eval := query.NewEvaluator(time.Now())
	var out []Record
	for _, r := range idx.ForContainer(containerID, "") {
		match, err := eval.Match(node, query.Record{ID: r.ID, Type: r.Type, Properties: r.Properties})
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, r)
		}
	}
	return out, nil
}
