// Package substance provides the public surface for embedding the
// document editor core in a Go program: schema registration, the node
// store, transactional mutation, undo/redo history, path-scoped change
// notification, selections, clipboard import/export, and snapshot
// persistence.
//
// Most callers only need Document; the internal/* packages it wires
// together are usable standalone for programs that want just one layer
// (e.g. just the store, with their own transaction discipline).
package substance

import (
	"time"

	"github.com/substancehq/substance/internal/annotation"
	"github.com/substancehq/substance/internal/change"
	"github.com/substancehq/substance/internal/clipboard"
	"github.com/substancehq/substance/internal/container"
	"github.com/substancehq/substance/internal/containerindex"
	"github.com/substancehq/substance/internal/eventbus"
	"github.com/substancehq/substance/internal/idgen"
	"github.com/substancehq/substance/internal/query"
	"github.com/substancehq/substance/internal/schema"
	"github.com/substancehq/substance/internal/selection"
	"github.com/substancehq/substance/internal/snapshot"
	"github.com/substancehq/substance/internal/store"
	"github.com/substancehq/substance/internal/surface"
	"github.com/substancehq/substance/internal/txn"
)

// Re-exported core types, so callers don't need to import internal/*
// directly for the common path.
type (
	Schema          = schema.Schema
	NodeClass       = schema.NodeClass
	PropertySpec    = schema.PropertySpec
	Role            = schema.Role
	Node            = store.Node
	Path            = store.Path
	Op              = store.Op
	CreateOp        = store.CreateOp
	DeleteOp        = store.DeleteOp
	SetOp           = store.SetOp
	UpdateOp        = store.UpdateOp
	DocumentChange  = change.DocumentChange
	Selection       = selection.Selection
	PropertySel     = selection.Property
	ContainerSel    = selection.Container
	Coordinate      = surface.Coordinate
	Fragment        = clipboard.Fragment
	Generator       = idgen.Generator
)

// Node roles, re-exported for schema construction without an internal
// import.
const (
	RoleText                = schema.RoleText
	RoleContainer           = schema.RoleContainer
	RoleAnnotation          = schema.RoleAnnotation
	RoleContainerAnnotation = schema.RoleContainerAnnotation
)

// Document glues the store, transaction manager, history, event bus and
// supporting indices into one handle. NewDocument is the entry point most
// embedders want; the zero value is not usable.
type Document struct {
	schema  *schema.Schema
	manager *txn.Manager
	bus     *eventbus.Bus

	containerIdx *containerindex.Index
	propertyIdx  *annotation.PropertyIndex
}

// Option configures a Document at construction time.
type Option func(*documentOptions)

type documentOptions struct {
	generator         idgen.Generator
	forceTransactions bool
}

// WithGenerator overrides the default UUID-based id generator.
func WithGenerator(g idgen.Generator) Option {
	return func(o *documentOptions) { o.generator = g }
}

// WithForceTransactions disallows ApplyDirect-style mutation outside a
// transaction, matching the DocumentConfig field of the same name.
func WithForceTransactions(force bool) Option {
	return func(o *documentOptions) { o.forceTransactions = force }
}

// NewDocument builds an empty document bound to sch, with the property and
// container-annotation indices registered alongside the required type
// index.
func NewDocument(sch *schema.Schema, opts ...Option) *Document {
	cfg := &documentOptions{generator: idgen.UUIDGenerator{}}
	for _, opt := range opts {
		opt(cfg)
	}

	live := store.New(sch, cfg.generator, containerindex.Factory, annotation.Factory)

	containerIdx, _ := live.IndexByType(func(i store.Index) bool {
		_, ok := i.(*containerindex.Index)
		return ok
	})
	propertyIdx, _ := live.IndexByType(func(i store.Index) bool {
		_, ok := i.(*annotation.PropertyIndex)
		return ok
	})

	return &Document{
		schema:       sch,
		manager:      txn.NewManager(live, cfg.forceTransactions),
		bus:          eventbus.New(nil),
		containerIdx: containerIdx.(*containerindex.Index),
		propertyIdx:  propertyIdx.(*annotation.PropertyIndex),
	}
}

// Schema returns the schema the document validates against.
func (d *Document) Schema() *schema.Schema { return d.schema }

// Store returns the live, committed node table.
func (d *Document) Store() *store.Store { return d.manager.Live() }

// Bus returns the event proxy fan-out for this document.
func (d *Document) Bus() *eventbus.Bus { return d.bus }

// History returns the undo/redo stack.
func (d *Document) History() *change.History { return d.manager.History() }

// Transact runs fn inside a transaction and dispatches the resulting
// DocumentChange to the event bus on commit.
func (d *Document) Transact(before, info map[string]any, fn txn.Transform) (*change.DocumentChange, error) {
	chg, err := d.manager.Run(before, info, fn)
	if err != nil || chg == nil {
		return chg, err
	}
	d.bus.Dispatch(chg)
	return chg, nil
}

// ApplyDirect mutates the live store outside a transaction. Disabled when
// the document was constructed with WithForceTransactions(true).
func (d *Document) ApplyDirect(op store.Op) error {
	return d.manager.ApplyDirect(op)
}

// SpliceText splices a text node's content property and shifts every
// property-scoped annotation anchored to path so it keeps pointing at the
// same characters, all within a single transaction.
func (d *Document) SpliceText(path store.Path, pos, deleteCount int, insert string) (*change.DocumentChange, error) {
	return d.Transact(nil, map[string]any{"command": "splice-text", "path": path.String()}, func(stage *txn.Stage) (map[string]any, error) {
		splice := store.StringSplice{Pos: pos, Delete: deleteCount, Insert: insert}
		if err := stage.Apply(&store.UpdateOp{P: path, D: splice}); err != nil {
			return nil, err
		}
		for _, op := range annotation.ShiftForSplice(d.propertyIdx, path, pos, deleteCount, len([]rune(insert))) {
			if err := stage.Apply(op); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// Undo reverts the most recent committed change and dispatches it.
func (d *Document) Undo() (*change.DocumentChange, error) {
	chg, err := d.manager.Undo()
	if err != nil || chg == nil {
		return chg, err
	}
	d.bus.Dispatch(chg)
	return chg, nil
}

// Redo reapplies the most recently undone change and dispatches it.
func (d *Document) Redo() (*change.DocumentChange, error) {
	chg, err := d.manager.Redo()
	if err != nil || chg == nil {
		return chg, err
	}
	d.bus.Dispatch(chg)
	return chg, nil
}

// ContainerAnnotations returns every container-annotation index entry
// whose span overlaps sel within containerID.
func (d *Document) ContainerAnnotations(containerID string, sel selection.Container, typeFilter string) []containerindex.Record {
	order := container.StoreOrder{Store: d.Store()}
	return d.containerIdx.Get(containerID, sel, order, typeFilter)
}

// ContainerAnnotationsWhere narrows ContainerAnnotations by a boolean
// filter expression instead of a selection (docctl query's <where>
// argument together with --container).
func (d *Document) ContainerAnnotationsWhere(containerID, where string) ([]containerindex.Record, error) {
	return d.containerIdx.Where(containerID, where)
}

// PropertyAnnotations returns every property-scoped annotation anchored to
// path whose [start,end] range overlaps the given interval, optionally
// narrowed to typeFilter.
func (d *Document) PropertyAnnotations(path store.Path, start, end int, typeFilter string) []annotation.Record {
	return d.propertyIdx.Get(path, start, end, typeFilter)
}

// Snapshot captures the current document for persistence.
func (d *Document) Snapshot() *snapshot.Snapshot {
	return snapshot.Save(d.Store(), d.schema.Name, d.schema.Version)
}

// Restore loads ops from snap and applies them directly to the live
// store, bypassing the transaction/history machinery (a fresh load is not
// an undoable edit).
func (d *Document) Restore(snap *snapshot.Snapshot) error {
	ops, err := snapshot.Load(d.schema, snap)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := d.Store().Apply(op); err != nil {
			return err
		}
	}
	return nil
}

// QueryNode reports whether a single node satisfies a boolean filter
// expression, the evaluator docctl's query subcommand uses for its <where>
// argument.
func QueryNode(where string, n *store.Node, now time.Time) (bool, error) {
	return query.Evaluate(where, now, query.Record{ID: n.ID, Type: n.Type, Properties: n.Properties})
}
