// Package docerr defines the sentinel errors shared across the document
// core, matching the taxonomy in the design spec's error handling section.
package docerr

import "errors"

// Schema violations. Fatal to the call that triggered them, never to the
// document itself.
var (
	ErrUnknownNodeType = errors.New("substance: unknown node type")
	ErrSchemaConflict  = errors.New("substance: schema conflict")
)

// ErrInvalidOperation covers an op that references a nonexistent id, an
// out-of-range offset, or a type mismatch. The transaction that produced it
// is always safe to cancel; it is never partially applied.
var ErrInvalidOperation = errors.New("substance: invalid operation")

// ErrNestedTransaction is returned by txn.Manager.Run when a transaction
// is already active.
var ErrNestedTransaction = errors.New("substance: transaction already active")

// History exhaustion. Callers are expected to surface these, not treat them
// as fatal.
var (
	ErrNoChangeToUndo = errors.New("substance: nothing to undo")
	ErrNoChangeToRedo = errors.New("substance: nothing to redo")
)

// ErrCoordinateNotFound is returned when a DOM point lies entirely outside
// any property and no search direction yields a hit.
var ErrCoordinateNotFound = errors.New("substance: coordinate not found")
