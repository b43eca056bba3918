// Package change implements DocumentChange and the undo/redo history
// stack built from it.
package change

import (
	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/store"
)

// DocumentChange is an ordered list of ops plus the before/after state
// snapshot (e.g. selections) the transformation that produced it reported,
// and an info bag passed through to listeners. Replay marks a change
// produced by Undo/Redo rather than a direct commit.
type DocumentChange struct {
	Ops         []store.Op
	BeforeState map[string]any
	AfterState  map[string]any
	Info        map[string]any
	Replay      bool
}

// History is the done/undone stack pair. Undo pops from done, inverts the
// change's ops in reverse order, applies the inversion, and pushes the
// original change onto undone. Redo is symmetric. Any non-replay Push
// clears undone.
type History struct {
	done   []*DocumentChange
	undone []*DocumentChange
}

func NewHistory() *History { return &History{} }

// Push records a freshly committed (non-replay) change and clears the redo
// stack, per the "any non-replay commit clears undone" rule.
func (h *History) Push(c *DocumentChange) {
	h.done = append(h.done, c)
	h.undone = nil
}

func (h *History) CanUndo() bool { return len(h.done) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Undo applies the inverse of the most recent committed change to s and
// moves it onto the redo stack.
func (h *History) Undo(s *store.Store) (*DocumentChange, error) {
	if len(h.done) == 0 {
		return nil, docerr.ErrNoChangeToUndo
	}
	c := h.done[len(h.done)-1]
	inv := invertOps(c.Ops)
	for _, op := range inv {
		if err := s.Apply(op); err != nil {
			return nil, err
		}
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, c)
	return &DocumentChange{Ops: inv, BeforeState: c.AfterState, AfterState: c.BeforeState, Info: c.Info, Replay: true}, nil
}

// Redo re-applies the most recently undone change's original ops forward
// and moves it back onto the undo stack.
func (h *History) Redo(s *store.Store) (*DocumentChange, error) {
	if len(h.undone) == 0 {
		return nil, docerr.ErrNoChangeToRedo
	}
	c := h.undone[len(h.undone)-1]
	for _, op := range c.Ops {
		if err := s.Apply(op); err != nil {
			return nil, err
		}
	}
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, c)
	return &DocumentChange{Ops: c.Ops, BeforeState: c.BeforeState, AfterState: c.AfterState, Info: c.Info, Replay: true}, nil
}

func invertOps(ops []store.Op) []store.Op {
	inv := make([]store.Op, len(ops))
	for i, op := range ops {
		inv[len(ops)-1-i] = op.Invert()
	}
	return inv
}
