// Package txn implements the transaction stage: a shadow document that
// collects ops atomically and either commits them to the live store or
// discards them.
package txn

import (
	"github.com/substancehq/substance/internal/change"
	"github.com/substancehq/substance/internal/docerr"
	"github.com/substancehq/substance/internal/store"
)

type state int

const (
	idle state = iota
	active
)

// Stage is the shadow document a transformation mutates. It starts as a
// clone of the live store and accumulates the ops applied to it so Manager
// can replay them onto the live store at commit time.
type Stage struct {
	store     *store.Store
	buffered  []store.Op
	cancelled bool
}

// Store returns the shadow store the transformation should read and write.
func (s *Stage) Store() *store.Store { return s.store }

// Apply runs op against the stage and records it for replay/revert.
func (s *Stage) Apply(op store.Op) error {
	if err := s.store.Apply(op); err != nil {
		return err
	}
	s.buffered = append(s.buffered, op)
	return nil
}

// Cancel marks the in-progress transaction to be discarded instead of
// committed, once the transformation returns.
func (s *Stage) Cancel() { s.cancelled = true }

// Transform is supplied by callers to describe one transaction's work. It
// receives the stage and returns an after-state map; keys present in the
// before-state passed to Manager.Run are merged from the returned value,
// unknown keys are ignored.
type Transform func(stage *Stage) (afterState map[string]any, err error)

// Manager owns the live store, the persistent shadow stage, and the
// undo/redo history, and enforces the single-active-transaction rule.
type Manager struct {
	live              *store.Store
	stage             *Stage
	history           *change.History
	state             state
	forceTransactions bool
}

// NewManager builds a Manager over live. forceTransactions, when true,
// rejects ApplyDirect calls so every mutation must flow through Run.
func NewManager(live *store.Store, forceTransactions bool) *Manager {
	return &Manager{
		live:              live,
		stage:             &Stage{store: live.Clone()},
		history:           change.NewHistory(),
		forceTransactions: forceTransactions,
	}
}

func (m *Manager) History() *change.History { return m.history }
func (m *Manager) Live() *store.Store       { return m.live }

// Run starts a transaction, invokes fn against the stage, and either
// commits or reverts depending on the outcome. A second call while one is
// already active fails with ErrNestedTransaction and leaves the active one
// untouched.
func (m *Manager) Run(before, info map[string]any, fn Transform) (*change.DocumentChange, error) {
	if m.state == active {
		return nil, docerr.ErrNestedTransaction
	}
	m.state = active
	defer func() { m.state = idle }()

	baseline := len(m.stage.buffered)
	after, err := fn(m.stage)
	if err != nil {
		m.revertFrom(baseline)
		return nil, err
	}
	if m.stage.cancelled {
		m.stage.cancelled = false
		m.revertFrom(baseline)
		return nil, nil
	}

	ops := append([]store.Op{}, m.stage.buffered[baseline:]...)
	m.stage.buffered = m.stage.buffered[:baseline]

	for i, op := range ops {
		if applyErr := m.live.Apply(op); applyErr != nil {
			// The live store diverged partway through replay. Undo what we
			// just replayed on it, then revert the stage back to baseline.
			for j := i - 1; j >= 0; j-- {
				_ = m.live.Apply(ops[j].Invert())
			}
			m.stage.buffered = append(m.stage.buffered, ops...)
			m.revertFrom(baseline)
			return nil, applyErr
		}
	}

	chg := &change.DocumentChange{Ops: ops, BeforeState: before, AfterState: mergeState(before, after), Info: info}
	m.history.Push(chg)
	return chg, nil
}

// ApplyDirect mutates the live store outside of a transaction and mirrors
// the same op onto the stage so both stay in sync — the legacy affordance
// disabled by forceTransactions.
func (m *Manager) ApplyDirect(op store.Op) error {
	if m.forceTransactions {
		return docerr.ErrInvalidOperation
	}
	if err := m.live.Apply(op); err != nil {
		return err
	}
	return m.stage.store.Apply(op)
}

// Undo inverts the most recent committed change on the live store, then
// resyncs the stage to match.
func (m *Manager) Undo() (*change.DocumentChange, error) {
	c, err := m.history.Undo(m.live)
	if err != nil {
		return nil, err
	}
	m.resyncStage()
	return c, nil
}

// Redo re-applies the most recently undone change and resyncs the stage.
func (m *Manager) Redo() (*change.DocumentChange, error) {
	c, err := m.history.Redo(m.live)
	if err != nil {
		return nil, err
	}
	m.resyncStage()
	return c, nil
}

func (m *Manager) resyncStage() {
	m.stage = &Stage{store: m.live.Clone()}
}

func (m *Manager) revertFrom(baseline int) {
	ops := m.stage.buffered[baseline:]
	for i := len(ops) - 1; i >= 0; i-- {
		_ = m.stage.store.Apply(ops[i].Invert())
	}
	m.stage.buffered = m.stage.buffered[:baseline]
}

func mergeState(before, after map[string]any) map[string]any {
	merged := make(map[string]any, len(before))
	for k, v := range before {
		merged[k] = v
	}
	for k, v := range after {
		if _, ok := before[k]; ok {
			merged[k] = v
		}
	}
	return merged
}
