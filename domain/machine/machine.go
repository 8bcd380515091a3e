package machine

import (
	"fmt"
	"sync"
	"time"
)

const (
	historyCap  = 100
	historyKeep = 50
)

// Machine composes the state registry and the transition table around
// the single current-state pointer. All reads and mutations are
// serialized by one mutex: registration while the agent is running can
// never expose a half-updated table to Fire.
type Machine struct {
	mu       sync.Mutex
	states   map[string]Definition
	table    []Transition
	current  string
	previous string
	history  []Record
	now      func() time.Time
}

// New creates a machine whose initial state is the given definition.
// The definition is registered, keeping the invariant that the current
// state always names a registered state.
func New(initial Definition) (*Machine, error) {
	if initial.Name == "" {
		return nil, ErrEmptyName
	}
	m := &Machine{
		states: map[string]Definition{initial.Name: initial},
		now:    time.Now,
	}
	m.current = initial.Name
	return m, nil
}

// NewDefault creates a machine with the canonical states and transition
// table, starting in IDLE.
func NewDefault() *Machine {
	states := DefaultStates()
	m, err := New(states[0])
	if err != nil {
		panic(err) // canonical states are well-formed
	}
	for _, def := range states[1:] {
		m.RegisterState(def)
	}
	for _, t := range DefaultTransitions() {
		if err := m.AddTransition(t); err != nil {
			panic(err)
		}
	}
	return m
}

// RegisterState registers or replaces a state definition. The upsert is
// atomic: concurrent readers observe either the old or the new
// definition, never a partial one.
func (m *Machine) RegisterState(def Definition) {
	if def.Name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[def.Name] = def
}

// RemoveState removes a state and every transition referencing it.
// Removing the current state is rejected with ErrStateInUse.
func (m *Machine) RemoveState(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, name)
	}
	if name == m.current {
		return fmt.Errorf("%w: %s", ErrStateInUse, name)
	}
	delete(m.states, name)

	kept := m.table[:0]
	for _, t := range m.table {
		if t.Source != name && t.Target != name {
			kept = append(kept, t)
		}
	}
	m.table = kept
	return nil
}

// AddTransition appends a rule to the transition table. Both endpoints
// must already be registered.
func (m *Machine) AddTransition(t Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[t.Source]; !ok {
		return fmt.Errorf("%w: source %s", ErrUnknownState, t.Source)
	}
	if _, ok := m.states[t.Target]; !ok {
		return fmt.Errorf("%w: target %s", ErrUnknownState, t.Target)
	}
	m.table = append(m.table, t)
	return nil
}

// RemoveTransition removes every rule matching source, target and
// trigger, reporting whether anything was removed.
func (m *Machine) RemoveTransition(source, target, trigger string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.table[:0]
	removed := false
	for _, t := range m.table {
		if t.Source == source && t.Target == target && t.Trigger == trigger {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	m.table = kept
	return removed
}

// Fire resolves the trigger against the table. Rules whose source is
// the current state and whose trigger matches are evaluated in
// registration order; the first with no guard or an accepting guard is
// selected. The exit hook runs before the state mutates, the enter hook
// after. No matching rule is a reported no-op, not an error.
func (m *Machine) Fire(trigger string, vars map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{State: m.current, Trigger: trigger, Vars: copyVars(vars)}

	var selected *Transition
	for i := range m.table {
		t := &m.table[i]
		if t.Source != m.current || t.Trigger != trigger {
			continue
		}
		if t.Guard == nil || t.Guard(snap) {
			selected = t
			break
		}
	}

	if selected == nil {
		return Result{From: m.current, To: m.current, Trigger: trigger}, nil
	}

	if selected.OnExit != nil {
		if err := selected.OnExit(snap); err != nil {
			return Result{From: m.current, To: selected.Target, Trigger: trigger},
				&HookError{Phase: PhaseExit, From: m.current, To: selected.Target, Trigger: trigger, Err: err}
		}
	}

	from := m.current
	m.previous = from
	m.current = selected.Target
	m.record(from, selected.Target, trigger)

	res := Result{From: from, To: selected.Target, Trigger: trigger, Transitioned: true}

	if selected.OnEnter != nil {
		enterSnap := Snapshot{State: m.current, Trigger: trigger, Vars: snap.Vars}
		if err := selected.OnEnter(enterSnap); err != nil {
			// Policy: the state stays mutated; the failure is reported.
			return res, &HookError{Phase: PhaseEnter, From: from, To: selected.Target, Trigger: trigger, Err: err}
		}
	}

	return res, nil
}

// Force transitions to the target state without consulting the table or
// any guard. Used by the orchestrator for recovery paths; the move is
// recorded with the pseudo-trigger "forced".
func (m *Machine) Force(target string, vars map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[target]; !ok {
		return Result{From: m.current, To: m.current}, fmt.Errorf("%w: %s", ErrUnknownState, target)
	}

	from := m.current
	m.previous = from
	m.current = target
	m.record(from, target, "forced")
	return Result{From: from, To: target, Trigger: "forced", Transitioned: true}, nil
}

// Current returns the active state definition.
func (m *Machine) Current() Definition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[m.current]
}

// CurrentState returns the active state name.
func (m *Machine) CurrentState() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Previous returns the state occupied before the last transition.
func (m *Machine) Previous() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.previous
}

// Is reports whether the machine is currently in the named state.
func (m *Machine) Is(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == name
}

// States returns the names of all registered states.
func (m *Machine) States() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	return names
}

// Available returns the transitions that would fire from the current
// state given the snapshot vars, in registration order.
func (m *Machine) Available(vars map[string]any) []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Transition
	for _, t := range m.table {
		if t.Source != m.current {
			continue
		}
		snap := Snapshot{State: m.current, Trigger: t.Trigger, Vars: copyVars(vars)}
		if t.Guard == nil || t.Guard(snap) {
			out = append(out, t)
		}
	}
	return out
}

// History returns up to limit of the most recent transition records,
// oldest first.
func (m *Machine) History(limit int) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]Record, limit)
	copy(out, m.history[len(m.history)-limit:])
	return out
}

// Reset moves the machine back to the given registered state and clears
// the history.
func (m *Machine) Reset(initial string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.states[initial]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, initial)
	}
	m.current = initial
	m.previous = ""
	m.history = nil
	return nil
}

func (m *Machine) record(from, to, trigger string) {
	m.history = append(m.history, Record{From: from, To: to, Trigger: trigger, At: m.now()})
	if len(m.history) > historyCap {
		m.history = append(m.history[:0], m.history[len(m.history)-historyKeep:]...)
	}
}

func copyVars(vars map[string]any) map[string]any {
	if len(vars) == 0 {
		return nil
	}
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
