// Package fsm is a small reactive state machine. A machine owns a set of
// states keyed by an enumerated id and runs at most one of them at a time.
package fsm

import (
	"errors"
	"fmt"
)

// StateID identifies a state inside one machine. The zero value is never a
// valid registered id.
type StateID uint8

// None is returned when no state is active.
const None StateID = 0

var ErrUnknownState = errors.New("fsm: unknown state")

// State is one behavior mode. Check reports the state to switch to, if any.
type State interface {
	ID() StateID
	Name() string
	Enter()
	Exit()
	Do()
	Check() (StateID, bool)
}

// Hooks gives embedding states no-op lifecycle methods so they only need to
// implement the hooks they care about.
type Hooks struct{}

func (Hooks) Enter()                 {}
func (Hooks) Exit()                  {}
func (Hooks) Do()                    {}
func (Hooks) Check() (StateID, bool) { return None, false }

// StateMachine runs the active state's hooks once per Think.
type StateMachine struct {
	states map[StateID]State
	active State
}

func New(states ...State) *StateMachine {
	m := &StateMachine{states: make(map[StateID]State, len(states))}
	for _, s := range states {
		m.AddState(s)
	}
	return m
}

// AddState registers s, replacing any state with the same id. Replacing the
// active state swaps it in place without running hooks.
func (m *StateMachine) AddState(s State) {
	if m == nil || s == nil || s.ID() == None {
		return
	}
	if m.states == nil {
		m.states = map[StateID]State{}
	}
	if m.active != nil && m.active.ID() == s.ID() {
		m.active = s
	}
	m.states[s.ID()] = s
}

// SetState exits the active state and enters id.
func (m *StateMachine) SetState(id StateID) error {
	if m == nil {
		return ErrUnknownState
	}
	next, ok := m.states[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, id)
	}
	if m.active != nil {
		m.active.Exit()
	}
	m.active = next
	next.Enter()
	return nil
}

// Think runs the active state's actions and then its conditions, switching
// state at most once.
func (m *StateMachine) Think() error {
	if m == nil || m.active == nil {
		return nil
	}
	current := m.active
	current.Do()
	next, ok := current.Check()
	if !ok {
		return nil
	}
	if err := m.SetState(next); err != nil {
		return fmt.Errorf("fsm: transition from %s: %w", current.Name(), err)
	}
	return nil
}

// Active returns the active state id, or None.
func (m *StateMachine) Active() StateID {
	if m == nil || m.active == nil {
		return None
	}
	return m.active.ID()
}

// ActiveState returns the active state, or nil.
func (m *StateMachine) ActiveState() State {
	if m == nil {
		return nil
	}
	return m.active
}

func (m *StateMachine) State(id StateID) (State, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.states[id]
	return s, ok
}

// Lookup resolves a state by name.
func (m *StateMachine) Lookup(name string) (StateID, bool) {
	if m == nil {
		return None, false
	}
	for id, s := range m.states {
		if s.Name() == name {
			return id, true
		}
	}
	return None, false
}
