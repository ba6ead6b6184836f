package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stateIdle StateID = iota + 1
	stateRun
	stateMissing
)

type recorder struct {
	Hooks
	id   StateID
	name string
	log  *[]string
	next StateID
}

func (r *recorder) ID() StateID  { return r.id }
func (r *recorder) Name() string { return r.name }
func (r *recorder) Enter()       { *r.log = append(*r.log, "enter:"+r.name) }
func (r *recorder) Exit()        { *r.log = append(*r.log, "exit:"+r.name) }
func (r *recorder) Do()          { *r.log = append(*r.log, "do:"+r.name) }
func (r *recorder) Check() (StateID, bool) {
	*r.log = append(*r.log, "check:"+r.name)
	if r.next == None {
		return None, false
	}
	return r.next, true
}

func newPair(log *[]string) (*recorder, *recorder) {
	return &recorder{id: stateIdle, name: "idle", log: log},
		&recorder{id: stateRun, name: "run", log: log}
}

func TestStateMachineSetState(t *testing.T) {
	cases := []struct {
		name    string
		steps   []StateID
		wantErr bool
		want    []string
		active  StateID
	}{
		{"first_activation_only_enters", []StateID{stateIdle}, false, []string{"enter:idle"}, stateIdle},
		{"switch_exits_then_enters", []StateID{stateIdle, stateRun}, false, []string{"enter:idle", "exit:idle", "enter:run"}, stateRun},
		{"reenter_same_state", []StateID{stateIdle, stateIdle}, false, []string{"enter:idle", "exit:idle", "enter:idle"}, stateIdle},
		{"unknown_keeps_active", []StateID{stateIdle, stateMissing}, true, []string{"enter:idle"}, stateIdle},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var log []string
			idle, run := newPair(&log)
			m := New(idle, run)

			var err error
			for _, id := range c.steps {
				if err = m.SetState(id); err != nil {
					break
				}
			}
			if c.wantErr {
				require.ErrorIs(t, err, ErrUnknownState)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, c.want, log)
			assert.Equal(t, c.active, m.Active())
		})
	}
}

func TestStateMachineThink(t *testing.T) {
	t.Run("no_active_state_is_noop", func(t *testing.T) {
		var log []string
		idle, run := newPair(&log)
		m := New(idle, run)
		require.NoError(t, m.Think())
		assert.Empty(t, log)
		assert.Equal(t, None, m.Active())
	})

	t.Run("remain", func(t *testing.T) {
		var log []string
		idle, run := newPair(&log)
		m := New(idle, run)
		require.NoError(t, m.SetState(stateIdle))
		log = log[:0]
		require.NoError(t, m.Think())
		assert.Equal(t, []string{"do:idle", "check:idle"}, log)
		assert.Equal(t, stateIdle, m.Active())
	})

	t.Run("one_transition_per_think", func(t *testing.T) {
		var log []string
		idle, run := newPair(&log)
		idle.next = stateRun
		run.next = stateIdle
		m := New(idle, run)
		require.NoError(t, m.SetState(stateIdle))
		log = log[:0]

		require.NoError(t, m.Think())
		assert.Equal(t, []string{"do:idle", "check:idle", "exit:idle", "enter:run"}, log)
		assert.Equal(t, stateRun, m.Active())

		require.NoError(t, m.Think())
		assert.Equal(t, stateIdle, m.Active())
	})

	t.Run("transition_to_unknown_is_signaled", func(t *testing.T) {
		var log []string
		idle, run := newPair(&log)
		idle.next = stateMissing
		m := New(idle, run)
		require.NoError(t, m.SetState(stateIdle))

		err := m.Think()
		require.ErrorIs(t, err, ErrUnknownState)
		assert.Equal(t, stateIdle, m.Active())
		_, ok := m.State(m.Active())
		assert.True(t, ok)
	})
}

func TestStateMachineAddState(t *testing.T) {
	var log []string
	idle, run := newPair(&log)
	m := New(idle, run)
	require.NoError(t, m.SetState(stateIdle))

	replacement := &recorder{id: stateIdle, name: "idle2", log: &log}
	m.AddState(replacement)

	assert.Len(t, m.states, 2)
	assert.Same(t, replacement, m.ActiveState())

	id, ok := m.Lookup("run")
	assert.True(t, ok)
	assert.Equal(t, stateRun, id)
	_, ok = m.Lookup("idle")
	assert.False(t, ok)
}

func TestNilStateMachine(t *testing.T) {
	var m *StateMachine
	assert.NoError(t, m.Think())
	assert.ErrorIs(t, m.SetState(stateIdle), ErrUnknownState)
	assert.Equal(t, None, m.Active())
	assert.Nil(t, m.ActiveState())
}
