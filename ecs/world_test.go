package ecs

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/fsm"
)

type box struct{ w, h int }

func (b box) Size() (int, int) { return b.w, b.h }

// hookState runs fn from Do. It never transitions unless next is set.
type hookState struct {
	fsm.Hooks
	fn   func()
	next fsm.StateID
}

func (s *hookState) ID() fsm.StateID { return 1 }
func (s *hookState) Name() string    { return "hook" }
func (s *hookState) Do() {
	if s.fn != nil {
		s.fn()
	}
}
func (s *hookState) Check() (fsm.StateID, bool) {
	if s.next == fsm.None {
		return fsm.None, false
	}
	return s.next, true
}

func withHook(e *Entity, st *hookState) *Entity {
	e.Brain.AddState(st)
	if err := e.Brain.SetState(st.ID()); err != nil {
		panic(err)
	}
	return e
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]*Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := NewEntity(KindAlien, box{4, 4})
				id := w.AddEntity(e)
				require.Equal(t, id, e.ID())
				require.Same(t, e, w.Get(id))
				ents = append(ents, e)
			}
			require.Equal(t, c.create, w.Len())

			if c.destroyIndex >= 0 {
				gone := ents[c.destroyIndex]
				require.NoError(t, w.RemoveEntity(gone))
				assert.Nil(t, w.Get(gone.ID()))
				assert.False(t, w.Has(gone.ID()))
				assert.ErrorIs(t, w.RemoveEntity(gone), ErrNotFound)
				for i, e := range ents {
					if i == c.destroyIndex {
						continue
					}
					assert.Same(t, e, w.Get(e.ID()), "survivor keeps its id")
				}
			}
		})
	}
}

func TestWorldIDsNeverReused(t *testing.T) {
	w := NewWorld()
	seen := map[ID]bool{}
	rng := rand.New(rand.NewSource(7))
	var live []*Entity

	for i := 0; i < 500; i++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			idx := rng.Intn(len(live))
			require.NoError(t, w.RemoveEntity(live[idx]))
			live = append(live[:idx], live[idx+1:]...)
			continue
		}
		e := NewEntity(KindProjectile, nil)
		id := w.AddEntity(e)
		require.True(t, id.Valid())
		require.False(t, seen[id], "id %s issued twice", id)
		require.Greater(t, w.nextID, id)
		seen[id] = true
		live = append(live, e)
	}

	require.Equal(t, len(live), w.Len())
	for _, e := range w.Entities() {
		assert.Same(t, e, w.Get(e.ID()))
	}
}

func TestWorldRemoveMissing(t *testing.T) {
	w := NewWorld()
	assert.ErrorIs(t, w.Remove(42), ErrNotFound)
	assert.ErrorIs(t, w.RemoveEntity(nil), ErrNotFound)
	assert.Nil(t, w.Get(42))
}

func TestWorldGetCloseEntity(t *testing.T) {
	w := NewWorld()
	player := NewPlayer(PlayerTuning{MaxHealth: 100, MaxSpeed: 300}, box{10, 10})
	player.Location = cp.Vector{X: 600, Y: 400}
	w.AddEntity(player)

	t.Run("no_alien", func(t *testing.T) {
		assert.Nil(t, w.GetCloseEntity(KindAlien, cp.Vector{X: 600, Y: 400}, 100))
	})

	t.Run("player_in_range", func(t *testing.T) {
		assert.Same(t, player, w.GetCloseEntity(KindPlayer, cp.Vector{X: 650, Y: 400}, 100))
	})

	t.Run("range_is_strict", func(t *testing.T) {
		assert.Nil(t, w.GetCloseEntity(KindPlayer, cp.Vector{X: 700, Y: 400}, 100))
	})

	t.Run("kind_filter", func(t *testing.T) {
		alien := NewEntity(KindAlien, box{4, 4})
		alien.Location = cp.Vector{X: 10, Y: 10}
		w.AddEntity(alien)
		assert.Same(t, alien, w.GetCloseEntity(KindAlien, cp.Vector{X: 0, Y: 0}, 50))
		assert.Nil(t, w.GetCloseEntity(KindPlayer, cp.Vector{X: 0, Y: 0}, 50))
	})
}

func TestProcessArrivedEntityStays(t *testing.T) {
	w := NewWorld()
	alien := NewEntity(KindAlien, box{4, 4})
	alien.Location = cp.Vector{X: -50, Y: 300}
	alien.Destination = cp.Vector{X: -50, Y: 300}
	alien.Speed = 75
	w.AddEntity(alien)

	require.NoError(t, w.Process(0.1))
	assert.Equal(t, cp.Vector{X: -50, Y: 300}, alien.Location)
}

func TestProcessNeverOvershoots(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		w := NewWorld()
		e := NewEntity(KindAlien, nil)
		start := cp.Vector{X: rng.Float64() * 1200, Y: rng.Float64() * 800}
		dest := cp.Vector{X: rng.Float64() * 1200, Y: rng.Float64() * 800}
		e.Location, e.Destination = start, dest
		e.Speed = rng.Float64() * 500
		w.AddEntity(e)

		dt := rng.Float64() * 5
		require.NoError(t, w.Process(dt))

		total := start.Distance(dest)
		travelled := start.Distance(e.Location)
		remaining := e.Location.Distance(dest)
		assert.LessOrEqual(t, travelled, total+1e-9)
		assert.InDelta(t, total, travelled+remaining, 1e-6, "location stays on the segment")
		assert.InDelta(t, math.Min(total, dt*e.Speed), travelled, 1e-6)
	}
}

func TestProcessSnapshot(t *testing.T) {
	t.Run("entities_added_mid_sweep_wait", func(t *testing.T) {
		w := NewWorld()
		var spawned *Entity
		spawner := withHook(NewEntity(KindAlien, nil), &hookState{})
		spawner.Brain.ActiveState().(*hookState).fn = func() {
			if spawned != nil {
				return
			}
			spawned = NewEntity(KindAlien, nil)
			spawned.Destination = cp.Vector{X: 100}
			spawned.Speed = 10
			w.AddEntity(spawned)
		}
		w.AddEntity(spawner)

		require.NoError(t, w.Process(1))
		require.NotNil(t, spawned)
		assert.Equal(t, cp.Vector{}, spawned.Location, "not visited in the sweep that created it")

		require.NoError(t, w.Process(1))
		assert.Equal(t, cp.Vector{X: 10}, spawned.Location)
	})

	t.Run("entities_removed_mid_sweep_still_visited", func(t *testing.T) {
		w := NewWorld()
		a := NewEntity(KindAlien, nil)
		b := NewEntity(KindAlien, nil)
		visits := map[string]int{}
		withHook(a, &hookState{fn: func() {
			visits["a"]++
			if w.Has(b.ID()) {
				_ = w.RemoveEntity(b)
			}
		}})
		withHook(b, &hookState{fn: func() {
			visits["b"]++
			if w.Has(a.ID()) {
				_ = w.RemoveEntity(a)
			}
		}})
		w.AddEntity(a)
		w.AddEntity(b)

		require.NoError(t, w.Process(0.1))
		assert.Equal(t, map[string]int{"a": 1, "b": 1}, visits)
		assert.Equal(t, 0, w.Len())
	})
}

func TestProcessIsolatesFailures(t *testing.T) {
	w := NewWorld()
	broken := withHook(NewEntity(KindAlien, nil), &hookState{next: 99})
	w.AddEntity(broken)

	mover := NewEntity(KindAlien, nil)
	mover.Destination = cp.Vector{X: 10}
	mover.Speed = 10
	w.AddEntity(mover)

	err := w.Process(0.5)
	require.ErrorIs(t, err, fsm.ErrUnknownState)
	assert.Equal(t, cp.Vector{X: 5}, mover.Location)
}

func TestPlayerSteer(t *testing.T) {
	field := common.DefaultPlayfield()
	tuning := PlayerTuning{MaxHealth: 100, MaxSpeed: 300, Thrust: 10, RotationSpeed: 360}

	t.Run("idle_player_does_not_move", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Location = field.Center()
		p.Steer(1, field)
		assert.Equal(t, field.Center(), p.Location)
	})

	t.Run("thrust_forward_follows_facing", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Location = field.Center()
		p.Player.Apply(Input{Intent: IntentThrustForward, Pressed: true})
		p.Steer(1, field)
		assert.InDelta(t, 10, p.Speed, 1e-9)
		// rotation 0 faces up the screen
		assert.InDelta(t, 600, p.Location.X, 1e-9)
		assert.InDelta(t, 390, p.Location.Y, 1e-9)
		assert.InDelta(t, p.Player.Facing().Y, p.Heading.Y, 1e-9)
	})

	t.Run("speed_capped_and_floored", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Location = field.Center()
		p.Player.Apply(Input{Intent: IntentThrustForward, Pressed: true})
		for i := 0; i < 100; i++ {
			p.Steer(0.001, field)
		}
		assert.Equal(t, 300.0, p.Speed)

		p.Player.Apply(Input{Intent: IntentThrustBackward, Pressed: true})
		for i := 0; i < 100; i++ {
			p.Steer(0.001, field)
		}
		assert.Equal(t, 0.0, p.Speed)
	})

	t.Run("turning", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Player.Apply(Input{Intent: IntentTurnLeft, Pressed: true})
		p.Steer(0.25, field)
		assert.InDelta(t, 90, p.Player.Rotation, 1e-9)
		p.Player.Apply(Input{Intent: IntentTurnLeft, Pressed: false})
		p.Player.Apply(Input{Intent: IntentTurnRight, Pressed: true})
		p.Steer(0.5, field)
		assert.InDelta(t, -90, p.Player.Rotation, 1e-9)
	})

	t.Run("clamped_to_playfield", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Location = cp.Vector{X: 600, Y: 2}
		p.Speed = 300
		p.Player.Apply(Input{Intent: IntentThrustForward, Pressed: true})
		p.Steer(1, field)
		assert.Equal(t, 0.0, p.Location.Y)
	})

	t.Run("dead_player_stops", func(t *testing.T) {
		p := NewPlayer(tuning, nil)
		p.Location = field.Center()
		p.Speed = 100
		p.Player.Health = 1
		p.Attacked()
		assert.Equal(t, 0, p.Player.Health)
		assert.Equal(t, 0.0, p.Speed)
		p.Player.Apply(Input{Intent: IntentThrustForward, Pressed: true})
		p.Steer(1, field)
		assert.Equal(t, field.Center(), p.Location)

		p.Attacked()
		assert.Equal(t, 0, p.Player.Health, "health never drops below zero")
	})
}

func TestProjectileFire(t *testing.T) {
	w := NewWorld()
	p := NewProjectile(box{2, 8})
	p.Fire(cp.Vector{X: 100, Y: 100}, cp.Vector{X: 3, Y: 4}, 500)
	w.AddEntity(p)

	require.NoError(t, w.Process(0.1))
	assert.InDelta(t, 130, p.Location.X, 1e-9)
	assert.InDelta(t, 140, p.Location.Y, 1e-9)
	assert.InDelta(t, 1, p.Projectile.Direction.Length(), 1e-9)
}

func TestWorldEvents(t *testing.T) {
	w := NewWorld()
	a := NewEntity(KindAlien, nil)
	w.AddEntity(a)
	require.NoError(t, w.RemoveEntity(a))

	events := w.Events().Drain()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventSpawned, Entity: a.ID(), Of: KindAlien}, events[0])
	assert.Equal(t, Event{Kind: EventRemoved, Entity: a.ID(), Of: KindAlien}, events[1])
	assert.Nil(t, w.Events().Drain())
}

func TestSchedulerRunsAllInOrder(t *testing.T) {
	var order []string
	boom := assert.AnError
	s := NewScheduler(
		SystemFunc(func(*World, float64) error { order = append(order, "a"); return boom }),
		nil,
		SystemFunc(func(*World, float64) error { order = append(order, "b"); return nil }),
	)
	err := s.Update(NewWorld(), 0.016)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Len(t, s.systems, 2)
}
