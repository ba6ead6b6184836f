package ecs

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrNotFound = errors.New("ecs: entity not found")

// World owns every live entity and hands out their ids.
type World struct {
	entities sparseSet
	nextID   ID
	events   EventQueue
}

// NewWorld creates an empty world. The first id issued is 1.
func NewWorld() *World {
	return &World{nextID: 1}
}

// AddEntity assigns the next id to e and stores it.
func (w *World) AddEntity(e *Entity) ID {
	if w == nil || e == nil {
		return 0
	}
	if w.nextID == 0 {
		w.nextID = 1
	}
	e.id = w.nextID
	w.nextID++
	w.entities.set(e)
	w.events.Push(Event{Kind: EventSpawned, Entity: e.id, Of: e.Kind})
	return e.id
}

// RemoveEntity deletes e from the registry. Surviving ids are untouched and
// the removed id is never issued again.
func (w *World) RemoveEntity(e *Entity) error {
	if e == nil {
		return ErrNotFound
	}
	return w.Remove(e.id)
}

// Remove deletes the entity with the given id.
func (w *World) Remove(id ID) error {
	if w == nil {
		return ErrNotFound
	}
	e := w.entities.get(id)
	if e == nil {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	w.entities.remove(id)
	w.events.Push(Event{Kind: EventRemoved, Entity: id, Of: e.Kind})
	return nil
}

// Get returns the entity for id, or nil.
func (w *World) Get(id ID) *Entity {
	if w == nil {
		return nil
	}
	return w.entities.get(id)
}

// Has reports whether id is live.
func (w *World) Has(id ID) bool {
	if w == nil {
		return false
	}
	return w.entities.has(id)
}

// GetCloseEntity returns the first entity of kind strictly closer than rng
// to location. When several qualify, which one is returned is unspecified.
func (w *World) GetCloseEntity(kind Kind, location cp.Vector, rng float64) *Entity {
	if w == nil {
		return nil
	}
	for _, e := range w.entities.dense {
		if e.Kind != kind {
			continue
		}
		if location.Distance(e.Location) < rng {
			return e
		}
	}
	return nil
}

// Process advances every entity that was live when the call started, even
// one removed by an earlier entity's update in the same sweep. Entities added
// during the sweep wait for the next tick. A failing entity does not stop the
// sweep.
func (w *World) Process(dt float64) error {
	if w == nil {
		return nil
	}
	var errs []error
	for _, e := range w.entities.snapshot() {
		if err := e.Process(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", e.Kind, e.id, err))
		}
	}
	return errors.Join(errs...)
}

// Entities returns a copy of the live entity list.
func (w *World) Entities() []*Entity {
	if w == nil {
		return nil
	}
	return w.entities.snapshot()
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.len()
}

// Count returns the number of live entities of kind.
func (w *World) Count(kind Kind) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, e := range w.entities.dense {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
