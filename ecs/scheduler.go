package ecs

import "errors"

// System advances part of the world by one tick of dt seconds.
type System interface {
	Update(w *World, dt float64) error
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64) error

func (f SystemFunc) Update(w *World, dt float64) error {
	return f(w, dt)
}

// Scheduler runs systems in registration order. Every system runs even if
// an earlier one reports an error.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, dt float64) error {
	var errs []error
	for _, system := range s.systems {
		if err := system.Update(w, dt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
