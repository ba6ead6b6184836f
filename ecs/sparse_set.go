package ecs

// sparseSet stores live entities densely for iteration and keys them by id.
// Removal swaps the last entry into the hole, so dense order changes but ids
// never move. The sparse side is a map because ids grow without bound.
type sparseSet struct {
	dense  []*Entity
	sparse map[ID]int
}

func (s *sparseSet) has(id ID) bool {
	if s == nil || s.sparse == nil {
		return false
	}
	_, ok := s.sparse[id]
	return ok
}

func (s *sparseSet) get(id ID) *Entity {
	if s == nil || s.sparse == nil {
		return nil
	}
	idx, ok := s.sparse[id]
	if !ok {
		return nil
	}
	return s.dense[idx]
}

func (s *sparseSet) set(e *Entity) {
	if s.sparse == nil {
		s.sparse = map[ID]int{}
	}
	if idx, ok := s.sparse[e.id]; ok {
		s.dense[idx] = e
		return
	}
	s.dense = append(s.dense, e)
	s.sparse[e.id] = len(s.dense) - 1
}

func (s *sparseSet) remove(id ID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.sparse[moved.id] = idx

	s.dense[last] = nil
	s.dense = s.dense[:last]
	delete(s.sparse, id)
	return true
}

func (s *sparseSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// snapshot copies the dense list so callers may mutate the set while
// iterating the copy.
func (s *sparseSet) snapshot() []*Entity {
	if s == nil || len(s.dense) == 0 {
		return nil
	}
	out := make([]*Entity, len(s.dense))
	copy(out, s.dense)
	return out
}
