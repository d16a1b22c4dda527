package state

// Store holds the shapes of the board in paint order. It is owned by a
// single goroutine and never records history on its own.
type Store struct {
	shapes Scene
}

func NewStore() *Store {
	return &Store{shapes: Scene{}}
}

// Insert appends shape on top of the scene. A shape whose id is already
// present replaces the old entry and moves to the top.
func (s *Store) Insert(shape Shape) Scene {
	if i := s.shapes.Index(shape.ID); i >= 0 {
		s.shapes = append(s.shapes[:i:i], s.shapes[i+1:]...)
	}
	s.shapes = append(s.shapes, shape.Clone())
	return s.Shapes()
}

// ReplaceAll swaps the whole scene. Repeated ids keep their first occurrence.
func (s *Store) ReplaceAll(shapes Scene) Scene {
	seen := make(map[string]bool, len(shapes))
	next := make(Scene, 0, len(shapes))
	for _, sh := range shapes {
		if seen[sh.ID] {
			continue
		}
		seen[sh.ID] = true
		next = append(next, sh.Clone())
	}
	s.shapes = next
	return s.Shapes()
}

// RemoveWhere drops every shape matching pred.
func (s *Store) RemoveWhere(pred func(Shape) bool) Scene {
	next := make(Scene, 0, len(s.shapes))
	for _, sh := range s.shapes {
		if !pred(sh) {
			next = append(next, sh)
		}
	}
	s.shapes = next
	return s.Shapes()
}

// UpdateByID applies mutate to a copy of the shape with the given id and
// stores the copy. Unknown ids leave the scene untouched. The id itself
// cannot be changed by mutate.
func (s *Store) UpdateByID(id string, mutate func(*Shape)) Scene {
	i := s.shapes.Index(id)
	if i < 0 {
		return s.Shapes()
	}
	next := s.shapes[i].Clone()
	mutate(&next)
	next.ID = id

	shapes := make(Scene, len(s.shapes))
	copy(shapes, s.shapes)
	shapes[i] = next
	s.shapes = shapes
	return s.Shapes()
}

// Get returns a copy of the shape with the given id.
func (s *Store) Get(id string) (Shape, bool) {
	i := s.shapes.Index(id)
	if i < 0 {
		return Shape{}, false
	}
	return s.shapes[i].Clone(), true
}

func (s *Store) Len() int {
	return len(s.shapes)
}

// Shapes returns a deep copy of the current scene.
func (s *Store) Shapes() Scene {
	return s.shapes.Clone()
}
