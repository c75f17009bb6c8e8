package landmark

import (
	"fmt"

	"github.com/vasctools/siphon/internal/centerline"
)

// Landmark is one named 3-D point.
type Landmark struct {
	Name  string
	Point centerline.Point
}

// Set is an ordered collection of named landmarks with unique names. Order
// is insertion order and is meaningful to consumers.
type Set struct {
	landmarks []Landmark
	index     map[string]int
}

// NewSet returns an empty landmark set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends a named point. Duplicate names are rejected.
func (s *Set) Add(name string, p centerline.Point) error {
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("landmark: duplicate landmark name %q", name)
	}
	s.index[name] = len(s.landmarks)
	s.landmarks = append(s.landmarks, Landmark{Name: name, Point: p})
	return nil
}

// Len returns the number of landmarks.
func (s *Set) Len() int { return len(s.landmarks) }

// Landmarks returns the landmarks in insertion order. Callers must not
// modify the returned slice.
func (s *Set) Landmarks() []Landmark { return s.landmarks }

// Point looks a landmark up by name.
func (s *Set) Point(name string) (centerline.Point, bool) {
	i, ok := s.index[name]
	if !ok {
		return centerline.Point{}, false
	}
	return s.landmarks[i].Point, true
}

// Names returns the landmark names in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.landmarks))
	for i, lm := range s.landmarks {
		out[i] = lm.Name
	}
	return out
}
