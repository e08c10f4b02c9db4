// Package store holds the collection points shared by every connection.
package store

import (
	"sort"
	"sync"
	"sync/atomic"

	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/point"
)

// Store is the registry of collection points.
type Store interface {
	Add(name, address string, categories category.Set, contact string) int
	Update(id int, name, address string, categories category.Set, contact string) error
	List() []point.CollectionPoint
	Filter(label string) []point.CollectionPoint
}

// MemoryStore keeps collection points in memory for the lifetime of the process.
//
// Records are stored by value and replaced whole on update, so a reader
// always sees a version of a record that existed at some point.
type MemoryStore struct {
	points map[int]point.CollectionPoint
	nextID atomic.Int64
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore. The first id it assigns is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		points: make(map[int]point.CollectionPoint),
	}
}

// Add stores a new collection point and returns its id.
func (s *MemoryStore) Add(name, address string, categories category.Set, contact string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int(s.nextID.Add(1))
	s.points[id] = point.New(id, name, address, categories, contact)
	return id
}

// Update replaces every mutable field of an existing point. Last writer wins.
func (s *MemoryStore) Update(id int, name, address string, categories category.Set, contact string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[id]; !ok {
		return ErrPointNotFound
	}
	s.points[id] = point.New(id, name, address, categories, contact)
	return nil
}

// Get returns a copy of the point with the given id.
func (s *MemoryStore) Get(id int) (point.CollectionPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.points[id]; ok {
		return p, nil
	}
	return point.CollectionPoint{}, ErrPointNotFound
}

// List returns a snapshot of every point, ordered by id.
func (s *MemoryStore) List() []point.CollectionPoint {
	return s.snapshot(func(point.CollectionPoint) bool { return true })
}

// Filter returns a snapshot of the points accepting the category, ordered by id.
func (s *MemoryStore) Filter(label string) []point.CollectionPoint {
	label = category.Label(label)
	return s.snapshot(func(p point.CollectionPoint) bool { return p.Accepts(label) })
}

// Len returns the number of stored points.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

func (s *MemoryStore) snapshot(keep func(point.CollectionPoint) bool) []point.CollectionPoint {
	s.mu.RLock()
	out := make([]point.CollectionPoint, 0, len(s.points))
	for _, p := range s.points {
		if keep(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
