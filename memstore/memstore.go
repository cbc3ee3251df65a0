// Package memstore provides an in-memory implementation of the linkgraph
// Store contract. It is the reference backend: safe for concurrent use,
// with creation-order listing and atomic per-edge mutations, but without
// durability across process restarts.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognimesh/linkgraph"
)

// Store is an in-memory edge store guarded by a single RWMutex. Mutations
// serialize on the write lock, which gives adds/updates/deletes the
// atomicity the Store contract requires; reads share the read lock.
//
// Edges are deep-copied on the way in and out so callers can never mutate
// stored state through a shared Properties map.
type Store struct {
	mu    sync.RWMutex
	edges map[string]*linkgraph.Edge
	// order holds edge ids in creation order. Listing walks this slice so
	// pagination is deterministic regardless of map iteration order or
	// clock skew between writers.
	order []string
	now   func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		edges: make(map[string]*linkgraph.Edge),
		now:   time.Now,
	}
}

// Add persists a fully-populated edge.
func (s *Store) Add(_ context.Context, edge *linkgraph.Edge) error {
	if edge == nil || edge.ID == "" {
		return fmt.Errorf("%w: edge with id is required", linkgraph.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.edges[edge.ID]; exists {
		return fmt.Errorf("%w: duplicate edge id %s", linkgraph.ErrInvalidArgument, edge.ID)
	}

	s.edges[edge.ID] = edge.Clone()
	s.order = append(s.order, edge.ID)
	return nil
}

// Get returns the edge with the given id, or linkgraph.ErrEdgeNotFound.
func (s *Store) Get(_ context.Context, id string) (*linkgraph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
	}
	return edge.Clone(), nil
}

// List returns edges matching the filter in creation order.
func (s *Store) List(_ context.Context, filter linkgraph.ListFilter) ([]*linkgraph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*linkgraph.Edge, 0)
	skipped := 0

	for _, id := range s.order {
		edge := s.edges[id]
		if !matches(edge, filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		results = append(results, edge.Clone())
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}

	return results, nil
}

// Update applies a partial update under the write lock. Concurrent updates
// to the same edge serialize here, last write wins.
func (s *Store) Update(_ context.Context, id string, changes linkgraph.EdgeChanges) (*linkgraph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge, ok := s.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
	}

	if changes.Weight != nil {
		edge.Weight = *changes.Weight
	}
	if changes.Properties != nil {
		edge.Properties = make(map[string]any, len(changes.Properties))
		for k, v := range changes.Properties {
			edge.Properties[k] = v
		}
	}
	if !changes.IsZero() {
		edge.UpdatedAt = s.now().UTC()
	}

	return edge.Clone(), nil
}

// Delete removes the edge permanently. A second delete of the same id
// returns linkgraph.ErrEdgeNotFound; ids are never reused.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[id]; !ok {
		return fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
	}

	delete(s.edges, id)
	for i, orderedID := range s.order {
		if orderedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored edges.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

func matches(edge *linkgraph.Edge, filter linkgraph.ListFilter) bool {
	if filter.Type != "" && edge.Type != filter.Type {
		return false
	}
	if filter.SourceID != "" && edge.SourceID != filter.SourceID {
		return false
	}
	if filter.TargetID != "" && edge.TargetID != filter.TargetID {
		return false
	}
	if filter.NodeID != "" && edge.SourceID != filter.NodeID && edge.TargetID != filter.NodeID {
		return false
	}
	return true
}
