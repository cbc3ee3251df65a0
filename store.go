package linkgraph

import "context"

// Store is the persistence contract for edge records. It is the only
// component that mutates graph state; all read algorithms are built on
// top of List's lookup-by-endpoint capability.
//
// Implementations must provide:
//
//   - Atomic mutations: concurrent Adds of distinct edges both persist,
//     concurrent Updates to the same edge serialize (last write wins),
//     and an Add either fully succeeds or writes nothing.
//   - Stable creation-order listing: List returns edges ordered by
//     creation sequence so pagination and repeated reads on an unchanged
//     graph are deterministic. Wall-clock timestamps are informational
//     and must not drive ordering.
//   - Isolation of returned values: edges handed to callers must not
//     alias internal state (return Edge.Clone()).
//
// Stores never validate node existence; node identity is owned by other
// subsystems and edges may legally reference unknown nodes.
type Store interface {
	// Add persists a fully-populated edge (id and timestamps already
	// assigned by the caller). It never merges with existing edges, even
	// for identical endpoints and type.
	Add(ctx context.Context, edge *Edge) error

	// Get returns the edge with the given id.
	// Returns ErrEdgeNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*Edge, error)

	// List returns edges matching the filter in creation order.
	// Unset filter fields match any value.
	List(ctx context.Context, filter ListFilter) ([]*Edge, error)

	// Update applies a partial update to the edge with the given id and
	// returns the updated edge. Fields left nil in changes are untouched;
	// UpdatedAt is refreshed. Returns ErrEdgeNotFound if the id is unknown.
	Update(ctx context.Context, id string, changes EdgeChanges) (*Edge, error)

	// Delete permanently removes the edge with the given id.
	// Returns ErrEdgeNotFound if the id is unknown, including when the
	// same id is deleted twice.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// ListFilter narrows a List call. Zero-valued fields match any edge.
type ListFilter struct {
	// Type matches edges with this exact edge type.
	Type string

	// SourceID matches edges leaving this node.
	SourceID string

	// TargetID matches edges entering this node.
	TargetID string

	// NodeID matches edges touching this node at either endpoint. Results
	// stay in global creation order, which SourceID and TargetID scans read
	// separately cannot reconstruct.
	NodeID string

	// Limit bounds the number of edges returned. Zero means no limit.
	Limit int

	// Offset skips this many matching edges, for pagination.
	Offset int
}

// EdgeChanges describes a partial edge update. Only Weight and Properties
// are mutable after creation; type and endpoints are immutable.
type EdgeChanges struct {
	// Weight replaces the edge weight when non-nil.
	Weight *float64

	// Properties replaces the edge properties when non-nil.
	Properties map[string]any
}

// IsZero reports whether the changes would leave the edge untouched.
func (c EdgeChanges) IsZero() bool {
	return c.Weight == nil && c.Properties == nil
}
