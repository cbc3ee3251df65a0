package linkgraph

import (
	"fmt"
	"time"
)

// DefaultWeight is the weight assigned to edges that do not specify one.
const DefaultWeight = 1.0

// Edge represents a directed, typed, weighted relationship between two nodes
// in the knowledge graph. Nodes are opaque identifiers owned by other
// subsystems; the engine never creates or validates the node records
// themselves.
//
// Self-loops (SourceID == TargetID) are permitted, and multiple edges may
// connect the same ordered pair of nodes with the same or different types.
// Each edge is a distinct record and is never merged with another.
type Edge struct {
	// ID is the unique edge identifier. Assigned on creation, immutable.
	ID string `json:"id"`

	// Type classifies the relationship (e.g., "related_to", "depends_on",
	// "calls", "parent_of"). Open vocabulary; required.
	Type string `json:"type"`

	// SourceID is the node the edge leaves from. Required, immutable.
	SourceID string `json:"source_id"`

	// TargetID is the node the edge points to. Required, immutable.
	TargetID string `json:"target_id"`

	// Weight is a caller-defined numeric value (e.g., strength or confidence).
	// Defaults to DefaultWeight. The engine never interprets it.
	Weight float64 `json:"weight"`

	// Properties contains arbitrary key-value metadata for the edge.
	Properties map[string]any `json:"properties,omitempty"`

	// CreatedBy identifies the agent or subsystem that created the edge.
	CreatedBy string `json:"created_by,omitempty"`

	// CreatedAt is the timestamp when the edge was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the edge was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEdge creates a new Edge with the specified type, source, and target.
// The weight defaults to DefaultWeight and the Properties map is initialized.
// The ID and timestamps are assigned by the Graph when the edge is added.
func NewEdge(edgeType, sourceID, targetID string) *Edge {
	return &Edge{
		Type:       edgeType,
		SourceID:   sourceID,
		TargetID:   targetID,
		Weight:     DefaultWeight,
		Properties: make(map[string]any),
	}
}

// WithWeight sets the edge weight and returns the edge for method chaining.
func (e *Edge) WithWeight(weight float64) *Edge {
	e.Weight = weight
	return e
}

// WithProperty sets a single property and returns the edge for method chaining.
// If the Properties map is nil, it will be initialized.
func (e *Edge) WithProperty(key string, value any) *Edge {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
	return e
}

// WithProperties sets multiple properties on the edge and returns the edge
// for chaining. This replaces any existing properties.
func (e *Edge) WithProperties(props map[string]any) *Edge {
	e.Properties = props
	return e
}

// WithCreatedBy sets the creator identity and returns the edge for chaining.
func (e *Edge) WithCreatedBy(creator string) *Edge {
	e.CreatedBy = creator
	return e
}

// Validate checks that the edge has all required fields populated.
// Returns an error wrapping ErrInvalidArgument if Type, SourceID, or
// TargetID are empty.
func (e *Edge) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("%w: edge type cannot be empty", ErrInvalidArgument)
	}
	if e.SourceID == "" {
		return fmt.Errorf("%w: edge source id cannot be empty", ErrInvalidArgument)
	}
	if e.TargetID == "" {
		return fmt.Errorf("%w: edge target id cannot be empty", ErrInvalidArgument)
	}
	return nil
}

// Other returns the endpoint of the edge opposite to the given node id.
// For self-loops both endpoints are the same and Other returns nodeID itself.
func (e *Edge) Other(nodeID string) string {
	if e.SourceID == nodeID {
		return e.TargetID
	}
	return e.SourceID
}

// Clone returns a copy of the edge with its own Properties map. Stores return
// clones so callers can never mutate persisted state through a shared map;
// property values themselves are not copied.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Properties != nil {
		clone.Properties = make(map[string]any, len(e.Properties))
		for k, v := range e.Properties {
			clone.Properties[k] = v
		}
	}
	return &clone
}
