package linkgraph

import (
	"context"
	"fmt"
)

// Neighbor is a single entry in a node's 1-hop frontier: the matching edge
// together with the direction it was found under relative to the queried
// node. No deduplication is performed by endpoint; one entry is returned per
// matching edge.
type Neighbor struct {
	// Edge is the matching edge record.
	Edge *Edge `json:"edge"`

	// Direction is the direction the edge was found under: DirectionOut when
	// the queried node is the source, DirectionIn when it is the target.
	// Under a DirectionBoth query a self-loop yields two entries, one per tag.
	Direction Direction `json:"direction"`

	// OtherID is the endpoint opposite the queried node. For self-loops it
	// equals the queried node itself.
	OtherID string `json:"other_id"`
}

// NeighborOptions configures a Neighbors query with a fluent builder.
type NeighborOptions struct {
	// Direction selects which edges to follow relative to the node.
	// Default is DirectionOut.
	Direction Direction `json:"direction"`

	// EdgeTypes filters edges by type. Empty means all types pass.
	EdgeTypes []string `json:"edge_types,omitempty"`

	// NodeTypes filters the far endpoint by node type. Applied only when a
	// NodeResolver is configured; ignored otherwise.
	NodeTypes []string `json:"node_types,omitempty"`

	// Limit bounds the number of entries returned. Zero means the engine's
	// configured default neighbor limit.
	Limit int `json:"limit"`

	// Filter is an optional compiled CEL predicate applied to each candidate
	// edge before truncation to Limit.
	Filter *Filter `json:"-"`
}

// NewNeighborOptions creates NeighborOptions with defaults
// (direction out, engine default limit).
func NewNeighborOptions() *NeighborOptions {
	return &NeighborOptions{Direction: DefaultDirection}
}

// WithDirection sets the direction and returns the options for chaining.
func (o *NeighborOptions) WithDirection(d Direction) *NeighborOptions {
	o.Direction = d
	return o
}

// WithEdgeTypes sets the edge type filter and returns the options for chaining.
func (o *NeighborOptions) WithEdgeTypes(types ...string) *NeighborOptions {
	o.EdgeTypes = types
	return o
}

// WithNodeTypes sets the node type filter and returns the options for chaining.
func (o *NeighborOptions) WithNodeTypes(types ...string) *NeighborOptions {
	o.NodeTypes = types
	return o
}

// WithLimit sets the result limit and returns the options for chaining.
func (o *NeighborOptions) WithLimit(limit int) *NeighborOptions {
	o.Limit = limit
	return o
}

// WithFilter sets the CEL edge predicate and returns the options for chaining.
func (o *NeighborOptions) WithFilter(f *Filter) *NeighborOptions {
	o.Filter = f
	return o
}

// Neighbors computes the 1-hop frontier of a node. Results are ordered by
// edge creation order, so repeated queries on an unchanged graph are
// reproducible. At most opts.Limit entries are returned; edge-type, CEL, and
// node-type filters are applied before truncation.
//
// An unknown node is not an error: a node with no matching edges simply
// yields an empty result.
func (g *Graph) Neighbors(ctx context.Context, nodeID string, opts *NeighborOptions) ([]Neighbor, error) {
	const op = "Graph.Neighbors"

	ctx, span := g.startSpan(ctx, "linkgraph.neighbors")
	defer span.End()

	if nodeID == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: node id is required", ErrInvalidArgument))
	}
	if opts == nil {
		opts = NewNeighborOptions()
	}
	if err := opts.Direction.Validate(); err != nil {
		return nil, NewValidationError(op, err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = g.limits.NeighborLimit
	}

	neighbors, err := g.resolveNeighbors(ctx, nodeID, opts.Direction, opts.EdgeTypes, opts.NodeTypes, opts.Filter, limit)
	if err != nil {
		return nil, NewStorageError(op, err).WithContext(map[string]any{"node_id": nodeID})
	}

	g.logger.Debug("resolved neighbors",
		"node_id", nodeID,
		"direction", opts.Direction.String(),
		"count", len(neighbors))

	return neighbors, nil
}

// resolveNeighbors is the shared 1-hop lookup used by Neighbors, Traverse,
// and FindPaths. A limit <= 0 means no truncation (internal callers bound
// their work by depth and node/edge budgets instead).
func (g *Graph) resolveNeighbors(ctx context.Context, nodeID string, direction Direction, edgeTypes, nodeTypes []string, filter *Filter, limit int) ([]Neighbor, error) {
	var candidates []Neighbor

	switch direction {
	case DirectionOut:
		edges, err := g.store.List(ctx, ListFilter{SourceID: nodeID})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			candidates = append(candidates, Neighbor{
				Edge:      edge,
				Direction: DirectionOut,
				OtherID:   edge.TargetID,
			})
		}

	case DirectionIn:
		edges, err := g.store.List(ctx, ListFilter{TargetID: nodeID})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			candidates = append(candidates, Neighbor{
				Edge:      edge,
				Direction: DirectionIn,
				OtherID:   edge.SourceID,
			})
		}

	case DirectionBoth:
		// A single node-indexed scan keeps out and in entries interleaved
		// in global creation order; separate source and target scans would
		// lose it. A self-loop yields both tags for the one edge.
		edges, err := g.store.List(ctx, ListFilter{NodeID: nodeID})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if edge.SourceID == nodeID {
				candidates = append(candidates, Neighbor{
					Edge:      edge,
					Direction: DirectionOut,
					OtherID:   edge.TargetID,
				})
			}
			if edge.TargetID == nodeID {
				candidates = append(candidates, Neighbor{
					Edge:      edge,
					Direction: DirectionIn,
					OtherID:   edge.SourceID,
				})
			}
		}
	}

	var typeSet map[string]bool
	if len(edgeTypes) > 0 {
		typeSet = make(map[string]bool, len(edgeTypes))
		for _, t := range edgeTypes {
			typeSet[t] = true
		}
	}

	results := make([]Neighbor, 0, len(candidates))
	for _, n := range candidates {
		if typeSet != nil && !typeSet[n.Edge.Type] {
			continue
		}
		if !filter.Matches(n.Edge) {
			continue
		}
		if !g.matchesNodeType(ctx, n.OtherID, nodeTypes) {
			continue
		}
		results = append(results, n)
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	return results, nil
}

// matchesNodeType applies the node-type filter to a far endpoint. The filter
// only takes effect when a resolver is configured; a node the resolver cannot
// find fails the filter, and resolver errors are logged and treated the same
// way so concurrent node deletion yields fewer results rather than a failed
// read.
func (g *Graph) matchesNodeType(ctx context.Context, nodeID string, nodeTypes []string) bool {
	if len(nodeTypes) == 0 || g.resolver == nil {
		return true
	}

	nodeType, found, err := g.resolver.ResolveType(ctx, nodeID)
	if err != nil {
		g.logger.Warn("node type resolution failed, treating node as missing",
			"node_id", nodeID,
			"error", err)
		return false
	}
	if !found {
		return false
	}

	for _, t := range nodeTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}
