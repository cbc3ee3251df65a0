package linkgraph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TraversalOptions configures a Traverse call with a fluent builder.
type TraversalOptions struct {
	// MaxDepth is the maximum number of hops from the start node. When left
	// unset the engine's configured default depth applies; values above the
	// depth ceiling are clamped, not rejected. Use WithMaxDepth(0) to request
	// a zero-hop traversal (start node only); a struct literal cannot
	// distinguish depth 0 from unset.
	MaxDepth int `json:"max_depth"`

	// Direction selects which edges to follow. Default is DirectionOut.
	Direction Direction `json:"direction"`

	// EdgeTypes filters which edge types are followed. Empty means all.
	EdgeTypes []string `json:"edge_types,omitempty"`

	// NodeTypes filters discovered nodes by type. Applied only when a
	// NodeResolver is configured; ignored otherwise.
	NodeTypes []string `json:"node_types,omitempty"`

	// MaxNodes bounds the total nodes discovered, start node included. Zero
	// means the engine's configured maximum. When the bound is hit the
	// traversal stops without finishing the current level and returns the
	// partial result; this is never an error.
	MaxNodes int `json:"max_nodes"`

	// Filter is an optional compiled CEL predicate applied to each candidate
	// edge during expansion.
	Filter *Filter `json:"-"`

	depthSet bool
}

// NewTraversalOptions creates TraversalOptions with defaults
// (engine default depth, direction out, engine maximum node bound).
func NewTraversalOptions() *TraversalOptions {
	return &TraversalOptions{Direction: DefaultDirection}
}

// WithMaxDepth sets the hop budget and returns the options for chaining.
// WithMaxDepth(0) is a valid request that returns only the start node.
func (o *TraversalOptions) WithMaxDepth(depth int) *TraversalOptions {
	o.MaxDepth = depth
	o.depthSet = true
	return o
}

// WithDirection sets the direction and returns the options for chaining.
func (o *TraversalOptions) WithDirection(d Direction) *TraversalOptions {
	o.Direction = d
	return o
}

// WithEdgeTypes sets the edge type filter and returns the options for chaining.
func (o *TraversalOptions) WithEdgeTypes(types ...string) *TraversalOptions {
	o.EdgeTypes = types
	return o
}

// WithNodeTypes sets the node type filter and returns the options for chaining.
func (o *TraversalOptions) WithNodeTypes(types ...string) *TraversalOptions {
	o.NodeTypes = types
	return o
}

// WithMaxNodes sets the node bound and returns the options for chaining.
func (o *TraversalOptions) WithMaxNodes(n int) *TraversalOptions {
	o.MaxNodes = n
	return o
}

// WithFilter sets the CEL edge predicate and returns the options for chaining.
func (o *TraversalOptions) WithFilter(f *Filter) *TraversalOptions {
	o.Filter = f
	return o
}

// NodeDepth is a discovered node annotated with its BFS depth: the number of
// hops from the start node at which it was first reached.
type NodeDepth struct {
	// NodeID is the discovered node.
	NodeID string `json:"node_id"`

	// Depth is the hop count from the start node (start node is depth 0).
	Depth int `json:"depth"`
}

// Traversal is the depth-annotated subgraph reachable from a start node.
type Traversal struct {
	// Nodes lists discovered nodes in discovery order, start node first.
	// Each node appears exactly once, at the depth it was first reached.
	Nodes []NodeDepth `json:"nodes"`

	// Edges lists every matching edge encountered during expansion, deduped
	// by edge id. Edges that close a cycle are included; they are real graph
	// structure even though they never reopen a visited node.
	Edges []*Edge `json:"edges"`
}

// Traverse performs a bounded breadth-first expansion from startNodeID.
//
// A global visited set guarantees each node is expanded at most once, so
// cycles terminate by construction. The traversal halts early once a level
// discovers no new nodes, and stops mid-level when the node bound is hit.
// Traversing from an unknown or isolated node is valid and returns just the
// start node at depth 0.
//
// The traversal is not a consistent snapshot: edges added or removed by
// concurrent callers may or may not be observed, and a node disappearing
// mid-walk simply yields fewer results.
func (g *Graph) Traverse(ctx context.Context, startNodeID string, opts *TraversalOptions) (*Traversal, error) {
	const op = "Graph.Traverse"

	ctx, span := g.startSpan(ctx, "linkgraph.traverse")
	defer span.End()

	if startNodeID == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: start node id is required", ErrInvalidArgument))
	}
	if opts == nil {
		opts = NewTraversalOptions()
	}
	if err := opts.Direction.Validate(); err != nil {
		return nil, NewValidationError(op, err)
	}

	maxDepth := g.clampDepth(opts.MaxDepth, opts.depthSet)
	maxNodes := opts.MaxNodes
	if maxNodes <= 0 || maxNodes > g.limits.MaxNodes {
		if maxNodes > g.limits.MaxNodes {
			g.logger.Warn("traversal node bound clamped",
				"requested", maxNodes,
				"ceiling", g.limits.MaxNodes)
		}
		maxNodes = g.limits.MaxNodes
	}

	span.SetAttributes(
		attribute.String("linkgraph.start_node_id", startNodeID),
		attribute.Int("linkgraph.max_depth", maxDepth),
	)

	result := &Traversal{
		Nodes: []NodeDepth{{NodeID: startNodeID, Depth: 0}},
		Edges: []*Edge{},
	}

	visited := map[string]bool{startNodeID: true}
	seenEdges := make(map[string]bool)
	frontier := []string{startNodeID}

	for depth := 0; depth < maxDepth && len(frontier) > 0 && len(result.Nodes) < maxNodes; depth++ {
		var next []string

		for _, nodeID := range frontier {
			neighbors, err := g.resolveNeighbors(ctx, nodeID, opts.Direction, opts.EdgeTypes, opts.NodeTypes, opts.Filter, 0)
			if err != nil {
				return nil, NewStorageError(op, err).WithContext(map[string]any{
					"start_node_id": startNodeID,
					"depth":         depth,
				})
			}

			for _, n := range neighbors {
				if !seenEdges[n.Edge.ID] {
					seenEdges[n.Edge.ID] = true
					result.Edges = append(result.Edges, n.Edge)
				}

				if visited[n.OtherID] {
					continue
				}

				// The bound counts the start node, so check before appending.
				if len(result.Nodes) >= maxNodes {
					g.logger.Debug("traversal node bound reached",
						"start_node_id", startNodeID,
						"nodes", len(result.Nodes))
					g.recordTraversal(ctx, result, span)
					return result, nil
				}

				visited[n.OtherID] = true
				result.Nodes = append(result.Nodes, NodeDepth{NodeID: n.OtherID, Depth: depth + 1})
				next = append(next, n.OtherID)
			}
		}

		frontier = next
	}

	g.recordTraversal(ctx, result, span)
	return result, nil
}

// clampDepth resolves a requested depth against the engine defaults and
// ceiling. Unset requests use the default depth; negative requests are
// treated as zero; requests above the ceiling are clamped.
func (g *Graph) clampDepth(requested int, explicit bool) int {
	if !explicit && requested == 0 {
		return g.limits.DefaultDepth
	}
	if requested < 0 {
		return 0
	}
	if requested > g.limits.DepthCeiling {
		g.logger.Warn("depth clamped to ceiling",
			"requested", requested,
			"ceiling", g.limits.DepthCeiling)
		return g.limits.DepthCeiling
	}
	return requested
}

func (g *Graph) recordTraversal(ctx context.Context, result *Traversal, span trace.Span) {
	span.SetAttributes(
		attribute.Int("linkgraph.nodes_discovered", len(result.Nodes)),
		attribute.Int("linkgraph.edges_collected", len(result.Edges)),
	)
	if g.metrics != nil {
		g.metrics.recordTraversal(ctx, len(result.Nodes))
	}
}
