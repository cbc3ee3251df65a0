package linkgraph

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// PathOptions configures a FindPaths call with a fluent builder.
type PathOptions struct {
	// MaxDepth is the hop budget per path. When left unset the engine's
	// configured default depth applies; values above the depth ceiling are
	// clamped, not rejected.
	MaxDepth int `json:"max_depth"`

	// Direction selects which edges to follow. Default is DirectionOut.
	Direction Direction `json:"direction"`

	// EdgeTypes filters which edge types are followed. Empty means all.
	EdgeTypes []string `json:"edge_types,omitempty"`

	// Limit bounds the number of completed paths returned. Zero means the
	// engine's configured default; values above the ceiling are clamped.
	Limit int `json:"limit"`

	// Filter is an optional compiled CEL predicate applied to each candidate
	// edge during the search.
	Filter *Filter `json:"-"`

	depthSet bool
}

// NewPathOptions creates PathOptions with defaults
// (engine default depth, direction out, engine default path limit).
func NewPathOptions() *PathOptions {
	return &PathOptions{Direction: DefaultDirection}
}

// WithMaxDepth sets the hop budget and returns the options for chaining.
func (o *PathOptions) WithMaxDepth(depth int) *PathOptions {
	o.MaxDepth = depth
	o.depthSet = true
	return o
}

// WithDirection sets the direction and returns the options for chaining.
func (o *PathOptions) WithDirection(d Direction) *PathOptions {
	o.Direction = d
	return o
}

// WithEdgeTypes sets the edge type filter and returns the options for chaining.
func (o *PathOptions) WithEdgeTypes(types ...string) *PathOptions {
	o.EdgeTypes = types
	return o
}

// WithLimit sets the maximum number of paths and returns the options for chaining.
func (o *PathOptions) WithLimit(limit int) *PathOptions {
	o.Limit = limit
	return o
}

// WithFilter sets the CEL edge predicate and returns the options for chaining.
func (o *PathOptions) WithFilter(f *Filter) *PathOptions {
	o.Filter = f
	return o
}

// Path is a simple path: an ordered sequence of edges forming a walk between
// two nodes with no repeated node.
type Path struct {
	// Edges is the edge sequence from start to end. Empty for the zero-length
	// path returned when start and end are the same node.
	Edges []*Edge `json:"edges"`

	// Nodes is the node walk, start node first, end node last. It always has
	// exactly len(Edges)+1 entries.
	Nodes []string `json:"nodes"`
}

// Len returns the number of hops in the path.
func (p Path) Len() int {
	return len(p.Edges)
}

// pathFrame is one entry on the explicit DFS stack. Each frame carries its
// own visited set: a node may legitimately appear in several distinct
// returned paths, as long as it appears once within each.
type pathFrame struct {
	nodeID  string
	edges   []*Edge
	nodes   []string
	visited map[string]bool
}

// FindPaths enumerates simple paths from startNodeID to endNodeID within the
// hop budget. The search is depth-first with an explicit frame stack and a
// per-path visited set, bounded by the hop budget, the completed-path limit,
// and a global cap on edges examined; whichever bound is hit first ends the
// search with a valid partial result.
//
// Results are ordered by path length ascending, then by discovery order, so
// the shortest paths surface first. When start and end are the same node a
// single zero-length path is returned, matching traversal's depth-0
// semantics. No path within the budget yields an empty slice, not an error.
func (g *Graph) FindPaths(ctx context.Context, startNodeID, endNodeID string, opts *PathOptions) ([]Path, error) {
	const op = "Graph.FindPaths"

	ctx, span := g.startSpan(ctx, "linkgraph.find_paths")
	defer span.End()

	if startNodeID == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: start node id is required", ErrInvalidArgument))
	}
	if endNodeID == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: end node id is required", ErrInvalidArgument))
	}
	if opts == nil {
		opts = NewPathOptions()
	}
	if err := opts.Direction.Validate(); err != nil {
		return nil, NewValidationError(op, err)
	}

	maxDepth := g.clampDepth(opts.MaxDepth, opts.depthSet)
	limit := opts.Limit
	if limit <= 0 {
		limit = g.limits.DefaultPathLimit
	} else if limit > g.limits.MaxPaths {
		g.logger.Warn("path limit clamped to ceiling",
			"requested", limit,
			"ceiling", g.limits.MaxPaths)
		limit = g.limits.MaxPaths
	}

	span.SetAttributes(
		attribute.String("linkgraph.start_node_id", startNodeID),
		attribute.String("linkgraph.end_node_id", endNodeID),
		attribute.Int("linkgraph.max_depth", maxDepth),
	)

	if startNodeID == endNodeID {
		return []Path{{Edges: []*Edge{}, Nodes: []string{startNodeID}}}, nil
	}

	var paths []Path
	edgesExamined := 0

	stack := []pathFrame{{
		nodeID:  startNodeID,
		edges:   []*Edge{},
		nodes:   []string{startNodeID},
		visited: map[string]bool{startNodeID: true},
	}}

search:
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(frame.edges) >= maxDepth {
			continue
		}

		neighbors, err := g.resolveNeighbors(ctx, frame.nodeID, opts.Direction, opts.EdgeTypes, nil, opts.Filter, 0)
		if err != nil {
			return nil, NewStorageError(op, err).WithContext(map[string]any{
				"start_node_id": startNodeID,
				"end_node_id":   endNodeID,
			})
		}

		// Push in reverse so neighbors are explored in creation order.
		for i := len(neighbors) - 1; i >= 0; i-- {
			n := neighbors[i]

			edgesExamined++
			if edgesExamined > g.limits.MaxEdgesExamined {
				g.logger.Warn("path search edge budget exhausted",
					"start_node_id", startNodeID,
					"end_node_id", endNodeID,
					"budget", g.limits.MaxEdgesExamined)
				break search
			}

			if n.OtherID == endNodeID {
				paths = append(paths, Path{
					Edges: appendEdge(frame.edges, n.Edge),
					Nodes: appendNode(frame.nodes, n.OtherID),
				})
				if len(paths) >= limit {
					break search
				}
				continue
			}

			if frame.visited[n.OtherID] {
				continue
			}

			visited := make(map[string]bool, len(frame.visited)+1)
			for k := range frame.visited {
				visited[k] = true
			}
			visited[n.OtherID] = true

			stack = append(stack, pathFrame{
				nodeID:  n.OtherID,
				edges:   appendEdge(frame.edges, n.Edge),
				nodes:   appendNode(frame.nodes, n.OtherID),
				visited: visited,
			})
		}
	}

	// Shortest paths first; SliceStable keeps discovery order within a length.
	sort.SliceStable(paths, func(i, j int) bool {
		return len(paths[i].Edges) < len(paths[j].Edges)
	})

	span.SetAttributes(attribute.Int("linkgraph.paths_found", len(paths)))
	if g.metrics != nil {
		g.metrics.recordPaths(ctx, len(paths))
	}

	return paths, nil
}

// appendEdge copies the path prefix before appending so sibling DFS branches
// never share backing arrays.
func appendEdge(edges []*Edge, edge *Edge) []*Edge {
	out := make([]*Edge, len(edges)+1)
	copy(out, edges)
	out[len(edges)] = edge
	return out
}

func appendNode(nodes []string, nodeID string) []string {
	out := make([]string, len(nodes)+1)
	copy(out, nodes)
	out[len(nodes)] = nodeID
	return out
}
