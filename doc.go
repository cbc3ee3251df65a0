// Package linkgraph is a typed relationship graph engine for heterogeneous
// knowledge entries. It persists directed, typed, weighted edges between
// opaque node identifiers and answers three kinds of read queries over the
// resulting graph: single-hop neighbor lookup, bounded breadth-first
// traversal, and simple-path discovery between two nodes.
//
// Node records (tools, guidelines, facts, tasks, sessions, and so on) are
// owned by other subsystems. This engine stores only edges, treats node ids
// as opaque strings, and terminates correctly on cyclic, concurrently
// mutated graphs.
//
// # Core Types
//
//   - Edge: a directed, typed, weighted relationship record with properties
//   - Graph: the engine facade with edge CRUD and the read algorithms
//   - Store: the persistence contract (see memstore and redistore)
//   - NeighborOptions, TraversalOptions, PathOptions: fluent query builders
//   - Filter: a compiled CEL edge predicate
//   - NodeResolver: the host-supplied node type resolution capability
//
// # Creating Edges
//
// Build edges with the fluent builder and add them through the Graph, which
// assigns ids and timestamps:
//
//	g, err := linkgraph.New(memstore.New())
//	if err != nil {
//	    return err
//	}
//
//	edge, err := g.AddEdge(ctx, linkgraph.NewEdge("depends_on", "tool-a", "lib-b").
//	    WithWeight(0.9).
//	    WithProperty("discovered", "static-analysis").
//	    WithCreatedBy("indexer-agent"))
//
// Self-loops and parallel edges between the same ordered pair are legal
// graph states; cycles of any length are valid.
//
// # Querying the Graph
//
// Neighbors computes a node's 1-hop frontier:
//
//	neighbors, err := g.Neighbors(ctx, "tool-a", linkgraph.NewNeighborOptions().
//	    WithDirection(linkgraph.DirectionBoth).
//	    WithEdgeTypes("depends_on", "calls"))
//
// Traverse performs a bounded breadth-first expansion and returns a
// depth-annotated subgraph:
//
//	sub, err := g.Traverse(ctx, "tool-a", linkgraph.NewTraversalOptions().
//	    WithMaxDepth(3))
//
// FindPaths enumerates simple paths between two nodes, shortest first:
//
//	paths, err := g.FindPaths(ctx, "tool-a", "session-9", linkgraph.NewPathOptions().
//	    WithMaxDepth(4).
//	    WithLimit(5))
//
// All read algorithms are iterative with explicit visited tracking, so
// cycles terminate by invariant rather than by recursion limits, and all of
// them clamp depth and result limits to configured ceilings instead of
// failing: callers always get a bounded, valid (possibly partial) answer.
//
// # Concurrency
//
// Each mutation is atomic with respect to other mutations; no transaction
// spans multiple edges. Reads are not a consistent snapshot across their
// multi-step algorithms: they tolerate concurrent structural changes by
// construction, and a node disappearing mid-traversal yields fewer results,
// never an error.
package linkgraph
