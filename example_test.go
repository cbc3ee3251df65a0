package linkgraph_test

import (
	"context"
	"fmt"

	"github.com/cognimesh/linkgraph"
	"github.com/cognimesh/linkgraph/memstore"
)

// Example demonstrates creating a graph, adding edges, and traversing.
func Example() {
	ctx := context.Background()

	g, err := linkgraph.New(memstore.New())
	if err != nil {
		fmt.Printf("failed to create graph: %v\n", err)
		return
	}
	defer linkgraph.CloseWithLog(g, nil, "graph")

	// Create a small dependency chain.
	edges := []*linkgraph.Edge{
		linkgraph.NewEdge("depends_on", "service-api", "lib-auth"),
		linkgraph.NewEdge("depends_on", "lib-auth", "lib-crypto"),
	}
	for _, e := range edges {
		if _, err := g.AddEdge(ctx, e); err != nil {
			fmt.Printf("failed to add edge: %v\n", err)
			return
		}
	}

	// Walk everything reachable from the service.
	tr, err := g.Traverse(ctx, "service-api", linkgraph.NewTraversalOptions().WithMaxDepth(2))
	if err != nil {
		fmt.Printf("failed to traverse: %v\n", err)
		return
	}

	for _, n := range tr.Nodes {
		fmt.Printf("depth %d: %s\n", n.Depth, n.NodeID)
	}
	// Output:
	// depth 0: service-api
	// depth 1: lib-auth
	// depth 2: lib-crypto
}

// ExampleNewEdge demonstrates building an edge with the fluent setters.
func ExampleNewEdge() {
	edge := linkgraph.NewEdge("calls", "handler.Login", "auth.Verify").
		WithWeight(0.8).
		WithProperty("call_count", 42).
		WithCreatedBy("static-analyzer")

	fmt.Println("Type:", edge.Type)
	fmt.Println("Source:", edge.SourceID)
	fmt.Println("Target:", edge.TargetID)
	fmt.Println("Weight:", edge.Weight)
	// Output:
	// Type: calls
	// Source: handler.Login
	// Target: auth.Verify
	// Weight: 0.8
}

// ExampleGraph_Neighbors demonstrates listing a node's adjacent edges.
func ExampleGraph_Neighbors() {
	ctx := context.Background()

	g, _ := linkgraph.New(memstore.New())
	defer g.Close()

	g.AddEdge(ctx, linkgraph.NewEdge("imports", "pkg/server", "pkg/config"))
	g.AddEdge(ctx, linkgraph.NewEdge("imports", "pkg/server", "pkg/store"))
	g.AddEdge(ctx, linkgraph.NewEdge("imports", "pkg/store", "pkg/server"))

	neighbors, err := g.Neighbors(ctx, "pkg/server",
		linkgraph.NewNeighborOptions().WithDirection(linkgraph.DirectionBoth))
	if err != nil {
		fmt.Printf("failed to resolve neighbors: %v\n", err)
		return
	}

	for _, n := range neighbors {
		fmt.Printf("%s %s\n", n.Direction, n.OtherID)
	}
	// Output:
	// out pkg/config
	// out pkg/store
	// in pkg/store
}

// ExampleGraph_FindPaths demonstrates enumerating simple paths between nodes.
func ExampleGraph_FindPaths() {
	ctx := context.Background()

	g, _ := linkgraph.New(memstore.New())
	defer g.Close()

	g.AddEdge(ctx, linkgraph.NewEdge("calls", "main", "parse"))
	g.AddEdge(ctx, linkgraph.NewEdge("calls", "parse", "validate"))
	g.AddEdge(ctx, linkgraph.NewEdge("calls", "main", "validate"))

	paths, err := g.FindPaths(ctx, "main", "validate",
		linkgraph.NewPathOptions().WithMaxDepth(3))
	if err != nil {
		fmt.Printf("failed to find paths: %v\n", err)
		return
	}

	for _, p := range paths {
		fmt.Printf("%d hops via %v\n", p.Len(), p.Nodes)
	}
	// Output:
	// 1 hops via [main validate]
	// 2 hops via [main parse validate]
}

// ExampleCompileFilter demonstrates filtering edges with a CEL expression.
func ExampleCompileFilter() {
	ctx := context.Background()

	g, _ := linkgraph.New(memstore.New())
	defer g.Close()

	g.AddEdge(ctx, linkgraph.NewEdge("calls", "a", "b").WithWeight(0.9))
	g.AddEdge(ctx, linkgraph.NewEdge("calls", "a", "c").WithWeight(0.2))

	filter, err := linkgraph.CompileFilter(`weight > 0.5`)
	if err != nil {
		fmt.Printf("failed to compile filter: %v\n", err)
		return
	}

	neighbors, _ := g.Neighbors(ctx, "a",
		linkgraph.NewNeighborOptions().WithFilter(filter))
	for _, n := range neighbors {
		fmt.Println(n.OtherID)
	}
	// Output:
	// b
}
