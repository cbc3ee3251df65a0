package linkgraph_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cognimesh/linkgraph"
)

// typeResolver is a NodeResolver backed by a static map, standing in for the
// host's node stores.
type typeResolver map[string]string

func (r typeResolver) ResolveType(_ context.Context, nodeID string) (string, bool, error) {
	t, ok := r[nodeID]
	return t, ok, nil
}

// failingResolver always errors, simulating a host store outage.
type failingResolver struct{}

func (failingResolver) ResolveType(context.Context, string) (string, bool, error) {
	return "", false, errors.New("node store unavailable")
}

func TestNeighborsDirections(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	callsAB := mustAdd(t, g, linkgraph.NewEdge("calls", "A", "B"))
	implementsBC := mustAdd(t, g, linkgraph.NewEdge("implements", "B", "C"))

	t.Run("out", func(t *testing.T) {
		got, err := g.Neighbors(ctx, "B", nil)
		if err != nil {
			t.Fatalf("failed to resolve neighbors: %v", err)
		}
		if len(got) != 1 || got[0].Edge.ID != implementsBC.ID {
			t.Fatalf("expected only the outgoing edge, got %v", got)
		}
		if got[0].Direction != linkgraph.DirectionOut || got[0].OtherID != "C" {
			t.Errorf("unexpected tag: %+v", got[0])
		}
	})

	t.Run("in", func(t *testing.T) {
		got, err := g.Neighbors(ctx, "B", linkgraph.NewNeighborOptions().WithDirection(linkgraph.DirectionIn))
		if err != nil {
			t.Fatalf("failed to resolve neighbors: %v", err)
		}
		if len(got) != 1 || got[0].Edge.ID != callsAB.ID {
			t.Fatalf("expected only the incoming edge, got %v", got)
		}
		if got[0].Direction != linkgraph.DirectionIn || got[0].OtherID != "A" {
			t.Errorf("unexpected tag: %+v", got[0])
		}
	})

	t.Run("both", func(t *testing.T) {
		got, err := g.Neighbors(ctx, "B", linkgraph.NewNeighborOptions().WithDirection(linkgraph.DirectionBoth))
		if err != nil {
			t.Fatalf("failed to resolve neighbors: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected both edges, got %d", len(got))
		}
		// Creation order: the in-edge A->B was added before the out-edge B->C.
		if got[0].Edge.ID != callsAB.ID || got[0].Direction != linkgraph.DirectionIn {
			t.Errorf("expected the older in-edge first, got %+v", got[0])
		}
		if got[1].Edge.ID != implementsBC.ID || got[1].Direction != linkgraph.DirectionOut {
			t.Errorf("expected the newer out-edge second, got %+v", got[1])
		}
	})
}

func TestNeighborsBothDirectionLimitByCreationOrder(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	// Alternate in and out edges so a split source/target scan would
	// reorder them; the limit must keep the oldest entries.
	in1 := mustAdd(t, g, linkgraph.NewEdge("calls", "x1", "hub"))
	out1 := mustAdd(t, g, linkgraph.NewEdge("calls", "hub", "y1"))
	in2 := mustAdd(t, g, linkgraph.NewEdge("calls", "x2", "hub"))
	mustAdd(t, g, linkgraph.NewEdge("calls", "hub", "y2"))

	got, err := g.Neighbors(ctx, "hub",
		linkgraph.NewNeighborOptions().WithDirection(linkgraph.DirectionBoth).WithLimit(3))
	if err != nil {
		t.Fatalf("failed to resolve neighbors: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	want := []string{in1.ID, out1.ID, in2.ID}
	for i, n := range got {
		if n.Edge.ID != want[i] {
			t.Errorf("position %d: got edge %s, want %s", i, n.Edge.ID, want[i])
		}
	}
}

func TestNeighborsSelfLoopUnderBoth(t *testing.T) {
	g := newTestGraph(t)

	loop := mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "A"))

	got, err := g.Neighbors(context.Background(), "A",
		linkgraph.NewNeighborOptions().WithDirection(linkgraph.DirectionBoth))
	if err != nil {
		t.Fatalf("failed to resolve neighbors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected a self-loop to yield two entries under both, got %d", len(got))
	}
	for _, n := range got {
		if n.Edge.ID != loop.ID || n.OtherID != "A" {
			t.Errorf("unexpected entry: %+v", n)
		}
	}
}

func TestNeighborsEdgeTypeFilter(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	mustAdd(t, g, linkgraph.NewEdge("calls", "A", "B"))
	dependsOn := mustAdd(t, g, linkgraph.NewEdge("depends_on", "A", "C"))
	mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "D"))

	got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithEdgeTypes("depends_on"))
	if err != nil {
		t.Fatalf("failed to resolve neighbors: %v", err)
	}
	if len(got) != 1 || got[0].Edge.ID != dependsOn.ID {
		t.Errorf("expected only the depends_on edge, got %v", got)
	}
}

func TestNeighborsLimitAndOrder(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		stored := mustAdd(t, g, linkgraph.NewEdge("calls", "A", fmt.Sprintf("n%d", i)))
		ids = append(ids, stored.ID)
	}

	got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithLimit(3))
	if err != nil {
		t.Fatalf("failed to resolve neighbors: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, n := range got {
		if n.Edge.ID != ids[i] {
			t.Errorf("expected creation order at %d, got %s want %s", i, n.Edge.ID, ids[i])
		}
	}
}

func TestNeighborsCELFilterBeforeLimit(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	mustAdd(t, g, linkgraph.NewEdge("calls", "A", "weak").WithWeight(0.1))
	strong := mustAdd(t, g, linkgraph.NewEdge("calls", "A", "strong").WithWeight(0.9))

	pred, err := linkgraph.CompileFilter(`weight > 0.5`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithFilter(pred).WithLimit(1))
	if err != nil {
		t.Fatalf("failed to resolve neighbors: %v", err)
	}
	if len(got) != 1 || got[0].Edge.ID != strong.ID {
		t.Errorf("expected the filter to apply before the limit, got %v", got)
	}
}

func TestNeighborsNodeTypeFilter(t *testing.T) {
	ctx := context.Background()
	resolver := typeResolver{"A": "tool", "B": "guideline", "C": "fact"}

	t.Run("with resolver", func(t *testing.T) {
		g := newTestGraph(t, linkgraph.WithNodeResolver(resolver))

		mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "B"))
		toFact := mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "C"))
		mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "unknown-node"))

		got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithNodeTypes("fact"))
		if err != nil {
			t.Fatalf("failed to resolve neighbors: %v", err)
		}
		if len(got) != 1 || got[0].Edge.ID != toFact.ID {
			t.Errorf("expected only the fact neighbor, got %v", got)
		}
	})

	t.Run("without resolver the filter is ignored", func(t *testing.T) {
		g := newTestGraph(t)

		mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "B"))

		got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithNodeTypes("fact"))
		if err != nil {
			t.Fatalf("failed to resolve neighbors: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected the node-type filter to be ignored, got %v", got)
		}
	})

	t.Run("resolver errors degrade to missing", func(t *testing.T) {
		g := newTestGraph(t, linkgraph.WithNodeResolver(failingResolver{}))

		mustAdd(t, g, linkgraph.NewEdge("related_to", "A", "B"))

		got, err := g.Neighbors(ctx, "A", linkgraph.NewNeighborOptions().WithNodeTypes("fact"))
		if err != nil {
			t.Fatalf("expected resolver errors not to fail the read: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected unresolvable nodes to fail the filter, got %v", got)
		}
	})
}

func TestNeighborsValidation(t *testing.T) {
	g := newTestGraph(t)
	ctx := context.Background()

	if _, err := g.Neighbors(ctx, "", nil); !errors.Is(err, linkgraph.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty node id, got %v", err)
	}

	bad := linkgraph.NewNeighborOptions()
	bad.Direction = linkgraph.Direction(42)
	if _, err := g.Neighbors(ctx, "A", bad); !errors.Is(err, linkgraph.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for bad direction, got %v", err)
	}
}

func TestNeighborsUnknownNode(t *testing.T) {
	g := newTestGraph(t)

	got, err := g.Neighbors(context.Background(), "nowhere", nil)
	if err != nil {
		t.Fatalf("expected an unknown node to be a valid query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no neighbors, got %v", got)
	}
}
