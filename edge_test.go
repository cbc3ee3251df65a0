package linkgraph

import (
	"errors"
	"testing"
)

func TestNewEdge(t *testing.T) {
	edge := NewEdge("depends_on", "tool-a", "lib-b")

	if edge.Type != "depends_on" {
		t.Errorf("expected Type to be %q, got %q", "depends_on", edge.Type)
	}
	if edge.SourceID != "tool-a" {
		t.Errorf("expected SourceID to be %q, got %q", "tool-a", edge.SourceID)
	}
	if edge.TargetID != "lib-b" {
		t.Errorf("expected TargetID to be %q, got %q", "lib-b", edge.TargetID)
	}
	if edge.Weight != DefaultWeight {
		t.Errorf("expected default Weight to be %f, got %f", DefaultWeight, edge.Weight)
	}
	if edge.Properties == nil {
		t.Error("expected Properties to be initialized")
	}
	if edge.ID != "" {
		t.Errorf("expected ID to be unassigned, got %q", edge.ID)
	}
}

func TestEdgeBuilderChaining(t *testing.T) {
	edge := NewEdge("calls", "fn-1", "fn-2").
		WithWeight(0.75).
		WithProperty("call_site", "handler.go:42").
		WithCreatedBy("indexer")

	if edge.Weight != 0.75 {
		t.Errorf("expected Weight 0.75, got %f", edge.Weight)
	}
	if edge.Properties["call_site"] != "handler.go:42" {
		t.Errorf("unexpected property value: %v", edge.Properties["call_site"])
	}
	if edge.CreatedBy != "indexer" {
		t.Errorf("expected CreatedBy %q, got %q", "indexer", edge.CreatedBy)
	}
}

func TestEdgeWithPropertyNilMap(t *testing.T) {
	edge := &Edge{Type: "related_to", SourceID: "a", TargetID: "b"}
	edge.WithProperty("k", "v")

	if edge.Properties["k"] != "v" {
		t.Error("expected WithProperty to initialize a nil Properties map")
	}
}

func TestEdgeValidate(t *testing.T) {
	tests := []struct {
		name    string
		edge    *Edge
		wantErr bool
	}{
		{"valid", NewEdge("calls", "a", "b"), false},
		{"self loop is valid", NewEdge("related_to", "a", "a"), false},
		{"missing type", NewEdge("", "a", "b"), true},
		{"missing source", NewEdge("calls", "", "b"), true},
		{"missing target", NewEdge("calls", "a", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edge.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestEdgeOther(t *testing.T) {
	edge := NewEdge("calls", "a", "b")

	if got := edge.Other("a"); got != "b" {
		t.Errorf("expected Other(a) to be b, got %q", got)
	}
	if got := edge.Other("b"); got != "a" {
		t.Errorf("expected Other(b) to be a, got %q", got)
	}

	loop := NewEdge("related_to", "a", "a")
	if got := loop.Other("a"); got != "a" {
		t.Errorf("expected self-loop Other(a) to be a, got %q", got)
	}
}

func TestEdgeClone(t *testing.T) {
	edge := NewEdge("calls", "a", "b").WithProperty("k", "v")
	clone := edge.Clone()

	clone.Properties["k"] = "changed"
	clone.Weight = 42

	if edge.Properties["k"] != "v" {
		t.Error("mutating a clone's properties must not affect the original")
	}
	if edge.Weight != DefaultWeight {
		t.Error("mutating a clone's weight must not affect the original")
	}

	var nilEdge *Edge
	if nilEdge.Clone() != nil {
		t.Error("expected Clone of nil edge to be nil")
	}
}
