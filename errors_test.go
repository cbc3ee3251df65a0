package linkgraph

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGraphErrorError(t *testing.T) {
	err := &GraphError{
		Op:   "Graph.GetEdge",
		Kind: KindNotFound,
		Err:  ErrEdgeNotFound,
	}

	msg := err.Error()
	if !strings.Contains(msg, "Graph.GetEdge") {
		t.Errorf("expected message to contain the op, got %q", msg)
	}
	if !strings.Contains(msg, KindNotFound) {
		t.Errorf("expected message to contain the kind, got %q", msg)
	}

	withCtx := err.WithContext(map[string]any{"edge_id": "e-1"})
	if !strings.Contains(withCtx.Error(), "e-1") {
		t.Errorf("expected message to contain context, got %q", withCtx.Error())
	}

	noErr := &GraphError{Op: "Graph.AddEdge", Kind: KindInternal}
	if !strings.Contains(noErr.Error(), KindInternal) {
		t.Errorf("expected message without underlying error to contain the kind, got %q", noErr.Error())
	}
}

func TestGraphErrorUnwrap(t *testing.T) {
	err := NewNotFoundError("Graph.GetEdge", fmt.Errorf("%w: e-1", ErrEdgeNotFound))

	if !errors.Is(err, ErrEdgeNotFound) {
		t.Error("expected errors.Is to match the wrapped sentinel")
	}

	var ge *GraphError
	if !errors.As(err, &ge) {
		t.Fatal("expected errors.As to extract a *GraphError")
	}
	if ge.Kind != KindNotFound {
		t.Errorf("expected kind %q, got %q", KindNotFound, ge.Kind)
	}
}

func TestGraphErrorIsByKind(t *testing.T) {
	err := NewValidationError("Graph.AddEdge", ErrInvalidArgument)

	if !errors.Is(err, &GraphError{Kind: KindValidation}) {
		t.Error("expected match on kind alone")
	}
	if !errors.Is(err, &GraphError{Op: "Graph.AddEdge", Kind: KindValidation}) {
		t.Error("expected match on op and kind")
	}
	if errors.Is(err, &GraphError{Op: "Graph.DeleteEdge", Kind: KindValidation}) {
		t.Error("expected mismatch on different op")
	}
	if errors.Is(err, &GraphError{Kind: KindStorage}) {
		t.Error("expected mismatch on different kind")
	}
}

func TestGraphErrorWithContextCopies(t *testing.T) {
	base := NewStorageError("Graph.ListEdges", errors.New("connection reset"))
	derived := base.WithContext(map[string]any{"node_id": "n-1"})

	if base.Context != nil {
		t.Error("expected WithContext to leave the original untouched")
	}
	if derived.Context["node_id"] != "n-1" {
		t.Error("expected derived error to carry the context")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *GraphError
		kind string
	}{
		{"not found", NewNotFoundError("op", ErrEdgeNotFound), KindNotFound},
		{"validation", NewValidationError("op", ErrInvalidArgument), KindValidation},
		{"storage", NewStorageError("op", errors.New("boom")), KindStorage},
		{"internal", NewInternalError("op", errors.New("boom")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, tt.err.Kind)
			}
			if tt.err.Op != "op" {
				t.Errorf("expected op to be preserved, got %q", tt.err.Op)
			}
		})
	}

	storage := NewStorageError("op", errors.New("boom"))
	if !errors.Is(storage, ErrStorageFailed) {
		t.Error("expected storage errors to match ErrStorageFailed")
	}
}
