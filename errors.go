package linkgraph

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common graph engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrEdgeNotFound indicates the requested edge does not exist in the store.
	// It is returned by Get, Update, and Delete when the id is unknown, including
	// a second Delete of an already-removed edge.
	//
	// Example:
	//	edge, err := g.GetEdge(ctx, id)
	//	if errors.Is(err, linkgraph.ErrEdgeNotFound) {
	//	    log.Warn("edge already gone", "id", id)
	//	}
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrInvalidArgument indicates a required argument is missing or malformed:
	// an empty edge type, source, or target on AddEdge, an empty node id on
	// Neighbors/Traverse/FindPaths, or an unparseable direction.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidFilter indicates a CEL filter expression failed to compile or
	// does not evaluate to a boolean. Per-edge evaluation errors are never
	// surfaced as ErrInvalidFilter; they exclude the offending edge instead.
	ErrInvalidFilter = errors.New("invalid filter expression")

	// ErrStorageFailed indicates the underlying store failed. The store error
	// is wrapped for additional context about the specific failure.
	ErrStorageFailed = errors.New("storage operation failed")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where an edge was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindStorage represents errors from the backing store.
	KindStorage = "storage"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// GraphError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of error.
//
// GraphError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &GraphError{
//		Op:   "Graph.AddEdge",
//		Kind: KindValidation,
//		Err:  ErrInvalidArgument,
//	}
type GraphError struct {
	// Op is the operation that failed (e.g., "Graph.AddEdge", "Graph.Traverse").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include edge ids, node ids, or other debugging information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *GraphError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("linkgraph: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("linkgraph: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("linkgraph: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *GraphError) Unwrap() error {
	return e.Err
}

// Is implements error matching for GraphError, allowing comparison based on
// the underlying error or the GraphError itself.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}

	// Check if target is a GraphError with matching Kind
	if t, ok := target.(*GraphError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	// Delegate to underlying error
	return errors.Is(e.Err, target)
}

// WithContext returns a new GraphError with the provided context added.
// This is useful for adding debugging information to errors.
//
// Example:
//
//	err := &GraphError{
//		Op:   "Graph.FindPaths",
//		Kind: KindValidation,
//		Err:  ErrInvalidArgument,
//	}
//	err = err.WithContext(map[string]any{
//		"start_node_id": startID,
//		"end_node_id":   endID,
//	})
func (e *GraphError) WithContext(ctx map[string]any) *GraphError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new GraphError with KindNotFound.
func NewNotFoundError(op string, err error) *GraphError {
	return &GraphError{
		Op:   op,
		Kind: KindNotFound,
		Err:  err,
	}
}

// NewValidationError creates a new GraphError with KindValidation.
func NewValidationError(op string, err error) *GraphError {
	return &GraphError{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewStorageError creates a new GraphError with KindStorage. The store error
// is wrapped together with ErrStorageFailed, so callers can match the whole
// category with errors.Is(err, ErrStorageFailed).
func NewStorageError(op string, err error) *GraphError {
	if !errors.Is(err, ErrStorageFailed) {
		err = fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}
	return &GraphError{
		Op:   op,
		Kind: KindStorage,
		Err:  err,
	}
}

// NewInternalError creates a new GraphError with KindInternal.
func NewInternalError(op string, err error) *GraphError {
	return &GraphError{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g., "store",
// "redis connection"). If logger is nil, slog.Default() is used.
//
// Example usage:
//
//	defer linkgraph.CloseWithLog(store, logger, "edge store")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
