package linkgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library to tracer and meter providers.
const instrumentationName = "github.com/cognimesh/linkgraph"

// Graph is the relationship graph engine. It owns edge lifecycle (id and
// timestamp assignment, validation, error taxonomy) and the read algorithms
// (Neighbors, Traverse, FindPaths), and delegates durability to a Store.
//
// A Graph is safe for concurrent use by multiple goroutines; each operation
// is its own unit of work. Reads tolerate concurrent structural changes by
// construction and never block indefinitely: a request either completes
// within its depth/limit ceilings or returns a partial result.
type Graph struct {
	store    Store
	resolver NodeResolver
	limits   Limits
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	metrics  *graphMetrics
	now      func() time.Time
}

// New creates a Graph backed by the given store.
//
// Example:
//
//	store := memstore.New()
//	g, err := linkgraph.New(store,
//	    linkgraph.WithLogger(logger),
//	    linkgraph.WithNodeResolver(resolver),
//	)
func New(store Store, opts ...Option) (*Graph, error) {
	if store == nil {
		return nil, NewValidationError("New", fmt.Errorf("%w: store is required", ErrInvalidArgument))
	}

	g := &Graph{
		store:  store,
		limits: DefaultLimits(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer(instrumentationName)
	}
	if g.meter == nil {
		g.meter = otel.Meter(instrumentationName)
	}
	g.metrics = newGraphMetrics(g.meter, g.logger)

	return g, nil
}

// AddEdge validates and persists a new edge. The engine assigns the id and
// timestamps; a zero weight is treated as unset and replaced with
// DefaultWeight. The source and target are not checked against any node
// store: node existence is owned by other subsystems, and edges to unknown
// nodes are legal.
//
// Returns the stored edge. The input edge is not mutated.
func (g *Graph) AddEdge(ctx context.Context, edge *Edge) (*Edge, error) {
	const op = "Graph.AddEdge"

	ctx, span := g.startSpan(ctx, "linkgraph.add_edge")
	defer span.End()

	if edge == nil {
		return nil, NewValidationError(op, fmt.Errorf("%w: edge is required", ErrInvalidArgument))
	}
	if err := edge.Validate(); err != nil {
		return nil, NewValidationError(op, err)
	}

	stored := edge.Clone()
	stored.ID = uuid.New().String()
	if stored.Weight == 0 {
		stored.Weight = DefaultWeight
	}
	now := g.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	span.SetAttributes(
		attribute.String("linkgraph.edge_type", stored.Type),
		attribute.String("linkgraph.edge_id", stored.ID),
	)

	if err := g.store.Add(ctx, stored); err != nil {
		return nil, NewStorageError(op, err).WithContext(map[string]any{"edge_id": stored.ID})
	}

	g.metrics.recordAdd(ctx)
	g.logger.Debug("edge added",
		"edge_id", stored.ID,
		"edge_type", stored.Type,
		"source_id", stored.SourceID,
		"target_id", stored.TargetID)

	return stored, nil
}

// GetEdge returns the edge with the given id.
// Returns an error matching ErrEdgeNotFound if the id is unknown.
func (g *Graph) GetEdge(ctx context.Context, id string) (*Edge, error) {
	const op = "Graph.GetEdge"

	ctx, span := g.startSpan(ctx, "linkgraph.get_edge")
	defer span.End()

	if id == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: edge id is required", ErrInvalidArgument))
	}

	edge, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, g.wrapStoreError(op, err, map[string]any{"edge_id": id})
	}

	return edge, nil
}

// ListOptions configures a ListEdges query with a fluent builder.
// Zero-valued filter fields match any edge.
type ListOptions struct {
	// Type matches edges with this exact edge type.
	Type string `json:"type,omitempty"`

	// SourceID matches edges leaving this node.
	SourceID string `json:"source_id,omitempty"`

	// TargetID matches edges entering this node.
	TargetID string `json:"target_id,omitempty"`

	// Limit bounds the number of edges returned. Zero means no limit.
	Limit int `json:"limit"`

	// Offset skips this many matching edges, for pagination.
	Offset int `json:"offset"`

	// Filter is an optional compiled CEL predicate applied to each candidate
	// edge before Offset and Limit take effect.
	Filter *Filter `json:"-"`
}

// NewListOptions creates empty ListOptions.
func NewListOptions() *ListOptions {
	return &ListOptions{}
}

// WithType sets the edge type filter and returns the options for chaining.
func (o *ListOptions) WithType(edgeType string) *ListOptions {
	o.Type = edgeType
	return o
}

// WithSourceID sets the source filter and returns the options for chaining.
func (o *ListOptions) WithSourceID(id string) *ListOptions {
	o.SourceID = id
	return o
}

// WithTargetID sets the target filter and returns the options for chaining.
func (o *ListOptions) WithTargetID(id string) *ListOptions {
	o.TargetID = id
	return o
}

// WithLimit sets the result limit and returns the options for chaining.
func (o *ListOptions) WithLimit(limit int) *ListOptions {
	o.Limit = limit
	return o
}

// WithOffset sets the pagination offset and returns the options for chaining.
func (o *ListOptions) WithOffset(offset int) *ListOptions {
	o.Offset = offset
	return o
}

// WithFilter sets the CEL edge predicate and returns the options for chaining.
func (o *ListOptions) WithFilter(f *Filter) *ListOptions {
	o.Filter = f
	return o
}

// ListEdges returns edges matching the options in creation order, making
// pagination deterministic. A nil opts lists everything.
func (g *Graph) ListEdges(ctx context.Context, opts *ListOptions) ([]*Edge, error) {
	const op = "Graph.ListEdges"

	ctx, span := g.startSpan(ctx, "linkgraph.list_edges")
	defer span.End()

	if opts == nil {
		opts = NewListOptions()
	}

	filter := ListFilter{
		Type:     opts.Type,
		SourceID: opts.SourceID,
		TargetID: opts.TargetID,
	}

	// The CEL predicate must see every candidate before truncation, so
	// offset and limit move engine-side when a predicate is present.
	if opts.Filter == nil {
		filter.Limit = opts.Limit
		filter.Offset = opts.Offset
	}

	edges, err := g.store.List(ctx, filter)
	if err != nil {
		return nil, NewStorageError(op, err)
	}

	if opts.Filter != nil {
		matched := make([]*Edge, 0, len(edges))
		for _, edge := range edges {
			if opts.Filter.Matches(edge) {
				matched = append(matched, edge)
			}
		}
		edges = paginate(matched, opts.Offset, opts.Limit)
	}

	return edges, nil
}

// UpdateEdge applies a partial update to an edge. Only weight and properties
// are mutable; fields left nil in changes are untouched and UpdatedAt is
// refreshed. Concurrent updates to the same edge serialize in the store with
// last-write-wins semantics.
//
// Returns the updated edge, or an error matching ErrEdgeNotFound if the id
// is unknown.
func (g *Graph) UpdateEdge(ctx context.Context, id string, changes EdgeChanges) (*Edge, error) {
	const op = "Graph.UpdateEdge"

	ctx, span := g.startSpan(ctx, "linkgraph.update_edge")
	defer span.End()

	if id == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: edge id is required", ErrInvalidArgument))
	}

	edge, err := g.store.Update(ctx, id, changes)
	if err != nil {
		return nil, g.wrapStoreError(op, err, map[string]any{"edge_id": id})
	}

	g.metrics.recordUpdate(ctx)
	g.logger.Debug("edge updated", "edge_id", id)

	return edge, nil
}

// DeleteEdge permanently removes an edge. Deletion does not cascade; there
// are no dependent entities within this engine. A second delete of the same
// id returns an error matching ErrEdgeNotFound rather than succeeding
// silently, exposing caller misuse.
func (g *Graph) DeleteEdge(ctx context.Context, id string) error {
	const op = "Graph.DeleteEdge"

	ctx, span := g.startSpan(ctx, "linkgraph.delete_edge")
	defer span.End()

	if id == "" {
		return NewValidationError(op, fmt.Errorf("%w: edge id is required", ErrInvalidArgument))
	}

	if err := g.store.Delete(ctx, id); err != nil {
		return g.wrapStoreError(op, err, map[string]any{"edge_id": id})
	}

	g.metrics.recordDelete(ctx)
	g.logger.Debug("edge deleted", "edge_id", id)

	return nil
}

// Close releases the underlying store.
func (g *Graph) Close() error {
	return g.store.Close()
}

func (g *Graph) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return g.tracer.Start(ctx, name)
}

// wrapStoreError maps store errors into the engine taxonomy, preserving
// ErrEdgeNotFound for errors.Is checks.
func (g *Graph) wrapStoreError(op string, err error, errCtx map[string]any) error {
	if errors.Is(err, ErrEdgeNotFound) {
		return NewNotFoundError(op, err).WithContext(errCtx)
	}
	return NewStorageError(op, err).WithContext(errCtx)
}

// paginate applies offset and limit to an already-filtered edge slice.
func paginate(edges []*Edge, offset, limit int) []*Edge {
	if offset > 0 {
		if offset >= len(edges) {
			return []*Edge{}
		}
		edges = edges[offset:]
	}
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	return edges
}
