package linkgraph

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Default and ceiling values for graph read operations. All of these can be
// overridden through WithLimits or the config package.
const (
	// DefaultMaxDepth is the default hop budget for Traverse and FindPaths.
	DefaultMaxDepth = 3

	// DefaultDepthCeiling is the hard ceiling on requested depth. Requests
	// above it are clamped, not rejected, to keep behavior predictable.
	DefaultDepthCeiling = 10

	// DefaultMaxNodes bounds the total nodes a traversal may discover.
	DefaultMaxNodes = 1000

	// DefaultNeighborLimit bounds a Neighbors call when no limit is given.
	DefaultNeighborLimit = 100

	// DefaultPathLimit is the default maximum number of paths returned.
	DefaultPathLimit = 10

	// DefaultMaxPaths is the ceiling on the requested path limit.
	DefaultMaxPaths = 100

	// DefaultMaxEdgesExamined caps the total edges a single FindPaths call
	// may examine. Naive simple-path enumeration is exponential on dense or
	// highly cyclic graphs; the budget turns the worst case into a partial
	// result instead of an unbounded search.
	DefaultMaxEdgesExamined = 10000
)

// Limits bounds the cost of graph read operations. Depth and result limits
// are clamped to these ceilings, never rejected: callers always get a
// bounded, valid partial answer rather than an error.
type Limits struct {
	// DepthCeiling clamps the MaxDepth of Traverse and FindPaths requests.
	DepthCeiling int

	// DefaultDepth is used when a request does not specify MaxDepth.
	DefaultDepth int

	// MaxNodes clamps the node limit of Traverse requests.
	MaxNodes int

	// NeighborLimit is the default result limit for Neighbors requests.
	NeighborLimit int

	// MaxPaths clamps the path limit of FindPaths requests.
	MaxPaths int

	// DefaultPathLimit is used when a FindPaths request has no limit.
	DefaultPathLimit int

	// MaxEdgesExamined caps total edges examined per FindPaths call.
	MaxEdgesExamined int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		DepthCeiling:     DefaultDepthCeiling,
		DefaultDepth:     DefaultMaxDepth,
		MaxNodes:         DefaultMaxNodes,
		NeighborLimit:    DefaultNeighborLimit,
		MaxPaths:         DefaultMaxPaths,
		DefaultPathLimit: DefaultPathLimit,
		MaxEdgesExamined: DefaultMaxEdgesExamined,
	}
}

// Normalize fills zero or negative fields with their defaults and returns
// the result. It never mutates the receiver.
func (l Limits) Normalize() Limits {
	def := DefaultLimits()
	if l.DepthCeiling <= 0 {
		l.DepthCeiling = def.DepthCeiling
	}
	if l.DefaultDepth <= 0 {
		l.DefaultDepth = def.DefaultDepth
	}
	if l.DefaultDepth > l.DepthCeiling {
		l.DefaultDepth = l.DepthCeiling
	}
	if l.MaxNodes <= 0 {
		l.MaxNodes = def.MaxNodes
	}
	if l.NeighborLimit <= 0 {
		l.NeighborLimit = def.NeighborLimit
	}
	if l.MaxPaths <= 0 {
		l.MaxPaths = def.MaxPaths
	}
	if l.DefaultPathLimit <= 0 {
		l.DefaultPathLimit = def.DefaultPathLimit
	}
	if l.DefaultPathLimit > l.MaxPaths {
		l.DefaultPathLimit = l.MaxPaths
	}
	if l.MaxEdgesExamined <= 0 {
		l.MaxEdgesExamined = def.MaxEdgesExamined
	}
	return l
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets a custom structured logger for the graph engine.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// If not provided, the tracer from the global provider is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Graph) {
		g.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for engine metrics.
// If not provided, the meter from the global provider is used.
func WithMeter(meter metric.Meter) Option {
	return func(g *Graph) {
		g.meter = meter
	}
}

// WithNodeResolver injects the host's node type resolution capability.
// Without a resolver, node-type filters on Neighbors and Traverse are
// ignored; the engine never fabricates node-type information itself.
func WithNodeResolver(resolver NodeResolver) Option {
	return func(g *Graph) {
		g.resolver = resolver
	}
}

// WithLimits overrides the engine's depth/result ceilings and defaults.
// Zero fields are filled with the built-in defaults.
func WithLimits(limits Limits) Option {
	return func(g *Graph) {
		g.limits = limits.Normalize()
	}
}

// WithClock overrides the time source used for edge timestamps.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		g.now = now
	}
}
