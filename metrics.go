package linkgraph

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// graphMetrics holds the engine's OpenTelemetry instruments. Instrument
// creation failures are logged and leave the corresponding instrument nil;
// recording checks for nil so a broken meter never breaks graph operations.
type graphMetrics struct {
	edgesAdded    metric.Int64Counter
	edgesUpdated  metric.Int64Counter
	edgesDeleted  metric.Int64Counter
	traverseNodes metric.Int64Histogram
	pathsFound    metric.Int64Histogram
}

func newGraphMetrics(meter metric.Meter, logger *slog.Logger) *graphMetrics {
	m := &graphMetrics{}

	var err error
	if m.edgesAdded, err = meter.Int64Counter("linkgraph.edges.added",
		metric.WithDescription("Edges added to the graph")); err != nil {
		logger.Warn("failed to create counter", "instrument", "linkgraph.edges.added", "error", err)
	}
	if m.edgesUpdated, err = meter.Int64Counter("linkgraph.edges.updated",
		metric.WithDescription("Edges updated in the graph")); err != nil {
		logger.Warn("failed to create counter", "instrument", "linkgraph.edges.updated", "error", err)
	}
	if m.edgesDeleted, err = meter.Int64Counter("linkgraph.edges.deleted",
		metric.WithDescription("Edges deleted from the graph")); err != nil {
		logger.Warn("failed to create counter", "instrument", "linkgraph.edges.deleted", "error", err)
	}
	if m.traverseNodes, err = meter.Int64Histogram("linkgraph.traverse.nodes",
		metric.WithDescription("Nodes discovered per traversal")); err != nil {
		logger.Warn("failed to create histogram", "instrument", "linkgraph.traverse.nodes", "error", err)
	}
	if m.pathsFound, err = meter.Int64Histogram("linkgraph.paths.found",
		metric.WithDescription("Paths found per path query")); err != nil {
		logger.Warn("failed to create histogram", "instrument", "linkgraph.paths.found", "error", err)
	}

	return m
}

func (m *graphMetrics) recordAdd(ctx context.Context) {
	if m.edgesAdded != nil {
		m.edgesAdded.Add(ctx, 1)
	}
}

func (m *graphMetrics) recordUpdate(ctx context.Context) {
	if m.edgesUpdated != nil {
		m.edgesUpdated.Add(ctx, 1)
	}
}

func (m *graphMetrics) recordDelete(ctx context.Context) {
	if m.edgesDeleted != nil {
		m.edgesDeleted.Add(ctx, 1)
	}
}

func (m *graphMetrics) recordTraversal(ctx context.Context, nodes int) {
	if m.traverseNodes != nil {
		m.traverseNodes.Record(ctx, int64(nodes))
	}
}

func (m *graphMetrics) recordPaths(ctx context.Context, paths int) {
	if m.pathsFound != nil {
		m.pathsFound.Record(ctx, int64(paths))
	}
}
