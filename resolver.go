package linkgraph

import "context"

// NodeResolver is an optional capability supplied by the host that lets the
// engine resolve the type of a node. Node records live in heterogeneous
// external stores with no foreign-key relationship to the edge table, so the
// engine treats node ids as opaque strings and never fabricates node-type
// information itself.
//
// When a resolver is injected via WithNodeResolver, node-type filters on
// Neighbors and Traverse are applied before results are truncated to their
// limit. Without a resolver, node-type filters are ignored.
type NodeResolver interface {
	// ResolveType returns the type tag for the given node id.
	// found is false when the node does not exist (or no longer exists);
	// the engine treats such nodes as failing any active node-type filter.
	ResolveType(ctx context.Context, nodeID string) (nodeType string, found bool, err error)
}

// NodeResolverFunc adapts a function to the NodeResolver interface.
type NodeResolverFunc func(ctx context.Context, nodeID string) (string, bool, error)

// ResolveType calls the wrapped function.
func (f NodeResolverFunc) ResolveType(ctx context.Context, nodeID string) (string, bool, error) {
	return f(ctx, nodeID)
}
