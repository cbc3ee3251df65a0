// Package redistore provides a Redis-backed implementation of the linkgraph
// Store contract using go-redis/v9. It is the durable multi-process backend:
// edge documents are stored as JSON values and indexed by endpoint and type
// in sorted sets scored by a monotonic creation sequence, so listing is
// stable creation order across all writers regardless of clock skew.
package redistore

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cognimesh/linkgraph"
)

// DefaultKeyPrefix namespaces all keys written by the store.
const DefaultKeyPrefix = "linkgraph"

// updateRetries bounds the optimistic retry loop for concurrent partial
// updates to the same edge.
const updateRetries = 5

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// KeyPrefix namespaces all keys. Defaults to DefaultKeyPrefix.
	KeyPrefix string
}

// Store implements the linkgraph Store contract on Redis.
//
// Key layout (all under the configured prefix):
//
//	<p>:edge:<id>         JSON document of the edge
//	<p>:seq               INCR counter, the creation sequence
//	<p>:edges:created     zset of all edge ids scored by sequence
//	<p>:edges:src:<node>  zset of edge ids leaving <node>
//	<p>:edges:dst:<node>  zset of edge ids entering <node>
//	<p>:edges:node:<node> zset of edge ids touching <node> at either endpoint
//	<p>:edges:type:<t>    zset of edge ids with type <t>
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Redis-backed store with the given options and verifies the
// connection with a ping.
func New(opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, prefix: opts.KeyPrefix}, nil
}

// Add persists a fully-populated edge. The document write and all index
// writes happen in a single MULTI/EXEC, so an add either fully succeeds or
// writes nothing.
func (s *Store) Add(ctx context.Context, edge *linkgraph.Edge) error {
	if edge == nil || edge.ID == "" {
		return fmt.Errorf("%w: edge with id is required", linkgraph.ErrInvalidArgument)
	}

	data, err := json.Marshal(edge)
	if err != nil {
		return fmt.Errorf("failed to marshal edge %s: %w", edge.ID, err)
	}

	seq, err := s.client.Incr(ctx, s.key("seq")).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate creation sequence: %w", err)
	}

	member := redis.Z{Score: float64(seq), Member: edge.ID}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key("edge", edge.ID), data, 0)
	pipe.ZAdd(ctx, s.key("edges", "created"), member)
	pipe.ZAdd(ctx, s.key("edges", "src", edge.SourceID), member)
	pipe.ZAdd(ctx, s.key("edges", "dst", edge.TargetID), member)
	pipe.ZAdd(ctx, s.key("edges", "node", edge.SourceID), member)
	pipe.ZAdd(ctx, s.key("edges", "node", edge.TargetID), member)
	pipe.ZAdd(ctx, s.key("edges", "type", edge.Type), member)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store edge %s: %w", edge.ID, err)
	}

	return nil
}

// Get returns the edge with the given id, or linkgraph.ErrEdgeNotFound.
func (s *Store) Get(ctx context.Context, id string) (*linkgraph.Edge, error) {
	data, err := s.client.Get(ctx, s.key("edge", id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
		}
		return nil, fmt.Errorf("failed to get edge %s: %w", id, err)
	}

	var edge linkgraph.Edge
	if err := json.Unmarshal([]byte(data), &edge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edge %s: %w", id, err)
	}

	return &edge, nil
}

// List returns edges matching the filter in creation order. The most
// selective index available for the filter is scanned in score order, and
// any remaining filter fields are applied to the fetched documents.
func (s *Store) List(ctx context.Context, filter linkgraph.ListFilter) ([]*linkgraph.Edge, error) {
	ids, err := s.client.ZRange(ctx, s.indexFor(filter), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan edge index: %w", err)
	}

	results := make([]*linkgraph.Edge, 0, len(ids))
	skipped := 0

	for _, id := range ids {
		edge, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, linkgraph.ErrEdgeNotFound) {
				// Index entry outlived the document under a concurrent
				// delete; skip it.
				continue
			}
			return nil, err
		}
		if !matches(edge, filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		results = append(results, edge)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}

	return results, nil
}

// Update applies a partial update inside an optimistic WATCH transaction on
// the edge document, so concurrent updates to the same edge serialize with
// last-write-wins semantics.
func (s *Store) Update(ctx context.Context, id string, changes linkgraph.EdgeChanges) (*linkgraph.Edge, error) {
	edgeKey := s.key("edge", id)
	var updated *linkgraph.Edge

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, edgeKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
			}
			return fmt.Errorf("failed to get edge %s: %w", id, err)
		}

		var edge linkgraph.Edge
		if err := json.Unmarshal([]byte(data), &edge); err != nil {
			return fmt.Errorf("failed to unmarshal edge %s: %w", id, err)
		}

		if changes.Weight != nil {
			edge.Weight = *changes.Weight
		}
		if changes.Properties != nil {
			edge.Properties = changes.Properties
		}
		if !changes.IsZero() {
			edge.UpdatedAt = time.Now().UTC()
		}

		newData, err := json.Marshal(&edge)
		if err != nil {
			return fmt.Errorf("failed to marshal edge %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, edgeKey, newData, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &edge
		return nil
	}

	for i := 0; i < updateRetries; i++ {
		err := s.client.Watch(ctx, txn, edgeKey)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to update edge %s: too many concurrent writers", id)
}

// Delete removes the edge document and all of its index entries. The edge is
// read first to learn its endpoints; if another caller deletes it in the
// meantime the WATCH aborts and the retry observes the missing document.
func (s *Store) Delete(ctx context.Context, id string) error {
	edgeKey := s.key("edge", id)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, edgeKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: %s", linkgraph.ErrEdgeNotFound, id)
			}
			return fmt.Errorf("failed to get edge %s: %w", id, err)
		}

		var edge linkgraph.Edge
		if err := json.Unmarshal([]byte(data), &edge); err != nil {
			return fmt.Errorf("failed to unmarshal edge %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, edgeKey)
			pipe.ZRem(ctx, s.key("edges", "created"), id)
			pipe.ZRem(ctx, s.key("edges", "src", edge.SourceID), id)
			pipe.ZRem(ctx, s.key("edges", "dst", edge.TargetID), id)
			pipe.ZRem(ctx, s.key("edges", "node", edge.SourceID), id)
			pipe.ZRem(ctx, s.key("edges", "node", edge.TargetID), id)
			pipe.ZRem(ctx, s.key("edges", "type", edge.Type), id)
			return nil
		})
		return err
	}

	for i := 0; i < updateRetries; i++ {
		err := s.client.Watch(ctx, txn, edgeKey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("failed to delete edge %s: too many concurrent writers", id)
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// indexFor picks the most selective sorted set for the filter. Endpoint
// indexes beat the type index, which beats the full creation index.
func (s *Store) indexFor(filter linkgraph.ListFilter) string {
	switch {
	case filter.SourceID != "":
		return s.key("edges", "src", filter.SourceID)
	case filter.TargetID != "":
		return s.key("edges", "dst", filter.TargetID)
	case filter.NodeID != "":
		return s.key("edges", "node", filter.NodeID)
	case filter.Type != "":
		return s.key("edges", "type", filter.Type)
	default:
		return s.key("edges", "created")
	}
}

// key builds a namespaced key with the <prefix>:a:b:c pattern.
func (s *Store) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

func matches(edge *linkgraph.Edge, filter linkgraph.ListFilter) bool {
	if filter.Type != "" && edge.Type != filter.Type {
		return false
	}
	if filter.SourceID != "" && edge.SourceID != filter.SourceID {
		return false
	}
	if filter.TargetID != "" && edge.TargetID != filter.TargetID {
		return false
	}
	if filter.NodeID != "" && edge.SourceID != filter.NodeID && edge.TargetID != filter.NodeID {
		return false
	}
	return true
}
