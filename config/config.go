// Package config provides loading and parsing of linkgraph.yaml configuration
// files. The configuration covers the engine's depth and result ceilings and
// the Redis backend connection, so hosts can tune abuse bounds without code
// changes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognimesh/linkgraph"
)

// Config represents a linkgraph.yaml configuration file.
type Config struct {
	// Limits bounds the cost of graph read operations.
	Limits LimitsConfig `yaml:"limits"`

	// Redis configures the Redis store backend. Only consulted by hosts
	// that choose the redistore backend.
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// LimitsConfig mirrors linkgraph.Limits with yaml tags. Zero fields fall
// back to the engine defaults.
type LimitsConfig struct {
	// DepthCeiling clamps the max depth of traverse and path requests.
	DepthCeiling int `yaml:"depth_ceiling,omitempty"`

	// DefaultDepth applies when a request does not specify a depth.
	DefaultDepth int `yaml:"default_depth,omitempty"`

	// MaxNodes clamps the node bound of traversal requests.
	MaxNodes int `yaml:"max_nodes,omitempty"`

	// NeighborLimit is the default result limit for neighbor queries.
	NeighborLimit int `yaml:"neighbor_limit,omitempty"`

	// MaxPaths clamps the path limit of path queries.
	MaxPaths int `yaml:"max_paths,omitempty"`

	// DefaultPathLimit applies when a path query has no limit.
	DefaultPathLimit int `yaml:"default_path_limit,omitempty"`

	// MaxEdgesExamined caps total edges examined per path query.
	MaxEdgesExamined int `yaml:"max_edges_examined,omitempty"`
}

// RedisConfig configures the Redis store backend.
type RedisConfig struct {
	URL            string        `yaml:"url"`
	KeyPrefix      string        `yaml:"key_prefix,omitempty"`
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`
	ReadTimeout    time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout   time.Duration `yaml:"write_timeout,omitempty"`
}

// DefaultConfig returns a configuration with the engine defaults.
func DefaultConfig() *Config {
	limits := linkgraph.DefaultLimits()
	return &Config{
		Limits: LimitsConfig{
			DepthCeiling:     limits.DepthCeiling,
			DefaultDepth:     limits.DefaultDepth,
			MaxNodes:         limits.MaxNodes,
			NeighborLimit:    limits.NeighborLimit,
			MaxPaths:         limits.MaxPaths,
			DefaultPathLimit: limits.DefaultPathLimit,
			MaxEdgesExamined: limits.MaxEdgesExamined,
		},
	}
}

// Load reads and parses a configuration file, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks the configuration for inconsistent values. Zero fields are
// legal (they fall back to engine defaults); negative values are not.
func (c *Config) Validate() error {
	fields := map[string]int{
		"limits.depth_ceiling":      c.Limits.DepthCeiling,
		"limits.default_depth":      c.Limits.DefaultDepth,
		"limits.max_nodes":          c.Limits.MaxNodes,
		"limits.neighbor_limit":     c.Limits.NeighborLimit,
		"limits.max_paths":          c.Limits.MaxPaths,
		"limits.default_path_limit": c.Limits.DefaultPathLimit,
		"limits.max_edges_examined": c.Limits.MaxEdgesExamined,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}

	if c.Limits.DepthCeiling > 0 && c.Limits.DefaultDepth > c.Limits.DepthCeiling {
		return fmt.Errorf("limits.default_depth (%d) exceeds limits.depth_ceiling (%d)",
			c.Limits.DefaultDepth, c.Limits.DepthCeiling)
	}
	if c.Limits.MaxPaths > 0 && c.Limits.DefaultPathLimit > c.Limits.MaxPaths {
		return fmt.Errorf("limits.default_path_limit (%d) exceeds limits.max_paths (%d)",
			c.Limits.DefaultPathLimit, c.Limits.MaxPaths)
	}

	if c.Redis != nil && c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required when a redis section is present")
	}

	return nil
}

// EngineLimits converts the configured limits into the engine type, filling
// zero fields with the engine defaults.
func (c *Config) EngineLimits() linkgraph.Limits {
	return linkgraph.Limits{
		DepthCeiling:     c.Limits.DepthCeiling,
		DefaultDepth:     c.Limits.DefaultDepth,
		MaxNodes:         c.Limits.MaxNodes,
		NeighborLimit:    c.Limits.NeighborLimit,
		MaxPaths:         c.Limits.MaxPaths,
		DefaultPathLimit: c.Limits.DefaultPathLimit,
		MaxEdgesExamined: c.Limits.MaxEdgesExamined,
	}.Normalize()
}
