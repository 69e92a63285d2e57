// Package cache stores computed sub-rankings between runs.
package cache

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// DefaultTTL is how long cached results stay valid.
const DefaultTTL = 24 * time.Hour

// Cache is a JSON value store with per-entry expiry. A miss is reported as
// (false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Key joins a prefix and parts into "prefix:part1:part2". Parts are
// query-escaped, so a ":" inside a part cannot shift the boundaries.
func Key(prefix string, parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return prefix + ":" + strings.Join(escaped, ":")
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
