package cache

import (
	"context"
	"time"
)

// nullCache misses on every lookup and drops every write.
type nullCache struct{}

// NewNullCache returns a cache that never stores anything, for --no-cache
// runs and tests.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) ([]byte, bool, error)       { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                    { return nil }
func (nullCache) Close() error                                            { return nil }
