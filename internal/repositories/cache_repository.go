package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface holds the serialized option lists. Get reports a missing key with
// an error the caller checks through IsCacheMiss; Del drops entries after employee writes
// change the per-role counts.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
}
