package cache

import (
	"context"
	"time"
)

// BytesCache stores raw encoded payloads keyed by string.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
