package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireVerifyLock(ctx context.Context, txRef string, ttl time.Duration) (bool, error)
	ReleaseVerifyLock(ctx context.Context, txRef string) error
}

// CacheStoreInterface defines the interface for payment caching.
type CacheStoreInterface interface {
	GetPayment(ctx context.Context, txRef string) (*CachedPayment, error)
	SetPayment(ctx context.Context, payment *CachedPayment) error
	InvalidatePayment(ctx context.Context, txRef string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
