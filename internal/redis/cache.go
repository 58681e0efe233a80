package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// PaymentCacheTTL is deliberately short: a payment's status can flip the
// moment the gateway calls back.
const PaymentCacheTTL = 15 * time.Second

const paymentCachePrefix = "cache:payment:"

// CachedPayment represents a cached payment entity.
type CachedPayment struct {
	ID               string `json:"id"`
	BookingReference string `json:"booking_reference"`
	TransactionID    string `json:"transaction_id"`
	AmountCents      int64  `json:"amount_cents"`
	Currency         string `json:"currency"`
	Email            string `json:"email"`
	Status           string `json:"status"`
}

// GetPayment retrieves a payment from cache. A nil result with nil error is
// a cache miss.
func (s *CacheStore) GetPayment(ctx context.Context, txRef string) (*CachedPayment, error) {
	key := paymentCachePrefix + txRef
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var payment CachedPayment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// SetPayment stores a payment in cache.
func (s *CacheStore) SetPayment(ctx context.Context, payment *CachedPayment) error {
	key := paymentCachePrefix + payment.TransactionID
	data, err := json.Marshal(payment)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, PaymentCacheTTL).Err()
}

// InvalidatePayment removes a payment from cache after a status change.
func (s *CacheStore) InvalidatePayment(ctx context.Context, txRef string) error {
	key := paymentCachePrefix + txRef
	return s.client.Del(ctx, key).Err()
}
