package stripe

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventStore deduplicates webhook deliveries. Claim returns false when the
// event id was already claimed and not released. Release forgets a claim so
// that a delivery that failed can be retried by Stripe.
type EventStore interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

const redisEventPrefix = "stripe:event:"

// RedisEventStore shares the processed event ids between every instance of
// the service.
type RedisEventStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEventStore creates an event store backed by the given client.
func NewRedisEventStore(client *redis.Client, ttl time.Duration) *RedisEventStore {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}
	return &RedisEventStore{client: client, ttl: ttl}
}

func (r *RedisEventStore) Claim(ctx context.Context, eventID string) (bool, error) {
	return r.client.SetNX(ctx, redisEventPrefix+eventID, time.Now().Unix(), r.ttl).Result()
}

func (r *RedisEventStore) Release(ctx context.Context, eventID string) error {
	return r.client.Del(ctx, redisEventPrefix+eventID).Err()
}

// MemoryEventStore is the in-process fallback used when no Redis is
// configured. It only deduplicates deliveries received by this instance.
type MemoryEventStore struct {
	events map[string]time.Time
	mutex  sync.Mutex
	ttl    time.Duration
}

// NewMemoryEventStore creates a new in-memory event store
func NewMemoryEventStore(ttl time.Duration) *MemoryEventStore {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}
	return &MemoryEventStore{
		events: make(map[string]time.Time),
		ttl:    ttl,
	}
}

func (m *MemoryEventStore) Claim(_ context.Context, eventID string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.expire()
	if _, exists := m.events[eventID]; exists {
		return false, nil
	}
	m.events[eventID] = time.Now()
	return true, nil
}

func (m *MemoryEventStore) Release(_ context.Context, eventID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.events, eventID)
	return nil
}

// Size returns the number of stored events
func (m *MemoryEventStore) Size() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.events)
}

// expire drops the entries older than the ttl. Must be called with the
// mutex held.
func (m *MemoryEventStore) expire() {
	now := time.Now()
	for eventID, timestamp := range m.events {
		if now.Sub(timestamp) > m.ttl {
			delete(m.events, eventID)
		}
	}
}
