package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Tracker remembers which (campaign, domain) pairs already have a post.
// It is a fast path only; the database stays authoritative.
type Tracker interface {
	Lookup(ctx context.Context, campaignID, domainID uuid.UUID) (uuid.UUID, bool)
	Mark(ctx context.Context, campaignID, domainID, postID uuid.UUID) error
}

// RedisTracker stores the post id under a per-pair key with a TTL.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisTracker creates a RedisTracker. A zero ttl keeps markers forever.
func NewRedisTracker(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl, log: log}
}

func (t *RedisTracker) key(campaignID, domainID uuid.UUID) string {
	return fmt.Sprintf("published:campaign:%s:domain:%s", campaignID, domainID)
}

// Lookup returns the recorded post id. Redis errors are logged and treated
// as a miss.
func (t *RedisTracker) Lookup(ctx context.Context, campaignID, domainID uuid.UUID) (uuid.UUID, bool) {
	key := t.key(campaignID, domainID)
	val, err := t.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.log.Warn("Redis error checking publish marker",
				logger.String("redis_key", key),
				logger.Error(err),
			)
		}
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Mark records postID for the pair.
func (t *RedisTracker) Mark(ctx context.Context, campaignID, domainID, postID uuid.UUID) error {
	key := t.key(campaignID, domainID)
	if err := t.client.Set(ctx, key, postID.String(), t.ttl).Err(); err != nil {
		return fmt.Errorf("set publish marker %s: %w", key, err)
	}
	return nil
}

// NopTracker never remembers anything.
type NopTracker struct{}

// Lookup always misses.
func (NopTracker) Lookup(context.Context, uuid.UUID, uuid.UUID) (uuid.UUID, bool) {
	return uuid.Nil, false
}

// Mark does nothing.
func (NopTracker) Mark(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error { return nil }
