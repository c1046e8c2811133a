package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps each pair's ranked facts in Redis for a short TTL so that a
// burst of turns does not re-query Postgres every time.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache creates a fact cache with the given TTL.
func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func factsKey(userID, subjectID string, limit int) string {
	return fmt.Sprintf("memfacts:%s:%s:%d", userID, subjectID, limit)
}

// Get returns cached facts and whether the key was present.
func (c *Cache) Get(ctx context.Context, userID, subjectID string, limit int) ([]Fact, bool, error) {
	key := factsKey(userID, subjectID, limit)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var facts []Fact
	if err := json.Unmarshal([]byte(val), &facts); err != nil {
		return nil, false, fmt.Errorf("decoding cached facts: %w", err)
	}
	return facts, true, nil
}

// Set stores facts for the pair. An empty list is cached too.
func (c *Cache) Set(ctx context.Context, userID, subjectID string, limit int, facts []Fact) error {
	if facts == nil {
		facts = []Fact{}
	}
	data, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("marshaling facts: %w", err)
	}
	key := factsKey(userID, subjectID, limit)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
