package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canpolat/domainscout/internal/models"
)

// Connect initializes a Redis client from URL or host:port input.
// Supporting both formats keeps local/dev and container config paths simple.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Redis is a shared Store for multi-instance deployments. Verdicts are
// stored as JSON; Redis owns expiry.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func verdictKey(key models.DomainKey) string {
	return "domain:verdict:" + key.FQDN()
}

func (r *Redis) Get(ctx context.Context, key models.DomainKey) (models.Verdict, bool, error) {
	raw, err := r.client.Get(ctx, verdictKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Verdict{}, false, nil
		}
		return models.Verdict{}, false, err
	}

	var verdict models.Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return models.Verdict{}, false, fmt.Errorf("decode cached verdict: %w", err)
	}
	verdict.Cached = true
	return verdict, true, nil
}

func (r *Redis) Put(ctx context.Context, key models.DomainKey, verdict models.Verdict, ttl time.Duration) error {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, verdictKey(key), raw, ttl).Err()
}

func (r *Redis) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}
