package cache

import (
	"context"
	"time"

	"github.com/canpolat/domainscout/internal/models"
)

// DefaultTTL is how long a verdict stays fresh before mandatory
// re-resolution.
const DefaultTTL = 300 * time.Second

// Store memoizes verdicts per canonical domain key with a TTL. Get
// returns a copy with Cached set to true; the stored entry itself is
// never mutated. Put overwrites whole entries, last-resolved-wins.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key models.DomainKey) (models.Verdict, bool, error)
	Put(ctx context.Context, key models.DomainKey, verdict models.Verdict, ttl time.Duration) error
}

// Counter provides fixed-window counters, used by the HTTP boundary for
// rate limiting. The counter's TTL starts on the window's first hit.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
