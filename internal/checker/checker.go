package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canpolat/domainscout/internal/cache"
	"github.com/canpolat/domainscout/internal/models"
	"github.com/canpolat/domainscout/internal/probe"
	"github.com/canpolat/domainscout/internal/validator"
)

// Config tunes the resolution engine. Zero values fall back to the
// defaults below.
type Config struct {
	WhoisTimeout     time.Duration
	DNSTimeout       time.Duration
	CacheTTL         time.Duration
	MaxBatchItems    int
	BatchConcurrency int
}

const (
	defaultMaxBatchItems    = 10
	defaultBatchConcurrency = 5
)

func (c Config) withDefaults() Config {
	if c.WhoisTimeout <= 0 {
		c.WhoisTimeout = probe.DefaultWhoisTimeout
	}
	if c.DNSTimeout <= 0 {
		c.DNSTimeout = probe.DefaultDNSTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = cache.DefaultTTL
	}
	if c.MaxBatchItems <= 0 {
		c.MaxBatchItems = defaultMaxBatchItems
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = defaultBatchConcurrency
	}
	return c
}

// Checker is the resolution engine: it runs the WHOIS and DNS probes
// concurrently under their deadlines, fuses the outcomes into a
// verdict, and memoizes verdicts through the cache store. It is the
// single entry point for both single and bulk checks.
type Checker struct {
	whois probe.Prober
	dns   probe.Prober
	store cache.Store
	cfg   Config
	log   *slog.Logger

	hits        atomic.Int64
	misses      atomic.Int64
	resolutions atomic.Int64
}

func New(whoisProbe, dnsProbe probe.Prober, store cache.Store, cfg Config, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		whois: whoisProbe,
		dns:   dnsProbe,
		store: store,
		cfg:   cfg.withDefaults(),
		log:   log,
	}
}

// Check validates raw input, consults the cache, and resolves on a
// miss. Validation errors are the only errors it returns; probe
// failures are absorbed into the verdict.
func (c *Checker) Check(ctx context.Context, rawLabel, rawTLD string) (models.Verdict, error) {
	key, err := validator.Validate(rawLabel, rawTLD)
	if err != nil {
		return models.Verdict{}, err
	}

	if cached, ok, getErr := c.store.Get(ctx, key); getErr != nil {
		// degrade to a direct resolution rather than failing the check
		c.log.Warn("cache get failed", "domain", key.FQDN(), "error", getErr)
	} else if ok {
		c.hits.Add(1)
		return cached, nil
	}
	c.misses.Add(1)

	verdict := c.Resolve(ctx, key)
	if putErr := c.store.Put(ctx, key, verdict, c.cfg.CacheTTL); putErr != nil {
		c.log.Warn("cache put failed", "domain", key.FQDN(), "error", putErr)
	}
	return verdict, nil
}

// Resolve runs both probes concurrently, each under its own deadline,
// waits for both, and fuses the outcomes: taken from either source
// wins; errors and timeouts are non-authoritative. It always returns a
// verdict. One attempt per probe per call; the cache TTL bounds how
// soon a caller can retry.
func (c *Checker) Resolve(ctx context.Context, key models.DomainKey) models.Verdict {
	start := time.Now()
	fqdn := key.FQDN()

	var whoisOut, dnsOut models.ProbeOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		whoisOut = probe.RunWithDeadline(ctx, c.cfg.WhoisTimeout, func(ctx context.Context) models.ProbeOutcome {
			return c.whois.Check(ctx, fqdn)
		})
	}()
	go func() {
		defer wg.Done()
		dnsOut = probe.RunWithDeadline(ctx, c.cfg.DNSTimeout, func(ctx context.Context) models.ProbeOutcome {
			return c.dns.Check(ctx, fqdn)
		})
	}()
	wg.Wait()

	c.resolutions.Add(1)

	status := models.StatusAvailable
	if whoisOut.Taken() || dnsOut.Taken() {
		status = models.StatusTaken
	}

	elapsed := time.Since(start)
	c.log.Debug("resolved domain",
		"domain", fqdn,
		"status", status,
		"whois", whoisOut.Status,
		"dns", dnsOut.Status,
		"elapsed", elapsed,
	)

	return models.Verdict{
		Domain:       fqdn,
		Status:       status,
		Whois:        whoisOut,
		DNS:          dnsOut,
		TLD:          key.TLD,
		ResponseTime: formatResponseTime(elapsed),
	}
}

func formatResponseTime(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// Stats are cumulative engine counters, surfaced on the metrics endpoint.
type Stats struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Resolutions int64 `json:"resolutions"`
}

func (c *Checker) Stats() Stats {
	return Stats{
		CacheHits:   c.hits.Load(),
		CacheMisses: c.misses.Load(),
		Resolutions: c.resolutions.Load(),
	}
}
