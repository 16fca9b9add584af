package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/canpolat/domainscout/internal/cache"
	"github.com/canpolat/domainscout/internal/checker"
	"github.com/canpolat/domainscout/internal/models"
	"github.com/canpolat/domainscout/internal/probe"
)

// defaultTLDs is a curated list of valuable TLDs to sweep.
var defaultTLDs = []string{
	"com", "net", "org", "io", "dev", "app", "ai", "co",
	"me", "tv", "gg", "so", "to", "is", "sh", "ly",
}

type report struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Checked     int                 `json:"checked"`
	Available   map[string][]string `json:"available"`
	Errors      []models.BatchError `json:"errors,omitempty"`
}

func main() {
	tldList := flag.String("tlds", strings.Join(defaultTLDs, ","), "comma-separated TLDs to sweep")
	concurrency := flag.Int("concurrency", 5, "concurrent checks (keep low to avoid WHOIS rate limiting)")
	whoisTimeout := flag.Duration("whois-timeout", probe.DefaultWhoisTimeout, "per-domain WHOIS deadline")
	dnsTimeout := flag.Duration("dns-timeout", probe.DefaultDNSTimeout, "per-domain DNS deadline")
	dnsServer := flag.String("dns-server", "", "upstream DNS server (host:port), empty for system resolver")
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scan [flags] name [name ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	tlds := splitList(*tldList)
	if len(tlds) == 0 {
		fmt.Fprintln(os.Stderr, "error: no TLDs to sweep")
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	items := make([]models.BatchItem, 0, len(names)*len(tlds))
	for _, name := range names {
		for _, tld := range tlds {
			items = append(items, models.BatchItem{Name: name, TLD: tld})
		}
	}

	engine := checker.New(
		probe.NewWhoisProbe(*whoisTimeout),
		probe.NewDNSProbe(*dnsServer),
		cache.NewMemory(),
		checker.Config{
			WhoisTimeout:     *whoisTimeout,
			DNSTimeout:       *dnsTimeout,
			MaxBatchItems:    len(items),
			BatchConcurrency: *concurrency,
		},
		log,
	)

	result, err := engine.CheckBatch(context.Background(), items, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out := report{
		GeneratedAt: time.Now().UTC(),
		Checked:     len(items),
		Available:   make(map[string][]string),
		Errors:      result.Errors,
	}
	for _, verdict := range result.Results {
		if verdict.Status == models.StatusAvailable {
			out.Available[verdict.TLD] = append(out.Available[verdict.TLD], verdict.Domain)
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
