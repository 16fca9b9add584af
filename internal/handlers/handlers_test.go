package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canpolat/domainscout/internal/cache"
	"github.com/canpolat/domainscout/internal/checker"
	"github.com/canpolat/domainscout/internal/models"
	"github.com/canpolat/domainscout/internal/probe"
)

type fixedProbe struct {
	outcome models.ProbeOutcome
}

func (p fixedProbe) Name() string { return "fixed" }

func (p fixedProbe) Check(_ context.Context, _ string) models.ProbeOutcome { return p.outcome }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, limiter *RateLimiter, limits Limits) *httptest.Server {
	t.Helper()

	engine := checker.New(
		fixedProbe{outcome: models.WhoisTakenOutcome("2030-01-01", "Example Registrar")},
		fixedProbe{outcome: models.DNSTakenOutcome("198.51.100.4")},
		cache.NewMemory(),
		checker.Config{WhoisTimeout: probe.DefaultWhoisTimeout, DNSTimeout: probe.DefaultDNSTimeout},
		discardLogger(),
	)
	handler := NewHandler(engine, limits)
	server := httptest.NewServer(NewRouter(handler, limiter, discardLogger()))
	t.Cleanup(server.Close)
	return server
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCheckEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{CheckPerMinute: 10, BulkPerMinute: 5})

	resp, err := http.Get(server.URL + "/api/v1/check?domain=google")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var verdict models.Verdict
	decodeBody(t, resp, &verdict)
	if verdict.Domain != "google.com" || verdict.Status != models.StatusTaken {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if verdict.TLD != "com" || verdict.Cached {
		t.Fatalf("unexpected verdict metadata: %+v", verdict)
	}
	if verdict.Whois.Registrar != "Example Registrar" || verdict.DNS.IP != "198.51.100.4" {
		t.Fatalf("probe outcomes missing from response: %+v", verdict)
	}

	// second hit comes from cache
	resp2, err := http.Get(server.URL + "/api/v1/check?domain=google")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var cached models.Verdict
	decodeBody(t, resp2, &cached)
	if !cached.Cached {
		t.Fatalf("expected cached verdict on second read")
	}
	if cached.Status != verdict.Status {
		t.Fatalf("cached status differs: %v vs %v", cached.Status, verdict.Status)
	}
}

func TestCheckEndpointValidation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{})

	for _, query := range []string{"", "?domain=inv@lid", "?domain=foo.bar", "?domain=example&tld=c"} {
		resp, err := http.Get(server.URL + "/api/v1/check" + query)
		if err != nil {
			t.Fatalf("request %q: %v", query, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", query, resp.StatusCode)
		}
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		decodeBody(t, resp, &apiErr)
		if apiErr.Error != "Invalid request" || apiErr.Message == "" {
			t.Fatalf("query %q: unexpected error body: %+v", query, apiErr)
		}
	}
}

func TestBulkEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{})

	body := `{"domains": ["google", ""], "tld": "com"}`
	resp, err := http.Post(server.URL+"/api/v1/bulk", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Results []models.Verdict    `json:"results"`
		Errors  []models.BatchError `json:"errors"`
	}
	decodeBody(t, resp, &out)
	if len(out.Results) != 1 || out.Results[0].Domain != "google.com" {
		t.Fatalf("unexpected results: %+v", out.Results)
	}
	if len(out.Errors) != 1 {
		t.Fatalf("expected one itemized error, got %+v", out.Errors)
	}
}

func TestBulkEndpointTooManyItems(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{})

	names := make([]string, 11)
	for i := range names {
		names[i] = "example"
	}
	raw, _ := json.Marshal(map[string]any{"domains": names})

	resp, err := http.Post(server.URL+"/api/v1/bulk", "application/json", strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBulkEndpointNoValidItems(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{})

	body := `{"domains": ["", "inv@lid"]}`
	resp, err := http.Post(server.URL+"/api/v1/bulk", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var out struct {
		Errors []models.BatchError `json:"errors"`
	}
	decodeBody(t, resp, &out)
	if len(out.Errors) != 2 {
		t.Fatalf("expected itemized errors, got %+v", out)
	}
}

func TestBulkEndpointMalformedBody(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{})

	resp, err := http.Post(server.URL+"/api/v1/bulk", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, nil, Limits{CheckPerMinute: 10, BulkPerMinute: 5})

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var health map[string]string
	decodeBody(t, resp, &health)
	if health["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", health)
	}

	resp, err = http.Get(server.URL + "/api/v1/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var metrics struct {
		Uptime     string            `json:"uptime"`
		CacheStats checker.Stats     `json:"cache_stats"`
		RateLimits map[string]string `json:"rate_limits"`
	}
	decodeBody(t, resp, &metrics)
	if metrics.Uptime == "" {
		t.Fatalf("expected uptime in metrics")
	}
	if metrics.RateLimits["check"] != "10 per minute" {
		t.Fatalf("unexpected rate limits: %v", metrics.RateLimits)
	}
}

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(cache.NewMemory())
	server := newTestServer(t, limiter, Limits{CheckPerMinute: 2, BulkPerMinute: 5})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/api/v1/check?domain=example")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		statuses = append(statuses, resp.StatusCode)
		resp.Body.Close()
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first two requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited: %v", statuses)
	}

	// health stays exempt even when the window is exhausted
	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health must be exempt from rate limits, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
