package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/canpolat/domainscout/internal/checker"
	"github.com/canpolat/domainscout/internal/models"
	"github.com/canpolat/domainscout/internal/validator"
)

// DomainChecker is the slice of the engine the HTTP layer consumes.
type DomainChecker interface {
	Check(ctx context.Context, rawLabel, rawTLD string) (models.Verdict, error)
	CheckBatch(ctx context.Context, items []models.BatchItem, defaultTLD string) (models.BatchResult, error)
	Stats() checker.Stats
}

// Limits describes the configured per-minute request caps, echoed on
// the metrics endpoint.
type Limits struct {
	CheckPerMinute int
	BulkPerMinute  int
}

type Handler struct {
	service DomainChecker
	limits  Limits
	started time.Time
}

func NewHandler(service DomainChecker, limits Limits) *Handler {
	return &Handler{
		service: service,
		limits:  limits,
		started: time.Now(),
	}
}

// checkDomain handles GET /api/v1/check?domain=&tld=
func (h *Handler) checkDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	tld := r.URL.Query().Get("tld")

	verdict, err := h.service.Check(r.Context(), domain, tld)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

type bulkRequest struct {
	Domains []string `json:"domains"`
	TLD     string   `json:"tld"`
}

type bulkResponse struct {
	Results []models.Verdict    `json:"results"`
	Errors  []models.BatchError `json:"errors"`
}

// bulkCheck handles POST /api/v1/bulk
func (h *Handler) bulkCheck(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "Request body must be JSON")
		return
	}

	items := make([]models.BatchItem, 0, len(req.Domains))
	for _, name := range req.Domains {
		items = append(items, models.BatchItem{Name: name})
	}

	tld := strings.TrimSpace(req.TLD)
	if tld == "" {
		tld = validator.DefaultTLD
	}

	result, err := h.service.CheckBatch(r.Context(), items, tld)
	if err != nil {
		switch {
		case errors.Is(err, checker.ErrTooManyItems):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		case errors.Is(err, checker.ErrNoValidItems):
			writeJSON(w, http.StatusBadRequest, bulkResponse{
				Results: []models.Verdict{},
				Errors:  result.Errors,
			})
		default:
			writeError(w, http.StatusInternalServerError, "Internal error", "internal server error")
		}
		return
	}

	resp := bulkResponse{Results: result.Results, Errors: result.Errors}
	if resp.Results == nil {
		resp.Results = []models.Verdict{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// health handles GET /api/v1/health
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metrics handles GET /api/v1/metrics
func (h *Handler) metrics(w http.ResponseWriter, _ *http.Request) {
	rateLimits := map[string]string{}
	if h.limits.CheckPerMinute > 0 {
		rateLimits["check"] = fmt.Sprintf("%d per minute", h.limits.CheckPerMinute)
	}
	if h.limits.BulkPerMinute > 0 {
		rateLimits["bulk"] = fmt.Sprintf("%d per minute", h.limits.BulkPerMinute)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uptime":      formatUptime(time.Since(h.started)),
		"cache_stats": h.service.Stats(),
		"rate_limits": rateLimits,
	})
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validator.ErrMissingDomain),
		errors.Is(err, validator.ErrInvalidDomainFormat),
		errors.Is(err, validator.ErrInvalidTLDFormat):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", "internal server error")
	}
}
