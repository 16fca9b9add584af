package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/canpolat/domainscout/internal/models"
)

var (
	ErrTooManyItems = errors.New("too many domains in batch")
	ErrNoValidItems = errors.New("no valid domains in batch")
)

// CheckBatch applies Check to every item independently. The whole batch
// is rejected up front when it exceeds the configured cap; after that,
// one item's bad input or slow probe never affects its siblings. Items
// run concurrently, bounded by a semaphore so a large batch cannot
// hammer WHOIS registries.
//
// defaultTLD applies to items that carry no TLD of their own (and
// itself defaults to "com" inside validation). ErrNoValidItems is
// returned when no item at all produced a verdict; the partial result
// still carries the per-item errors.
func (c *Checker) CheckBatch(ctx context.Context, items []models.BatchItem, defaultTLD string) (models.BatchResult, error) {
	if len(items) > c.cfg.MaxBatchItems {
		return models.BatchResult{}, fmt.Errorf("%w: maximum %d domains per request", ErrTooManyItems, c.cfg.MaxBatchItems)
	}

	type slot struct {
		verdict  *models.Verdict
		batchErr *models.BatchError
	}
	slots := make([]slot, len(items))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.cfg.BatchConcurrency)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it models.BatchItem) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			tld := it.TLD
			if strings.TrimSpace(tld) == "" {
				tld = defaultTLD
			}

			verdict, err := c.Check(ctx, it.Name, tld)
			if err != nil {
				slots[idx].batchErr = &models.BatchError{
					Domain: batchInputName(it, tld),
					Error:  err.Error(),
				}
				return
			}
			slots[idx].verdict = &verdict
		}(i, item)
	}
	wg.Wait()

	var result models.BatchResult
	for _, s := range slots {
		if s.verdict != nil {
			result.Results = append(result.Results, *s.verdict)
		}
		if s.batchErr != nil {
			result.Errors = append(result.Errors, *s.batchErr)
		}
	}

	if len(result.Results) == 0 && len(result.Errors) > 0 {
		return result, ErrNoValidItems
	}
	return result, nil
}

// batchInputName echoes the raw input back in error entries so callers
// can tell which line failed.
func batchInputName(item models.BatchItem, tld string) string {
	name := strings.TrimSpace(item.Name)
	tld = strings.TrimSpace(strings.TrimPrefix(tld, "."))
	if tld == "" {
		return name
	}
	return name + "." + tld
}
