package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/canpolat/domainscout/internal/models"
)

// Prober checks one fully-qualified domain name against a single
// external signal. Implementations hold no mutable state between calls.
type Prober interface {
	Name() string
	Check(ctx context.Context, fqdn string) models.ProbeOutcome
}

// Default probe deadlines. WHOIS registries are slower and flakier than
// DNS, so they get more headroom.
const (
	DefaultWhoisTimeout = 5 * time.Second
	DefaultDNSTimeout   = 3 * time.Second
)

// RunWithDeadline executes op on its own goroutine under a hard
// wall-clock deadline. If the deadline elapses first the caller gets a
// timeout outcome immediately; the goroutine is abandoned and its
// eventual result discarded (the result channel is buffered, so it can
// still complete and exit). A panic inside op is converted to an error
// outcome, never propagated.
func RunWithDeadline(ctx context.Context, timeout time.Duration, op func(context.Context) models.ProbeOutcome) models.ProbeOutcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := make(chan models.ProbeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- models.ErrorOutcome(fmt.Sprintf("probe panic: %v", r))
			}
		}()
		out <- op(ctx)
	}()

	select {
	case outcome := <-out:
		return outcome
	case <-ctx.Done():
		return models.TimeoutOutcome()
	}
}
