package probe

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/canpolat/domainscout/internal/models"
)

// DNSProbe resolves a domain through the host resolver (or a configured
// upstream) to see whether it is actively hosted.
type DNSProbe struct {
	resolver *net.Resolver
}

// NewDNSProbe builds a DNS probe. An empty upstream uses the system
// resolver; otherwise queries are dialed directly to upstream
// (host:port), bypassing local resolver config.
func NewDNSProbe(upstream string) *DNSProbe {
	resolver := net.DefaultResolver
	if upstream != "" {
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				d := net.Dialer{Timeout: 5 * time.Second}
				return d.DialContext(ctx, network, upstream)
			},
		}
	}
	return &DNSProbe{resolver: resolver}
}

func (p *DNSProbe) Name() string { return "dns" }

func (p *DNSProbe) Check(ctx context.Context, fqdn string) models.ProbeOutcome {
	addrs, err := p.resolver.LookupHost(ctx, fqdn)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			if dnsErr.IsNotFound {
				return models.AvailableOutcome()
			}
			if dnsErr.IsTimeout {
				return models.TimeoutOutcome()
			}
		}
		return models.ErrorOutcome(err.Error())
	}
	if len(addrs) == 0 {
		return models.AvailableOutcome()
	}
	return models.DNSTakenOutcome(addrs[0])
}
