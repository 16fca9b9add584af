package probe

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/canpolat/domainscout/internal/models"
)

// WhoisProbe queries the registry over WHOIS and classifies the answer.
type WhoisProbe struct {
	client *whois.Client
}

// NewWhoisProbe builds a WHOIS probe. The client-level timeout is a
// backstop; the caller's deadline executor is authoritative.
func NewWhoisProbe(timeout time.Duration) *WhoisProbe {
	return &WhoisProbe{
		client: whois.NewClient().SetTimeout(timeout),
	}
}

func (p *WhoisProbe) Name() string { return "whois" }

func (p *WhoisProbe) Check(_ context.Context, fqdn string) models.ProbeOutcome {
	raw, err := p.client.Whois(fqdn)
	if err != nil {
		return models.ErrorOutcome(err.Error())
	}
	return classifyWhois(raw)
}

// classifyWhois tries a structured parse first and falls back to raw
// marker scanning when the registry's format defeats the parser.
func classifyWhois(raw string) models.ProbeOutcome {
	parsed, err := whoisparser.Parse(raw)
	switch {
	case err == nil:
		return takenFromParse(parsed)
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return models.AvailableOutcome()
	case errors.Is(err, whoisparser.ErrReservedDomain),
		errors.Is(err, whoisparser.ErrPremiumDomain),
		errors.Is(err, whoisparser.ErrBlockedDomain):
		// registry holds the name; not registrable as-is
		return models.WhoisTakenOutcome("", "")
	}
	return classifyRaw(raw)
}

func takenFromParse(info whoisparser.WhoisInfo) models.ProbeOutcome {
	var expiration, registrar string
	if info.Domain != nil && info.Domain.ExpirationDateInTime != nil {
		expiration = info.Domain.ExpirationDateInTime.Format("2006-01-02")
	}
	if info.Registrar != nil {
		registrar = info.Registrar.Name
	}
	return models.WhoisTakenOutcome(expiration, registrar)
}

// Markers that indicate the domain IS registered - checked first
var takenMarkers = []string{
	"registrar:",
	"registrant:",
	"creation date:",
	"created:",
	"registry expiry date:",
	"expiration date:",
	"name server:",
	"nameserver:",
	"nserver:",
	"dnssec:",
	"registrar iana id:",
	"domain status:",
	"admin contact:",
	"tech contact:",
	"billing contact:",
}

// Markers that indicate the domain is NOT registered
var availableMarkers = []string{
	"no match for",
	"not found",
	"no entries found",
	"domain not found",
	"no data found",
	"status: free",
	"status: available",
	"no object found",
	"object does not exist",
	"nothing found",
	"no information available",
	"is available for registration",
	"is free",
	"domain is available",
	"the queried object does not exist",
	"no such domain",
	"domain name has not been registered",
	"no matching record",
}

// classifyRaw scans the raw WHOIS text for registration markers.
// Anything that matches no marker is classified taken: an unusual
// registry format almost always belongs to a registered name.
func classifyRaw(raw string) models.ProbeOutcome {
	lower := strings.ToLower(raw)

	for _, marker := range takenMarkers {
		if strings.Contains(lower, marker) {
			return models.WhoisTakenOutcome("", "")
		}
	}

	// Premium/platinum reserved names are for sale, not registrable
	if (strings.Contains(lower, "premium") || strings.Contains(lower, "platinum")) &&
		(strings.Contains(lower, "purchase") || strings.Contains(lower, "contact") ||
			strings.Contains(lower, "offer") || strings.Contains(lower, "reserved")) {
		return models.WhoisTakenOutcome("", "")
	}
	if strings.Contains(lower, "this name is reserved") {
		return models.WhoisTakenOutcome("", "")
	}

	for _, marker := range availableMarkers {
		if strings.Contains(lower, marker) {
			return models.AvailableOutcome()
		}
	}

	return models.WhoisTakenOutcome("", "")
}
