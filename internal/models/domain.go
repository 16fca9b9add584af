package models

// DomainStatus is the fused availability status of a domain
type DomainStatus string

const (
	StatusAvailable DomainStatus = "available"
	StatusTaken     DomainStatus = "taken"
)

// DomainKey is the canonical (label, tld) identifier for one check.
// Both parts are lowercase and validated; construct via validator.Validate.
type DomainKey struct {
	Label string
	TLD   string
}

// FQDN returns the fully-qualified domain name for the key.
func (k DomainKey) FQDN() string {
	return k.Label + "." + k.TLD
}

// ProbeStatus tags a single probe outcome
type ProbeStatus string

const (
	ProbeAvailable ProbeStatus = "available"
	ProbeTaken     ProbeStatus = "taken"
	ProbeError     ProbeStatus = "error"
	ProbeTimeout   ProbeStatus = "timeout"
)

// ProbeOutcome is the tagged result of one probe. Exactly one status is
// active; detail fields are populated only by the constructor matching
// that status, so a taken WHOIS outcome never carries an error message
// and an errored one never carries a registrar.
type ProbeOutcome struct {
	Status         ProbeStatus `json:"status"`
	ExpirationDate string      `json:"expiration_date,omitempty"`
	Registrar      string      `json:"registrar,omitempty"`
	IP             string      `json:"ip,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// AvailableOutcome signals the probe found no registration.
func AvailableOutcome() ProbeOutcome {
	return ProbeOutcome{Status: ProbeAvailable}
}

// WhoisTakenOutcome signals a registered domain seen over WHOIS.
// Expiration date and registrar may be empty when the registry
// withholds them.
func WhoisTakenOutcome(expirationDate, registrar string) ProbeOutcome {
	return ProbeOutcome{
		Status:         ProbeTaken,
		ExpirationDate: expirationDate,
		Registrar:      registrar,
	}
}

// DNSTakenOutcome signals a domain that resolved to an address.
func DNSTakenOutcome(ip string) ProbeOutcome {
	return ProbeOutcome{Status: ProbeTaken, IP: ip}
}

// ErrorOutcome signals a probe failure other than a timeout.
func ErrorOutcome(message string) ProbeOutcome {
	return ProbeOutcome{Status: ProbeError, Error: message}
}

// TimeoutOutcome signals the probe's deadline elapsed first.
func TimeoutOutcome() ProbeOutcome {
	return ProbeOutcome{Status: ProbeTimeout}
}

// Taken reports whether the outcome is an authoritative taken signal.
func (o ProbeOutcome) Taken() bool {
	return o.Status == ProbeTaken
}

// Verdict is the fused result for one domain check
type Verdict struct {
	Domain       string       `json:"domain"`
	Status       DomainStatus `json:"status"`
	Whois        ProbeOutcome `json:"whois"`
	DNS          ProbeOutcome `json:"dns"`
	TLD          string       `json:"tld"`
	ResponseTime string       `json:"response_time"`
	Cached       bool         `json:"cached"`
}

// BatchItem is one raw request line in a bulk check. TLD falls back to
// the batch default ("com" when that is empty too) during validation.
type BatchItem struct {
	Name string `json:"name"`
	TLD  string `json:"tld,omitempty"`
}

// BatchError reports one batch item that could not be checked.
type BatchError struct {
	Domain string `json:"domain"`
	Error  string `json:"error"`
}

// BatchResult collects the per-item outcomes of one bulk check.
type BatchResult struct {
	Results []Verdict    `json:"results"`
	Errors  []BatchError `json:"errors,omitempty"`
}
