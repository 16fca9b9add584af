package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/canpolat/domainscout/internal/models"
)

// DefaultTLD is assumed when a request carries no TLD.
const DefaultTLD = "com"

var (
	ErrMissingDomain       = errors.New("missing domain parameter")
	ErrInvalidDomainFormat = errors.New("invalid domain name format")
	ErrInvalidTLDFormat    = errors.New("invalid TLD format")
)

const maxLabelLen = 63

var (
	labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	tldPattern   = regexp.MustCompile(`^[a-z]{2,}$`)
)

// Validate normalizes a raw (label, tld) pair into a canonical DomainKey
// or rejects it. Both inputs are trimmed and lowercased first; an empty
// TLD falls back to DefaultTLD. The label must be at most 63 chars of
// [a-z0-9-], start and end alphanumeric, and contain no "--". The TLD
// must be at least two letters after stripping a leading dot. Labels
// containing a dot are rejected, not split: callers validate the label
// they mean to check, not a free-form hostname.
func Validate(rawLabel, rawTLD string) (models.DomainKey, error) {
	label := strings.ToLower(strings.TrimSpace(rawLabel))
	if label == "" {
		return models.DomainKey{}, ErrMissingDomain
	}

	tld := strings.ToLower(strings.TrimSpace(rawTLD))
	tld = strings.TrimPrefix(tld, ".")
	if tld == "" {
		tld = DefaultTLD
	}

	if !validLabel(label) {
		return models.DomainKey{}, fmt.Errorf("%w: %q", ErrInvalidDomainFormat, rawLabel)
	}
	if !tldPattern.MatchString(tld) {
		return models.DomainKey{}, fmt.Errorf("%w: %q", ErrInvalidTLDFormat, rawTLD)
	}

	return models.DomainKey{Label: label, TLD: tld}, nil
}

func validLabel(label string) bool {
	if len(label) > maxLabelLen {
		return false
	}
	if strings.Contains(label, "--") {
		return false
	}
	return labelPattern.MatchString(label)
}
