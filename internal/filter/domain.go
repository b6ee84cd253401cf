package filter

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain returns the shortest right-hand substring of host that
// names a distinct registered domain: subdomain labels are stripped down to
// the first label that is not part of the public suffix. For example,
// "cdn.static.example.co.uk" yields "example.co.uk".
//
// Returns ErrInvalidHost if host cannot be parsed against the public-suffix
// list. Callers treat this as fatal: a resource with an unresolvable host
// cannot be matched against filter rules.
func RegistrableDomain(host string) (string, error) {
	host = strings.TrimSuffix(host, ".")
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidHost, host, err)
	}
	return domain, nil
}
