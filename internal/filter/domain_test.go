package filter

import (
	"errors"
	"testing"
)

// TestRegistrableDomain tests public-suffix-aware domain stripping.
func TestRegistrableDomain(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		host     string
		expected string
	}{
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"a.b.c.example.com", "example.com"},
		{"cdn.static.example.co.uk", "example.co.uk"},
		{"example.co.uk", "example.co.uk"},
		// Unknown TLDs act as their own public suffix, so one label
		// above them is the registrable domain.
		{"a.test", "a.test"},
		{"sub.a.test", "a.test"},
		// Trailing dots are tolerated.
		{"www.example.com.", "example.com"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.host, func(t *testing.T) {
			t.Parallel()
			got, err := RegistrableDomain(tc.host)
			if err != nil {
				t.Fatalf("RegistrableDomain(%q) returned error: %v", tc.host, err)
			}
			if got != tc.expected {
				t.Errorf("RegistrableDomain(%q) = %q, expected %q", tc.host, got, tc.expected)
			}
		})
	}
}

// TestRegistrableDomainInvalid tests that unresolvable hosts fail with
// ErrInvalidHost rather than returning a guess.
func TestRegistrableDomainInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		host string
	}{
		{"bare public suffix", "co.uk"},
		{"bare unknown TLD", "test"},
		{"empty host", ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := RegistrableDomain(tc.host); !errors.Is(err, ErrInvalidHost) {
				t.Errorf("RegistrableDomain(%q) error = %v, expected ErrInvalidHost", tc.host, err)
			}
		})
	}
}
