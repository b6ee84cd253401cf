package filter

import "errors"

// ErrInvalidHost is returned when a hostname cannot be resolved to a
// registrable domain, for example an IP address, a bare public suffix, or a
// string that is not a domain name at all.
var ErrInvalidHost = errors.New("host has no registrable domain")
