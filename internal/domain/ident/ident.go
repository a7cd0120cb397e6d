// Package ident allocates dense, prefixed, zero-padded record identifiers.
package ident

import "fmt"

// Namespaces used by the sales records.
const (
	PrefixBooking = "BKG-"
	PrefixPayment = "PAY-"
	PrefixLedger  = "LDG-"
)

// Width is the minimum number of digits in an allocated identifier.
const Width = 3

// Set is a set of identifiers already in use within a namespace.
type Set map[string]struct{}

// IDSet builds a Set from the given identifiers
func IDSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Allocate returns the lowest-numbered identifier prefix+NNN that is not in existing.
// Gaps left in the numbering are reused before higher numbers.
func Allocate(prefix string, existing Set) string {
	for n := 1; ; n++ {
		candidate := Format(prefix, n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// Format renders prefix and n as an identifier, zero-padded to Width digits
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}
