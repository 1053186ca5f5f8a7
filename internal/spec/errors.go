package spec

import "errors"

var (
	// ErrIDExhausted is returned when an allocator or counter has no ids left.
	ErrIDExhausted = errors.New("identifier space exhausted")
	// ErrIDSource is returned when the random source backing an allocator fails.
	ErrIDSource = errors.New("identifier source failed")
	// ErrConsistency wraps every violation reported by Verify.
	ErrConsistency = errors.New("specification inconsistent")
	// ErrUnbound is returned by Assertion.Holds for a leaf without a condition.
	ErrUnbound = errors.New("expression has no bound condition")
	// ErrMalformedAssertion is returned when decoding an assertion fails.
	ErrMalformedAssertion = errors.New("malformed assertion")
)
