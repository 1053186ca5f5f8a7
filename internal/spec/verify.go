package spec

import (
	"errors"
	"fmt"
)

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConsistency, fmt.Sprintf(format, args...))
}

// Verify checks that the holder and the assertion of s describe the same
// leaves in the same order. It returns nil or the joined violations.
func Verify(s *Specification) error {
	if s == nil {
		return violation("nil specification")
	}
	if s.Assertion == nil {
		return violation("specification %s has no assertion", s.ID)
	}
	if s.Holder == nil {
		return violation("specification %s has no holder item", s.ID)
	}

	var errs []error
	h := s.Holder

	if !h.Markers.Has(MarkerSpecOnly) {
		errs = append(errs, violation("holder %s lacks %s marker", h.Name, MarkerSpecOnly))
	}
	if v, ok := h.Markers.Get(MarkerSpecID); !ok || v != s.ID.String() {
		errs = append(errs, violation("holder %s carries spec id %q, want %s", h.Name, v, s.ID))
	}
	if v, ok := h.Markers.Get(MarkerAssertion); !ok {
		errs = append(errs, violation("holder %s lacks %s marker", h.Name, MarkerAssertion))
	} else if decoded, err := DecodeAssertion(v); err != nil {
		errs = append(errs, violation("holder %s assertion does not decode: %v", h.Name, err))
	} else if !decoded.Equal(s.Assertion) {
		errs = append(errs, violation("holder %s assertion %s differs from tree %s", h.Name, decoded, s.Assertion))
	}

	leaves := s.Assertion.Leaves()
	if len(leaves) != len(h.Body) {
		errs = append(errs, violation("%d leaves but %d thunks", len(leaves), len(h.Body)))
	}

	for i, th := range h.Body {
		if i > 0 && th.ExprID != h.Body[i-1].ExprID+1 {
			errs = append(errs, violation("thunk %d has expr id %d after %d", i, th.ExprID, h.Body[i-1].ExprID))
		}
		if !th.Markers.Has(MarkerSpecOnly) {
			errs = append(errs, violation("thunk %d lacks %s marker", i, MarkerSpecOnly))
		}
		if v, _ := th.Markers.Get(MarkerExprID); v != ThunkName(s.ID, th.ExprID) {
			errs = append(errs, violation("thunk %d carries %s %q", i, MarkerExprID, v))
		}
	}

	for i, leaf := range leaves {
		if leaf.SpecID != s.ID {
			errs = append(errs, violation("leaf %d belongs to %s", i, leaf.SpecID))
		}
		if leaf.Thunk != i {
			errs = append(errs, violation("leaf %d points at thunk %d", i, leaf.Thunk))
		}
		if i < len(h.Body) && leaf.ExprID != h.Body[i].ExprID {
			errs = append(errs, violation("leaf %d has expr id %d, thunk has %d", i, leaf.ExprID, h.Body[i].ExprID))
		}
	}
	return errors.Join(errs...)
}

// VerifyDistinct checks that no two specifications share an id.
func VerifyDistinct(specs []*Specification) error {
	seen := make(map[SpecificationID]int, len(specs))
	var errs []error
	for i, s := range specs {
		if j, dup := seen[s.ID]; dup {
			errs = append(errs, violation("specifications %d and %d share id %s", j, i, s.ID))
			continue
		}
		seen[s.ID] = i
	}
	return errors.Join(errs...)
}
