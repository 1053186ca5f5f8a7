package spec

import (
	"contractc/internal/source"
)

// Specification is the desugared result of one contract occurrence.
type Specification struct {
	ID        SpecificationID
	Kind      Kind
	Item      string
	Index     int // occurrence index among the item's contracts of this kind
	Span      source.Span
	Assertion *Assertion
	Holder    *HolderItem
}

// Expressions returns the leaf references in ascending id order.
func (s *Specification) Expressions() []Expression {
	if s.Assertion == nil {
		return nil
	}
	return s.Assertion.Leaves()
}

// Code returns the thunk code for e, or "" if e is not in this holder.
func (s *Specification) Code(e Expression) string {
	if s.Holder == nil || e.Thunk < 0 || e.Thunk >= len(s.Holder.Body) {
		return ""
	}
	return s.Holder.Body[e.Thunk].Code
}

// Surface renders the assertion back to contract text using thunk code.
func (s *Specification) Surface() string {
	if s.Assertion == nil {
		return ""
	}
	return s.Assertion.Surface(s.Code)
}
