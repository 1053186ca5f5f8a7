package spec

import (
	"contractc/internal/source"
)

// Marker names attached to holder items, thunks and annotated items.
const (
	MarkerSpecOnly  = "spec_only"
	MarkerSpecID    = "spec_id"
	MarkerAssertion = "assertion"
	MarkerExprID    = "expr_id"
	MarkerPure      = "pure"
	MarkerTrusted   = "trusted"
)

// RefMarker is the back-reference marker name for kind, e.g. requires_spec_id_ref.
func RefMarker(kind Kind) string {
	return kind.String() + "_spec_id_ref"
}

// Marker is a declarative attribute; flag markers have an empty Value.
type Marker struct {
	Name  string `json:"name" msgpack:"name"`
	Value string `json:"value,omitempty" msgpack:"value,omitempty"`
}

func Flag(name string) Marker { return Marker{Name: name} }

// Markers is an ordered marker list.
type Markers []Marker

// Get returns the value of the first marker called name.
func (ms Markers) Get(name string) (string, bool) {
	for _, m := range ms {
		if m.Name == name {
			return m.Value, true
		}
	}
	return "", false
}

func (ms Markers) Has(name string) bool {
	_, ok := ms.Get(name)
	return ok
}

// All returns the values of every marker called name, in order.
func (ms Markers) All(name string) []string {
	var out []string
	for _, m := range ms {
		if m.Name == name {
			out = append(out, m.Value)
		}
	}
	return out
}

// Thunk is a deferred boolean: the leaf's code kept verbatim for a later
// type check.
type Thunk struct {
	ExprID  ExpressionID `json:"expr_id" msgpack:"expr_id"`
	Code    string       `json:"code" msgpack:"code"`
	Span    source.Span  `json:"-" msgpack:"-"`
	Markers Markers      `json:"markers" msgpack:"markers"`
}

// HolderItem is the synthetic, parameterless item carrying the thunks of
// one specification.
type HolderItem struct {
	Name    string  `json:"name" msgpack:"name"`
	Markers Markers `json:"markers" msgpack:"markers"`
	Body    []Thunk `json:"body" msgpack:"body"`
}

// HolderName builds "<namespace>_<kind>_item_<item>_<id-hex>".
func HolderName(namespace string, kind Kind, item string, id SpecificationID) string {
	return namespace + "_" + kind.String() + "_item_" + item + "_" + id.Hex()
}
