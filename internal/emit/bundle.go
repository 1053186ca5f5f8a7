package emit

import (
	"contractc/internal/desugar"
	"contractc/internal/spec"
	"contractc/internal/unit"
)

// SchemaVersion is bumped whenever the Bundle layout changes.
const SchemaVersion uint16 = 1

// Bundle is the serializable result of desugaring one unit.
type Bundle struct {
	Schema uint16       `json:"schema" msgpack:"schema"`
	Unit   string       `json:"unit" msgpack:"unit"`
	Path   string       `json:"path,omitempty" msgpack:"path,omitempty"`
	Items  []BundleItem `json:"items" msgpack:"items"`
}

// BundleItem is an annotated item with its back-reference markers.
type BundleItem struct {
	Name     string       `json:"name" msgpack:"name"`
	Kind     string       `json:"kind" msgpack:"kind"`
	Markers  spec.Markers `json:"markers" msgpack:"markers"`
	Specs    []BundleSpec `json:"specs" msgpack:"specs"`
	Rejected int          `json:"rejected,omitempty" msgpack:"rejected,omitempty"`
}

type BundleSpec struct {
	ID        spec.SpecificationID `json:"id" msgpack:"id"`
	Kind      spec.Kind            `json:"kind" msgpack:"kind"`
	Index     int                  `json:"index" msgpack:"index"`
	Assertion *spec.Assertion      `json:"assertion" msgpack:"assertion"`
	Holder    *spec.HolderItem     `json:"holder" msgpack:"holder"`
}

// NewBundle collects results in the order given; the driver passes them
// in item declaration order.
func NewBundle(u *unit.Unit, results []*desugar.ItemResult) *Bundle {
	b := &Bundle{
		Schema: SchemaVersion,
		Unit:   u.Name,
		Path:   u.Path,
		Items:  make([]BundleItem, 0, len(results)),
	}
	for _, r := range results {
		if r == nil || r.Item == nil {
			continue
		}
		item := BundleItem{
			Name:     r.Item.Name,
			Kind:     r.Item.Kind.String(),
			Markers:  r.Markers,
			Specs:    make([]BundleSpec, len(r.Specs)),
			Rejected: r.Rejected,
		}
		if item.Markers == nil {
			item.Markers = spec.Markers{}
		}
		for i, s := range r.Specs {
			item.Specs[i] = BundleSpec{
				ID:        s.ID,
				Kind:      s.Kind,
				Index:     s.Index,
				Assertion: s.Assertion,
				Holder:    s.Holder,
			}
		}
		b.Items = append(b.Items, item)
	}
	return b
}

// Specification rebuilds the specification of s owned by item. Leaves are
// linked to holder thunks by expression id.
func (s BundleSpec) Specification(item string) *spec.Specification {
	a := s.Assertion
	if a != nil && s.Holder != nil {
		a = a.Relink(s.Holder.Body)
	}
	return &spec.Specification{
		ID:        s.ID,
		Kind:      s.Kind,
		Item:      item,
		Index:     s.Index,
		Assertion: a,
		Holder:    s.Holder,
	}
}

// relink restores thunk indices lost on the wire.
func (b *Bundle) relink() {
	for i := range b.Items {
		for j := range b.Items[i].Specs {
			s := &b.Items[i].Specs[j]
			if s.Assertion != nil && s.Holder != nil {
				s.Assertion = s.Assertion.Relink(s.Holder.Body)
			}
		}
	}
}

// Specs counts the specifications in the bundle.
func (b *Bundle) Specs() int {
	n := 0
	for _, it := range b.Items {
		n += len(it.Specs)
	}
	return n
}
