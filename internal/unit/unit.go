// Package unit loads compilation units: the annotated items of one file
// and the raw text of their contract occurrences.
package unit

import (
	"fmt"

	"contractc/internal/source"
	"contractc/internal/spec"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemTrait
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemStruct:
		return "struct"
	case ItemTrait:
		return "trait"
	default:
		return fmt.Sprintf("ItemKind(%d)", uint8(k))
	}
}

func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "", "fn":
		return ItemFn, true
	case "struct":
		return ItemStruct, true
	case "trait":
		return ItemTrait, true
	default:
		return ItemFn, false
	}
}

// Occurrence is one contract annotation on an item.
type Occurrence struct {
	Kind  spec.Kind
	Index int // position among the item's occurrences of the same kind
	Text  string
	// Span covers Text in the unit file, or the whole fragment file when
	// the text could not be found there.
	Span    source.Span
	Located bool
}

// Item is an annotated program item.
type Item struct {
	Name    string
	Kind    ItemKind
	Pure    bool
	Trusted bool
	Span    source.Span
	// Occurrences in declaration order.
	Occurrences []Occurrence
}

// Unit is one loaded compilation unit.
type Unit struct {
	Name  string
	Path  string
	File  source.FileID
	Items []*Item
}

// Occurrences returns the total number of contract occurrences.
func (u *Unit) Occurrences() int {
	n := 0
	for _, it := range u.Items {
		n += len(it.Occurrences)
	}
	return n
}

// Item finds an item by name.
func (u *Unit) Item(name string) (*Item, bool) {
	for _, it := range u.Items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}
