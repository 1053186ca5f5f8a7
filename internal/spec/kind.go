package spec

import "fmt"

// Kind is the contract kind of an occurrence.
type Kind uint8

const (
	KindRequires Kind = iota
	KindEnsures
	KindAfterExpiry
	KindAfterExpiryIf
	KindInvariant
)

var kindNames = [...]string{
	KindRequires:      "requires",
	KindEnsures:       "ensures",
	KindAfterExpiry:   "after_expiry",
	KindAfterExpiryIf: "after_expiry_if",
	KindInvariant:     "invariant",
}

// Kinds lists every kind in declaration order of unit files.
func Kinds() []Kind {
	return []Kind{KindRequires, KindEnsures, KindAfterExpiry, KindAfterExpiryIf, KindInvariant}
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Guarded reports whether occurrences of this kind take a `guard, body` form.
func (k Kind) Guarded() bool { return k == KindAfterExpiryIf }

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown contract kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
