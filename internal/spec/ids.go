package spec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// SpecificationID identifies one contract occurrence within a unit.
type SpecificationID uuid.UUID

// NoSpecificationID is the zero id; allocators never hand it out.
var NoSpecificationID SpecificationID

func (id SpecificationID) IsValid() bool { return id != NoSpecificationID }

func (id SpecificationID) String() string { return uuid.UUID(id).String() }

// Hex returns the id without dashes, suitable for identifiers.
func (id SpecificationID) Hex() string {
	return strings.ReplaceAll(id.String(), "-", "")
}

func (id SpecificationID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SpecificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseSpecificationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id SpecificationID) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(id.String())
}

func (id *SpecificationID) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

// ParseSpecificationID parses the canonical string form.
func ParseSpecificationID(s string) (SpecificationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NoSpecificationID, fmt.Errorf("parse specification id %q: %w", s, err)
	}
	return SpecificationID(u), nil
}

// ExpressionID identifies a leaf within one specification.
type ExpressionID uint32

// ExpressionIDBase is the offset leaf numbering starts from; the first
// leaf of every specification gets ExpressionIDBase+1.
const ExpressionIDBase ExpressionID = 100

func (id ExpressionID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ThunkName is the value of the expr_id marker on a thunk: "<spec>_<expr>".
func ThunkName(spec SpecificationID, expr ExpressionID) string {
	return spec.String() + "_" + expr.String()
}
