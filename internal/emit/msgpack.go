package emit

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrSchemaMismatch = errors.New("bundle schema mismatch")

// WriteMsgpack encodes the bundle for back ends. Struct fields are keyed
// by their msgpack tag names.
func WriteMsgpack(w io.Writer, b *Bundle) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(b)
}

func ReadMsgpack(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := checkSchema(b.Schema); err != nil {
		return nil, err
	}
	b.relink()
	return &b, nil
}

func checkSchema(v uint16) error {
	if v != SchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, v, SchemaVersion)
	}
	return nil
}
