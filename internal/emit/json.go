package emit

import (
	"encoding/json"
	"io"
)

// WriteJSON renders the whole bundle as indented JSON. Assertions keep
// their exact wire form.
func WriteJSON(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(b)
}

// ReadJSON decodes a bundle written by WriteJSON.
func ReadJSON(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, err
	}
	if err := checkSchema(b.Schema); err != nil {
		return nil, err
	}
	b.relink()
	return &b, nil
}
