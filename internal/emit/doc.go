// Package emit renders a desugared unit: the textual encoding of holder
// items and annotated items, a JSON document, a msgpack bundle for back
// ends, and ASCII assertion trees.
package emit
