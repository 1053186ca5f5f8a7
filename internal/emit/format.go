package emit

import (
	"fmt"
	"io"

	"contractc/internal/diagfmt"
)

type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatMsgpack
	FormatTree
)

var formatNames = [...]string{
	FormatText:    "text",
	FormatJSON:    "json",
	FormatMsgpack: "msgpack",
	FormatTree:    "tree",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if name == s {
			return Format(i), nil
		}
	}
	return FormatText, fmt.Errorf("unknown output format %q (want text, json, msgpack or tree)", s)
}

// Binary reports whether the format should not go to a terminal.
func (f Format) Binary() bool { return f == FormatMsgpack }

// Write renders b in format f.
func Write(w io.Writer, f Format, b *Bundle) error {
	switch f {
	case FormatText:
		return WriteText(w, b)
	case FormatJSON:
		return WriteJSON(w, b)
	case FormatMsgpack:
		return WriteMsgpack(w, b)
	case FormatTree:
		return WriteTrees(w, b)
	default:
		return fmt.Errorf("unknown output format %d", f)
	}
}

// WriteTrees prints one assertion tree per specification.
func WriteTrees(w io.Writer, b *Bundle) error {
	first := true
	for _, it := range b.Items {
		for _, s := range it.Specs {
			if !first {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			first = false
			if err := diagfmt.AssertionTree(w, s.Specification(it.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}
