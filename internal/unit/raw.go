package unit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"contractc/internal/spec"
)

// Format is the encoding of a unit file.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatTOML, fmt.Errorf("%s: unsupported unit format (want .toml, .yaml or .yml)", path)
	}
}

type rawHeader struct {
	Name string `toml:"name" yaml:"name"`
}

type rawItem struct {
	Name          string   `toml:"name" yaml:"name"`
	Kind          string   `toml:"kind" yaml:"kind"`
	Pure          bool     `toml:"pure" yaml:"pure"`
	Trusted       bool     `toml:"trusted" yaml:"trusted"`
	Requires      []string `toml:"requires" yaml:"requires"`
	Ensures       []string `toml:"ensures" yaml:"ensures"`
	AfterExpiry   []string `toml:"after_expiry" yaml:"after_expiry"`
	AfterExpiryIf []string `toml:"after_expiry_if" yaml:"after_expiry_if"`
	Invariant     []string `toml:"invariant" yaml:"invariant"`
}

func (r *rawItem) contracts(kind spec.Kind) []string {
	switch kind {
	case spec.KindRequires:
		return r.Requires
	case spec.KindEnsures:
		return r.Ensures
	case spec.KindAfterExpiry:
		return r.AfterExpiry
	case spec.KindAfterExpiryIf:
		return r.AfterExpiryIf
	case spec.KindInvariant:
		return r.Invariant
	default:
		return nil
	}
}

type rawUnit struct {
	Unit  rawHeader `toml:"unit" yaml:"unit"`
	Items []rawItem `toml:"item" yaml:"item"`
}

var errUnknownKeys = errors.New("unknown keys")

func decode(content []byte, format Format) (*rawUnit, error) {
	var raw rawUnit
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		meta, err := toml.Decode(string(content), &raw)
		if err != nil {
			return nil, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%w: %s", errUnknownKeys, strings.Join(keys, ", "))
		}
	}
	return &raw, nil
}
