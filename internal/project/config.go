package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"contractc/internal/spec"
)

var (
	// ErrInvalidConfig wraps every validation failure of contractc.toml.
	ErrInvalidConfig = errors.New("invalid project config")
)

type Config struct {
	Desugar     DesugarConfig     `toml:"desugar"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Driver      DriverConfig      `toml:"driver"`
}

type DesugarConfig struct {
	Namespace  string `toml:"namespace"`
	ExprIDBase uint32 `toml:"expr_id_base"`
	IDs        string `toml:"ids"`
	Check      bool   `toml:"check"`
}

type DiagnosticsConfig struct {
	Max int `toml:"max"`
}

type DriverConfig struct {
	Jobs int `toml:"jobs"`
}

// Manifest is a loaded config together with where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultConfig is used when no contractc.toml is found.
func DefaultConfig() Config {
	return Config{
		Desugar: DesugarConfig{
			Namespace:  "prusti",
			ExprIDBase: uint32(spec.ExpressionIDBase),
			IDs:        spec.IDsRandom.String(),
		},
		Diagnostics: DiagnosticsConfig{Max: 100},
		Driver:      DriverConfig{Jobs: 1},
	}
}

// IDMode parses Desugar.IDs.
func (c Config) IDMode() (spec.IDMode, error) {
	return spec.ParseIDMode(c.Desugar.IDs)
}

// LoadManifest finds and loads contractc.toml above startDir. ok is false
// when there is none; the returned manifest then carries DefaultConfig.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: DefaultConfig()}, false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes path over DefaultConfig, so omitted keys keep their
// defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if meta.IsDefined("desugar", "namespace") && strings.TrimSpace(cfg.Desugar.Namespace) == "" {
		return Config{}, fmt.Errorf("%s: %w: [desugar].namespace is empty", path, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges; it is also applied after CLI overrides.
func (c Config) Validate() error {
	if !isIdent(c.Desugar.Namespace) {
		return fmt.Errorf("%w: [desugar].namespace %q must be an identifier", ErrInvalidConfig, c.Desugar.Namespace)
	}
	if _, err := c.IDMode(); err != nil {
		return fmt.Errorf("%w: [desugar].ids: %w", ErrInvalidConfig, err)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: [diagnostics].max must not be negative", ErrInvalidConfig)
	}
	if c.Driver.Jobs < 0 {
		return fmt.Errorf("%w: [driver].jobs must not be negative", ErrInvalidConfig)
	}
	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
