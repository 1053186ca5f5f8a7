package driver

import (
	"fmt"

	"contractc/internal/project"
	"contractc/internal/spec"
)

// Options drive a desugaring run. The zero value is usable: namespace and
// expression base fall back to desugar defaults and jobs to 1.
type Options struct {
	MaxDiagnostics   int
	Jobs             int
	Namespace        string
	ExprBase         spec.ExpressionID
	IDMode           spec.IDMode
	CheckConsistency bool
	EnableTimings    bool
	// Observer receives phase boundaries; nil disables.
	Observer PhaseObserver
}

// OptionsFromConfig maps a project config onto driver options.
func OptionsFromConfig(cfg project.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	mode, err := cfg.IDMode()
	if err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	return Options{
		MaxDiagnostics:   cfg.Diagnostics.Max,
		Jobs:             cfg.Driver.Jobs,
		Namespace:        cfg.Desugar.Namespace,
		ExprBase:         spec.ExpressionID(cfg.Desugar.ExprIDBase),
		IDMode:           mode,
		CheckConsistency: cfg.Desugar.Check,
	}, nil
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	return max(min(jobs, n), 1)
}
