package desugar

import (
	"contractc/internal/diag"
	"contractc/internal/spec"
)

const DefaultNamespace = "prusti"

type Options struct {
	// Namespace prefixes holder item names.
	Namespace string
	// ExprBase is the value leaf numbering starts after.
	ExprBase spec.ExpressionID
	// CheckConsistency runs spec.Verify on every built specification.
	CheckConsistency bool
	Reporter         diag.Reporter
	// MaxErrors limits parser diagnostics per occurrence; 0 means no limit.
	MaxErrors uint
}

func (o Options) withDefaults() Options {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.ExprBase == 0 {
		o.ExprBase = spec.ExpressionIDBase
	}
	return o
}
