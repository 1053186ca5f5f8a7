package ast

import (
	"contractc/internal/source"
)

type ExprKind uint8

const (
	// ExprTerm is an opaque boolean term; its text is kept verbatim.
	ExprTerm ExprKind = iota
	// ExprImplies is `lhs ==> rhs`.
	ExprImplies
)

func (k ExprKind) String() string {
	switch k {
	case ExprTerm:
		return "Term"
	case ExprImplies:
		return "Implies"
	default:
		return "Unknown"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	// Parens is the span of the parentheses wrapping an Implies node, empty
	// when the node was not written as its own group.
	Parens source.Span
}

type ExprTermData struct {
	Text string
}

type ExprImpliesData struct {
	Lhs    ExprID
	Rhs    ExprID
	OpSpan source.Span
}
