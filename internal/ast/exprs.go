package ast

import (
	"contractc/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena   *Arena[Expr]
	Terms   *Arena[ExprTermData]
	Implies *Arena[ExprImpliesData]
}

// NewExprs creates per-kind arenas preallocated with capHint (1<<6 when zero).
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:   NewArena[Expr](capHint),
		Terms:   NewArena[ExprTermData](capHint),
		Implies: NewArena[ExprImpliesData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewTerm(span source.Span, text string) ExprID {
	payload := PayloadID(e.Terms.Allocate(ExprTermData{Text: text}))
	return e.new(ExprTerm, span, payload)
}

func (e *Exprs) NewImplies(span source.Span, lhs, rhs ExprID, opSpan source.Span) ExprID {
	payload := PayloadID(e.Implies.Allocate(ExprImpliesData{
		Lhs:    lhs,
		Rhs:    rhs,
		OpSpan: opSpan,
	}))
	return e.new(ExprImplies, span, payload)
}

// SetParens records that id was written inside its own parentheses.
func (e *Exprs) SetParens(id ExprID, parens source.Span) {
	if expr := e.Get(id); expr != nil {
		expr.Parens = parens
	}
}

func (e *Exprs) Term(id ExprID) (*ExprTermData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTerm {
		return nil, false
	}
	return e.Terms.Get(uint32(expr.Payload)), true
}

func (e *Exprs) Implication(id ExprID) (*ExprImpliesData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprImplies {
		return nil, false
	}
	return e.Implies.Get(uint32(expr.Payload)), true
}
