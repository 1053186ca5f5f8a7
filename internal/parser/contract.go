package parser

import (
	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/token"
)

// parseExpr: expr := term (==> expr)?
// Правая ассоциативность получается рекурсией по правому операнду.
func (p *Parser) parseExpr(lo, hi int) (ast.ExprID, bool) {
	op := p.topLevel(token.Implies, lo, hi)
	if op < 0 {
		return p.parseTerm(lo, hi)
	}
	opSpan := p.toks[op].Span
	if op == lo {
		p.report(diag.SynDanglingImplies, diag.SevError, opSpan, "'==>' is missing its left operand")
		return ast.NoExprID, false
	}
	if op+1 == hi {
		p.report(diag.SynDanglingImplies, diag.SevError, opSpan, "'==>' is missing its right operand")
		return ast.NoExprID, false
	}

	lhs, ok := p.parseTerm(lo, op)
	if !ok {
		return ast.NoExprID, false
	}
	rhs, ok := p.parseExpr(op+1, hi)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewImplies(p.spanOf(lo, hi), lhs, rhs, opSpan), true
}

// parseTerm разбирает операнд импликации. Единственная группа в скобках,
// внутри которой есть `==>`, разбирается рекурсивно; всё остальное:
// непрозрачный терм с исходным текстом, даже если `==>` спрятан глубже
// (`forall(|i| i < n ==> a[i] > 0)`, `a && (b ==> c)`).
func (p *Parser) parseTerm(lo, hi int) (ast.ExprID, bool) {
	if p.soleGroup(lo, hi) {
		if hi-lo == 2 {
			p.report(diag.SynEmptyGroup, diag.SevError, p.spanOf(lo, hi), "empty parenthesized group")
			return ast.NoExprID, false
		}
		if p.anyDepth(token.Implies, lo+1, hi-1) >= 0 {
			id, ok := p.parseExpr(lo+1, hi-1)
			if !ok {
				return ast.NoExprID, false
			}
			if expr := p.arenas.Exprs.Get(id); expr != nil && expr.Kind == ast.ExprImplies && expr.Parens.Empty() {
				p.arenas.Exprs.SetParens(id, p.spanOf(lo, hi))
			}
			return id, true
		}
	}

	return p.arenas.Exprs.NewTerm(p.spanOf(lo, hi), p.textOf(lo, hi)), true
}

// parseGuarded: `guard, body` → Implies(guard, body); guard-листья идут первыми.
func (p *Parser) parseGuarded(lo, hi int) (ast.ExprID, bool) {
	comma := p.topLevel(token.Comma, lo, hi)
	if comma < 0 {
		p.report(diag.SynExpectGuardSeparator, diag.SevError, p.spanOf(lo, hi), "expected ',' between guard and body")
		return ast.NoExprID, false
	}
	if comma == lo {
		p.report(diag.SynEmptyContract, diag.SevError, p.toks[comma].Span, "missing guard before ','")
		return ast.NoExprID, false
	}
	if comma+1 == hi {
		p.report(diag.SynEmptyContract, diag.SevError, p.toks[comma].Span, "missing body after ','")
		return ast.NoExprID, false
	}
	guard, ok := p.parseExpr(lo, comma)
	if !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseExpr(comma+1, hi)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewImplies(p.spanOf(lo, hi), guard, body, p.toks[comma].Span), true
}
