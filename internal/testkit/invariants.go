package testkit

import (
	"fmt"

	"contractc/internal/ast"
	"contractc/internal/source"
)

const maxCheckDepth = 1 << 12

// CheckExprInvariants runs the span invariants of a parsed contract
// expression rooted at root:
// 1) every node span is non-empty and lies inside within
// 2) operands (with their parentheses) lie inside the implication and on
// either side of its operator
// 3) a parenthesized node is covered by its parentheses
// 4) leaves appear in strictly increasing source order
func CheckExprInvariants(exprs *ast.Exprs, root ast.ExprID, within source.Span) error {
	if exprs == nil {
		return fmt.Errorf("nil expressions")
	}
	if err := checkNode(exprs, root, within, 0); err != nil {
		return err
	}

	var prev source.Span
	for i, leaf := range exprs.Leaves(root) {
		sp := exprs.Get(leaf).Span
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("leaf %d at %v overlaps or precedes leaf %d at %v", i, sp, i-1, prev)
		}
		prev = sp
	}
	return nil
}

func checkNode(exprs *ast.Exprs, id ast.ExprID, parent source.Span, depth int) error {
	if depth > maxCheckDepth {
		return fmt.Errorf("expression deeper than %d", maxCheckDepth)
	}
	expr := exprs.Get(id)
	if expr == nil {
		return fmt.Errorf("dangling expression id %d", id)
	}
	if expr.Span.Empty() {
		return fmt.Errorf("empty span for %s %d", expr.Kind, id)
	}
	outer := outerSpan(expr)
	if !outer.Contains(expr.Span) {
		return fmt.Errorf("parentheses %v do not cover %v", outer, expr.Span)
	}
	if !parent.Contains(outer) {
		return fmt.Errorf("%s span %v is outside %v", expr.Kind, outer, parent)
	}

	if expr.Kind != ast.ExprImplies {
		return nil
	}
	data, ok := exprs.Implication(id)
	if !ok {
		return fmt.Errorf("implication %d has no payload", id)
	}
	lhs, rhs := exprs.Get(data.Lhs), exprs.Get(data.Rhs)
	if lhs == nil || rhs == nil {
		return fmt.Errorf("implication %d has a missing operand", id)
	}
	if !data.OpSpan.Empty() {
		if outerSpan(lhs).End > data.OpSpan.Start {
			return fmt.Errorf("lhs %v runs past operator %v", outerSpan(lhs), data.OpSpan)
		}
		if data.OpSpan.End > outerSpan(rhs).Start {
			return fmt.Errorf("rhs %v starts before operator %v ends", outerSpan(rhs), data.OpSpan)
		}
	}
	if err := checkNode(exprs, data.Lhs, expr.Span, depth+1); err != nil {
		return err
	}
	return checkNode(exprs, data.Rhs, expr.Span, depth+1)
}

func outerSpan(expr *ast.Expr) source.Span {
	if expr.Parens.Empty() {
		return expr.Span
	}
	return expr.Parens
}
