package ast

import "strings"

// Leaves returns the term nodes under root in left-to-right source order.
func (e *Exprs) Leaves(root ExprID) []ExprID {
	var out []ExprID
	var walk func(id ExprID)
	walk = func(id ExprID) {
		expr := e.Get(id)
		if expr == nil {
			return
		}
		switch expr.Kind {
		case ExprTerm:
			out = append(out, id)
		case ExprImplies:
			data := e.Implies.Get(uint32(expr.Payload))
			walk(data.Lhs)
			walk(data.Rhs)
		}
	}
	walk(root)
	return out
}

// Depth returns the number of Implies nodes on the longest root-to-leaf path.
func (e *Exprs) Depth(root ExprID) int {
	data, ok := e.Implication(root)
	if !ok {
		return 0
	}
	return 1 + max(e.Depth(data.Lhs), e.Depth(data.Rhs))
}

// Surface renders the tree back to contract syntax. Every nested
// implication is parenthesized, so the result reparses to the same shape.
func (e *Exprs) Surface(root ExprID) string {
	var sb strings.Builder
	e.writeSurface(&sb, root, false)
	return sb.String()
}

func (e *Exprs) writeSurface(sb *strings.Builder, id ExprID, nested bool) {
	expr := e.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ExprTerm:
		sb.WriteString(e.Terms.Get(uint32(expr.Payload)).Text)
	case ExprImplies:
		data := e.Implies.Get(uint32(expr.Payload))
		if nested {
			sb.WriteByte('(')
		}
		e.writeSurface(sb, data.Lhs, true)
		sb.WriteString(" ==> ")
		e.writeSurface(sb, data.Rhs, true)
		if nested {
			sb.WriteByte(')')
		}
	}
}
