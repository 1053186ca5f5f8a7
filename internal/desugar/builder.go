package desugar

import (
	"fmt"

	"contractc/internal/ast"
	"contractc/internal/spec"
)

// treeBuilder walks one parsed occurrence and produces the assertion tree
// and the holder body together, so the two cannot drift apart.
type treeBuilder struct {
	exprs   *ast.Exprs
	id      spec.SpecificationID
	counter *spec.ExprCounter
	body    []spec.Thunk
}

func newTreeBuilder(exprs *ast.Exprs, id spec.SpecificationID, base spec.ExpressionID) *treeBuilder {
	return &treeBuilder{
		exprs:   exprs,
		id:      id,
		counter: spec.NewExprCounter(base),
	}
}

// build: термы получают id при первом посещении, левое поддерево раньше правого.
func (b *treeBuilder) build(id ast.ExprID) (*spec.Assertion, error) {
	expr := b.exprs.Get(id)
	if expr == nil {
		return nil, fmt.Errorf("desugar: dangling expression %d", id)
	}

	switch expr.Kind {
	case ast.ExprTerm:
		term, _ := b.exprs.Term(id)
		eid, err := b.counter.Next()
		if err != nil {
			return nil, err
		}
		b.body = append(b.body, spec.Thunk{
			ExprID: eid,
			Code:   term.Text,
			Span:   expr.Span,
			Markers: spec.Markers{
				spec.Flag(spec.MarkerSpecOnly),
				{Name: spec.MarkerExprID, Value: spec.ThunkName(b.id, eid)},
			},
		})
		return spec.Leaf(spec.Expression{SpecID: b.id, ExprID: eid, Thunk: len(b.body) - 1}), nil

	case ast.ExprImplies:
		data, _ := b.exprs.Implication(id)
		lhs, err := b.build(data.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := b.build(data.Rhs)
		if err != nil {
			return nil, err
		}
		return spec.Implies(lhs, rhs), nil

	default:
		return nil, fmt.Errorf("desugar: unexpected expression kind %s", expr.Kind)
	}
}
