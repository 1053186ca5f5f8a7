package ast

type Hints struct{ Exprs uint }

type Builder struct {
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 6
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
	}
}
