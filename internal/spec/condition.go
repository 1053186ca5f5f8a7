package spec

// Condition is the evaluation capability a thunk provides downstream.
type Condition interface {
	Holds() (bool, error)
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func() (bool, error)

func (f ConditionFunc) Holds() (bool, error) { return f() }

// Const is a Condition with a fixed value.
type Const bool

func (c Const) Holds() (bool, error) { return bool(c), nil }
