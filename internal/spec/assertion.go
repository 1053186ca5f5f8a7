package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Expression is a leaf reference: which specification, which leaf, and
// the index of the thunk carrying its code in the holder body.
type Expression struct {
	SpecID SpecificationID
	ExprID ExpressionID
	Thunk  int
}

type AssertionKind uint8

const (
	AssertExpr AssertionKind = iota
	AssertImplies
)

func (k AssertionKind) String() string {
	switch k {
	case AssertExpr:
		return "Expr"
	case AssertImplies:
		return "Implies"
	default:
		return "Unknown"
	}
}

// Assertion is an immutable tree of implications over expression leaves.
type Assertion struct {
	kind     AssertionKind
	expr     Expression
	lhs, rhs *Assertion
}

// Leaf builds Expr(e).
func Leaf(e Expression) *Assertion {
	return &Assertion{kind: AssertExpr, expr: e}
}

// Implies builds Implies(lhs, rhs). Neither operand may be nil.
func Implies(lhs, rhs *Assertion) *Assertion {
	if lhs == nil || rhs == nil {
		panic("spec: Implies with nil operand")
	}
	return &Assertion{kind: AssertImplies, lhs: lhs, rhs: rhs}
}

func (a *Assertion) Kind() AssertionKind { return a.kind }

// Expression returns the leaf payload; ok is false for implications.
func (a *Assertion) Expression() (Expression, bool) {
	return a.expr, a.kind == AssertExpr
}

// Operands returns antecedent and consequent; ok is false for leaves.
func (a *Assertion) Operands() (lhs, rhs *Assertion, ok bool) {
	return a.lhs, a.rhs, a.kind == AssertImplies
}

// Leaves returns the expressions in left-to-right order.
func (a *Assertion) Leaves() []Expression {
	var out []Expression
	a.walkLeaves(func(e Expression) { out = append(out, e) })
	return out
}

func (a *Assertion) walkLeaves(fn func(Expression)) {
	if a == nil {
		return
	}
	if a.kind == AssertExpr {
		fn(a.expr)
		return
	}
	a.lhs.walkLeaves(fn)
	a.rhs.walkLeaves(fn)
}

// Equal compares shape and leaf ids; thunk indices are ignored since they
// are not part of the serialized form.
func (a *Assertion) Equal(b *Assertion) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	if a.kind == AssertExpr {
		return a.expr.SpecID == b.expr.SpecID && a.expr.ExprID == b.expr.ExprID
	}
	return a.lhs.Equal(b.lhs) && a.rhs.Equal(b.rhs)
}

// String renders the shape, e.g. Implies(Expr(101), Expr(102)).
func (a *Assertion) String() string {
	var sb strings.Builder
	a.writeShape(&sb)
	return sb.String()
}

func (a *Assertion) writeShape(sb *strings.Builder) {
	if a == nil {
		sb.WriteString("<nil>")
		return
	}
	if a.kind == AssertExpr {
		fmt.Fprintf(sb, "Expr(%d)", a.expr.ExprID)
		return
	}
	sb.WriteString("Implies(")
	a.lhs.writeShape(sb)
	sb.WriteString(", ")
	a.rhs.writeShape(sb)
	sb.WriteByte(')')
}

// Surface renders the tree as contract text. Leaves come from code; nested
// implications get explicit parentheses so the text reparses to this shape.
func (a *Assertion) Surface(code func(Expression) string) string {
	var sb strings.Builder
	a.writeSurface(&sb, code, false)
	return sb.String()
}

func (a *Assertion) writeSurface(sb *strings.Builder, code func(Expression) string, nested bool) {
	if a.kind == AssertExpr {
		sb.WriteString(code(a.expr))
		return
	}
	if nested {
		sb.WriteByte('(')
	}
	a.lhs.writeSurface(sb, code, true)
	sb.WriteString(" ==> ")
	a.rhs.writeSurface(sb, code, true)
	if nested {
		sb.WriteByte(')')
	}
}

// Holds evaluates the tree. The consequent is not evaluated when the
// antecedent is false.
func (a *Assertion) Holds(bind func(Expression) (Condition, bool)) (bool, error) {
	if a.kind == AssertExpr {
		cond, ok := bind(a.expr)
		if !ok || cond == nil {
			return false, fmt.Errorf("%w: %s", ErrUnbound, ThunkName(a.expr.SpecID, a.expr.ExprID))
		}
		return cond.Holds()
	}
	l, err := a.lhs.Holds(bind)
	if err != nil {
		return false, err
	}
	if !l {
		return true, nil
	}
	return a.rhs.Holds(bind)
}

// Relink returns a copy whose leaves point at the thunk in body carrying
// the same expression id. Decoded trees carry no thunk indices; leaves
// with no matching thunk get -1 so Verify reports them.
func (a *Assertion) Relink(body []Thunk) *Assertion {
	if a == nil {
		return nil
	}
	if a.kind == AssertImplies {
		return Implies(a.lhs.Relink(body), a.rhs.Relink(body))
	}
	e := a.expr
	e.Thunk = -1
	for i := range body {
		if body[i].ExprID == e.ExprID {
			e.Thunk = i
			break
		}
	}
	return Leaf(e)
}

// Wire form shared by JSON and msgpack:
//
//	{"kind":{"Expr":{"spec_id":"<id>","expr_id":101}}}
//	{"kind":{"Implies":[<Assertion>,<Assertion>]}}
type assertionWire struct {
	Kind assertionKindWire `json:"kind" msgpack:"kind"`
}

type assertionKindWire struct {
	Expr    *exprWire    `json:"Expr,omitempty" msgpack:"Expr,omitempty"`
	Implies []*Assertion `json:"Implies,omitempty" msgpack:"Implies,omitempty"`
}

type exprWire struct {
	SpecID SpecificationID `json:"spec_id" msgpack:"spec_id"`
	ExprID ExpressionID    `json:"expr_id" msgpack:"expr_id"`
}

func (a *Assertion) wire() assertionWire {
	if a.kind == AssertExpr {
		return assertionWire{Kind: assertionKindWire{
			Expr: &exprWire{SpecID: a.expr.SpecID, ExprID: a.expr.ExprID},
		}}
	}
	return assertionWire{Kind: assertionKindWire{Implies: []*Assertion{a.lhs, a.rhs}}}
}

func (a *Assertion) fromWire(w assertionWire) error {
	switch {
	case w.Kind.Expr != nil && w.Kind.Implies == nil:
		*a = Assertion{kind: AssertExpr, expr: Expression{SpecID: w.Kind.Expr.SpecID, ExprID: w.Kind.Expr.ExprID}}
	case w.Kind.Expr == nil && len(w.Kind.Implies) == 2:
		if w.Kind.Implies[0] == nil || w.Kind.Implies[1] == nil {
			return fmt.Errorf("%w: null implication operand", ErrMalformedAssertion)
		}
		*a = Assertion{kind: AssertImplies, lhs: w.Kind.Implies[0], rhs: w.Kind.Implies[1]}
	case w.Kind.Expr == nil && w.Kind.Implies != nil:
		return fmt.Errorf("%w: implication needs 2 operands, got %d", ErrMalformedAssertion, len(w.Kind.Implies))
	default:
		return fmt.Errorf("%w: kind must hold exactly one of Expr or Implies", ErrMalformedAssertion)
	}
	return nil
}

func (a *Assertion) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.wire())
}

func (a *Assertion) UnmarshalJSON(b []byte) error {
	var w assertionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedAssertion, err)
	}
	return a.fromWire(w)
}

var (
	_ msgpack.CustomEncoder = (*Assertion)(nil)
	_ msgpack.CustomDecoder = (*Assertion)(nil)
)

func (a *Assertion) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(a.wire())
}

func (a *Assertion) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w assertionWire
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedAssertion, err)
	}
	return a.fromWire(w)
}

// EncodeAssertion returns the compact JSON form carried by holder markers.
func EncodeAssertion(a *Assertion) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeAssertion parses the JSON form.
func DecodeAssertion(s string) (*Assertion, error) {
	a := new(Assertion)
	if err := json.Unmarshal([]byte(s), a); err != nil {
		return nil, err
	}
	return a, nil
}
