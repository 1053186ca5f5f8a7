package desugar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contractc/internal/diag"
	"contractc/internal/source"
	"contractc/internal/spec"
	"contractc/internal/unit"
)

type fixture struct {
	fs   *source.FileSet
	bag  *diag.Bag
	unit *unit.Unit
	d    *Desugarer
}

func newFixture(t *testing.T, content string, alloc spec.AllocatorOptions, opts Options) *fixture {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	u, err := unit.LoadBytes(fs, "test.toml", []byte(content), unit.FormatTOML, unit.Options{Reporter: rep})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts.Reporter = rep
	opts.CheckConsistency = true
	return &fixture{
		fs:   fs,
		bag:  bag,
		unit: u,
		d:    New(fs, spec.NewAllocator(alloc), spec.NewRegistry(), opts),
	}
}

func (f *fixture) item(t *testing.T, name string) *ItemResult {
	t.Helper()
	it, ok := f.unit.Item(name)
	if !ok {
		t.Fatalf("no item %q", name)
	}
	res, err := f.d.Item(context.Background(), it)
	if err != nil {
		t.Fatalf("desugar %s: %v", name, err)
	}
	return res
}

func singleContract(expr string) string {
	return fmt.Sprintf("[[item]]\nname = \"f\"\nrequires = [%q]\n", expr)
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a ==> b", "Implies(Expr(101), Expr(102))"},
		{"a ==> b ==> c", "Implies(Expr(101), Implies(Expr(102), Expr(103)))"},
		{"(a ==> b) ==> c", "Implies(Implies(Expr(101), Expr(102)), Expr(103))"},
		{"(a==>b)==>(c==>d)", "Implies(Implies(Expr(101), Expr(102)), Implies(Expr(103), Expr(104)))"},
		{"x", "Expr(101)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newFixture(t, singleContract(tt.input), spec.AllocatorOptions{}, Options{})
			res := f.item(t, "f")
			if f.bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
			}
			if len(res.Specs) != 1 {
				t.Fatalf("expected one specification, got %d", len(res.Specs))
			}
			if got := res.Specs[0].Assertion.String(); got != tt.want {
				t.Fatalf("shape mismatch:\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestHolderContents(t *testing.T) {
	f := newFixture(t, singleContract("(a ==> b) ==> c"), spec.AllocatorOptions{}, Options{})
	s := f.item(t, "f").Specs[0]

	wantCodes := []string{"a", "b", "c"}
	var codes []string
	var ids []spec.ExpressionID
	for _, th := range s.Holder.Body {
		codes = append(codes, th.Code)
		ids = append(ids, th.ExprID)
		if !th.Markers.Has(spec.MarkerSpecOnly) {
			t.Fatalf("thunk %d lacks spec_only", th.ExprID)
		}
		if v, _ := th.Markers.Get(spec.MarkerExprID); v != spec.ThunkName(s.ID, th.ExprID) {
			t.Fatalf("unexpected expr_id marker %q", v)
		}
		if f.fs.Text(th.Span) != th.Code {
			t.Fatalf("thunk span resolves to %q, code is %q", f.fs.Text(th.Span), th.Code)
		}
	}
	if diff := cmp.Diff(wantCodes, codes); diff != "" {
		t.Fatalf("thunk codes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]spec.ExpressionID{101, 102, 103}, ids); diff != "" {
		t.Fatalf("thunk ids (-want +got):\n%s", diff)
	}

	if v, _ := s.Holder.Markers.Get(spec.MarkerSpecID); v != s.ID.String() {
		t.Fatalf("holder spec_id marker %q", v)
	}
	js, _ := s.Holder.Markers.Get(spec.MarkerAssertion)
	want := fmt.Sprintf(`{"kind":{"Implies":[{"kind":{"Implies":[`+
		`{"kind":{"Expr":{"spec_id":"%[1]s","expr_id":101}}},`+
		`{"kind":{"Expr":{"spec_id":"%[1]s","expr_id":102}}}]}},`+
		`{"kind":{"Expr":{"spec_id":"%[1]s","expr_id":103}}}]}}`, s.ID)
	if js != want {
		t.Fatalf("assertion marker mismatch:\n got: %s\nwant: %s", js, want)
	}
	if !strings.HasPrefix(s.Holder.Name, "prusti_requires_item_f_") || !strings.HasSuffix(s.Holder.Name, s.ID.Hex()) {
		t.Fatalf("unexpected holder name %s", s.Holder.Name)
	}
}

func TestRightLeaningChains(t *testing.T) {
	for n := 1; n <= 8; n++ {
		terms := make([]string, n)
		for i := range terms {
			terms[i] = fmt.Sprintf("t%d", i+1)
		}
		f := newFixture(t, singleContract(strings.Join(terms, " ==> ")), spec.AllocatorOptions{}, Options{})
		s := f.item(t, "f").Specs[0]

		// walk the right spine
		a := s.Assertion
		for i := 0; i < n-1; i++ {
			lhs, rhs, ok := a.Operands()
			if !ok {
				t.Fatalf("n=%d: expected implication at depth %d, got %s", n, i, a)
			}
			if e, ok := lhs.Expression(); !ok || e.ExprID != spec.ExpressionID(101+i) {
				t.Fatalf("n=%d: antecedent at depth %d is %s", n, i, lhs)
			}
			a = rhs
		}
		if e, ok := a.Expression(); !ok || e.ExprID != spec.ExpressionID(100+n) {
			t.Fatalf("n=%d: last consequent is %s", n, a)
		}
		if want := chainSurface(terms); s.Surface() != want {
			t.Fatalf("n=%d: surface %q, want %q", n, s.Surface(), want)
		}
	}
}

// chainSurface renders a right-leaning chain with every nested
// implication parenthesized.
func chainSurface(terms []string) string {
	if len(terms) == 1 {
		return terms[0]
	}
	rest := chainSurface(terms[1:])
	if len(terms) > 2 {
		rest = "(" + rest + ")"
	}
	return terms[0] + " ==> " + rest
}

func TestTwoOccurrencesIndependent(t *testing.T) {
	content := `[[item]]
name = "f"
requires = ["a ==> b", "c ==> d ==> e"]
`
	f := newFixture(t, content, spec.AllocatorOptions{}, Options{})
	res := f.item(t, "f")
	if len(res.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(res.Specs))
	}
	first, second := res.Specs[0], res.Specs[1]
	if first.ID == second.ID {
		t.Fatal("specification ids must differ")
	}
	for _, s := range res.Specs {
		if s.Holder.Body[0].ExprID != 101 {
			t.Fatalf("each sequence starts at 101, got %d", s.Holder.Body[0].ExprID)
		}
	}
	if diff := cmp.Diff([]spec.SpecificationID{first.ID, second.ID}, res.BackRefs()); diff != "" {
		t.Fatalf("back refs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.BackRefs(), f.d.Registry().BackRefs("f")); diff != "" {
		t.Fatalf("registry back refs (-want +got):\n%s", diff)
	}
	refs := res.Markers.All(spec.RefMarker(spec.KindRequires))
	if diff := cmp.Diff([]string{first.ID.String(), second.ID.String()}, refs); diff != "" {
		t.Fatalf("ref markers (-want +got):\n%s", diff)
	}
}

func TestRejectedOccurrenceDoesNotAffectSiblings(t *testing.T) {
	content := `[[item]]
name = "f"
requires = ["a ==> b", "a ==> ==> b", "(c ==> d"]
ensures = ["result"]
`
	f := newFixture(t, content, spec.AllocatorOptions{Mode: spec.IDsDeterministic, Namespace: "t"}, Options{})
	res := f.item(t, "f")
	if res.Rejected != 2 {
		t.Fatalf("expected 2 rejected occurrences, got %d", res.Rejected)
	}
	if len(res.Specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(res.Specs))
	}
	if res.Specs[0].Kind != spec.KindRequires || res.Specs[1].Kind != spec.KindEnsures {
		t.Fatalf("unexpected kinds %s, %s", res.Specs[0].Kind, res.Specs[1].Kind)
	}
	if !f.bag.HasErrors() {
		t.Fatal("parse errors must be reported")
	}
	var codes []diag.Code
	for _, d := range f.bag.Items() {
		codes = append(codes, d.Code)
	}
	if diff := cmp.Diff([]diag.Code{diag.SynDanglingImplies, diag.SynUnclosedDelimiter}, codes); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	// rejected occurrences do not consume ids
	if f.d.alloc.Allocated() != 2 {
		t.Fatalf("expected 2 allocated ids, got %d", f.d.alloc.Allocated())
	}
}

func TestIDAllocationFailureIsFatal(t *testing.T) {
	content := `[[item]]
name = "f"
requires = ["a", "b"]
`
	f := newFixture(t, content, spec.AllocatorOptions{Mode: spec.IDsDeterministic, Limit: 1}, Options{})
	it, _ := f.unit.Item("f")
	_, err := f.d.Item(context.Background(), it)
	if !errors.Is(err, spec.ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.IntIDAllocation {
		t.Fatalf("expected one INT9001 diagnostic, got %v", items)
	}
}

func TestFailedItemLeavesRegistryUntouched(t *testing.T) {
	content := `[[item]]
name = "f"
requires = ["a ==> b", "c"]
`
	f := newFixture(t, content, spec.AllocatorOptions{Mode: spec.IDsDeterministic, Limit: 1}, Options{})
	it, _ := f.unit.Item("f")
	if _, err := f.d.Item(context.Background(), it); err == nil {
		t.Fatal("expected the second occurrence to fail")
	}
	if n := f.d.Registry().Len(); n != 0 {
		t.Fatalf("registry kept %d specifications of a failed item", n)
	}
	if refs := f.d.Registry().BackRefs("f"); len(refs) != 0 {
		t.Fatalf("registry kept back refs %v", refs)
	}
}

func TestGuardedOccurrence(t *testing.T) {
	content := `[[item]]
name = "f"
after_expiry_if = ["changed ==> x > 0, result ==> ok"]
`
	f := newFixture(t, content, spec.AllocatorOptions{}, Options{})
	s := f.item(t, "f").Specs[0]
	if got := s.Assertion.String(); got != "Implies(Implies(Expr(101), Expr(102)), Implies(Expr(103), Expr(104)))" {
		t.Fatalf("unexpected shape %s", got)
	}
	if s.Holder.Body[0].Code != "changed" {
		t.Fatalf("guard leaves come first, got %q", s.Holder.Body[0].Code)
	}
}

func TestCustomBaseAndNamespace(t *testing.T) {
	f := newFixture(t, singleContract("a ==> b"), spec.AllocatorOptions{}, Options{ExprBase: 0xFF0, Namespace: "contract"})
	s := f.item(t, "f").Specs[0]
	if s.Holder.Body[0].ExprID != 0xFF1 || s.Holder.Body[1].ExprID != 0xFF2 {
		t.Fatalf("unexpected ids %d, %d", s.Holder.Body[0].ExprID, s.Holder.Body[1].ExprID)
	}
	if !strings.HasPrefix(s.Holder.Name, "contract_requires_item_f_") {
		t.Fatalf("unexpected holder name %s", s.Holder.Name)
	}
}

func TestItemMarkers(t *testing.T) {
	content := `[[item]]
name = "f"
pure = true
trusted = true
ensures = ["ok"]
`
	f := newFixture(t, content, spec.AllocatorOptions{}, Options{})
	res := f.item(t, "f")
	names := make([]string, len(res.Markers))
	for i, m := range res.Markers {
		names[i] = m.Name
	}
	if diff := cmp.Diff([]string{"pure", "trusted", "ensures_spec_id_ref"}, names); diff != "" {
		t.Fatalf("markers (-want +got):\n%s", diff)
	}
}

func TestCancelledContext(t *testing.T) {
	f := newFixture(t, singleContract("a"), spec.AllocatorOptions{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	it, _ := f.unit.Item("f")
	if _, err := f.d.Item(ctx, it); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEscapedContractStillDesugars(t *testing.T) {
	content := "[[item]]\nname = \"f\"\nrequires = [\"s == \\\"x\\\" ==> ok\"]\n"
	f := newFixture(t, content, spec.AllocatorOptions{}, Options{})
	s := f.item(t, "f").Specs[0]
	if s.Holder.Body[0].Code != `s == "x"` {
		t.Fatalf("unexpected code %q", s.Holder.Body[0].Code)
	}
}

func evalWith(t *testing.T, s *spec.Specification, vals map[string]bool) bool {
	t.Helper()
	got, err := s.Assertion.Holds(func(e spec.Expression) (spec.Condition, bool) {
		v, ok := vals[s.Code(e)]
		return spec.Const(v), ok
	})
	if err != nil {
		t.Fatalf("evaluate %s: %v", s.Surface(), err)
	}
	return got
}

func TestSurfaceRoundTripKeepsTruthTable(t *testing.T) {
	inputs := []string{
		"a ==> b ==> c",
		"(a ==> b) ==> c",
		"(a==>b)==>(c==>d)",
		"a ==> (b ==> c) ==> d",
		"((a ==> b) ==> c) ==> d",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := newFixture(t, singleContract(in), spec.AllocatorOptions{}, Options{}).item(t, "f")
			if len(first.Specs) != 1 {
				t.Fatalf("expected one specification for %q", in)
			}
			orig := first.Specs[0]
			surface := orig.Surface()

			second := newFixture(t, singleContract(surface), spec.AllocatorOptions{}, Options{}).item(t, "f")
			if len(second.Specs) != 1 {
				t.Fatalf("surface %q did not reparse", surface)
			}
			again := second.Specs[0]
			if diff := cmp.Diff(orig.Assertion.String(), again.Assertion.String()); diff != "" {
				t.Fatalf("shape changed for %q (-orig +again):\n%s", surface, diff)
			}

			var names []string
			for _, th := range orig.Holder.Body {
				names = append(names, th.Code)
			}
			for mask := range 1 << len(names) {
				vals := make(map[string]bool, len(names))
				for i, n := range names {
					vals[n] = mask&(1<<i) != 0
				}
				if a, b := evalWith(t, orig, vals), evalWith(t, again, vals); a != b {
					t.Fatalf("truth tables differ at %v: %v vs %v", vals, a, b)
				}
			}
		})
	}
}
