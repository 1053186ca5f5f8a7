package parser

import (
	"strings"
	"testing"

	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/source"
	"contractc/internal/testkit"
)

func TestParseImplicationShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single term", "a", "a"},
		{"simple", "a ==> b", "Implies(a, b)"},
		{"right assoc", "a ==> b ==> c", "Implies(a, Implies(b, c))"},
		{"long chain", "a ==> b ==> c ==> d", "Implies(a, Implies(b, Implies(c, d)))"},
		{"left group", "(a ==> b) ==> c", "Implies(Implies(a, b), c)"},
		{"both groups", "(a==>b)==>(c==>d)", "Implies(Implies(a, b), Implies(c, d))"},
		{"right group", "a ==> (b ==> c)", "Implies(a, Implies(b, c))"},
		{"double parens", "((a ==> b)) ==> c", "Implies(Implies(a, b), c)"},
		{"opaque group", "(a && b) ==> c", "Implies((a && b), c)"},
		{"opaque nested parens", "((x)) ==> y", "Implies(((x)), y)"},
		{"verbatim term", "index < len(head) ==> lookup(head, index) >= 0",
			"Implies(index < len(head), lookup(head, index) >= 0)"},
		{"keeps inner spacing", "a  &&   b ==> c", "Implies(a  &&   b, c)"},
		{"string with arrow", `s == "x ==> y" ==> ok`, `Implies(s == "x ==> y", ok)`},
		{"closure term", "forall(|i: usize| i < n) ==> true", "Implies(forall(|i: usize| i < n), true)"},
		{"comments inside term", "a /* why */ && b ==> c", "Implies(a /* why */ && b, c)"},
		{"quantifier body", "forall(|i: usize| i < n ==> a[i] > 0)", "forall(|i: usize| i < n ==> a[i] > 0)"},
		{"arrow inside term group", "a && (b ==> c)", "a && (b ==> c)"},
		{"arrow inside call", "f(a ==> b) ==> c", "Implies(f(a ==> b), c)"},
		{"arrow inside index", "a[b ==> c] ==> d ==> e", "Implies(a[b ==> c], Implies(d, e))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, res, bag := parseSource(t, tt.input)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
			}
			if !res.Ok() {
				t.Fatal("expected a root expression")
			}
			if got := shape(builder.Exprs, res.Root); got != tt.want {
				t.Fatalf("shape mismatch:\n got: %s\nwant: %s", got, tt.want)
			}
			if err := testkit.CheckExprInvariants(builder.Exprs, res.Root, res.Span); err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		})
	}
}

func TestParseLeafCount(t *testing.T) {
	builder, res, _ := parseSource(t, "(a ==> b) ==> (c ==> d)")
	if res.Leaves != 4 {
		t.Fatalf("expected 4 leaves, got %d", res.Leaves)
	}
	leaves := builder.Exprs.Leaves(res.Root)
	var texts []string
	for _, id := range leaves {
		term, _ := builder.Exprs.Term(id)
		texts = append(texts, term.Text)
	}
	if strings.Join(texts, ",") != "a,b,c,d" {
		t.Fatalf("expected leaves in source order, got %v", texts)
	}
	if d := builder.Exprs.Depth(res.Root); d != 2 {
		t.Fatalf("expected depth 2, got %d", d)
	}
}

func TestParseRecordsParens(t *testing.T) {
	builder, res, _ := parseSource(t, "(a ==> b) ==> c")
	imp, ok := builder.Exprs.Implication(res.Root)
	if !ok {
		t.Fatal("expected implication at root")
	}
	if !builder.Exprs.Get(res.Root).Parens.Empty() {
		t.Fatal("root was not written in parens")
	}
	lhs := builder.Exprs.Get(imp.Lhs)
	if lhs.Parens.Start != 0 || lhs.Parens.End != 9 {
		t.Fatalf("expected parens span 0..9, got %d..%d", lhs.Parens.Start, lhs.Parens.End)
	}
	if lhs.Span.Start != 1 || lhs.Span.End != 8 {
		t.Fatalf("expected inner span 1..8, got %d..%d", lhs.Span.Start, lhs.Span.End)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"empty", "", diag.SynEmptyContract},
		{"whitespace only", "  // nothing\n", diag.SynEmptyContract},
		{"leading arrow", "==> b", diag.SynDanglingImplies},
		{"trailing arrow", "a ==>", diag.SynDanglingImplies},
		{"double arrow", "a ==> ==> b", diag.SynDanglingImplies},
		{"unclosed", "(a ==> b", diag.SynUnclosedDelimiter},
		{"stray closer", "a ==> b)", diag.SynUnmatchedDelimiter},
		{"mismatched", "(a ==> b]", diag.SynUnmatchedDelimiter},
		{"empty group", "() ==> a", diag.SynEmptyGroup},
		{"dangling in group", "(a ==>) ==> c", diag.SynDanglingImplies},
		{"lex error", "a ~ b", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res, bag := parseSource(t, tt.input)
			if res.Ok() {
				t.Fatal("expected the occurrence to be rejected")
			}
			items := bag.Items()
			if len(items) == 0 {
				t.Fatalf("expected %s, got no diagnostics", tt.code.ID())
			}
			if items[0].Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestNestedImpliesStaysOpaque(t *testing.T) {
	for _, input := range []string{"forall(|i: usize| i < n ==> a[i] > 0)", "a && (b ==> c)"} {
		builder, res, bag := parseSource(t, input)
		if len(bag.Items()) != 0 {
			t.Fatalf("%q: unexpected diagnostics: %s", input, diagnosticsSummary(bag))
		}
		if res.Leaves != 1 {
			t.Fatalf("%q: expected a single leaf, got %d", input, res.Leaves)
		}
		term, ok := builder.Exprs.Term(res.Root)
		if !ok {
			t.Fatalf("%q: expected a term at the root", input)
		}
		if term.Text != input {
			t.Fatalf("%q: expected verbatim term, got %q", input, term.Text)
		}
	}
}

func TestParseGuarded(t *testing.T) {
	builder, res, bag := parseSourceWithOptions(t, "x > 0, result ==> x > 1", Options{Guarded: true})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	if got := shape(builder.Exprs, res.Root); got != "Implies(x > 0, Implies(result, x > 1))" {
		t.Fatalf("unexpected shape %s", got)
	}

	_, res, bag = parseSourceWithOptions(t, "f(a, b)", Options{Guarded: true})
	if res.Ok() || bag.Items()[0].Code != diag.SynExpectGuardSeparator {
		t.Fatalf("expected guard separator error, got %s", diagnosticsSummary(bag))
	}

	_, res, bag = parseSourceWithOptions(t, ", body", Options{Guarded: true})
	if res.Ok() || bag.Items()[0].Code != diag.SynEmptyContract {
		t.Fatalf("expected missing guard error, got %s", diagnosticsSummary(bag))
	}
}

func TestParseSpanInsideLargerFile(t *testing.T) {
	content := "requires = [\"a ==> (b ==> c)\"]\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.toml", []byte(content))
	start := uint32(strings.Index(content, "a ==>"))
	span := source.Span{File: id, Start: start, End: start + uint32(len("a ==> (b ==> c)"))}

	bag := diag.NewBag(0)
	builder := ast.NewBuilder(ast.Hints{})
	res := ParseSpan(fs, span, builder, Options{Reporter: &diag.BagReporter{Bag: bag}})
	if !res.Ok() {
		t.Fatalf("parse failed: %s", diagnosticsSummary(bag))
	}
	if res.Span != span {
		t.Fatalf("expected result span %v, got %v", span, res.Span)
	}
	leaves := builder.Exprs.Leaves(res.Root)
	if got := fs.Text(builder.Exprs.Get(leaves[2]).Span); got != "c" {
		t.Fatalf("expected last leaf to resolve to c, got %q", got)
	}
}

func TestParseSpanLexErrorRejects(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x", []byte("a ==> \"open"))
	bag := diag.NewBag(0)
	res := ParseSpan(fs, source.Span{File: id, Start: 0, End: 11}, ast.NewBuilder(ast.Hints{}),
		Options{Reporter: &diag.BagReporter{Bag: bag}})
	if res.Ok() {
		t.Fatal("expected rejection on lexer error")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected only the lexer diagnostic, got %s", diagnosticsSummary(bag))
	}
}

func TestSurfaceRoundTrip(t *testing.T) {
	inputs := []string{
		"a ==> b ==> c",
		"(a ==> b) ==> c",
		"(a==>b)==>(c==>d)",
		"((p ==> q) ==> r) ==> s ==> (t ==> u)",
	}
	for _, in := range inputs {
		builder, res, _ := parseSource(t, in)
		surface := builder.Exprs.Surface(res.Root)
		builder2, res2, bag := parseSource(t, surface)
		if bag.HasErrors() {
			t.Fatalf("surface %q did not reparse: %s", surface, diagnosticsSummary(bag))
		}
		if a, b := shape(builder.Exprs, res.Root), shape(builder2.Exprs, res2.Root); a != b {
			t.Fatalf("round trip changed shape for %q: %s vs %s", in, a, b)
		}
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	_, _, bag := parseSourceWithOptions(t, "==> a", Options{MaxErrors: 1, CurrentErrors: 1})
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics once the limit is reached, got %s", diagnosticsSummary(bag))
	}
}
