package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"contractc/internal/ast"
	"contractc/internal/source"
	"contractc/internal/spec"
)

func TestAssertionTree(t *testing.T) {
	id := spec.SpecificationID(uuid.MustParse("5a8f0b6e-3c1d-4e2f-9a7b-1c2d3e4f5a6b"))
	s := &spec.Specification{
		ID:   id,
		Kind: spec.KindRequires,
		Item: "f",
		Assertion: spec.Implies(
			spec.Leaf(spec.Expression{SpecID: id, ExprID: 101, Thunk: 0}),
			spec.Leaf(spec.Expression{SpecID: id, ExprID: 102, Thunk: 1}),
		),
		Holder: &spec.HolderItem{Body: []spec.Thunk{{ExprID: 101, Code: "a"}, {ExprID: 102, Code: "b"}}},
	}

	var buf bytes.Buffer
	if err := AssertionTree(&buf, s); err != nil {
		t.Fatalf("AssertionTree: %v", err)
	}
	want := strings.Join([]string{
		"requires #0 of f [5a8f0b6e-3c1d-4e2f-9a7b-1c2d3e4f5a6b]",
		"    Implies",
		"   /   |    \\",
		"101: a   102: b",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestExprTree(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("e", []byte("(a ==> b) ==> c"))
	sp := func(start, end uint32) source.Span { return source.Span{File: file, Start: start, End: end} }

	exprs := ast.NewExprs(4)
	a := exprs.NewTerm(sp(1, 2), "a")
	b := exprs.NewTerm(sp(7, 8), "b")
	inner := exprs.NewImplies(sp(1, 8), a, b, sp(3, 6))
	exprs.SetParens(inner, sp(0, 9))
	c := exprs.NewTerm(sp(14, 15), "c")
	root := exprs.NewImplies(sp(0, 15), inner, c, sp(10, 13))

	var buf bytes.Buffer
	if err := ExprTree(&buf, exprs, root, fs); err != nil {
		t.Fatalf("ExprTree: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got:\n%s", out)
	}
	if strings.TrimSpace(lines[0]) != "==>" || strings.TrimSpace(lines[2])[:5] != "(==>)" {
		t.Fatalf("unexpected operators:\n%s", out)
	}
	for _, want := range []string{`"a" (1:2-1:3)`, `"b" (1:8-1:9)`, `"c" (1:15-1:16)`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in:\n%s", want, out)
		}
	}
}

func TestRenderTreeWideLabels(t *testing.T) {
	block := renderTree(&treeNode{
		label:    "Implies",
		children: []*treeNode{{label: "101: 名前"}, {label: "102: x"}},
	})
	for _, line := range block.lines {
		if w := runewidth.StringWidth(line); w != block.width {
			t.Fatalf("line %q has width %d, block width %d", line, w, block.width)
		}
	}
}
