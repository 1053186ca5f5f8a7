package parser

import (
	"fmt"
	"strings"
	"testing"

	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/lexer"
	"contractc/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, Result, *diag.Bag) {
	return parseSourceWithOptions(t, input, Options{})
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) (*ast.Builder, Result, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.contract", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = reporter

	return builder, ParseContract(lx, builder, opts), bag
}

// shape renders a tree as Implies(lhs, rhs) with term texts as leaves.
func shape(exprs *ast.Exprs, id ast.ExprID) string {
	if term, ok := exprs.Term(id); ok {
		return term.Text
	}
	if imp, ok := exprs.Implication(id); ok {
		return "Implies(" + shape(exprs, imp.Lhs) + ", " + shape(exprs, imp.Rhs) + ")"
	}
	return "<invalid>"
}
