package driver

import (
	"fortio.org/safecast"

	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/parser"
	"contractc/internal/source"
)

// exprFileName names the virtual file holding command-line expressions.
const exprFileName = "<expr>"

type ParseResult struct {
	FileSet *source.FileSet
	Builder *ast.Builder
	Root    ast.ExprID
	Bag     *diag.Bag
}

func (r *ParseResult) Ok() bool { return r.Root.IsValid() && !r.Bag.HasErrors() }

// ParseExpr parses one contract expression. guarded selects the
// `guard, body` form used by after_expiry_if.
func ParseExpr(text string, maxDiagnostics int, guarded bool) (*ParseResult, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(exprFileName, []byte(text))
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	builder := ast.NewBuilder(ast.Hints{})

	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return nil, err
	}
	span := source.Span{File: id, Start: 0, End: end}
	res := parser.ParseSpan(fs, span, builder, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
		Guarded:   guarded,
	})
	bag.Sort()
	return &ParseResult{
		FileSet: fs,
		Builder: builder,
		Root:    res.Root,
		Bag:     bag,
	}, nil
}
