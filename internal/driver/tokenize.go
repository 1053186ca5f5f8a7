package driver

import (
	"contractc/internal/diag"
	"contractc/internal/lexer"
	"contractc/internal/source"
	"contractc/internal/spec"
	"contractc/internal/token"
	"contractc/internal/unit"
)

// OccurrenceTokens is the token stream of one contract occurrence.
type OccurrenceTokens struct {
	Item   string
	Kind   spec.Kind
	Index  int
	Span   source.Span
	Tokens []token.Token
}

type TokenizeResult struct {
	FileSet     *source.FileSet
	Unit        *unit.Unit
	Occurrences []OccurrenceTokens
	Bag         *diag.Bag
}

func (r *TokenizeResult) HasErrors() bool { return r.Bag.HasErrors() }

// Tokenize loads a unit file and lexes every contract occurrence in it.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	rep := &diag.BagReporter{Bag: bag}

	u, err := unit.Load(fs, path, unit.Options{Reporter: rep})
	if err != nil {
		return nil, err
	}

	res := &TokenizeResult{FileSet: fs, Unit: u, Bag: bag}
	for _, it := range u.Items {
		for _, occ := range it.Occurrences {
			lx := lexer.NewRange(fs.Get(occ.Span.File), occ.Span, lexer.Options{Reporter: rep})
			res.Occurrences = append(res.Occurrences, OccurrenceTokens{
				Item:   it.Name,
				Kind:   occ.Kind,
				Index:  occ.Index,
				Span:   occ.Span,
				Tokens: lx.All(),
			})
		}
	}
	bag.Sort()
	return res, nil
}

// TokenizeExpr lexes a single contract expression given as text.
func TokenizeExpr(text string, maxDiagnostics int) (*source.FileSet, []token.Token, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(exprFileName, []byte(text))
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return fs, lx.All(), bag
}
