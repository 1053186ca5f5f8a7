package parser

import (
	"contractc/internal/ast"
	"contractc/internal/diag"
	"contractc/internal/lexer"
	"contractc/internal/source"
	"contractc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// Guarded parses `guard, body` and yields Implies(guard, body).
	Guarded bool
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	// Root is NoExprID when the occurrence was rejected.
	Root ast.ExprID
	Span source.Span
	// Leaves is the number of terms under Root.
	Leaves int
}

func (r Result) Ok() bool { return r.Root.IsValid() }

// Parser - состояние парсера на одно вхождение контракта.
// Токены выбираются из лексера целиком: термы непрозрачны и режутся
// только по `==>` верхнего уровня, поэтому нужен произвольный доступ.
type Parser struct {
	lx     *lexer.Lexer
	arenas *ast.Builder
	opts   Options

	toks  []token.Token
	match []int // индекс парного разделителя; -1 для прочих токенов
	eof   token.Token

	lexErrors int
}

// ParseContract разбирает одно вхождение из уже созданного лексера.
// Invalid-токены отклоняют вхождение с SynInvalidToken.
func ParseContract(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{lx: lx, arenas: arenas, opts: opts}
	return p.run()
}

// ParseSpan lexes the bytes of span in place and parses them as one
// contract occurrence. Lexer diagnostics go to the same reporter and any
// of them rejects the occurrence.
func ParseSpan(fs *source.FileSet, span source.Span, arenas *ast.Builder, opts Options) Result {
	counting := &diag.CountingReporter{Next: opts.Reporter}
	lx := lexer.NewRange(fs.Get(span.File), span, lexer.Options{Reporter: counting})
	p := Parser{lx: lx, arenas: arenas, opts: opts}
	p.collect()
	p.lexErrors = counting.Errors
	return p.parse()
}

func (p *Parser) run() Result {
	p.collect()
	return p.parse()
}

// collect вычитывает все значимые токены до EOF.
func (p *Parser) collect() {
	if p.toks != nil {
		return
	}
	p.toks = make([]token.Token, 0, 16)
	for {
		tok := p.lx.Next()
		if tok.Kind == token.EOF {
			p.eof = tok
			return
		}
		p.toks = append(p.toks, tok)
	}
}

func (p *Parser) parse() Result {
	whole := p.eof.Span
	if len(p.toks) > 0 {
		whole = p.toks[0].Span.Cover(p.toks[len(p.toks)-1].Span)
	}
	res := Result{Span: whole}

	if p.lexErrors > 0 {
		return res
	}
	for _, tok := range p.toks {
		if tok.Kind == token.Invalid {
			p.report(diag.SynInvalidToken, diag.SevError, tok.Span, "invalid token \""+tok.Text+"\" in contract")
			return res
		}
	}
	if len(p.toks) == 0 {
		p.report(diag.SynEmptyContract, diag.SevError, whole, "empty contract expression")
		return res
	}
	if !p.matchDelimiters() {
		return res
	}

	var (
		root ast.ExprID
		ok   bool
	)
	if p.opts.Guarded {
		root, ok = p.parseGuarded(0, len(p.toks))
	} else {
		root, ok = p.parseExpr(0, len(p.toks))
	}
	if !ok {
		return res
	}
	res.Root = root
	res.Leaves = len(p.arenas.Exprs.Leaves(root))
	return res
}
