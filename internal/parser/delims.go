package parser

import (
	"fmt"

	"contractc/internal/diag"
	"contractc/internal/token"
)

var closerText = map[token.Kind]string{
	token.RParen:   ")",
	token.RBracket: "]",
	token.RBrace:   "}",
}

// matchDelimiters проверяет баланс (), [], {} и заполняет p.match.
func (p *Parser) matchDelimiters() bool {
	p.match = make([]int, len(p.toks))
	stack := make([]int, 0, 8)
	for i, tok := range p.toks {
		p.match[i] = -1
		switch {
		case tok.Kind.IsOpenDelim():
			stack = append(stack, i)
		case tok.Kind.IsCloseDelim():
			if len(stack) == 0 {
				p.report(diag.SynUnmatchedDelimiter, diag.SevError, tok.Span,
					fmt.Sprintf("unmatched closing delimiter '%s'", tok.Text))
				return false
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			want, _ := p.toks[open].Kind.Closer()
			if want != tok.Kind {
				p.reportWithNotes(diag.SynUnmatchedDelimiter, diag.SevError, tok.Span,
					fmt.Sprintf("mismatched closing delimiter: expected '%s', found '%s'", closerText[want], tok.Text),
					[]diag.Note{{Span: p.toks[open].Span, Msg: "unclosed delimiter opened here"}})
				return false
			}
			p.match[open] = i
			p.match[i] = open
		}
	}
	if len(stack) > 0 {
		open := p.toks[stack[len(stack)-1]]
		want, _ := open.Kind.Closer()
		p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span,
			fmt.Sprintf("unclosed delimiter '%s', expected '%s'", open.Text, closerText[want]))
		return false
	}
	return true
}
