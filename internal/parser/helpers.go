package parser

import (
	"contractc/internal/diag"
	"contractc/internal/source"
	"contractc/internal/token"
)

// spanOf - span от первого до последнего токена диапазона [lo, hi).
func (p *Parser) spanOf(lo, hi int) source.Span {
	if lo >= hi {
		if lo < len(p.toks) {
			return p.toks[lo].Span.At()
		}
		return p.eof.Span
	}
	return p.toks[lo].Span.Cover(p.toks[hi-1].Span)
}

// textOf - исходный текст диапазона вместе с внутренними пробелами и комментариями.
func (p *Parser) textOf(lo, hi int) string {
	sp := p.spanOf(lo, hi)
	return string(p.lx.File().Content[sp.Start:sp.End])
}

// topLevel ищет первый токен kind на нулевой глубине вложенности в [lo, hi).
func (p *Parser) topLevel(kind token.Kind, lo, hi int) int {
	for i := lo; i < hi; i++ {
		if p.toks[i].Kind == kind {
			return i
		}
		if p.match[i] > i {
			i = p.match[i]
		}
	}
	return -1
}

// anyDepth ищет kind на любой глубине в [lo, hi).
func (p *Parser) anyDepth(kind token.Kind, lo, hi int) int {
	for i := lo; i < hi; i++ {
		if p.toks[i].Kind == kind {
			return i
		}
	}
	return -1
}

// soleGroup reports whether [lo, hi) is exactly one parenthesized group.
func (p *Parser) soleGroup(lo, hi int) bool {
	return hi-lo >= 2 && p.toks[lo].Kind == token.LParen && p.match[lo] == hi-1
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportWithNotes(code, sev, sp, msg, nil)
}

func (p *Parser) reportWithNotes(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) bool {
	if p.opts.Reporter != nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		if !p.opts.Enough() {
			p.opts.Reporter.Report(code, sev, sp, msg, notes)
			return true
		}
		return false // достигли максимального количества ошибок
	}
	return false // нет reporter - ничего не записали
}
