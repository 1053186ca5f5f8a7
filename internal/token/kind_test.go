package token_test

import (
	"testing"

	"contractc/internal/source"
	"contractc/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.KwTrue, token.KwFalse}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Implies, token.LParen, token.Lifetime}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	for k := token.Invalid; k <= token.RBracket; k++ {
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if token.Kind(255).String() != "Unknown" {
		t.Error("out-of-range kind should be Unknown")
	}
}

func TestDelimiters(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBracket: token.RBracket,
		token.LBrace:   token.RBrace,
	}
	for open, want := range pairs {
		got, ok := open.Closer()
		if !ok || got != want {
			t.Errorf("%v.Closer() = %v, %v", open, got, ok)
		}
		if !open.IsOpenDelim() || !want.IsCloseDelim() {
			t.Errorf("delimiter classification wrong for %v/%v", open, want)
		}
	}
	if _, ok := token.Implies.Closer(); ok {
		t.Error("Implies is not a delimiter")
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := token.LookupKeyword("true"); !ok || k != token.KwTrue {
		t.Errorf("true -> %v, %v", k, ok)
	}
	if _, ok := token.LookupKeyword("True"); ok {
		t.Error("keywords are case sensitive")
	}
	if _, ok := token.LookupKeyword("result"); ok {
		t.Error("result is an ordinary identifier")
	}
}
