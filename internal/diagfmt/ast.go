package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"contractc/internal/ast"
	"contractc/internal/source"
)

const exprInlineMaxDepth = 64

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Parens   bool            `json:"parens,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatExprPretty prints the expression as an indented outline, one node
// per line with its span.
func FormatExprPretty(w io.Writer, exprs *ast.Exprs, root ast.ExprID, fs *source.FileSet) error {
	if exprs == nil || exprs.Get(root) == nil {
		return fmt.Errorf("expression %d not found", root)
	}
	return formatExprPretty(w, exprs, root, fs, "", 0)
}

func formatExprPretty(w io.Writer, exprs *ast.Exprs, id ast.ExprID, fs *source.FileSet, prefix string, depth int) error {
	expr := exprs.Get(id)
	if expr == nil {
		_, err := fmt.Fprintln(w, "<nil>")
		return err
	}
	if depth >= exprInlineMaxDepth {
		_, err := fmt.Fprintln(w, "...")
		return err
	}

	switch expr.Kind {
	case ast.ExprTerm:
		term, _ := exprs.Term(id)
		_, err := fmt.Fprintf(w, "Term %q (span: %s)\n", term.Text, formatSpan(expr.Span, fs))
		return err
	case ast.ExprImplies:
		data, _ := exprs.Implication(id)
		label := "Implies"
		if !expr.Parens.Empty() {
			label = "Implies (parenthesized)"
		}
		if _, err := fmt.Fprintf(w, "%s (span: %s)\n", label, formatSpan(expr.Span, fs)); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s├─ Lhs: ", prefix)
		if err := formatExprPretty(w, exprs, data.Lhs, fs, prefix+"│  ", depth+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s└─ Rhs: ", prefix)
		return formatExprPretty(w, exprs, data.Rhs, fs, prefix+"   ", depth+1)
	default:
		_, err := fmt.Fprintf(w, "%s\n", expr.Kind)
		return err
	}
}

// FormatExprJSON writes the expression tree as nested JSON nodes.
func FormatExprJSON(w io.Writer, exprs *ast.Exprs, root ast.ExprID) error {
	node, err := exprNodeJSON(exprs, root, 0)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(node)
}

func exprNodeJSON(exprs *ast.Exprs, id ast.ExprID, depth int) (ASTNodeOutput, error) {
	if exprs == nil {
		return ASTNodeOutput{}, fmt.Errorf("no expressions")
	}
	expr := exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{}, fmt.Errorf("expression %d not found", id)
	}
	if depth >= exprInlineMaxDepth {
		return ASTNodeOutput{}, fmt.Errorf("expression nesting exceeds %d", exprInlineMaxDepth)
	}

	out := ASTNodeOutput{
		Type:   expr.Kind.String(),
		Span:   expr.Span,
		Parens: !expr.Parens.Empty(),
	}
	switch expr.Kind {
	case ast.ExprTerm:
		term, _ := exprs.Term(id)
		out.Text = term.Text
	case ast.ExprImplies:
		data, _ := exprs.Implication(id)
		for _, child := range []ast.ExprID{data.Lhs, data.Rhs} {
			node, err := exprNodeJSON(exprs, child, depth+1)
			if err != nil {
				return ASTNodeOutput{}, err
			}
			out.Children = append(out.Children, node)
		}
	}
	return out, nil
}
