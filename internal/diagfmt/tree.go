package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"contractc/internal/ast"
	"contractc/internal/source"
	"contractc/internal/spec"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// ExprTree renders the parsed expression rooted at root as an ASCII tree.
func ExprTree(w io.Writer, exprs *ast.Exprs, root ast.ExprID, fs *source.FileSet) error {
	return writeTree(w, buildExprTreeNode(exprs, root, fs))
}

// AssertionTree renders the assertion of s, labelling leaves with their
// expression id and thunk code.
func AssertionTree(w io.Writer, s *spec.Specification) error {
	header := fmt.Sprintf("%s #%d of %s [%s]", s.Kind, s.Index, s.Item, s.ID)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return writeTree(w, buildAssertionTreeNode(s, s.Assertion))
}

func writeTree(w io.Writer, node *treeNode) error {
	block := renderTree(node)
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildExprTreeNode(exprs *ast.Exprs, id ast.ExprID, fs *source.FileSet) *treeNode {
	expr := exprs.Get(id)
	if expr == nil {
		return &treeNode{label: fmt.Sprintf("Expr[%d]: <nil>", id)}
	}
	switch expr.Kind {
	case ast.ExprTerm:
		term, _ := exprs.Term(id)
		return &treeNode{label: fmt.Sprintf("%q (%s)", term.Text, formatSpan(expr.Span, fs))}
	case ast.ExprImplies:
		data, _ := exprs.Implication(id)
		label := "==>"
		if !expr.Parens.Empty() {
			label = "(==>)"
		}
		return &treeNode{
			label: label,
			children: []*treeNode{
				buildExprTreeNode(exprs, data.Lhs, fs),
				buildExprTreeNode(exprs, data.Rhs, fs),
			},
		}
	default:
		return &treeNode{label: fmt.Sprintf("Expr[%d]: %s", id, expr.Kind)}
	}
}

func buildAssertionTreeNode(s *spec.Specification, a *spec.Assertion) *treeNode {
	if e, ok := a.Expression(); ok {
		return &treeNode{label: fmt.Sprintf("%d: %s", e.ExprID, s.Code(e))}
	}
	lhs, rhs, ok := a.Operands()
	if !ok {
		return &treeNode{label: "<nil>"}
	}
	return &treeNode{
		label: "Implies",
		children: []*treeNode{
			buildAssertionTreeNode(s, lhs),
			buildAssertionTreeNode(s, rhs),
		},
	}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderTree converts a treeNode into a treeBlock. Widths are display
// widths, so labels with wide runes keep the connectors aligned. root is
// the column of the node's connector within the block.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := padRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
