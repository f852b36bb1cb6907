// Package pyast holds the parse tree produced by pyparser: a pure,
// owned tree of nodes with two serializations (an indented text dump
// and a DOT graph export). Grounded on
// original_source/Compiler.cpp's ParseTreeNode/printParseTree/
// exportToDot, restated as owned child slices instead of raw pointers
// since Go's garbage collector makes the original's manual new/delete
// discipline unnecessary.
package pyast

import "github.com/kiteco/pyfront/pyscanner"

// Node is (label, children, optional token). Labels are either grammar
// non-terminal names or the raw lexeme of a terminal.
type Node struct {
	Label    string
	Children []*Node
	Token    *pyscanner.Word
}

// New returns a childless node labeled lbl.
func New(lbl string) *Node {
	return &Node{Label: lbl}
}

// Leaf returns a node labeled with tok's lexeme (or its kind name for
// layout tokens, which carry no lexeme), carrying tok.
func Leaf(tok pyscanner.Word) *Node {
	lbl := tok.Lexeme
	if lbl == "" {
		lbl = tok.Kind.String()
	}
	return &Node{Label: lbl, Token: &tok}
}

// AddChild appends child to n's children.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}
