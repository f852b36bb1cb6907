package pyparser

import (
	"strings"
	"testing"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/kiteco/pyfront/internal/kitectx"
	"github.com/kiteco/pyfront/pyast"
	"github.com/kiteco/pyfront/pyscanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*pyast.Node, *diag.Log) {
	t.Helper()
	log := new(diag.Log)
	words := pyscanner.Tokenize([]byte(src), log)
	tree := Parse(kitectx.Background(), words, log)
	return tree, log
}

func dump(t *testing.T, n *pyast.Node) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, n.WriteTo(&buf))
	return buf.String()
}

func TestParse_SimpleAssignment(t *testing.T) {
	tree, log := parse(t, "x = 1\n")
	require.Empty(t, log.Entries())
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "statement", tree.Children[0].Label)
}

func TestParse_FunctionWithNestedDef(t *testing.T) {
	src := "def outer():\n    def inner():\n        y = \"s\"\n"
	tree, log := parse(t, src)
	require.Empty(t, log.Entries())
	require.Len(t, tree.Children, 1)

	outer := tree.Children[0]
	require.Equal(t, "function", outer.Label)

	var block *pyast.Node
	for _, c := range outer.Children {
		if c.Label == "block" {
			block = c
		}
	}
	require.NotNil(t, block)

	var inner *pyast.Node
	for _, c := range block.Children {
		if c.Label == "function" {
			inner = c
		}
	}
	require.NotNil(t, inner, "nested def must appear as a function node inside outer's block")
}

// TestParse_UnterminatedStringRecovers covers the scenario where an
// unterminated string literal emits no token at all (the lexer flags
// the diagnostic and abandons the literal at the newline): the lexer's
// diagnostic is recorded and parsing still yields a non-empty tree. The
// next line's leading name is read as the dangling right-hand side, and
// the separation check then skips the rest of that line.
func TestParse_UnterminatedStringRecovers(t *testing.T) {
	src := "x = 'abc\nz = 2\n"
	tree, log := parse(t, src)

	require.NotEmpty(t, log.Entries())
	foundLexErr := false
	for _, e := range log.Entries() {
		if strings.Contains(e.Msg, "Unterminated string literal") {
			foundLexErr = true
		}
	}
	assert.True(t, foundLexErr)
	require.NotEmpty(t, tree.Children)
}

// TestParse_UnterminatedStringAtEOFKeepsDiagnosticOnLastContentLine covers
// a single-line source whose unclosed string runs straight into the
// final newline: the lexer's "Unterminated string literal" diagnostic
// and the parser's own recovery diagnostic over the now-empty RHS must
// both land on line 1, never on the line past it that the trailing
// newline alone would otherwise imply.
func TestParse_UnterminatedStringAtEOFKeepsDiagnosticOnLastContentLine(t *testing.T) {
	_, log := parse(t, "x = \"hi\n")

	require.NotEmpty(t, log.Entries())
	for _, e := range log.Entries() {
		assert.Equal(t, 1, e.Line, "diagnostic %q must not be reported past the source's highest content line", e.Msg)
	}
}

// TestParse_DottedNameAmbiguity covers the disambiguation between a
// dotted-name attribute assignment and a dotted-name method call, both
// introduced by the same leading IDENTIFIER '.' lookahead.
func TestParse_DottedNameAmbiguity(t *testing.T) {
	assignTree, log := parse(t, "car1.speed = 10\n")
	require.Empty(t, log.Entries())
	require.Len(t, assignTree.Children, 1)
	stmt := assignTree.Children[0]
	require.Len(t, stmt.Children, 1)
	assert.Equal(t, "assignment", stmt.Children[0].Label)

	callTree, log2 := parse(t, "car1.drive()\n")
	require.Empty(t, log2.Entries())
	require.Len(t, callTree.Children, 1)
	stmt2 := callTree.Children[0]
	require.Len(t, stmt2.Children, 1)
	assert.Equal(t, "function_call", stmt2.Children[0].Label)
}

// TestParse_ConditionalExpression covers the ternary scenario:
// x = a if cond else b.
func TestParse_ConditionalExpression(t *testing.T) {
	tree, log := parse(t, "x = a if cond else b\n")
	require.Empty(t, log.Entries())

	out := dump(t, tree)
	assert.Contains(t, out, "|- assignment")
	assert.Contains(t, out, "|- rhs")
	assert.Contains(t, out, "|- expression")
	assert.Contains(t, out, "|- if")
	assert.Contains(t, out, "|- else")
}

// TestParse_IsIsomorphicAcrossReruns covers the invariant that parsing
// the same token stream twice produces identical trees and identical
// diagnostics, since Parse holds no state beyond what it is given.
func TestParse_IsIsomorphicAcrossReruns(t *testing.T) {
	src := "def f(a, b=1):\n    if a > b:\n        return a\n    else:\n        return b\n"
	var log diag.Log
	words := pyscanner.Tokenize([]byte(src), &log)

	var log1, log2 diag.Log
	tree1 := Parse(kitectx.Background(), words, &log1)
	tree2 := Parse(kitectx.Background(), words, &log2)

	assert.Equal(t, dump(t, tree1), dump(t, tree2))
	assert.Equal(t, log1.Entries(), log2.Entries())
}

// TestParse_DiagnosticLinesAreInRange covers the invariant that no
// diagnostic emitted during lexing or parsing carries a line number
// outside the source's actual line range.
func TestParse_DiagnosticLinesAreInRange(t *testing.T) {
	src := "x = 'abc\ny = )\nz = 1\n"
	var log diag.Log
	words := pyscanner.Tokenize([]byte(src), &log)
	Parse(kitectx.Background(), words, &log)

	maxLine := len(strings.Split(strings.TrimRight(src, "\n"), "\n"))

	for _, e := range log.Entries() {
		assert.GreaterOrEqual(t, e.Line, 1)
		assert.LessOrEqual(t, e.Line, maxLine)
	}
}

func TestParse_WhileAndForLoops(t *testing.T) {
	src := "while x > 0:\n    x = x - 1\nfor i in items:\n    print(i)\n"
	tree, log := parse(t, src)
	require.Empty(t, log.Entries())
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "while_statement", tree.Children[0].Children[0].Label)
	assert.Equal(t, "for_statement", tree.Children[1].Children[0].Label)
}

func TestParse_ClassWithMethodsAndFields(t *testing.T) {
	src := "class Car:\n    speed = 10\n    def drive(self):\n        return self.speed\n"
	tree, log := parse(t, src)
	require.Empty(t, log.Entries())
	require.Len(t, tree.Children, 1)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "class_def", tree.Children[0].Children[0].Label)
}

func TestParse_TryExceptElseFinally(t *testing.T) {
	src := "try:\n    risky()\nexcept ValueError as e:\n    handle(e)\nelse:\n    ok()\nfinally:\n    cleanup()\n"
	tree, log := parse(t, src)
	require.Empty(t, log.Entries())
	stmt := tree.Children[0].Children[0]
	assert.Equal(t, "try_statement", stmt.Label)

	var labels []string
	for _, c := range stmt.Children {
		labels = append(labels, c.Label)
	}
	assert.Contains(t, labels, "except_clause")
	assert.Contains(t, labels, "else_clause")
	assert.Contains(t, labels, "finally_clause")
}

func TestParse_ImportVariants(t *testing.T) {
	tree, log := parse(t, "import os.path as p\nfrom sys import argv\n")
	require.Empty(t, log.Entries())
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "import_statement", tree.Children[0].Children[0].Label)
	assert.Equal(t, "import_statement", tree.Children[1].Children[0].Label)
}

func TestParse_MismatchedParenRecoversWithDiagnostic(t *testing.T) {
	// The unclosed '(' swallows the rest of line 1 and all of line 2
	// (synchronize advances past the line the failing token sits on), so
	// recovery resumes cleanly at line 3.
	src := "x = (1 + 2\ny = 3\nz = 4\n"
	tree, log := parse(t, src)
	require.NotEmpty(t, log.Entries())
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "bad_statement", tree.Children[0].Label)
	assert.Equal(t, "statement", tree.Children[1].Label)
}

func TestParse_SetAndDictLiteralsRequireColon(t *testing.T) {
	// "{...}" is always parsed as a dict_literal, requiring a ':' after
	// the first expression even when the source intends a set literal.
	_, log := parse(t, "x = {1, 2}\n")
	assert.NotEmpty(t, log.Entries())
}
