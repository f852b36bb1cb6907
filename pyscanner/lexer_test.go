package pyscanner

import (
	"testing"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(words []Word) []Token {
	ks := make([]Token, len(words))
	for i, w := range words {
		ks[i] = w.Kind
	}
	return ks
}

func assertKinds(t *testing.T, src string, expected []Token) []Word {
	var log diag.Log
	words := Tokenize([]byte(src), &log)
	require.Equal(t, expected, kinds(words), "source:\n%s", src)
	for _, w := range words {
		assert.True(t, w.Valid(), "invalid word: %+v", w)
	}
	return words
}

func TestLexer_SingleLine(t *testing.T) {
	assertKinds(t, "foo(bar)", []Token{Identifier, Lparen, Identifier, Rparen, EOF})
}

func TestLexer_IndentDedent(t *testing.T) {
	src := "def f():\n    x = 1\n    return x\n"
	words := assertKinds(t, src, []Token{
		Def, Identifier, Lparen, Rparen, Colon,
		Indent,
		Identifier, Operator, Number,
		Return, Identifier,
		Dedent, EOF,
	})

	// f's own token carries the function's scope, not the enclosing one.
	assert.Equal(t, "f", words[1].Lexeme)
	assert.Equal(t, "f", words[1].ScopePath)
	// x is scoped inside f.
	assert.Equal(t, "f", words[6].ScopePath)
}

func TestLexer_NestedScope(t *testing.T) {
	src := "def outer():\n    def inner():\n        y = \"s\"\n"
	words := Tokenize([]byte(src), new(diag.Log))

	var outerTok, innerTok, yTok Word
	for _, w := range words {
		switch w.Lexeme {
		case "outer":
			outerTok = w
		case "inner":
			innerTok = w
		case "y":
			yTok = w
		}
	}
	assert.Equal(t, "outer", outerTok.ScopePath)
	assert.Equal(t, "inner@outer", innerTok.ScopePath)
	assert.Equal(t, "inner@outer", yTok.ScopePath)
}

func TestLexer_MultipleDedents(t *testing.T) {
	src := "if x:\n  if y:\n    1\n2\n"
	assertKinds(t, src, []Token{
		If, Identifier, Colon,
		Indent,
		If, Identifier, Colon,
		Indent,
		Number,
		Dedent, Dedent,
		Number,
		EOF,
	})
}

func TestLexer_BlankAndCommentLinesEmitNothing(t *testing.T) {
	src := "x = 1\n\n# a comment\n\ny = 2\n"
	assertKinds(t, src, []Token{
		Identifier, Operator, Number,
		Identifier, Operator, Number,
		EOF,
	})
}

func TestLexer_LineContinuation(t *testing.T) {
	src := "x = 1 + \\\n    2\n"
	assertKinds(t, src, []Token{
		Identifier, Operator, Number, Operator, Number, EOF,
	})
}

func TestLexer_MixedTabsAndSpacesStillIndents(t *testing.T) {
	src := "if x:\n \t1\n"
	var log diag.Log
	words := Tokenize([]byte(src), &log)
	require.Equal(t, []Token{If, Identifier, Colon, Indent, Number, Dedent, EOF}, kinds(words))
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Msg, "Mixed tabs and spaces")
}

func TestLexer_UnindentMismatch(t *testing.T) {
	src := "if x:\n  if y:\n    1\n 2\n"
	var log diag.Log
	Tokenize([]byte(src), &log)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Msg, "Unindent does not match outer level")
}

func TestLexer_OperatorLongestMatch(t *testing.T) {
	words := assertKinds(t, "a //= b ** c", []Token{
		Identifier, Operator, Identifier, Operator, Identifier, EOF,
	})
	assert.Equal(t, "//=", words[1].Lexeme)
	assert.Equal(t, "**", words[3].Lexeme)
}

func TestLexer_TripleQuotedString(t *testing.T) {
	src := "x = \"\"\"a\nb\"\"\"\n"
	words := assertKinds(t, src, []Token{Identifier, Operator, StringLiteral, EOF})
	assert.Equal(t, "\"\"\"a\nb\"\"\"", words[2].Lexeme)
}

func TestLexer_UnterminatedString(t *testing.T) {
	src := "x = \"hi\n"
	var log diag.Log
	words := Tokenize([]byte(src), &log)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Msg, "Unterminated string literal")
	// no STRING_LITERAL token is produced
	for _, w := range words {
		assert.NotEqual(t, StringLiteral, w.Kind)
	}
}

func TestLexer_LeadingZeroInteger(t *testing.T) {
	var log diag.Log
	words := Tokenize([]byte("x = 007\n"), &log)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Msg, "leading zeros")
	for _, w := range words {
		assert.NotEqual(t, Number, w.Kind)
	}

	log = diag.Log{}
	words = Tokenize([]byte("x = 0.5\n"), &log)
	require.Equal(t, 0, log.Len())
	var sawNumber bool
	for _, w := range words {
		if w.Kind == Number {
			sawNumber = true
			assert.Equal(t, "0.5", w.Lexeme)
		}
	}
	assert.True(t, sawNumber)
}

func TestLexer_InvalidCharacter(t *testing.T) {
	var log diag.Log
	Tokenize([]byte("x = $\n"), &log)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Entries()[0].Msg, "Invalid character '$'")
}

func TestLexer_EqualIndentDedentCounts(t *testing.T) {
	src := "def f():\n    if x:\n        1\n    2\ny = 3\n"
	words := Tokenize([]byte(src), new(diag.Log))
	var indents, dedents int
	for _, w := range words {
		switch w.Kind {
		case Indent:
			indents++
		case Dedent:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
	assert.True(t, indents > 0)
}

func TestLexer_EOFDrainsIndentStack(t *testing.T) {
	src := "if x:\n    if y:\n        1\n"
	words := Tokenize([]byte(src), new(diag.Log))
	last := words[len(words)-1]
	assert.Equal(t, EOF, last.Kind)
	assert.Equal(t, Dedent, words[len(words)-2].Kind)
	assert.Equal(t, Dedent, words[len(words)-3].Kind)
}

func TestLexer_TrailingNewlineDoesNotInflateEOFLine(t *testing.T) {
	var log diag.Log
	words := Tokenize([]byte("x = \"hi\n"), &log)
	last := words[len(words)-1]
	assert.Equal(t, EOF, last.Kind)
	assert.Equal(t, 1, last.Line, "a single trailing newline must not push EOF past the source's highest content line")

	require.Len(t, log.Entries(), 1)
	assert.Equal(t, 1, log.Entries()[0].Line)
}
