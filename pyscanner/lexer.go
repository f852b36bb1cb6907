// Package pyscanner implements an indentation-aware lexer: it converts
// raw ASCII-compatible source bytes into a stream of Words enriched with
// synthetic Indent/Dedent markers and per-identifier lexical scope
// labels.
//
// It is grounded on original_source/Compiler.cpp's Lexer class (which
// implements exactly this single-pass, non-incremental state machine) and
// styled after github.com/kiteco/kiteco/kite-go/lang/python/pythonscanner
// (Token/Word split, keyword lookup table, diagnostics appended through a
// shared log instead of an out-param vector).
package pyscanner

import (
	"fmt"

	"github.com/kiteco/pyfront/internal/diag"
)

// Lexer holds the indentation-aware lexer's state while processing a
// given source buffer. Construct one with Tokenize; there is no exported
// constructor since the lexer's contract is the pure function
// tokenize(source_text) -> (tokens, diagnostics), not a reusable object.
type Lexer struct {
	src []byte
	pos int // byte offset into src; source is ASCII-compatible single-byte
	line int

	atLineStart      bool
	lineContinuation bool

	indentStack []int
	scopeStack  []ScopeFrame

	pending []Word

	log *diag.Log
}

// Tokenize converts source into a finite stream of Words, appending any
// diagnostics encountered to log. It never aborts: same input and an
// initially-empty log always produce the same tokens and diagnostics.
func Tokenize(source []byte, log *diag.Log) []Word {
	lx := &Lexer{
		src:         source,
		line:        1,
		atLineStart: true,
		indentStack: []int{0},
		log:         log,
	}

	var words []Word
	for {
		w := lx.nextWord()
		words = append(words, w)
		if w.Kind == EOF {
			break
		}
	}
	return words
}

func (lx *Lexer) nextWord() Word {
	for len(lx.pending) == 0 {
		lx.fill()
	}
	w := lx.pending[0]
	lx.pending = lx.pending[1:]
	return w
}

func (lx *Lexer) error(line, pos int, msg string) {
	lx.log.Add(msg, line, pos)
}

// fill performs one production step of the main scanning loop,
// appending zero or more Words to lx.pending.
func (lx *Lexer) fill() {
	if lx.atLineStart {
		if !lx.lineContinuation {
			lx.processLineStart()
		}
		// the continuation flag only suppresses indentation processing once
		lx.atLineStart = false
		lx.lineContinuation = false
		return
	}

	lx.skipNonLeadingWhitespace()

	if lx.pos >= len(lx.src) {
		lx.drainAtEOF()
		return
	}

	ch := lx.src[lx.pos]
	switch {
	case ch == '\n':
		lx.pos++
		lx.atLineStart = true
		// A trailing newline with nothing after it doesn't start a new
		// source line; without this guard the synthetic EOF/Dedent
		// tokens drainAtEOF emits would be stamped one line past the
		// highest line that actually contains source content.
		if lx.pos < len(lx.src) {
			lx.line++
		}
	case ch == '\\' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '\n':
		lx.pos += 2
		lx.atLineStart = true
		lx.lineContinuation = true
		if lx.pos < len(lx.src) {
			lx.line++
		}
	case ch == '#':
		lx.skipComment()
	case isLetter(ch):
		lx.scanIdentifierOrKeyword()
	case isDigit(ch):
		lx.scanNumber()
	case ch == '"' || ch == '\'':
		lx.scanStringLiteral()
	default:
		if tok, ok := punctuation[ch]; ok {
			lx.pending = append(lx.pending, Word{Kind: tok, Lexeme: string(ch), Line: lx.line, Offset: lx.pos})
			lx.pos++
			return
		}
		if lx.scanOperator() {
			return
		}
		lx.error(lx.line, lx.pos, fmt.Sprintf("Invalid character '%c'", ch))
		lx.pos++
	}
}

func isLetter(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// skipNonLeadingWhitespace skips spaces, tabs and carriage returns, but
// never a newline.
func (lx *Lexer) skipNonLeadingWhitespace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\r':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *Lexer) skipComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

// processLineStart is the indentation sub-machine run at the start of
// every physical line.
func (lx *Lexer) processLineStart() {
	start := lx.pos
	var spaces, tabs int
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ':
			spaces++
			lx.pos++
		case '\t':
			tabs++
			lx.pos++
		default:
			goto counted
		}
	}
counted:
	if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
		// blank line: emit nothing
		return
	}

	if spaces > 0 && tabs > 0 {
		lx.error(lx.line, start, "Mixed tabs and spaces in indentation")
	}

	newIndent := tabs*4 + spaces
	lx.applyIndent(newIndent, start)
}

// applyIndent compares newIndent against the top of the indent stack and
// queues the Indent/Dedent tokens a change in indentation implies.
func (lx *Lexer) applyIndent(newIndent, pos int) {
	top := lx.indentStack[len(lx.indentStack)-1]
	switch {
	case newIndent > top:
		lx.indentStack = append(lx.indentStack, newIndent)
		lx.pending = append(lx.pending, Word{Kind: Indent, Line: lx.line, Offset: pos})

	case newIndent == top:
		// no token

	default:
		for len(lx.indentStack) > 1 && lx.indentStack[len(lx.indentStack)-1] > newIndent {
			lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
			lx.pending = append(lx.pending, Word{Kind: Dedent, Line: lx.line, Offset: pos})

			newTop := lx.indentStack[len(lx.indentStack)-1]
			for len(lx.scopeStack) > 0 && lx.scopeStack[len(lx.scopeStack)-1].IndentLevel >= newTop {
				lx.scopeStack = lx.scopeStack[:len(lx.scopeStack)-1]
			}
		}
		if lx.indentStack[len(lx.indentStack)-1] != newIndent {
			lx.error(lx.line, pos, "Unindent does not match outer level")
		}
	}
}

// drainAtEOF forcibly drains the indent stack to size 1, emitting one
// Dedent per pop at the final line number, then queues the terminal EOF
// Word.
func (lx *Lexer) drainAtEOF() {
	for len(lx.indentStack) > 1 {
		lx.indentStack = lx.indentStack[:len(lx.indentStack)-1]
		lx.pending = append(lx.pending, Word{Kind: Dedent, Line: lx.line, Offset: lx.pos})
	}
	lx.pending = append(lx.pending, Word{Kind: EOF, Line: lx.line, Offset: lx.pos})
}

// scanIdentifierOrKeyword reads a run of identifier characters and looks
// it up against the keyword table. On def/class, the keyword token is
// emitted, then the following identifier's scope frame is pushed before
// the identifier token itself is emitted, so the function/class's own
// name carries the new scope path.
func (lx *Lexer) scanIdentifierOrKeyword() {
	start := lx.pos
	line := lx.line
	for lx.pos < len(lx.src) && (isLetter(lx.src[lx.pos]) || isDigit(lx.src[lx.pos])) {
		lx.pos++
	}
	word := string(lx.src[start:lx.pos])
	tok := Lookup(word)

	switch tok {
	case Def, Class:
		lx.pending = append(lx.pending, Word{Kind: tok, Lexeme: word, Line: line, Offset: start})

		for lx.pos < len(lx.src) && (lx.src[lx.pos] == ' ' || lx.src[lx.pos] == '\t') {
			lx.pos++
		}

		identStart := lx.pos
		for lx.pos < len(lx.src) && (isLetter(lx.src[lx.pos]) || isDigit(lx.src[lx.pos])) {
			lx.pos++
		}
		if identStart < lx.pos {
			name := string(lx.src[identStart:lx.pos])
			lx.scopeStack = append(lx.scopeStack, ScopeFrame{
				Name:        name,
				IndentLevel: lx.indentStack[len(lx.indentStack)-1],
			})
			lx.pending = append(lx.pending, Word{
				Kind:      Identifier,
				Lexeme:    name,
				Line:      line,
				Offset:    identStart,
				ScopePath: scopePath(lx.scopeStack),
			})
		}

	case Identifier:
		lx.pending = append(lx.pending, Word{
			Kind:      Identifier,
			Lexeme:    word,
			Line:      line,
			Offset:    start,
			ScopePath: scopePath(lx.scopeStack),
		})

	default:
		lx.pending = append(lx.pending, Word{Kind: tok, Lexeme: word, Line: line, Offset: start})
	}
}

// scanNumber reads a run of digits with at most one embedded '.'.
func (lx *Lexer) scanNumber() {
	start := lx.pos
	line := lx.line
	var sawDot bool

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case isDigit(c):
			lx.pos++
		case c == '.' && !sawDot:
			sawDot = true
			lx.pos++
		default:
			goto scanned
		}
	}
scanned:
	lexeme := string(lx.src[start:lx.pos])

	if !sawDot && len(lexeme) > 1 && lexeme[0] == '0' {
		var nonZero bool
		for _, c := range lexeme {
			if c != '0' {
				nonZero = true
				break
			}
		}
		if nonZero {
			lx.error(line, start, "leading zeros in decimal integer literals are not permitted")
			return
		}
	}

	lx.pending = append(lx.pending, Word{Kind: Number, Lexeme: lexeme, Line: line, Offset: start})
}

// scanStringLiteral dispatches to the triple-quoted or single-line string
// scanner depending on whether the quote character repeats three times.
func (lx *Lexer) scanStringLiteral() {
	quote := lx.src[lx.pos]
	startPos := lx.pos
	startLine := lx.line
	lx.pos++ // opening quote

	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == quote && lx.src[lx.pos+1] == quote {
		lx.pos += 2 // two more quote chars; three consumed in total
		lx.scanTripleQuoted(quote, startPos, startLine)
		return
	}
	lx.scanSingleQuoted(quote, startPos, startLine)
}

func (lx *Lexer) scanTripleQuoted(quote byte, startPos, startLine int) {
	for {
		if lx.pos >= len(lx.src) {
			lx.error(startLine, startPos, "Unterminated triple-quoted string")
			return
		}
		c := lx.src[lx.pos]
		switch {
		case c == '\\':
			lx.pos++
			if lx.pos < len(lx.src) {
				lx.pos++
			}
		case c == '\n':
			lx.line++
			lx.pos++
		case c == quote && lx.pos+3 <= len(lx.src) && lx.src[lx.pos+1] == quote && lx.src[lx.pos+2] == quote:
			lx.pos += 3
			lexeme := string(lx.src[startPos:lx.pos])
			lx.pending = append(lx.pending, Word{Kind: StringLiteral, Lexeme: lexeme, Line: startLine, Offset: startPos})
			return
		default:
			lx.pos++
		}
	}
}

func (lx *Lexer) scanSingleQuoted(quote byte, startPos, startLine int) {
	for {
		if lx.pos >= len(lx.src) {
			lx.error(startLine, startPos, "Unterminated string literal")
			return
		}
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.error(startLine, startPos, "Unterminated string literal")
			return
		case c == '\\':
			lx.pos++
			if lx.pos < len(lx.src) {
				lx.pos++
			}
		case c == quote:
			lx.pos++
			lexeme := string(lx.src[startPos:lx.pos])
			lx.pending = append(lx.pending, Word{Kind: StringLiteral, Lexeme: lexeme, Line: startLine, Offset: startPos})
			return
		default:
			lx.pos++
		}
	}
}

var punctuation = map[byte]Token{
	'(': Lparen, ')': Rparen,
	'[': Lbrack, ']': Rbrack,
	'{': Lbrace, '}': Rbrace,
	':': Colon, ',': Comma, '.': Period, ';': Semicolon,
}

// Fixed operator sets, tried longest-match-first: three characters, then
// two, then one.
var (
	operators3 = map[string]bool{"//=": true, "**=": true}
	operators2 = map[string]bool{
		"//": true, "**": true, "==": true, "!=": true,
		"<=": true, ">=": true, "+=": true, "-=": true,
		"*=": true, "/=": true, "%=": true, "<<": true, ">>": true,
	}
	operators1 = map[string]bool{
		"+": true, "-": true, "*": true, "/": true, "%": true,
		"=": true, "<": true, ">": true, "|": true, "&": true,
		"^": true, "~": true,
	}
)

func (lx *Lexer) scanOperator() bool {
	line := lx.line
	start := lx.pos
	rest := lx.src[lx.pos:]

	if len(rest) >= 3 && operators3[string(rest[:3])] {
		lx.pending = append(lx.pending, Word{Kind: Operator, Lexeme: string(rest[:3]), Line: line, Offset: start})
		lx.pos += 3
		return true
	}
	if len(rest) >= 2 && operators2[string(rest[:2])] {
		lx.pending = append(lx.pending, Word{Kind: Operator, Lexeme: string(rest[:2]), Line: line, Offset: start})
		lx.pos += 2
		return true
	}
	if len(rest) >= 1 && operators1[string(rest[:1])] {
		lx.pending = append(lx.pending, Word{Kind: Operator, Lexeme: string(rest[:1]), Line: line, Offset: start})
		lx.pos++
		return true
	}
	return false
}
