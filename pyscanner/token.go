package pyscanner

// Token represents the kind of a lexical token. It is a closed
// enumeration: one tag per reserved keyword (35, see Keywords below),
// the literal tags Identifier/Number/StringLiteral, Operator/Comment/
// Unknown, the punctuation tags, and the two layout tags Indent/Dedent.
// Token is ported from the tagged-union style of
// github.com/kiteco/kiteco/kite-go/lang/python/pythonscanner.Token
// (see scanner.go's Scan, which returns exactly this kind of value).
type Token int

// EOF and Illegal are control tags outside the closed reserved-word/
// literal/punctuation kind list; they are operationally necessary the
// same way pythonscanner.EOF and pythonscanner.Illegal are: EOF
// terminates the token stream and drives indent-stack draining, and
// Illegal is the zero value. The lexer never emits Illegal: a byte it
// cannot classify produces an "Invalid character" diagnostic instead.
const (
	Illegal Token = iota
	EOF

	// Keywords, in reserved-word order.
	False
	None
	True
	And
	As
	Assert
	Async
	Await
	Break
	Class
	Continue
	Def
	Del
	Elif
	Else
	Except
	Finally
	For
	From
	Global
	If
	Import
	In
	Is
	Lambda
	Nonlocal
	Not
	Or
	Pass
	Raise
	Return
	Try
	While
	With
	Yield

	// Literal and catch-all tags.
	Identifier
	Number
	StringLiteral
	Operator
	Comment
	Unknown

	// Punctuation.
	Lparen
	Rparen
	Lbrack
	Rbrack
	Lbrace
	Rbrace
	Colon
	Comma
	Period
	Semicolon

	// Layout.
	Indent
	Dedent
)

var tokenNames = [...]string{
	Illegal:       "ILLEGAL",
	EOF:           "EOF",
	False:         "False",
	None:          "None",
	True:          "True",
	And:           "and",
	As:            "as",
	Assert:        "assert",
	Async:         "async",
	Await:         "await",
	Break:         "break",
	Class:         "class",
	Continue:      "continue",
	Def:           "def",
	Del:           "del",
	Elif:          "elif",
	Else:          "else",
	Except:        "except",
	Finally:       "finally",
	For:           "for",
	From:          "from",
	Global:        "global",
	If:            "if",
	Import:        "import",
	In:            "in",
	Is:            "is",
	Lambda:        "lambda",
	Nonlocal:      "nonlocal",
	Not:           "not",
	Or:            "or",
	Pass:          "pass",
	Raise:         "raise",
	Return:        "return",
	Try:           "try",
	While:         "while",
	With:          "with",
	Yield:         "yield",
	Identifier:    "IDENTIFIER",
	Number:        "NUMBER",
	StringLiteral: "STRING_LITERAL",
	Operator:      "OPERATOR",
	Comment:       "COMMENT",
	Unknown:       "UNKNOWN",
	Lparen:        "(",
	Rparen:        ")",
	Lbrack:        "[",
	Rbrack:        "]",
	Lbrace:        "{",
	Rbrace:        "}",
	Colon:         ":",
	Comma:         ",",
	Period:        ".",
	Semicolon:     ";",
	Indent:        "INDENT",
	Dedent:        "DEDENT",
}

// String implements fmt.Stringer, mirroring pythonscanner.Token.String().
func (t Token) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether t is one of the 35 reserved words.
func (t Token) IsKeyword() bool {
	return t >= False && t <= Yield
}

// IsLiteral reports whether t carries a meaningful Lexeme.
func (t Token) IsLiteral() bool {
	switch t {
	case Identifier, Number, StringLiteral, Comment, Unknown, Illegal:
		return true
	}
	return false
}

// IsOperator reports whether t is the generic Operator tag.
func (t Token) IsOperator() bool {
	return t == Operator
}

// IsPunct reports whether t is one of the single-character punctuation tags.
func (t Token) IsPunct() bool {
	return t >= Lparen && t <= Semicolon
}

// keywords maps every reserved word's literal spelling to its Token.
// Ported from original_source/Compiler.cpp's pythonKeywords map and
// pythonscanner's Lookup table.
var keywords = map[string]Token{
	"False": False, "None": None, "True": True,
	"and": And, "as": As, "assert": Assert, "async": Async, "await": Await,
	"break": Break, "class": Class, "continue": Continue,
	"def": Def, "del": Del,
	"elif": Elif, "else": Else, "except": Except,
	"finally": Finally, "for": For, "from": From,
	"global": Global,
	"if": If, "import": Import, "in": In, "is": Is,
	"lambda": Lambda,
	"nonlocal": Nonlocal, "not": Not,
	"or": Or,
	"pass": Pass,
	"raise": Raise, "return": Return,
	"try": Try,
	"while": While, "with": With,
	"yield": Yield,
}

// Lookup returns Identifier unless ident is a reserved word, in which case
// it returns that word's Token.
func Lookup(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Identifier
}

// Word is an immutable record of (kind, lexeme, line_number, scope_path),
// ported from pythonscanner.Word. ScopePath is only meaningful for
// Identifier tokens; it is empty for every other kind.
type Word struct {
	Kind      Token
	Lexeme    string
	Line      int
	Offset    int // byte offset into the source buffer where the token starts
	ScopePath string
}

// String renders a short debugging form, mirroring pythonscanner.Word.String().
func (w Word) String() string {
	switch {
	case w.Kind.IsLiteral():
		return w.Kind.String() + "[" + w.Lexeme + "]"
	case w.Kind.IsKeyword(), w.Kind.IsOperator(), w.Kind.IsPunct():
		return `"` + w.Kind.String() + `"`
	default:
		return w.Kind.String()
	}
}

// canHaveLexeme reports whether w.Kind is allowed to carry non-empty
// lexeme text, mirroring pythonscanner.canHaveLiteral.
func canHaveLexeme(tok Token) bool {
	switch tok {
	case Identifier, Number, StringLiteral, Operator, Comment, Unknown, Illegal:
		return true
	}
	return tok.IsKeyword() || tok.IsPunct()
}

// Valid checks a handful of structural invariants on w; intended for use
// in tests, ported from pythonscanner.Word.Valid().
func (w Word) Valid() bool {
	if w.Kind != Identifier && w.ScopePath != "" {
		return false
	}
	if canHaveLexeme(w.Kind) {
		return true
	}
	return w.Lexeme == ""
}
