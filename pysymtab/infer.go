package pysymtab

import (
	"strings"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/kiteco/pyfront/pyscanner"
)

// inferrer is a single-pass, assignment-driven walker over the token
// stream. It is grounded on original_source/Compiler.cpp's Parser class
// (despite the name, that class never builds a parse tree; it only
// populates the symbol table), restated without the original's
// incidental duplication between the "multi-assignment" and "single
// assignment" branches.
type inferrer struct {
	words       []pyscanner.Word
	table       *Table
	pos         int
	lastKeyword string // one of "", "def", "class"
}

// Infer runs the inferrer over words and returns the resulting table.
// log is accepted for symmetry with the other two pipeline stages
// (they share one ordered diagnostic log) even though the inferrer
// itself never appends to it: there is no inferrer-side diagnostic.
func Infer(words []pyscanner.Word, log *diag.Log) *Table {
	inf := &inferrer{words: words, table: NewTable()}
	inf.run()
	return inf.table
}

func (inf *inferrer) run() {
	for inf.pos < len(inf.words) {
		tok := inf.words[inf.pos]
		switch {
		case tok.Kind == pyscanner.Def:
			inf.lastKeyword = "def"
			inf.pos++
		case tok.Kind == pyscanner.Class:
			inf.lastKeyword = "class"
			inf.pos++
		case tok.Kind == pyscanner.Identifier:
			inf.dispatchIdentifier(tok)
		default:
			inf.pos++
		}
	}
}

func (inf *inferrer) dispatchIdentifier(tok pyscanner.Word) {
	// The lexer tags a def/class name with the scope it opens (innermost
	// segment first); the name itself is declared in the enclosing scope.
	declScope := "global"
	if i := strings.Index(tok.ScopePath, "@"); i >= 0 {
		declScope = tok.ScopePath[i+1:]
	}
	switch inf.lastKeyword {
	case "def":
		inf.table.InsertOrBump(tok.Lexeme, declScope, tok.Line, Function, "")
		inf.lastKeyword = ""
		inf.pos++
		return
	case "class":
		inf.table.InsertOrBump(tok.Lexeme, declScope, tok.Line, Class, "")
		inf.lastKeyword = ""
		inf.pos++
		return
	}

	if inf.tryAssignmentList() {
		return
	}

	if inf.pos+1 < len(inf.words) && inf.isAssignOperator(inf.words[inf.pos+1]) {
		name, scope, line := tok.Lexeme, tok.ScopePath, tok.Line
		inf.table.InsertOrBump(name, scope, line, Unknown, "")
		inf.pos += 2
		typ, val := inf.parseExpression()
		if typ != Unknown {
			inf.table.UpdateType(name, scope, typ)
		}
		if val != "" {
			inf.table.UpdateValue(name, scope, val)
		}
		return
	}

	inf.table.InsertOrBump(tok.Lexeme, tok.ScopePath, tok.Line, Unknown, "")
	inf.pos++
}

func (inf *inferrer) isAssignOperator(w pyscanner.Word) bool {
	return w.Kind == pyscanner.Operator && w.Lexeme == "="
}

// tryAssignmentList attempts to parse a possibly-comma-separated list
// of LHS identifiers followed by '='. This has a known limitation: a
// stray comma-separated expression followed later by an unrelated '='
// on the same statement can be misread as a multi-assignment. It only commits
// (advancing inf.pos) when the lookahead finds two or more identifiers
// followed by '='; otherwise (including a single identifier followed by
// '=') it leaves inf.pos untouched and reports false.
func (inf *inferrer) tryAssignmentList() bool {
	temp := inf.pos
	var lhs []pyscanner.Word
	for temp < len(inf.words) && inf.words[temp].Kind == pyscanner.Identifier {
		lhs = append(lhs, inf.words[temp])
		temp++
		if temp < len(inf.words) && inf.words[temp].Kind == pyscanner.Comma {
			temp++
		} else {
			break
		}
	}
	if len(lhs) < 2 || temp >= len(inf.words) || !inf.isAssignOperator(inf.words[temp]) {
		return false
	}
	temp++

	var rhsTypes []TypeTag
	var rhsValues []string
	inf.pos = temp
	for inf.pos < len(inf.words) {
		typ, val := inf.parseExpression()
		rhsTypes = append(rhsTypes, typ)
		rhsValues = append(rhsValues, val)
		if inf.pos < len(inf.words) && inf.words[inf.pos].Kind == pyscanner.Comma {
			inf.pos++
		} else {
			break
		}
	}

	for j, lhsTok := range lhs {
		inf.table.InsertOrBump(lhsTok.Lexeme, lhsTok.ScopePath, lhsTok.Line, Unknown, "")
		if j < len(rhsTypes) {
			if rhsTypes[j] != Unknown {
				inf.table.UpdateType(lhsTok.Lexeme, lhsTok.ScopePath, rhsTypes[j])
			}
			if rhsValues[j] != "" {
				inf.table.UpdateValue(lhsTok.Lexeme, lhsTok.ScopePath, rhsValues[j])
			}
		}
	}
	return true
}

// parseExpression evaluates an expression by consuming one operand,
// then while the next token is + - * /, consuming
// another and unifies types. The literal value is preserved only for a
// single-operand expression.
func (inf *inferrer) parseExpression() (TypeTag, string) {
	accumType, accumValue := inf.parseOperand()
	for inf.pos < len(inf.words) {
		tok := inf.words[inf.pos]
		if tok.Kind != pyscanner.Operator {
			break
		}
		switch tok.Lexeme {
		case "+", "-", "*", "/":
			inf.pos++
			nextType, _ := inf.parseOperand()
			accumType = unify(accumType, nextType)
			accumValue = ""
		default:
			return accumType, accumValue
		}
	}
	return accumType, accumValue
}

// parseOperand classifies the current token as one of the recognized
// operand kinds: literal, identifier, or bracketed tuple/list/dict/set.
// A call is not recognized: a name followed by "(" is read as the name
// alone.
func (inf *inferrer) parseOperand() (TypeTag, string) {
	if inf.pos >= len(inf.words) {
		return Unknown, ""
	}
	tok := inf.words[inf.pos]

	switch tok.Kind {
	case pyscanner.Number:
		inf.pos++
		if strings.Contains(tok.Lexeme, ".") {
			return Float, tok.Lexeme
		}
		return Int, tok.Lexeme

	case pyscanner.StringLiteral:
		inf.pos++
		return String, tok.Lexeme

	case pyscanner.True, pyscanner.False:
		inf.pos++
		return Bool, tok.Lexeme

	case pyscanner.Identifier:
		name, scope := tok.Lexeme, tok.ScopePath
		knownType := inf.table.GetType(name, scope)
		knownValue := inf.table.GetValue(name, scope)
		inf.table.InsertOrBump(name, scope, tok.Line, Unknown, "")
		inf.pos++
		if knownType == Unknown {
			return Unknown, ""
		}
		return knownType, knownValue

	case pyscanner.Lparen:
		return inf.parseTupleOrGroup()

	case pyscanner.Lbrack:
		return inf.parseListLiteral()

	case pyscanner.Lbrace:
		return inf.parseDictOrSetLiteral()

	default:
		inf.pos++
		return Unknown, ""
	}
}

func (inf *inferrer) parseTupleOrGroup() (TypeTag, string) {
	inf.pos++ // "("
	var value strings.Builder
	value.WriteByte('(')

	var elemTypes []TypeTag
	for inf.pos < len(inf.words) && inf.words[inf.pos].Kind != pyscanner.Rparen {
		typ, val := inf.parseExpression()
		elemTypes = append(elemTypes, typ)
		value.WriteString(val)
		if inf.pos < len(inf.words) && inf.words[inf.pos].Kind == pyscanner.Comma {
			value.WriteByte(',')
			inf.pos++
		} else {
			break
		}
	}

	if inf.pos < len(inf.words) && inf.words[inf.pos].Kind == pyscanner.Rparen {
		inf.pos++
		value.WriteByte(')')
		if len(elemTypes) == 1 {
			return elemTypes[0], value.String()
		}
		return Tuple, value.String()
	}
	return Unknown, value.String()
}

func (inf *inferrer) parseListLiteral() (TypeTag, string) {
	inf.pos++ // "["
	var value strings.Builder
	value.WriteByte('[')
	for inf.pos < len(inf.words) && inf.words[inf.pos].Kind != pyscanner.Rbrack {
		value.WriteString(inf.words[inf.pos].Lexeme)
		inf.pos++
	}
	if inf.pos < len(inf.words) && inf.words[inf.pos].Kind == pyscanner.Rbrack {
		inf.pos++
	}
	value.WriteByte(']')
	return List, value.String()
}

func (inf *inferrer) parseDictOrSetLiteral() (TypeTag, string) {
	inf.pos++ // "{"
	var value strings.Builder
	value.WriteByte('{')
	isSet := true
	for inf.pos < len(inf.words) && inf.words[inf.pos].Kind != pyscanner.Rbrace {
		if inf.words[inf.pos].Kind == pyscanner.Colon {
			isSet = false
		}
		value.WriteString(inf.words[inf.pos].Lexeme)
		inf.pos++
	}
	if inf.pos < len(inf.words) && inf.words[inf.pos].Kind == pyscanner.Rbrace {
		inf.pos++
	}
	value.WriteByte('}')
	if isSet {
		return Set, value.String()
	}
	return Dictionary, value.String()
}

// unify combines two operand types into the result type of a binary
// arithmetic expression.
func unify(a, b TypeTag) TypeTag {
	switch {
	case a == Unknown && b == Unknown:
		return Unknown
	case a == Unknown:
		return b
	case b == Unknown:
		return a
	case (a == Float || b == Float) && a != String && b != String && a != Bool && b != Bool:
		return Float
	case a == String || b == String:
		if a == b {
			return String
		}
		return Unknown
	case a == b:
		return a
	default:
		return Unknown
	}
}
