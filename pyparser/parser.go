// Package pyparser implements a recursive-descent parser with
// panic-mode recovery. It is grounded on two sources: the panic/recover
// idiom, the expect/at/take control primitives and the errWrongToken
// sentinel are ported from
// github.com/kiteco/kiteco/kite-go/lang/python/pythonparser.parser; the
// grammar itself (function/class/block/statement shapes, the
// speculative dotted-name dispatch, the single tuple_or_group rule for
// parenthesized forms and the always-dict "{...}" factor rule) is
// ported from
// original_source/Compiler.cpp's Syntax_Analyzer class.
package pyparser

import (
	"fmt"

	"github.com/kiteco/pyfront/internal/diag"
	"github.com/kiteco/pyfront/internal/kitectx"
	"github.com/kiteco/pyfront/pyast"
	"github.com/kiteco/pyfront/pyscanner"
)

// recoverySignal is the single-variant, payload-free panic value used
// to unwind nested grammar rules up to the nearest recovery scope. It
// must never escape Parse.
type recoverySignal struct{}

// parser holds the cursor and shared diagnostic log for one parse.
type parser struct {
	ctx    kitectx.Context
	words  []pyscanner.Word
	pos    int
	log    *diag.Log
}

// Parse consumes tokens and produces a parse tree rooted at "program",
// appending diagnostics to log. recoverySignal is always caught before
// Parse returns; the only panic that can leave Parse is the abort that
// ctx.CheckAbort raises when ctx has already expired.
func Parse(ctx kitectx.Context, words []pyscanner.Word, log *diag.Log) *pyast.Node {
	p := &parser{ctx: ctx, words: words, log: log}
	return p.parseProgram()
}

// --- control primitives, grounded on pythonparser.parser's
// expect/at/take/errWrongToken -----------------------------------------

func (p *parser) cur() pyscanner.Word {
	if p.pos < len(p.words) {
		return p.words[p.pos]
	}
	return pyscanner.Word{Kind: pyscanner.EOF}
}

func (p *parser) prev() pyscanner.Word {
	if p.pos > 0 {
		return p.words[p.pos-1]
	}
	return pyscanner.Word{Kind: pyscanner.EOF}
}

// peek returns the token one past current.
func (p *parser) peek() pyscanner.Word {
	if p.pos+1 < len(p.words) {
		return p.words[p.pos+1]
	}
	return pyscanner.Word{Kind: pyscanner.EOF}
}

func (p *parser) at(kinds ...pyscanner.Token) bool {
	cur := p.cur().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// take advances and returns the current token if it matches one of
// kinds, else returns false without advancing.
func (p *parser) take(kinds ...pyscanner.Token) (pyscanner.Word, bool) {
	if p.at(kinds...) {
		w := p.cur()
		p.pos++
		return w, true
	}
	return pyscanner.Word{}, false
}

// consume returns the current token if its kind matches and advances;
// otherwise emits a diagnostic and raises a recovery signal.
func (p *parser) consume(kind pyscanner.Token) pyscanner.Word {
	if w, ok := p.take(kind); ok {
		return w
	}
	p.errorf("Expected %s but found %s", kind, p.cur().Kind)
	panic(recoverySignal{})
}

func (p *parser) errorf(format string, args ...interface{}) {
	w := p.cur()
	p.log.Add(fmt.Sprintf(format, args...), w.Line, w.Offset)
}

// synchronize advances the cursor while the current token's line number
// is <= lineNumber.
func (p *parser) synchronize(lineNumber int) {
	for p.pos < len(p.words) && p.cur().Line <= lineNumber {
		p.pos++
	}
}

// mark/reset realize the single place the parser moves backwards: the
// speculative dispatch in statement and factor.
func (p *parser) mark() int     { return p.pos }
func (p *parser) reset(pos int) { p.pos = pos }

// recovered reports whether r is the sentinel panic value raised by
// consume and by the grammar rules after errorf has recorded a
// diagnostic, re-panicking on anything else so a genuine bug never
// gets silently swallowed as a parse error.
func recovered(r interface{}) bool {
	if r == nil {
		return false
	}
	if _, isSignal := r.(recoverySignal); isSignal {
		return true
	}
	panic(r)
}

// --- program / statement separation -----------------------------------

func (p *parser) parseProgram() *pyast.Node {
	p.ctx.CheckAbort()
	root := pyast.New("program")
	for p.pos < len(p.words) && !p.at(pyscanner.EOF) {
		if !p.checkStatementSeparation(root) {
			continue
		}
		if p.at(pyscanner.Dedent) {
			// a stray DEDENT at top level (e.g. after a malformed
			// block) is consumed silently so the loop can make progress
			p.pos++
			continue
		}
		root.AddChild(p.parseTopLevel())
	}
	return root
}

// checkStatementSeparation enforces that consecutive statements either
// start a new line or follow a DEDENT; on violation it emits
// a diagnostic and resynchronizes. It returns false when it has already
// synchronized and the caller should `continue` its loop without
// parsing a statement this iteration.
func (p *parser) checkStatementSeparation(root *pyast.Node) bool {
	if p.pos == 0 {
		return true
	}
	prev := p.prev()
	if prev.Kind == pyscanner.Dedent || p.cur().Line > prev.Line {
		return true
	}
	p.errorf("Statements must be separated by NEWLINE")
	p.synchronize(p.cur().Line)
	return false
}

func (p *parser) parseTopLevel() (node *pyast.Node) {
	defer func() {
		if recovered(recover()) {
			p.synchronize(p.cur().Line)
			node = pyast.New("bad_statement")
		}
	}()

	if p.at(pyscanner.Def) {
		return p.parseFunction()
	}
	return p.parseStatement()
}

// --- function / class -------------------------------------------------

func (p *parser) parseFunction() *pyast.Node {
	n := pyast.New("function")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Def)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Lparen)))
	n.AddChild(p.parseParameters())
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Rparen)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())
	return n
}

func (p *parser) parseParameters() *pyast.Node {
	n := pyast.New("parameters")
	if !p.at(pyscanner.Rparen) {
		n.AddChild(p.parseParameter())
		for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
			n.AddChild(pyast.Leaf(w))
			n.AddChild(p.parseParameter())
		}
	}
	return n
}

func (p *parser) parseParameter() *pyast.Node {
	n := pyast.New("parameter")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	if w, ok := p.take(pyscanner.Operator); ok {
		if w.Lexeme != "=" {
			p.errorf("Expected = but found %s", w.Lexeme)
			panic(recoverySignal{})
		}
		n.AddChild(pyast.Leaf(w))
		n.AddChild(p.parseExpression())
	}
	return n
}

func (p *parser) parseClassDef() *pyast.Node {
	n := pyast.New("class_def")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Class)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	if p.at(pyscanner.Lparen) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Lparen)))
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Rparen)))
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseClassBlock())
	return n
}

func (p *parser) parseClassBlock() *pyast.Node {
	n := pyast.New("class_block")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Indent)))

	prevLine := p.cur().Line
	n.AddChild(p.parseClassMember())
	for p.pos < len(p.words) && !p.at(pyscanner.Dedent, pyscanner.EOF) {
		if p.cur().Line <= prevLine {
			p.errorf("Statements must be separated by NEWLINE")
			p.synchronize(p.cur().Line)
			continue
		}
		prevLine = p.cur().Line
		n.AddChild(p.parseClassMember())
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Dedent)))
	return n
}

func (p *parser) parseClassMember() (node *pyast.Node) {
	defer func() {
		if recovered(recover()) {
			p.synchronize(p.cur().Line)
			node = pyast.New("bad_statement")
		}
	}()
	if p.at(pyscanner.Def) {
		return p.parseFunction()
	}
	return p.parseAssignment()
}

// --- block --------------------------------------------------------------

// block implements the grammar:
//   block := (INDENT statement { statement } DEDENT) | statement
// A nested function definition is allowed at any statement slot of a
// block (a def can nest inside another def's block), so each slot is
// dispatched through parseBlockStatement rather than parseStatement
// directly.
func (p *parser) parseBlock() *pyast.Node {
	n := pyast.New("block")
	if !p.at(pyscanner.Indent) {
		n.AddChild(p.parseBlockStatement())
		return n
	}

	n.AddChild(pyast.Leaf(p.consume(pyscanner.Indent)))
	prevLine := p.cur().Line
	n.AddChild(p.parseBlockStatement())
	for p.pos < len(p.words) && !p.at(pyscanner.Dedent, pyscanner.EOF) {
		if p.cur().Line <= prevLine {
			p.errorf("Statements must be separated by NEWLINE")
			p.synchronize(p.cur().Line)
			continue
		}
		prevLine = p.cur().Line
		n.AddChild(p.parseBlockStatement())
	}
	if w, ok := p.take(pyscanner.Dedent); ok {
		n.AddChild(pyast.Leaf(w))
	}
	return n
}

func (p *parser) parseBlockStatement() *pyast.Node {
	if p.at(pyscanner.Def) {
		return p.parseFunction()
	}
	return p.parseStatement()
}

// --- statement ------------------------------------------------------------

func (p *parser) parseStatement() *pyast.Node {
	defer func() {
		if recovered(recover()) {
			p.errorf("Could not parse statement")
			panic(recoverySignal{})
		}
	}()

	n := pyast.New("statement")
	switch {
	case p.at(pyscanner.Identifier):
		n.AddChild(p.parseIdentifierStatement())
	case p.at(pyscanner.While):
		n.AddChild(p.parseWhileStmt())
	case p.at(pyscanner.For):
		n.AddChild(p.parseForStmt())
	case p.at(pyscanner.If):
		n.AddChild(p.parseConditionalStmt())
	case p.at(pyscanner.Class):
		n.AddChild(p.parseClassDef())
	case p.at(pyscanner.Import, pyscanner.From):
		n.AddChild(p.parseImport())
	case p.at(pyscanner.Return):
		n.AddChild(p.parseSimpleKeywordStmt(pyscanner.Return, "return_statement", true))
	case p.at(pyscanner.Pass):
		n.AddChild(p.parseSimpleKeywordStmt(pyscanner.Pass, "pass_statement", false))
	case p.at(pyscanner.Break):
		n.AddChild(p.parseSimpleKeywordStmt(pyscanner.Break, "break_statement", false))
	case p.at(pyscanner.Continue):
		n.AddChild(p.parseSimpleKeywordStmt(pyscanner.Continue, "continue_statement", false))
	case p.at(pyscanner.Raise):
		n.AddChild(p.parseSimpleKeywordStmt(pyscanner.Raise, "raise_statement", true))
	case p.at(pyscanner.Try):
		n.AddChild(p.parseTryStmt())
	case p.at(pyscanner.StringLiteral):
		n.AddChild(p.parseFactor())
	default:
		p.errorf("Could not parse statement")
		panic(recoverySignal{})
	}
	return n
}

func (p *parser) parseSimpleKeywordStmt(kw pyscanner.Token, label string, withExpr bool) *pyast.Node {
	n := pyast.New(label)
	n.AddChild(pyast.Leaf(p.consume(kw)))
	if withExpr {
		n.AddChild(p.parseExpression())
	}
	return n
}

// parseIdentifierStatement dispatches on what follows a leading
// IDENTIFIER in statement position: a call, a dotted name that resolves
// to a call or an assignment (anything else after the dotted name is an
// error), or a plain assignment.
func (p *parser) parseIdentifierStatement() *pyast.Node {
	switch {
	case p.peek().Kind == pyscanner.Lparen:
		return p.parseFunctionCall()

	case p.peek().Kind == pyscanner.Period:
		saved := p.mark()
		dotted := p.parseDottedName()
		switch {
		case p.at(pyscanner.Lparen):
			p.reset(saved)
			return p.parseFunctionCall()
		case p.at(pyscanner.Operator) && p.cur().Lexeme == "=":
			p.reset(saved)
			return p.parseAssignment()
		default:
			_ = dotted
			p.errorf("Expected '(' or '=' after dotted name")
			panic(recoverySignal{})
		}
	}
	return p.parseAssignment()
}

// --- while / for / if / try / import --------------------------------------

func (p *parser) parseWhileStmt() *pyast.Node {
	n := pyast.New("while_statement")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.While)))
	n.AddChild(p.parseExpression())
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())
	return n
}

func (p *parser) parseForStmt() *pyast.Node {
	n := pyast.New("for_statement")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.For)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.In)))
	n.AddChild(p.parseExpression())
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())
	return n
}

func (p *parser) parseConditionalStmt() *pyast.Node {
	n := pyast.New("conditional_statement")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.If)))
	n.AddChild(p.parseExpression())
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())

	for p.at(pyscanner.Elif) {
		elif := pyast.New("elif_clause")
		elif.AddChild(pyast.Leaf(p.consume(pyscanner.Elif)))
		elif.AddChild(p.parseExpression())
		elif.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
		elif.AddChild(p.parseBlock())
		n.AddChild(elif)
	}
	if p.at(pyscanner.Else) {
		n.AddChild(p.parseElseClause())
	}
	return n
}

func (p *parser) parseElseClause() *pyast.Node {
	n := pyast.New("else_clause")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Else)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())
	return n
}

func (p *parser) parseTryStmt() *pyast.Node {
	n := pyast.New("try_statement")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Try)))
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
	n.AddChild(p.parseBlock())

	for p.at(pyscanner.Except) {
		except := pyast.New("except_clause")
		except.AddChild(pyast.Leaf(p.consume(pyscanner.Except)))
		if p.at(pyscanner.Identifier) {
			except.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
			if p.at(pyscanner.As) {
				except.AddChild(pyast.Leaf(p.consume(pyscanner.As)))
				except.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
			}
		}
		except.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
		except.AddChild(p.parseBlock())
		n.AddChild(except)
	}
	if p.at(pyscanner.Else) {
		n.AddChild(p.parseElseClause())
	}
	if p.at(pyscanner.Finally) {
		finally := pyast.New("finally_clause")
		finally.AddChild(pyast.Leaf(p.consume(pyscanner.Finally)))
		finally.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
		finally.AddChild(p.parseBlock())
		n.AddChild(finally)
	}
	return n
}

func (p *parser) parseImport() *pyast.Node {
	n := pyast.New("import_statement")
	if p.at(pyscanner.Import) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Import)))
		n.AddChild(p.parseDottedName())
		p.parseOptionalAsName(n)
		for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
			n.AddChild(pyast.Leaf(w))
			n.AddChild(p.parseDottedName())
			p.parseOptionalAsName(n)
		}
		return n
	}

	n.AddChild(pyast.Leaf(p.consume(pyscanner.From)))
	n.AddChild(p.parseDottedName())
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Import)))
	switch {
	case p.at(pyscanner.Identifier):
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
		p.parseOptionalAsName(n)
	case p.at(pyscanner.Operator) && p.cur().Lexeme == "*":
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Operator)))
	default:
		p.errorf("Expected identifier or '*' but found %s", p.cur().Kind)
		panic(recoverySignal{})
	}
	return n
}

func (p *parser) parseOptionalAsName(n *pyast.Node) {
	if p.at(pyscanner.As) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.As)))
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	}
}

func (p *parser) parseDottedName() *pyast.Node {
	n := pyast.New("dotted_name")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	for p.at(pyscanner.Period) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Period)))
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	}
	return n
}

// --- assignment -----------------------------------------------------------

func (p *parser) parseAssignment() *pyast.Node {
	n := pyast.New("assignment")
	n.AddChild(p.parseLHS())
	n.AddChild(p.parseAssignOp())
	n.AddChild(p.parseRHS())
	return n
}

func (p *parser) parseLHS() *pyast.Node {
	n := pyast.New("lhs")
	n.AddChild(p.parseLHSTarget())
	for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
		n.AddChild(pyast.Leaf(w))
		n.AddChild(p.parseLHSTarget())
	}
	return n
}

func (p *parser) parseLHSTarget() *pyast.Node {
	if p.peek().Kind == pyscanner.Period {
		return p.parseDottedName()
	}
	return pyast.Leaf(p.consume(pyscanner.Identifier))
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "//=": true, "**=": true,
}

func (p *parser) parseAssignOp() *pyast.Node {
	n := pyast.New("assign_op")
	if !p.at(pyscanner.Operator) || !assignOps[p.cur().Lexeme] {
		p.errorf("Expected assignment operator but found %s", p.cur().Kind)
		panic(recoverySignal{})
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Operator)))
	return n
}

func (p *parser) parseRHS() *pyast.Node {
	n := pyast.New("rhs")
	n.AddChild(p.parseExpression())
	for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
		n.AddChild(pyast.Leaf(w))
		n.AddChild(p.parseExpression())
	}
	return n
}

// --- function call ----------------------------------------------------------

func (p *parser) parseFunctionCall() *pyast.Node {
	n := pyast.New("function_call")
	if p.peek().Kind == pyscanner.Period {
		n.AddChild(p.parseDottedName())
	} else {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Identifier)))
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Lparen)))
	if !p.at(pyscanner.Rparen) {
		n.AddChild(p.parseArguments())
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Rparen)))

	if p.at(pyscanner.If) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.If)))
		n.AddChild(p.parseOrExpr())
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Else)))
		n.AddChild(p.parseFunctionCall())
	}
	return n
}

func (p *parser) parseArguments() *pyast.Node {
	n := pyast.New("arguments")
	n.AddChild(p.parseExpression())
	for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
		n.AddChild(pyast.Leaf(w))
		n.AddChild(p.parseExpression())
	}
	return n
}

// --- expression precedence chain --------------------------------------------

// parseExpression implements:
//   expression := or_expr [ "if" or_expr "else" expression ]
func (p *parser) parseExpression() *pyast.Node {
	n := pyast.New("expression")
	n.AddChild(p.parseOrExpr())
	if p.at(pyscanner.If) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.If)))
		n.AddChild(p.parseOrExpr())
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Else)))
		n.AddChild(p.parseExpression())
	}
	return n
}

func (p *parser) parseOrExpr() *pyast.Node {
	n := pyast.New("or_expression")
	n.AddChild(p.parseAndExpr())
	for p.at(pyscanner.Or) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Or)))
		n.AddChild(p.parseAndExpr())
	}
	return n
}

func (p *parser) parseAndExpr() *pyast.Node {
	n := pyast.New("and_expression")
	n.AddChild(p.parseNotExpr())
	for p.at(pyscanner.And) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.And)))
		n.AddChild(p.parseNotExpr())
	}
	return n
}

func (p *parser) parseNotExpr() *pyast.Node {
	n := pyast.New("not_expression")
	if p.at(pyscanner.Not) {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Not)))
		n.AddChild(p.parseNotExpr())
		return n
	}
	n.AddChild(p.parseComparison())
	return n
}

// comparisonOps intentionally includes "&" and "|", a non-standard
// extension preserved from the original grammar.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&": true, "|": true,
}

func (p *parser) parseComparison() *pyast.Node {
	n := pyast.New("comparison")
	n.AddChild(p.parseArithmetic())
	for p.at(pyscanner.Operator) && comparisonOps[p.cur().Lexeme] {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Operator)))
		n.AddChild(p.parseArithmetic())
	}
	return n
}

func (p *parser) parseArithmetic() *pyast.Node {
	n := pyast.New("arithmetic")
	n.AddChild(p.parseTerm())
	for p.at(pyscanner.Operator) && (p.cur().Lexeme == "+" || p.cur().Lexeme == "-") {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Operator)))
		n.AddChild(p.parseTerm())
	}
	return n
}

func (p *parser) parseTerm() *pyast.Node {
	n := pyast.New("term")
	n.AddChild(p.parseFactor())
	for p.at(pyscanner.Operator) && (p.cur().Lexeme == "*" || p.cur().Lexeme == "/" || p.cur().Lexeme == "%") {
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Operator)))
		n.AddChild(p.parseFactor())
	}
	return n
}

// parseFactor parses the factor rule, including an optional single call
// after a name or dotted name. A parenthesized form is always a
// tuple_or_group node and "{...}" is always a dict_literal; set
// literals are not accepted.
func (p *parser) parseFactor() *pyast.Node {
	n := pyast.New("factor")
	switch {
	case p.at(pyscanner.Number):
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Number)))

	case p.at(pyscanner.StringLiteral):
		n.AddChild(pyast.Leaf(p.consume(pyscanner.StringLiteral)))

	case p.at(pyscanner.True):
		n.AddChild(pyast.Leaf(p.consume(pyscanner.True)))

	case p.at(pyscanner.False):
		n.AddChild(pyast.Leaf(p.consume(pyscanner.False)))

	case p.at(pyscanner.Identifier):
		var target *pyast.Node
		if p.peek().Kind == pyscanner.Period {
			target = p.parseDottedName()
		} else {
			target = pyast.Leaf(p.consume(pyscanner.Identifier))
		}
		n.AddChild(target)
		if p.at(pyscanner.Lparen) {
			n.AddChild(pyast.Leaf(p.consume(pyscanner.Lparen)))
			if !p.at(pyscanner.Rparen) {
				n.AddChild(p.parseArguments())
			}
			n.AddChild(pyast.Leaf(p.consume(pyscanner.Rparen)))
		}

	case p.at(pyscanner.Lparen):
		n.AddChild(p.parseTupleOrGroup())

	case p.at(pyscanner.Lbrack):
		n.AddChild(p.parseListLiteral())

	case p.at(pyscanner.Lbrace):
		n.AddChild(p.parseDictLiteral())

	default:
		p.errorf("Could not parse factor")
		panic(recoverySignal{})
	}
	return n
}

func (p *parser) parseTupleOrGroup() *pyast.Node {
	n := pyast.New("tuple_or_group")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Lparen)))
	n.AddChild(p.parseExpression())
	for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
		n.AddChild(pyast.Leaf(w))
		n.AddChild(p.parseExpression())
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Rparen)))
	return n
}

func (p *parser) parseListLiteral() *pyast.Node {
	n := pyast.New("list_literal")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Lbrack)))
	if !p.at(pyscanner.Rbrack) {
		n.AddChild(p.parseExpression())
		for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
			n.AddChild(pyast.Leaf(w))
			n.AddChild(p.parseExpression())
		}
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Rbrack)))
	return n
}

func (p *parser) parseDictLiteral() *pyast.Node {
	n := pyast.New("dict_literal")
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Lbrace)))
	if !p.at(pyscanner.Rbrace) {
		n.AddChild(p.parseExpression())
		n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
		n.AddChild(p.parseExpression())
		for w, ok := p.take(pyscanner.Comma); ok; w, ok = p.take(pyscanner.Comma) {
			n.AddChild(pyast.Leaf(w))
			n.AddChild(p.parseExpression())
			n.AddChild(pyast.Leaf(p.consume(pyscanner.Colon)))
			n.AddChild(p.parseExpression())
		}
	}
	n.AddChild(pyast.Leaf(p.consume(pyscanner.Rbrace)))
	return n
}
