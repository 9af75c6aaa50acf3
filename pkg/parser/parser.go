// Package parser turns equation-file source text into the AST defined
// in pkg/ast.
//
// # Usage
//
//	file, err := parser.Parse("x := 2\ny + x = 10")
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for the equation
// language:
//
//	file       → statement*
//	statement  → directive | plot | assignment | equation
//	assignment → IDENT (":=" | "=") expr [unit] [";"]
//	equation   → expr "=" expr [unit] [";"]
//	unit       → "[" ... "]"
//	expr       → term (("+" | "-") term)*
//	term       → power (("*" | "/") power)*
//	power      → unary [("^" | "**") power]
//	unary      → ("-" | "+") unary | primary
//	primary    → NUMBER | STRING | IDENT | IDENT "(" args ")" | "(" expr ")"
//
// A statement whose left side is a bare identifier always parses as an
// assignment, even when the right side mentions the same identifier; an
// equation proper requires a compound left expression. The choice is
// structural and is made before the right side is seen.
package parser

import (
	"fmt"
	"strings"

	"github.com/lsolve-labs/lsolve/pkg/ast"
	"github.com/lsolve-labs/lsolve/pkg/token"
)

// Parser parses equation-file source into an AST.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
}

// NewParser creates a new parser for the given source text.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole source file and returns its AST.
func Parse(input string) (*ast.File, error) {
	p := NewParser(input)
	file := p.parseFile()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return file, nil
}

// ParseExpression parses a single expression, as entered at a REPL
// prompt. Trailing input after the expression is an error.
func ParseExpression(input string) (ast.Expr, error) {
	p := NewParser(input)
	expr := p.parseExpression()
	if len(p.errors) == 0 && !p.check(token.EOF) {
		p.addErrorf(errTrailingInput, p.token.Type)
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return expr, nil
}

// Comments returns the comments collected while lexing, in source order.
func (p *Parser) Comments() []*token.Comment {
	return p.lexer.Comments
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.Type) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	if p.check(token.EOF) {
		p.addErrorf(errUnexpectedEOF, t)
	} else {
		p.addErrorf(errUnexpectedToken, p.token.Type, t)
	}
	return false
}

// addErrorf adds a parse error at the current token.
func (p *Parser) addErrorf(format string, args ...any) {
	p.errors = append(p.errors, &SyntaxError{
		Pos:     p.token.Pos,
		Got:     p.token.Literal,
		Message: fmt.Sprintf(format, args...),
	})
}

// ---------- Statements ----------

// parseFile parses statements until EOF. Parsing stops at the first
// error; no partial file is returned to the caller.
func (p *Parser) parseFile() *ast.File {
	file := &ast.File{}
	for !p.check(token.EOF) {
		if p.match(token.SEMI) {
			continue // stray statement terminator
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return nil
		}
		file.Statements = append(file.Statements, stmt)
	}
	return file
}

// parseStatement parses one statement.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.token.Type {
	case token.DIRECTIVE:
		stmt := &ast.Directive{Raw: p.token.Literal, Position: p.token.Pos}
		p.nextToken()
		return stmt
	case token.PLOT:
		stmt := &ast.PlotCommand{Raw: p.token.Literal, Position: p.token.Pos}
		p.nextToken()
		return stmt
	case token.ILLEGAL:
		p.illegalToken()
		return nil
	}

	// A bare identifier followed by := or = commits to the assignment
	// interpretation before the right side is seen.
	if p.check(token.IDENT) && (p.checkPeek(token.ASSIGN) || p.checkPeek(token.EQ)) {
		return p.parseAssignment()
	}
	return p.parseEquation()
}

// parseAssignment parses IDENT (":=" | "=") expr [";"].
func (p *Parser) parseAssignment() ast.Stmt {
	pos := p.token.Pos
	name := p.token.Literal
	if strings.HasSuffix(name, "[") {
		p.addErrorf(errArraysUnsupported, name)
		return nil
	}
	p.nextToken() // consume identifier

	declared := p.check(token.ASSIGN)
	p.nextToken() // consume := or =

	value := p.parseExpression()
	if value == nil {
		return nil
	}
	p.endStatement()
	return &ast.Assign{
		Target:   &ast.Variable{Name: name},
		Value:    value,
		Declared: declared,
		Position: pos,
	}
}

// parseEquation parses expr "=" expr [";"].
func (p *Parser) parseEquation() ast.Stmt {
	pos := p.token.Pos
	left := p.parseExpression()
	if left == nil {
		return nil
	}
	if !p.expect(token.EQ) {
		return nil
	}
	right := p.parseExpression()
	if right == nil {
		return nil
	}
	p.endStatement()
	return &ast.Equation{Left: left, Right: right, Position: pos}
}

// endStatement consumes an optional trailing unit annotation and an
// optional semicolon.
func (p *Parser) endStatement() {
	p.skipUnitAnnotation()
	p.match(token.SEMI)
}

// skipUnitAnnotation discards a trailing [unit] group, as in
// "T := 20 [C]". The annotation carries no meaning here; the unit
// pass reads it back out of the raw source line.
func (p *Parser) skipUnitAnnotation() {
	if !p.check(token.LBRACKET) {
		return
	}
	for !p.check(token.RBRACKET) {
		if p.check(token.EOF) {
			p.addErrorf("unterminated unit annotation")
			return
		}
		p.nextToken()
	}
	p.nextToken() // consume ]
}

// illegalToken reports the current ILLEGAL token as a syntax error.
func (p *Parser) illegalToken() {
	if strings.HasPrefix(p.token.Literal, "'") {
		p.addErrorf("unterminated string literal")
		return
	}
	p.addErrorf("unexpected character %q", p.token.Literal)
}
