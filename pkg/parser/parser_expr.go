package parser

import (
	"strconv"
	"strings"

	"github.com/lsolve-labs/lsolve/pkg/ast"
	"github.com/lsolve-labs/lsolve/pkg/token"
)

// Precedence levels, low to high. Power binds tighter than
// multiplication and is right-associative; everything else is
// left-associative.
const (
	precedenceNone = iota
	precedenceAdditive
	precedenceMultiplicative
	precedencePower
)

// parseExpression parses an expression at the lowest precedence.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence implements precedence climbing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec, op := p.infixPrecedence()
		if prec < minPrecedence {
			return left
		}
		p.nextToken() // consume operator

		var right ast.Expr
		if op == ast.Pow {
			// Right-associative: recurse at the same precedence
			right = p.parseExpressionWithPrecedence(prec)
		} else {
			right = p.parseExpressionWithPrecedence(prec + 1)
		}
		if right == nil {
			return nil
		}
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
}

// infixPrecedence returns the precedence and operator kind of the
// current token as an infix operator, or precedenceNone if it is not one.
func (p *Parser) infixPrecedence() (int, ast.Op) {
	switch p.token.Type {
	case token.PLUS:
		return precedenceAdditive, ast.Add
	case token.MINUS:
		return precedenceAdditive, ast.Sub
	case token.STAR:
		return precedenceMultiplicative, ast.Mul
	case token.SLASH:
		return precedenceMultiplicative, ast.Div
	case token.CARET:
		return precedencePower, ast.Pow
	}
	return precedenceNone, 0
}

// parseUnary parses an optional sign before a primary. The AST has no
// unary node: a negated literal folds into the literal, and any other
// negation lowers to a subtraction from zero. The operand binds at
// power precedence, so -x^2 reads as -(x^2).
func (p *Parser) parseUnary() ast.Expr {
	switch p.token.Type {
	case token.MINUS:
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precedencePower)
		if operand == nil {
			return nil
		}
		if n, ok := operand.(*ast.Number); ok {
			return &ast.Number{Value: -n.Value}
		}
		return &ast.Binary{Left: &ast.Number{Value: 0}, Op: ast.Sub, Right: operand}
	case token.PLUS:
		p.nextToken()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

// parsePrimary parses a literal, variable, function call, or
// parenthesized expression.
func (p *Parser) parsePrimary() ast.Expr {
	switch p.token.Type {
	case token.NUMBER:
		value, err := strconv.ParseFloat(p.token.Literal, 64)
		if err != nil {
			p.addErrorf(errBadNumber, p.token.Literal)
			return nil
		}
		p.nextToken()
		return &ast.Number{Value: value}

	case token.STRING:
		lit := &ast.StringLit{Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.IDENT:
		name := p.token.Literal
		if strings.HasSuffix(name, "[") {
			p.addErrorf(errArraysUnsupported, name)
			return nil
		}
		if p.checkPeek(token.LPAREN) {
			return p.parseCall()
		}
		p.nextToken()
		return &ast.Variable{Name: name}

	case token.LPAREN:
		p.nextToken() // consume (
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return expr

	case token.ILLEGAL:
		p.illegalToken()
		return nil

	case token.EOF:
		p.addErrorf(errUnexpectedEOF, "expression")
		return nil
	}

	p.addErrorf(errUnexpectedToken, p.token.Type, "expression")
	return nil
}

// parseCall parses IDENT "(" [expr ("," expr)*] ")". The current token
// is the function name and the peek token is the opening paren.
func (p *Parser) parseCall() ast.Expr {
	call := &ast.Call{Name: p.token.Literal}
	p.nextToken() // move to (
	p.nextToken() // consume (

	if p.match(token.RPAREN) {
		return call
	}

	for {
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return call
}
