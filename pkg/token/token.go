// Package token defines the lexical tokens of the lsolve equation language.
//
// Significant tokens travel on the default channel; whitespace and the three
// comment forms travel on the hidden channel, where the parser never sees
// them but diagnostics still can.
package token

import "fmt"

// Type identifies the kind of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT  // T_inlet, rho, name$ (trailing $ or [ is part of the literal)
	NUMBER // 123, 45.67, 1e10
	STRING // 'it''s ok'

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	CARET  // ^ or **
	EQ     // =
	ASSIGN // :=

	// Delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	SEMI     // ;

	// Line-anchored raw payloads
	DIRECTIVE // $UnitSystem SI K kPa
	PLOT      // plot T vs x

	// Hidden-channel tokens
	WHITESPACE
	COMMENT
)

// typeNames maps token types to their display strings.
var typeNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	CARET:  "^",
	EQ:     "=",
	ASSIGN: ":=",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	SEMI:     ";",

	DIRECTIVE: "DIRECTIVE",
	PLOT:      "PLOT",

	WHITESPACE: "WHITESPACE",
	COMMENT:    "COMMENT",
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsOperator returns true if the token type is an arithmetic or
// equation/assignment operator.
func (t Type) IsOperator() bool {
	return t >= PLUS && t <= ASSIGN
}

// Channel separates significant tokens from ignorable ones.
type Channel int

const (
	// ChannelDefault carries tokens the parser consumes.
	ChannelDefault Channel = iota
	// ChannelHidden carries whitespace and comments.
	ChannelHidden
)

// Token represents a lexical token with position and channel information.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
	Channel Channel
}

// Hidden returns true if the token travels on the hidden channel.
func (t Token) Hidden() bool {
	return t.Channel == ChannelHidden
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}
