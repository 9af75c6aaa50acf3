package parser

import (
	"strings"
	"unicode"

	"github.com/lsolve-labs/lsolve/pkg/token"
)

// Lexer tokenizes equation-file source text.
//
// Whitespace and the three comment forms ({...}, "...", //...) are lexed
// onto the hidden channel: NextToken never returns them, but they are
// retained in Hidden (and comments additionally in Comments) so tools
// such as the formatter can reattach them.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// atLineStart is true while only hidden tokens have been produced
	// since the last newline. Directives and plot commands are only
	// recognized in that position.
	atLineStart bool

	// Hidden collects hidden-channel tokens (whitespace and comments)
	// in source order.
	Hidden []token.Token

	// Comments collects comment records during lexing (for the formatter).
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		col:         0,
		atLineStart: true,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next default-channel token. Hidden-channel
// tokens encountered on the way are appended to Hidden.
func (l *Lexer) NextToken() token.Token {
	l.collectHidden()

	pos := l.currentPos()

	// Directives and plot commands claim the whole rest of the line,
	// but only when nothing visible precedes them on that line.
	if l.atLineStart {
		if l.ch == '$' && isLetter(l.peekChar()) {
			return l.readDirective(pos)
		}
		if tok, ok := l.readPlotCommand(pos); ok {
			return tok
		}
	}
	l.atLineStart = false

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok = token.Token{Type: token.CARET, Literal: "**", Pos: pos}
		} else {
			tok = l.newToken(token.STAR, "*")
		}
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '^':
		tok = l.newToken(token.CARET, "^")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.ASSIGN, Literal: ":=", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, ":")
		}
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMI, ";")
	case '\'':
		lit, terminated := l.readString()
		if !terminated {
			return token.Token{Type: token.ILLEGAL, Literal: "'" + lit, Pos: pos}
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
	case '.':
		if isDigit(l.peekChar()) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = l.newToken(token.ILLEGAL, ".")
	default:
		switch {
		case isLetter(l.ch):
			return token.Token{Type: token.IDENT, Literal: l.readIdentifier(), Pos: pos}
		case isDigit(l.ch):
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a single-character token at the current position.
func (l *Lexer) newToken(tokenType token.Type, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// collectHidden lexes whitespace and comments onto the hidden channel
// until the next default-channel token begins.
func (l *Lexer) collectHidden() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.collectWhitespace()
			continue
		}
		if l.ch == '{' {
			l.collectBraceComment()
			continue
		}
		if l.ch == '"' {
			l.collectQuoteComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}
		break
	}
}

// collectWhitespace consumes a maximal run of whitespace as one hidden token.
func (l *Lexer) collectWhitespace() {
	pos := l.currentPos()
	start := l.pos
	sawNewline := false
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			sawNewline = true
		}
		l.readChar()
	}
	if sawNewline {
		l.atLineStart = true
	}
	l.Hidden = append(l.Hidden, token.Token{
		Type:    token.WHITESPACE,
		Literal: l.input[start:l.pos],
		Pos:     pos,
		Channel: token.ChannelHidden,
	})
}

// collectBraceComment collects a {...} comment. Brace comments do not
// nest; the first } closes the comment. An unterminated comment runs
// to end of input.
func (l *Lexer) collectBraceComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '{'
	for l.ch != 0 && l.ch != '}' {
		l.readChar()
	}
	if l.ch == '}' {
		l.readChar() // skip '}'
	}

	l.recordComment(token.BraceComment, startOffset, startPos)
}

// collectQuoteComment collects a "..." comment. A doubled "" inside the
// comment escapes the delimiter.
func (l *Lexer) collectQuoteComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip opening quote
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		l.readChar()
	}

	l.recordComment(token.QuoteComment, startOffset, startPos)
}

// collectLineComment collects a // comment up to end of line.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.recordComment(token.LineComment, startOffset, startPos)
}

// recordComment appends a comment both as a hidden token and as a
// structured comment record.
func (l *Lexer) recordComment(kind token.CommentKind, startOffset int, startPos token.Position) {
	text := l.input[startOffset:l.pos]
	l.Hidden = append(l.Hidden, token.Token{
		Type:    token.COMMENT,
		Literal: text,
		Pos:     startPos,
		Channel: token.ChannelHidden,
	})
	l.Comments = append(l.Comments, &token.Comment{
		Kind: kind,
		Text: text,
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's.
// Returns the unescaped value and whether the closing quote was found.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 && l.ch != '\n' {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				// Doubled quote escape
				result.WriteByte('\'')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String(), false
}

// readIdentifier reads an identifier: a letter followed by letters,
// digits, or underscores, optionally suffixed with $ (string variables)
// or [ (array references).
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '$' || l.ch == '[' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// readDirective reads a $DIRECTIVE line: the $, the directive word, and
// the rest of the line, captured raw.
func (l *Lexer) readDirective(pos token.Position) token.Token {
	start := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return token.Token{
		Type:    token.DIRECTIVE,
		Literal: strings.TrimRight(l.input[start:l.pos], " \t\r"),
		Pos:     pos,
	}
}

// readPlotCommand recognizes a line-leading "plot" keyword and captures
// the rest of the line raw. A plot followed by = or := is an ordinary
// identifier being assigned, not a command, so it is left untouched.
func (l *Lexer) readPlotCommand(pos token.Position) (token.Token, bool) {
	if !isLetter(l.ch) {
		return token.Token{}, false
	}
	rest := l.input[l.pos:]
	if len(rest) < 4 || !strings.EqualFold(rest[:4], "plot") {
		return token.Token{}, false
	}
	if len(rest) > 4 {
		next := rest[4]
		if isLetter(next) || isDigit(next) || next == '_' || next == '$' || next == '[' {
			return token.Token{}, false
		}
	}
	// Look past spaces after the keyword: an = or := means assignment.
	i := 4
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i < len(rest) && (rest[i] == '=' || rest[i] == ':') {
		return token.Token{}, false
	}

	start := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return token.Token{
		Type:    token.PLOT,
		Literal: strings.TrimRight(l.input[start:l.pos], " \t\r"),
		Pos:     pos,
	}, true
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all default-channel tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
