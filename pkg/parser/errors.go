package parser

import (
	"fmt"

	"github.com/lsolve-labs/lsolve/pkg/token"
)

// SyntaxError represents a lexical or syntactic error with position
// information. Any syntax error aborts parsing; no partial file is
// produced.
type SyntaxError struct {
	Pos     token.Position
	Got     string // offending token text, if any
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// Error message formats.
const (
	errUnexpectedToken   = "unexpected %s, expected %s"
	errUnexpectedEOF     = "unexpected end of input, expected %s"
	errTrailingInput     = "unexpected %s after expression"
	errArraysUnsupported = "array reference %q is not supported"
	errBadNumber         = "invalid numeric literal %q"
)
