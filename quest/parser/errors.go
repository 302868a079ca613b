package parser

import (
	"errors"
	"fmt"
)

// The four ways a parse can fail. Every error returned by this package
// is exactly one of these types; callers classify with errors.As.

// UnexpectedCharError reports a character that starts no token.
type UnexpectedCharError struct {
	Char rune
	Pos  Position
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected character %q", e.Char)
}

// UnexpectedEOFError reports input that ended inside a token.
type UnexpectedEOFError struct {
	Pos Position
}

func (e *UnexpectedEOFError) Error() string {
	return "unexpected end of input"
}

// SyntaxError reports a well-formed token stream that violates the
// grammar. Expected and Found are human-readable descriptions.
type SyntaxError struct {
	Expected string
	Found    string
	Pos      Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// InvalidNumberError reports a numeric literal that does not parse as
// a signed 32-bit integer, either from overflow or a bare minus sign.
type InvalidNumberError struct {
	Literal string
	Pos     Position
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number %q", e.Literal)
}

// PositionOf extracts the source position carried by any error
// produced by this package, seeing through wrapping.
func PositionOf(err error) (Position, bool) {
	var (
		charErr *UnexpectedCharError
		eofErr  *UnexpectedEOFError
		synErr  *SyntaxError
		numErr  *InvalidNumberError
	)
	switch {
	case errors.As(err, &charErr):
		return charErr.Pos, true
	case errors.As(err, &eofErr):
		return eofErr.Pos, true
	case errors.As(err, &synErr):
		return synErr.Pos, true
	case errors.As(err, &numErr):
		return numErr.Pos, true
	}
	return Position{}, false
}
