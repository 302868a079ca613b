package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

const eof rune = -1

// Lexer scans quest source text into tokens on demand. Identifiers
// and whitespace follow Unicode classes; digits are ASCII only.
type Lexer struct {
	input  string
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		r := l.peek()
		if r == eof || !unicode.IsSpace(r) {
			break
		}
		l.advance()
	}
}

// NextToken scans the next token, skipping any leading whitespace.
// At end of input it returns an EOF token; repeated calls keep
// returning EOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.Position()
	r := l.peek()

	switch {
	case r == eof:
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}, nil
	case r == '{':
		l.advance()
		return l.token(TokenLBrace, start), nil
	case r == '}':
		l.advance()
		return l.token(TokenRBrace, start), nil
	case r == ':':
		l.advance()
		return l.token(TokenColon, start), nil
	case r == ',':
		l.advance()
		return l.token(TokenComma, start), nil
	case r == '"':
		return l.scanString(start)
	case unicode.IsLetter(r):
		return l.scanIdentOrKeyword(start), nil
	case isDigit(r) || r == '-':
		return l.scanNumber(start)
	}

	l.advance()
	return Token{}, &UnexpectedCharError{Char: r, Pos: start}
}

// scanString reads everything between two double quotes. There are no
// escape sequences: a backslash is an ordinary character and the next
// '"' always closes the literal.
func (l *Lexer) scanString(start Position) (Token, error) {
	l.advance()
	contentStart := l.pos
	for {
		r := l.peek()
		if r == eof {
			return Token{}, &UnexpectedEOFError{Pos: start}
		}
		if r == '"' {
			literal := l.input[contentStart:l.pos]
			l.advance()
			end := l.Position()
			return Token{
				Kind:    TokenString,
				Span:    Span{Start: start, End: end},
				Literal: literal,
			}, nil
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	l.advance()
	for isIdentPart(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := l.input[start.Offset:end.Offset]
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

// scanNumber reads the first character ('-' or a digit) plus a maximal
// run of ASCII digits. The whole text must fit a signed 32-bit
// integer; a bare "-" fails the same way an overflow does.
func (l *Lexer) scanNumber(start Position) (Token, error) {
	l.advance()
	for isDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := l.input[start.Offset:end.Offset]
	n, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return Token{}, &InvalidNumberError{Literal: literal, Pos: start}
	}
	return Token{
		Kind:    TokenNumber,
		Span:    Span{Start: start, End: end},
		Literal: literal,
		Number:  int32(n),
	}, nil
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: l.input[start.Offset:end.Offset],
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
