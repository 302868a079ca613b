package parser

import (
	"github.com/fiorevita/questlang/quest"
)

type Option func(*Parser)

// WithFile sets the file path reported in token positions.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser drives the quest grammar with one token of lookahead. Every
// grammar decision inspects the current token, consumes it, and pulls
// the next from the lexer; nothing is ever un-consumed.
type Parser struct {
	file  string
	lexer *Lexer
	tok   Token
}

// NewParser creates a parser over input and immediately reads the
// first token, so a parser never exists without a current token. A
// lex error in that first token fails construction.
func NewParser(input string, opts ...Option) (*Parser, error) {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.lexer = NewLexer(input, p.file)
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	p.tok = tok
	return p, nil
}

// Parse is shorthand for NewParser followed by ParseQuest.
func Parse(input string, opts ...Option) (*quest.Quest, error) {
	p, err := NewParser(input, opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseQuest()
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// eat consumes the current token if its kind matches. Only the kind is
// compared; payloads are irrelevant to the match.
func (p *Parser) eat(kind TokenKind) error {
	if p.tok.Kind != kind {
		return p.syntaxError(kind.String())
	}
	return p.advance()
}

func (p *Parser) syntaxError(expected string) error {
	return &SyntaxError{
		Expected: expected,
		Found:    p.tok.Describe(),
		Pos:      p.tok.Span.Start,
	}
}

// ParseQuest parses one quest definition:
//
//	QUEST_DEF ::= "quest" (IDENT | STRING) "{" PROPERTY* "}"
//
// The name may be a bare identifier or a quoted string; its text is
// taken verbatim either way. Consuming the closing brace lexes one
// more token but never inspects it, so trailing input is ignored
// unless that token itself fails to lex.
func (p *Parser) ParseQuest() (*quest.Quest, error) {
	if err := p.eat(TokenQuest); err != nil {
		return nil, err
	}

	if p.tok.Kind != TokenIdent && p.tok.Kind != TokenString {
		return nil, p.syntaxError("Identifier or String")
	}
	q := &quest.Quest{Name: p.tok.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.eat(TokenLBrace); err != nil {
		return nil, err
	}

	for p.tok.Kind != TokenRBrace && p.tok.Kind != TokenEOF {
		if err := p.parseProperty(q); err != nil {
			return nil, err
		}
		// Commas between properties are optional, trailing comma
		// included; only '}' or EOF ends the loop.
		if p.tok.Kind == TokenComma {
			if err := p.eat(TokenComma); err != nil {
				return nil, err
			}
		}
	}

	// EOF instead of '}' surfaces here as a syntax error.
	if err := p.eat(TokenRBrace); err != nil {
		return nil, err
	}
	return q, nil
}

// parseProperty parses one PROPERTY ::= IDENT ":" VALUE entry into q.
// The three recognized keys require a fixed value kind; repeated
// reward/active keys overwrite, repeated steps append. Any other key
// consumes a single value token unchecked.
func (p *Parser) parseProperty(q *quest.Quest) error {
	if p.tok.Kind != TokenIdent {
		return p.syntaxError("Property Key")
	}
	key := p.tok.Literal
	if err := p.advance(); err != nil {
		return err
	}

	if err := p.eat(TokenColon); err != nil {
		return err
	}

	switch key {
	case "reward":
		if p.tok.Kind != TokenNumber {
			return p.syntaxError("Number")
		}
		q.Reward = p.tok.Number
		return p.advance()
	case "active":
		switch p.tok.Kind {
		case TokenTrue:
			q.Active = true
		case TokenFalse:
			q.Active = false
		default:
			return p.syntaxError("Bool")
		}
		return p.advance()
	case "step":
		if p.tok.Kind != TokenString {
			return p.syntaxError("String")
		}
		q.Steps = append(q.Steps, p.tok.Literal)
		return p.advance()
	}

	return p.advance()
}
