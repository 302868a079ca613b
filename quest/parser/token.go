package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenString
	TokenNumber

	// Keywords
	TokenQuest
	TokenTrue
	TokenFalse

	// Punctuation
	TokenLBrace
	TokenRBrace
	TokenColon
	TokenComma
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:    "EOF",
	TokenIdent:  "Identifier",
	TokenString: "String",
	TokenNumber: "Number",
	TokenQuest:  "quest",
	TokenTrue:   "true",
	TokenFalse:  "false",
	TokenLBrace: "{",
	TokenRBrace: "}",
	TokenColon:  ":",
	TokenComma:  ",",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is one lexical unit. Literal holds the source text for
// identifiers and keywords, the decoded contents for strings, and the
// raw digits for numbers; Number holds the decoded value for
// TokenNumber and is zero otherwise.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	Number  int32
}

// Describe renders the token the way error messages present it.
func (t Token) Describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("Identifier %q", t.Literal)
	case TokenString:
		return fmt.Sprintf("String %q", t.Literal)
	case TokenNumber:
		return fmt.Sprintf("Number %s", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

var keywords = map[string]TokenKind{
	"quest": TokenQuest,
	"true":  TokenTrue,
	"false": TokenFalse,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
