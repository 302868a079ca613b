// Package parser turns quest source text into quest.Quest values.
//
// # Grammar
//
//	QUEST_DEF  ::= "quest" (IDENT | STRING) "{" PROPERTY* "}"
//	PROPERTY   ::= IDENT ":" VALUE ","?
//	VALUE      ::= NUMBER | "true" | "false" | STRING
//	IDENT      ::= ALPHA (ALPHANUM | "_")*
//	NUMBER     ::= "-"? DIGIT+
//	STRING     ::= '"' (any char except '"')* '"'
//
// Whitespace is insignificant between tokens. Strings have no escape
// sequences. Numbers are signed 32-bit integers. Three keys carry
// meaning: reward (number), active (bool), and step (string,
// repeatable). Unknown keys are tolerated; their single value token is
// consumed and discarded.
//
// # Usage
//
//	q, err := parser.Parse(src, parser.WithFile("main.quest"))
//
// The parser is predictive recursive descent with one token of
// lookahead and no backtracking; it stops at the first error. Errors
// are one of four types (UnexpectedCharError, UnexpectedEOFError,
// SyntaxError, InvalidNumberError), each carrying the source position
// where it was detected. See PositionOf.
//
// Lexer and Parser hold no state beyond the current input; create one
// per string. Concurrent parses of different inputs need no
// synchronization.
package parser
