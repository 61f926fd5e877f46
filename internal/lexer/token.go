// Package lexer implements the Cheetah lexical analyzer. It converts raw
// source text into a flat token stream with explicit INDENT/DEDENT markers
// derived from the indentation structure, accumulating lexical errors
// instead of aborting on the first malformed construct.
package lexer

import (
	"fmt"
	"math/big"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// TokenType identifies the kind of a token.
type TokenType int

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline
	TokenIndent
	TokenDedent

	// Identifiers and literals
	TokenIdentifier
	TokenInt
	TokenFloat
	TokenImag
	TokenString
	TokenBytes
	TokenFString

	// Keywords
	TokenDef
	TokenReturn
	TokenIf
	TokenElif
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenBreak
	TokenContinue
	TokenPass
	TokenImport
	TokenFrom
	TokenAs
	TokenTrue
	TokenFalse
	TokenNone
	TokenAnd
	TokenOr
	TokenNot
	TokenClass
	TokenWith
	TokenAssert
	TokenAsync
	TokenAwait
	TokenTry
	TokenExcept
	TokenFinally
	TokenRaise
	TokenLambda
	TokenGlobal
	TokenNonlocal
	TokenYield
	TokenDel
	TokenIs
	TokenMatch
	TokenCase

	// Operators
	TokenPlus        // +
	TokenMinus       // -
	TokenStar        // *
	TokenSlash       // /
	TokenDoubleSlash // //
	TokenPercent     // %
	TokenDoubleStar  // **
	TokenAt          // @ (decorator and matrix multiply)

	TokenAssign            // =
	TokenPlusAssign        // +=
	TokenMinusAssign       // -=
	TokenStarAssign        // *=
	TokenSlashAssign       // /=
	TokenDoubleSlashAssign // //=
	TokenPercentAssign     // %=
	TokenDoubleStarAssign  // **=
	TokenAtAssign          // @=
	TokenAmpAssign         // &=
	TokenPipeAssign        // |=
	TokenCaretAssign       // ^=
	TokenShiftLeftAssign   // <<=
	TokenShiftRightAssign  // >>=

	TokenEq // ==
	TokenNe // !=
	TokenLt // <
	TokenLe // <=
	TokenGt // >
	TokenGe // >=

	TokenAmp        // &
	TokenPipe       // |
	TokenCaret      // ^
	TokenTilde      // ~
	TokenShiftLeft  // <<
	TokenShiftRight // >>

	TokenWalrus   // :=
	TokenArrow    // ->
	TokenEllipsis // ...

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenDot       // .
	TokenColon     // :
	TokenSemicolon // ;
)

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenError:   "ERROR",
	TokenNewline: "NEWLINE",
	TokenIndent:  "INDENT",
	TokenDedent:  "DEDENT",

	TokenIdentifier: "IDENTIFIER",
	TokenInt:        "INT",
	TokenFloat:      "FLOAT",
	TokenImag:       "IMAG",
	TokenString:     "STRING",
	TokenBytes:      "BYTES",
	TokenFString:    "FSTRING",

	TokenDef:      "DEF",
	TokenReturn:   "RETURN",
	TokenIf:       "IF",
	TokenElif:     "ELIF",
	TokenElse:     "ELSE",
	TokenWhile:    "WHILE",
	TokenFor:      "FOR",
	TokenIn:       "IN",
	TokenBreak:    "BREAK",
	TokenContinue: "CONTINUE",
	TokenPass:     "PASS",
	TokenImport:   "IMPORT",
	TokenFrom:     "FROM",
	TokenAs:       "AS",
	TokenTrue:     "TRUE",
	TokenFalse:    "FALSE",
	TokenNone:     "NONE",
	TokenAnd:      "AND",
	TokenOr:       "OR",
	TokenNot:      "NOT",
	TokenClass:    "CLASS",
	TokenWith:     "WITH",
	TokenAssert:   "ASSERT",
	TokenAsync:    "ASYNC",
	TokenAwait:    "AWAIT",
	TokenTry:      "TRY",
	TokenExcept:   "EXCEPT",
	TokenFinally:  "FINALLY",
	TokenRaise:    "RAISE",
	TokenLambda:   "LAMBDA",
	TokenGlobal:   "GLOBAL",
	TokenNonlocal: "NONLOCAL",
	TokenYield:    "YIELD",
	TokenDel:      "DEL",
	TokenIs:       "IS",
	TokenMatch:    "MATCH",
	TokenCase:     "CASE",

	TokenPlus:        "PLUS",
	TokenMinus:       "MINUS",
	TokenStar:        "STAR",
	TokenSlash:       "SLASH",
	TokenDoubleSlash: "DOUBLE_SLASH",
	TokenPercent:     "PERCENT",
	TokenDoubleStar:  "DOUBLE_STAR",
	TokenAt:          "AT",

	TokenAssign:            "ASSIGN",
	TokenPlusAssign:        "PLUS_ASSIGN",
	TokenMinusAssign:       "MINUS_ASSIGN",
	TokenStarAssign:        "STAR_ASSIGN",
	TokenSlashAssign:       "SLASH_ASSIGN",
	TokenDoubleSlashAssign: "DOUBLE_SLASH_ASSIGN",
	TokenPercentAssign:     "PERCENT_ASSIGN",
	TokenDoubleStarAssign:  "DOUBLE_STAR_ASSIGN",
	TokenAtAssign:          "AT_ASSIGN",
	TokenAmpAssign:         "AMP_ASSIGN",
	TokenPipeAssign:        "PIPE_ASSIGN",
	TokenCaretAssign:       "CARET_ASSIGN",
	TokenShiftLeftAssign:   "SHIFT_LEFT_ASSIGN",
	TokenShiftRightAssign:  "SHIFT_RIGHT_ASSIGN",

	TokenEq: "EQ",
	TokenNe: "NE",
	TokenLt: "LT",
	TokenLe: "LE",
	TokenGt: "GT",
	TokenGe: "GE",

	TokenAmp:        "AMP",
	TokenPipe:       "PIPE",
	TokenCaret:      "CARET",
	TokenTilde:      "TILDE",
	TokenShiftLeft:  "SHIFT_LEFT",
	TokenShiftRight: "SHIFT_RIGHT",

	TokenWalrus:   "WALRUS",
	TokenArrow:    "ARROW",
	TokenEllipsis: "ELLIPSIS",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenComma:     "COMMA",
	TokenDot:       "DOT",
	TokenColon:     "COLON",
	TokenSemicolon: "SEMICOLON",
}

// keywords maps keyword spellings to their token types. Note that match and
// case are reserved words in Cheetah, unlike Python's soft keywords.
var keywords = map[string]TokenType{
	"def":      TokenDef,
	"return":   TokenReturn,
	"if":       TokenIf,
	"elif":     TokenElif,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"in":       TokenIn,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"pass":     TokenPass,
	"import":   TokenImport,
	"from":     TokenFrom,
	"as":       TokenAs,
	"True":     TokenTrue,
	"False":    TokenFalse,
	"None":     TokenNone,
	"and":      TokenAnd,
	"or":       TokenOr,
	"not":      TokenNot,
	"class":    TokenClass,
	"with":     TokenWith,
	"assert":   TokenAssert,
	"async":    TokenAsync,
	"await":    TokenAwait,
	"try":      TokenTry,
	"except":   TokenExcept,
	"finally":  TokenFinally,
	"raise":    TokenRaise,
	"lambda":   TokenLambda,
	"global":   TokenGlobal,
	"nonlocal": TokenNonlocal,
	"yield":    TokenYield,
	"del":      TokenDel,
	"is":       TokenIs,
	"match":    TokenMatch,
	"case":     TokenCase,
}

// lookupIdent returns the keyword token type for ident, or TokenIdentifier.
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// StringFlags records the prefix flags of a string literal.
type StringFlags uint8

const (
	FlagRaw StringFlags = 1 << iota
	FlagBytes
	FlagFString
)

// FStringSegment is one piece of an f-string payload: either a run of
// literal text (already escape-decoded) or the source of an embedded
// expression, to be re-parsed by the parser.
type FStringSegment struct {
	IsExpr     bool
	Text       string // decoded literal text, or expression source
	Conversion byte   // 'r', 's', 'a', or 0 when absent
	FormatSpec string // raw format spec following ':', may nest braces
	SelfDoc    bool   // '=' self-documenting shorthand
	Line       int    // segment start position in the enclosing file
	Column     int
}

// Token is a lexical unit with its source span and, for literal kinds, the
// decoded payload. Exactly one payload field is meaningful per kind.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   position.Span

	Int      *big.Int         // TokenInt
	Float    float64          // TokenFloat, and the magnitude of TokenImag
	Str      string           // TokenString payload, or TokenError message
	Bytes    []byte           // TokenBytes
	Flags    StringFlags      // string-family tokens
	Segments []FStringSegment // TokenFString
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Lexeme: %q, Line: %d, Column: %d}",
		t.Type.String(), t.Lexeme, t.Span.Start.Line, t.Span.Start.Column)
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool { return t.Type == tt }

// augAssignTokens is the set of augmented assignment operators.
var augAssignTokens = map[TokenType]bool{
	TokenPlusAssign:        true,
	TokenMinusAssign:       true,
	TokenStarAssign:        true,
	TokenSlashAssign:       true,
	TokenDoubleSlashAssign: true,
	TokenPercentAssign:     true,
	TokenDoubleStarAssign:  true,
	TokenAtAssign:          true,
	TokenAmpAssign:         true,
	TokenPipeAssign:        true,
	TokenCaretAssign:       true,
	TokenShiftLeftAssign:   true,
	TokenShiftRightAssign:  true,
}

// IsAugAssign reports whether the token is an augmented assignment operator.
func (t Token) IsAugAssign() bool { return augAssignTokens[t.Type] }
