package parser

import (
	"fmt"

	"github.com/Hayden-Liles/Cheetah/internal/lexer"
)

// ErrorKind classifies parse errors.
type ErrorKind int

const (
	// UnexpectedToken marks a token that fits no grammar rule at its
	// position, or a missing expected token.
	UnexpectedToken ErrorKind = iota
	// InvalidSyntax marks a construct that parses shallowly but violates a
	// structural rule, such as an illegal assignment target.
	InvalidSyntax
	// EOF marks input that ended mid-construct.
	EOF
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case InvalidSyntax:
		return "InvalidSyntax"
	case EOF:
		return "EOF"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is one parse error, localized to a line and column.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// fromLexError wraps a lexical error so callers see one unified error list.
func fromLexError(le lexer.Error) Error {
	return Error{
		Kind:    InvalidSyntax,
		Message: le.Message,
		Line:    le.Line,
		Column:  le.Column,
	}
}
