package lexer

import "fmt"

// ErrorKind classifies lexical errors so downstream tooling can react to
// categories rather than parsing message text.
type ErrorKind int

const (
	InvalidCharacter ErrorKind = iota
	UnterminatedString
	MalformedNumber
	InvalidEscape
	InconsistentIndentation
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnterminatedString:
		return "UnterminatedString"
	case MalformedNumber:
		return "MalformedNumber"
	case InvalidEscape:
		return "InvalidEscape"
	case InconsistentIndentation:
		return "InconsistentIndentation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a structured lexical error. The lexer accumulates these and keeps
// scanning; it never aborts on malformed input.
type Error struct {
	Kind       ErrorKind
	Message    string
	Line       int
	Column     int
	LineText   string // the offending source line, for diagnostics
	Suggestion string // optional hint, empty when none applies
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (l *Lexer) addError(kind ErrorKind, line, column int, message string) {
	l.addErrorWithSuggestion(kind, line, column, message, "")
}

func (l *Lexer) addErrorWithSuggestion(kind ErrorKind, line, column int, message, suggestion string) {
	// Indentation checks can re-visit a line; avoid duplicate reports.
	for _, e := range l.errors {
		if e.Line == line && e.Message == message {
			return
		}
	}
	l.errors = append(l.errors, Error{
		Kind:       kind,
		Message:    message,
		Line:       line,
		Column:     column,
		LineText:   l.lineText(line),
		Suggestion: suggestion,
	})
}

// lineText returns the 1-based source line for error context.
func (l *Lexer) lineText(line int) string {
	if line < 1 {
		return ""
	}
	n := 1
	start := 0
	for i := 0; i < len(l.input) && n < line; i++ {
		if l.input[i] == '\n' {
			n++
			start = i + 1
		}
	}
	if n < line {
		return ""
	}
	end := start
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	text := l.input[start:end]
	if len(text) > 0 && text[len(text)-1] == '\r' {
		text = text[:len(text)-1]
	}
	return text
}
