// Package diag renders lexer and parser errors as terminal diagnostics.
// Errors travel through the front end as plain data; this package is the
// only place that turns them into human-facing text, so the scanner and
// parser stay free of presentation concerns.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/parser"
	"github.com/Hayden-Liles/Cheetah/internal/source"
)

// Severity distinguishes hard errors from advisory output.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one renderable finding. Category is the human
// classification ("syntax error", "lexical error", "version error"),
// Message the specific complaint, and Suggestion an optional hint shown
// on its own help line.
type Diagnostic struct {
	Severity   Severity
	Category   string
	Message    string
	Filename   string
	Line       int
	Column     int
	Width      int // caret width in runes, rendered as at least 1
	LineText   string
	Suggestion string
}

// FromLexError converts a scanner error. The scanner already captured the
// offending line, so these diagnostics render without a source handle.
func FromLexError(e lexer.Error, filename string) Diagnostic {
	return Diagnostic{
		Severity:   SeverityError,
		Category:   "lexical error",
		Message:    e.Message,
		Filename:   filename,
		Line:       e.Line,
		Column:     e.Column,
		LineText:   e.LineText,
		Suggestion: e.Suggestion,
	}
}

// FromParseError converts a parser error.
func FromParseError(e parser.Error, filename string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Category: "syntax error",
		Message:  e.Message,
		Filename: filename,
		Line:     e.Line,
		Column:   e.Column,
	}
}

// FromLexErrors converts a scanner error list in order.
func FromLexErrors(errs []lexer.Error, filename string) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = FromLexError(e, filename)
	}
	return out
}

// FromParseErrors converts a parser error list in order.
func FromParseErrors(errs []parser.Error, filename string) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = FromParseError(e, filename)
	}
	return out
}

// Sort orders diagnostics by file, then line, then column, so output from
// independent pipeline stages reads top to bottom.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Render produces a message of the form:
//
//	error: syntax error
//	 --> main.ch:3:5
//	  |
//	3 | y = $
//	  |     ^ unexpected character '$'
//	  = help: remove the character
//
// file supplies the quoted source line and may be nil when the diagnostic
// carries its own LineText. withColor toggles ANSI codes globally, the
// same way the rest of the tool's color output is switched.
func (d Diagnostic) Render(file *source.File, withColor bool) string {
	color.NoColor = !withColor

	headline := color.New(color.FgRed, color.Bold).SprintFunc()
	accent := color.New(color.FgRed).SprintFunc()
	if d.Severity == SeverityWarning {
		headline = color.New(color.FgYellow, color.Bold).SprintFunc()
		accent = color.New(color.FgYellow).SprintFunc()
	}
	gutter := color.New(color.FgBlue).SprintFunc()

	srcLine := d.LineText
	if file != nil {
		if fromFile := file.Line(d.Line); fromFile != "" {
			srcLine = fromFile
		}
	}

	lineNum := fmt.Sprintf("%d", d.Line)
	pad := strings.Repeat(" ", utf8.RuneCountInString(lineNum))

	var out []string
	out = append(out, headline(fmt.Sprintf("%s: %s", d.Severity, d.Category)))
	out = append(out, fmt.Sprintf(" %s%s %s:%d:%d",
		pad, gutter("-->"), d.Filename, d.Line, d.Column))

	if srcLine != "" {
		width := d.Width
		if width < 1 {
			width = 1
		}
		caretPad := strings.Repeat(" ", d.Column-1)
		carets := strings.Repeat("^", width)
		out = append(out, gutter(fmt.Sprintf(" %s |", pad)))
		out = append(out, fmt.Sprintf(" %s %s %s", gutter(lineNum), gutter("|"), srcLine))
		out = append(out, fmt.Sprintf(" %s %s %s%s %s",
			pad, gutter("|"), caretPad, accent(carets), accent(d.Message)))
	} else {
		out = append(out, fmt.Sprintf(" %s %s %s", pad, gutter("="), d.Message))
	}

	if d.Suggestion != "" {
		out = append(out, fmt.Sprintf(" %s %s %s", pad, gutter("="), "help: "+d.Suggestion))
	}

	return strings.Join(out, "\n")
}

// RenderAll renders every diagnostic separated by blank lines.
func RenderAll(diags []Diagnostic, file *source.File, withColor bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Render(file, withColor)
	}
	return strings.Join(parts, "\n\n")
}
