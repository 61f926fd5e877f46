package diag

import (
	"strings"
	"testing"

	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/parser"
	"github.com/Hayden-Liles/Cheetah/internal/source"
)

func TestRenderParseError(t *testing.T) {
	file := source.NewFile("main.ch", "x = 1\ny = $\n")
	d := FromParseError(parser.Error{
		Kind:    parser.InvalidSyntax,
		Message: "unexpected character '$'",
		Line:    2,
		Column:  5,
	}, "main.ch")

	got := d.Render(file, false)
	want := strings.Join([]string{
		"error: syntax error",
		"  --> main.ch:2:5",
		"   |",
		" 2 | y = $",
		"   |     ^ unexpected character '$'",
	}, "\n")
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderLexErrorWithSuggestion(t *testing.T) {
	d := FromLexError(lexer.Error{
		Kind:       lexer.UnterminatedString,
		Message:    "unterminated string literal",
		Line:       1,
		Column:     5,
		LineText:   `s = "abc`,
		Suggestion: `add a closing "..."`,
	}, "main.ch")

	got := d.Render(nil, false)
	if !strings.Contains(got, "error: lexical error") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, `s = "abc`) {
		t.Errorf("missing quoted line:\n%s", got)
	}
	if !strings.Contains(got, `help: add a closing "..."`) {
		t.Errorf("missing help line:\n%s", got)
	}
}

func TestRenderWithoutSourceLine(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Category: "version error",
		Message:  "cheetah 1.2.0 does not satisfy '>= 2.0'",
		Filename: "main.ch",
		Line:     1,
		Column:   1,
	}
	got := d.Render(nil, false)
	if strings.Contains(got, "^") {
		t.Errorf("caret without a source line:\n%s", got)
	}
	if !strings.Contains(got, "does not satisfy") {
		t.Errorf("missing message:\n%s", got)
	}
}

func TestRenderWarningSeverity(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: "version notice",
		Message:  "directive found after code",
		Filename: "main.ch",
		Line:     4,
		Column:   1,
		LineText: "# requires-cheetah: >= 1.0",
	}
	got := d.Render(nil, false)
	if !strings.HasPrefix(got, "warning:") {
		t.Errorf("header = %q", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestCaretWidth(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Category: "syntax error",
		Message:  "cannot assign to literal",
		Filename: "main.ch",
		Line:     1,
		Column:   1,
		Width:    3,
		LineText: "123 = x",
	}
	got := d.Render(nil, false)
	if !strings.Contains(got, "^^^") {
		t.Errorf("want 3-wide caret:\n%s", got)
	}
}

func TestSortOrdersByPosition(t *testing.T) {
	diags := []Diagnostic{
		{Filename: "b.ch", Line: 1, Column: 1},
		{Filename: "a.ch", Line: 3, Column: 1},
		{Filename: "a.ch", Line: 1, Column: 9},
		{Filename: "a.ch", Line: 1, Column: 2},
	}
	Sort(diags)
	if diags[0].Filename != "a.ch" || diags[0].Column != 2 {
		t.Errorf("first = %+v", diags[0])
	}
	if diags[3].Filename != "b.ch" {
		t.Errorf("last = %+v", diags[3])
	}
}

func TestRenderAllSeparatesDiagnostics(t *testing.T) {
	file := source.NewFile("main.ch", "a = $\nb = $\n")
	errs := []parser.Error{
		{Kind: parser.InvalidSyntax, Message: "unexpected character '$'", Line: 1, Column: 5},
		{Kind: parser.InvalidSyntax, Message: "unexpected character '$'", Line: 2, Column: 5},
	}
	got := RenderAll(FromParseErrors(errs, "main.ch"), file, false)
	if strings.Count(got, "error: syntax error") != 2 {
		t.Errorf("rendered:\n%s", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Error("diagnostics not blank-line separated")
	}
}
