package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/Hayden-Liles/Cheetah/internal/ast"
	"github.com/Hayden-Liles/Cheetah/internal/diag"
	"github.com/Hayden-Liles/Cheetah/internal/langver"
	"github.com/Hayden-Liles/Cheetah/internal/lexer"
	"github.com/Hayden-Liles/Cheetah/internal/parser"
	"github.com/Hayden-Liles/Cheetah/internal/source"
)

const fileExt = ".ch"

// readSourceFiles resolves each argument to an absolute path, reads it, and
// wraps it as a source.File. Arguments that cannot be read are reported and
// skipped so one bad path does not sink the whole batch.
func readSourceFiles(args []string) (files []*source.File) {
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not resolve '%s'\n", arg)
			continue
		}
		if filepath.Ext(abs) != fileExt {
			fmt.Fprintf(os.Stderr, "could not use '%s' with extension '%s'\n",
				abs, filepath.Ext(abs))
			continue
		}
		buf, err := os.ReadFile(abs)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			continue
		}
		files = append(files, source.NewFile(abs, string(buf)))
	}
	return files
}

// digest runs the whole front end over one file: the version directive
// check, the lexer, and the parser. Parser re-reports of lexer errors are
// dropped so each problem surfaces once.
func digest(f *source.File) (*ast.Module, []diag.Diagnostic) {
	var diags []diag.Diagnostic

	if v := langver.Check(f.Contents); v != nil {
		diags = append(diags, diag.Diagnostic{
			Severity: diag.SeverityError,
			Category: "version error",
			Message:  v.Message,
			Filename: f.Filename,
			Line:     v.Directive.Line,
			Column:   v.Directive.Column,
			Width:    len(v.Directive.Constraint),
			LineText: f.Line(v.Directive.Line),
		})
	}

	l := lexer.New(f.Contents, f.Filename)
	tokens := l.Tokenize()
	lexErrs := l.Errors()
	diags = append(diags, diag.FromLexErrors(lexErrs, f.Filename)...)

	echoed := make(map[parser.Error]bool)
	for _, le := range lexErrs {
		echoed[parser.Error{
			Kind:    parser.InvalidSyntax,
			Message: le.Message,
			Line:    le.Line,
			Column:  le.Column,
		}] = true
	}

	module, parseErrs := parser.Parse(tokens)
	for _, pe := range parseErrs {
		if !echoed[pe] {
			diags = append(diags, diag.FromParseError(pe, f.Filename))
		}
	}

	if len(diags) > 0 {
		diag.Sort(diags)
		return nil, diags
	}
	return module, nil
}

// report prints a file's diagnostics and returns false, or prints an ok
// line and returns true.
func report(f *source.File, diags []diag.Diagnostic) bool {
	if len(diags) == 0 {
		fmt.Printf("%s: ok\n", f.Filename)
		return true
	}
	fmt.Println(diag.RenderAll(diags, f, !noColor))
	return false
}

// lexFile prints the file's token stream, one token per line. Scanning
// always runs to the end of the input, so the stream is printed even when
// the file has lexical errors.
func lexFile(f *source.File) bool {
	l := lexer.New(f.Contents, f.Filename)
	tokens := l.Tokenize()

	fmt.Printf("# %s\n", f.Filename)
	for _, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Span.Start.Line, tok.Span.Start.Column)
		if !lexVerbose {
			fmt.Printf("%-8s %-12s %q\n", pos, tok.Type, tok.Lexeme)
			continue
		}
		line := fmt.Sprintf("%-14s %-12s %q", tok.Span, tok.Type, tok.Lexeme)
		if payload := tokenPayload(tok); payload != "" {
			line += "  " + payload
		}
		fmt.Println(line)
	}

	if errs := l.Errors(); len(errs) != 0 {
		fmt.Println(diag.RenderAll(diag.FromLexErrors(errs, f.Filename), f, !noColor))
		return false
	}
	return true
}

// tokenPayload renders a token's decoded literal value, or "" when the
// token carries none.
func tokenPayload(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenInt:
		return "= " + tok.Int.String()
	case lexer.TokenFloat:
		return "= " + strconv.FormatFloat(tok.Float, 'g', -1, 64)
	case lexer.TokenImag:
		return "= " + strconv.FormatFloat(tok.Float, 'g', -1, 64) + "j"
	case lexer.TokenString:
		return "= " + strconv.Quote(tok.Str)
	case lexer.TokenBytes:
		return fmt.Sprintf("= %q", tok.Bytes)
	case lexer.TokenFString:
		return fmt.Sprintf("= %d segment(s)", len(tok.Segments))
	default:
		return ""
	}
}

// dumpFile parses the file and prints its tree.
func dumpFile(f *source.File) bool {
	module, diags := digest(f)
	if len(diags) != 0 {
		fmt.Println(diag.RenderAll(diags, f, !noColor))
		return false
	}
	fmt.Printf("# %s\n", f.Filename)
	fmt.Println(ast.Dump(module))
	return true
}

// checkFiles digests every file concurrently, then reports in argument
// order so output stays stable regardless of which file finishes first.
func checkFiles(files []*source.File) bool {
	results := make([][]diag.Diagnostic, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			_, results[i] = digest(f)
			return nil
		})
	}
	g.Wait()

	ok := true
	for i, f := range files {
		if !report(f, results[i]) {
			ok = false
		}
	}
	return ok
}

// watchFiles checks every file once, then re-checks any file the OS
// reports as written or recreated. It runs until the watcher fails.
func watchFiles(files []*source.File) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch parent directories rather than the files themselves: editors
	// that save via rename would otherwise detach the watch.
	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[f.Filename] = true
		if err := watcher.Add(filepath.Dir(f.Filename)); err != nil {
			return err
		}
	}

	for _, f := range files {
		_, diags := digest(f)
		report(f, diags)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			buf, err := os.ReadFile(ev.Name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				continue
			}
			f := source.NewFile(ev.Name, string(buf))
			_, diags := digest(f)
			report(f, diags)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err.Error())
		}
	}
}
