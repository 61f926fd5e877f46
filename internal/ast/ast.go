// Package ast defines the abstract syntax tree for Cheetah source files.
// Nodes form a closed set of statement, expression, and pattern variants.
// Every node owns its children exclusively and carries the source span it
// covers, so later phases can report diagnostics without re-lexing.
package ast

import (
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// GetSpan returns the source span covered by this node.
	GetSpan() position.Span
	// String returns a compact source-like rendering of the node.
	String() string
}

// Statement is implemented by all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is implemented by all match-case pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// Module is the root of the tree: one parsed source file.
type Module struct {
	Span position.Span
	Body []Statement
}

func (m *Module) GetSpan() position.Span { return m.Span }
func (m *Module) String() string {
	parts := make([]string, len(m.Body))
	for i, stmt := range m.Body {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, "\n")
}

// Param is one formal parameter with optional annotation and default.
type Param struct {
	Span       position.Span
	Name       string
	Annotation Expression // nil when absent
	Default    Expression // nil when absent
}

func (p *Param) GetSpan() position.Span { return p.Span }
func (p *Param) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Annotation != nil {
		b.WriteString(": ")
		b.WriteString(p.Annotation.String())
	}
	if p.Default != nil {
		b.WriteString(" = ")
		b.WriteString(p.Default.String())
	}
	return b.String()
}

// Parameters is a full parameter list: positional parameters, an optional
// *args, keyword-only parameters, and an optional **kwargs.
type Parameters struct {
	Span   position.Span
	Pos    []*Param
	VarArg *Param // nil when absent; a bare * has VarArg.Name == ""
	KwOnly []*Param
	KwArg  *Param // nil when absent
}

func (p *Parameters) GetSpan() position.Span { return p.Span }
func (p *Parameters) String() string {
	var parts []string
	for _, param := range p.Pos {
		parts = append(parts, param.String())
	}
	if p.VarArg != nil {
		parts = append(parts, "*"+p.VarArg.String())
	} else if len(p.KwOnly) > 0 {
		parts = append(parts, "*")
	}
	for _, param := range p.KwOnly {
		parts = append(parts, param.String())
	}
	if p.KwArg != nil {
		parts = append(parts, "**"+p.KwArg.String())
	}
	return strings.Join(parts, ", ")
}

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	Span       position.Span
	Name       string
	Params     *Parameters
	Body       []Statement
	Decorators []Expression
	Returns    Expression // nil when absent
	IsAsync    bool
}

func (f *FunctionDef) statementNode()         {}
func (f *FunctionDef) GetSpan() position.Span { return f.Span }
func (f *FunctionDef) String() string {
	var b strings.Builder
	if f.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(f.Name)
	b.WriteByte('(')
	b.WriteString(f.Params.String())
	b.WriteByte(')')
	if f.Returns != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Returns.String())
	}
	b.WriteString(": ...")
	return b.String()
}

// Keyword is a keyword argument in a call or class header. An empty Name
// means a **kwargs expansion.
type Keyword struct {
	Span  position.Span
	Name  string
	Value Expression
}

func (k *Keyword) GetSpan() position.Span { return k.Span }
func (k *Keyword) String() string {
	if k.Name == "" {
		return "**" + k.Value.String()
	}
	return k.Name + "=" + k.Value.String()
}

// ClassDef is a class statement.
type ClassDef struct {
	Span       position.Span
	Name       string
	Bases      []Expression
	Keywords   []*Keyword
	Body       []Statement
	Decorators []Expression
}

func (c *ClassDef) statementNode()         {}
func (c *ClassDef) GetSpan() position.Span { return c.Span }
func (c *ClassDef) String() string {
	var parts []string
	for _, base := range c.Bases {
		parts = append(parts, base.String())
	}
	for _, kw := range c.Keywords {
		parts = append(parts, kw.String())
	}
	if len(parts) == 0 {
		return "class " + c.Name + ": ..."
	}
	return "class " + c.Name + "(" + strings.Join(parts, ", ") + "): ..."
}

// Return is a return statement, with or without a value.
type Return struct {
	Span  position.Span
	Value Expression // nil for a bare return
}

func (r *Return) statementNode()         {}
func (r *Return) GetSpan() position.Span { return r.Span }
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// Delete is a del statement.
type Delete struct {
	Span    position.Span
	Targets []Expression
}

func (d *Delete) statementNode()         {}
func (d *Delete) GetSpan() position.Span { return d.Span }
func (d *Delete) String() string         { return "del " + joinExprs(d.Targets, ", ") }

// Assign is an assignment, possibly chained: a = b = value.
type Assign struct {
	Span    position.Span
	Targets []Expression
	Value   Expression
}

func (a *Assign) statementNode()         {}
func (a *Assign) GetSpan() position.Span { return a.Span }
func (a *Assign) String() string {
	return joinExprs(a.Targets, " = ") + " = " + a.Value.String()
}

// AugAssign is an augmented assignment such as x += 1.
type AugAssign struct {
	Span   position.Span
	Target Expression
	Op     Operator
	Value  Expression
}

func (a *AugAssign) statementNode()         {}
func (a *AugAssign) GetSpan() position.Span { return a.Span }
func (a *AugAssign) String() string {
	return a.Target.String() + " " + a.Op.String() + "= " + a.Value.String()
}

// AnnAssign is an annotated assignment: x: int = 1, or a bare annotation.
type AnnAssign struct {
	Span       position.Span
	Target     Expression
	Annotation Expression
	Value      Expression // nil for a bare annotation
}

func (a *AnnAssign) statementNode()         {}
func (a *AnnAssign) GetSpan() position.Span { return a.Span }
func (a *AnnAssign) String() string {
	s := a.Target.String() + ": " + a.Annotation.String()
	if a.Value != nil {
		s += " = " + a.Value.String()
	}
	return s
}

// For is a for or async for loop with an optional else suite.
type For struct {
	Span    position.Span
	Target  Expression
	Iter    Expression
	Body    []Statement
	Else    []Statement
	IsAsync bool
}

func (f *For) statementNode()         {}
func (f *For) GetSpan() position.Span { return f.Span }
func (f *For) String() string {
	prefix := ""
	if f.IsAsync {
		prefix = "async "
	}
	return prefix + "for " + f.Target.String() + " in " + f.Iter.String() + ": ..."
}

// While is a while loop with an optional else suite.
type While struct {
	Span position.Span
	Cond Expression
	Body []Statement
	Else []Statement
}

func (w *While) statementNode()         {}
func (w *While) GetSpan() position.Span { return w.Span }
func (w *While) String() string         { return "while " + w.Cond.String() + ": ..." }

// If is a conditional. An elif chain nests as a single If inside Else.
type If struct {
	Span position.Span
	Cond Expression
	Body []Statement
	Else []Statement
}

func (i *If) statementNode()         {}
func (i *If) GetSpan() position.Span { return i.Span }
func (i *If) String() string         { return "if " + i.Cond.String() + ": ..." }

// WithItem is one context manager in a with statement.
type WithItem struct {
	Span    position.Span
	Context Expression
	Vars    Expression // nil when there is no "as" clause
}

func (w *WithItem) GetSpan() position.Span { return w.Span }
func (w *WithItem) String() string {
	if w.Vars == nil {
		return w.Context.String()
	}
	return w.Context.String() + " as " + w.Vars.String()
}

// With is a with or async with statement.
type With struct {
	Span    position.Span
	Items   []*WithItem
	Body    []Statement
	IsAsync bool
}

func (w *With) statementNode()         {}
func (w *With) GetSpan() position.Span { return w.Span }
func (w *With) String() string {
	parts := make([]string, len(w.Items))
	for i, item := range w.Items {
		parts[i] = item.String()
	}
	prefix := ""
	if w.IsAsync {
		prefix = "async "
	}
	return prefix + "with " + strings.Join(parts, ", ") + ": ..."
}

// MatchCase is one case clause of a match statement.
type MatchCase struct {
	Span    position.Span
	Pattern Pattern
	Guard   Expression // nil when there is no if guard
	Body    []Statement
}

func (m *MatchCase) GetSpan() position.Span { return m.Span }
func (m *MatchCase) String() string {
	s := "case " + m.Pattern.String()
	if m.Guard != nil {
		s += " if " + m.Guard.String()
	}
	return s + ": ..."
}

// Match is a match statement.
type Match struct {
	Span    position.Span
	Subject Expression
	Cases   []*MatchCase
}

func (m *Match) statementNode()         {}
func (m *Match) GetSpan() position.Span { return m.Span }
func (m *Match) String() string         { return "match " + m.Subject.String() + ": ..." }

// Raise is a raise statement, optionally chained with from.
type Raise struct {
	Span  position.Span
	Exc   Expression // nil for a bare re-raise
	Cause Expression // nil when there is no from clause
}

func (r *Raise) statementNode()         {}
func (r *Raise) GetSpan() position.Span { return r.Span }
func (r *Raise) String() string {
	if r.Exc == nil {
		return "raise"
	}
	s := "raise " + r.Exc.String()
	if r.Cause != nil {
		s += " from " + r.Cause.String()
	}
	return s
}

// ExceptHandler is one except clause.
type ExceptHandler struct {
	Span position.Span
	Type Expression // nil for a bare except
	Name string     // "" when there is no "as" binding
	Body []Statement
}

func (e *ExceptHandler) GetSpan() position.Span { return e.Span }
func (e *ExceptHandler) String() string {
	if e.Type == nil {
		return "except: ..."
	}
	s := "except " + e.Type.String()
	if e.Name != "" {
		s += " as " + e.Name
	}
	return s + ": ..."
}

// Try is a try statement with its handler, else, and finally suites.
type Try struct {
	Span     position.Span
	Body     []Statement
	Handlers []*ExceptHandler
	Else     []Statement
	Finally  []Statement
}

func (t *Try) statementNode()         {}
func (t *Try) GetSpan() position.Span { return t.Span }
func (t *Try) String() string         { return "try: ..." }

// Assert is an assert statement with an optional message.
type Assert struct {
	Span position.Span
	Test Expression
	Msg  Expression // nil when absent
}

func (a *Assert) statementNode()         {}
func (a *Assert) GetSpan() position.Span { return a.Span }
func (a *Assert) String() string {
	s := "assert " + a.Test.String()
	if a.Msg != nil {
		s += ", " + a.Msg.String()
	}
	return s
}

// Alias is one imported name with an optional rename.
type Alias struct {
	Span   position.Span
	Name   string
	AsName string // "" when there is no "as" clause
}

func (a *Alias) GetSpan() position.Span { return a.Span }
func (a *Alias) String() string {
	if a.AsName == "" {
		return a.Name
	}
	return a.Name + " as " + a.AsName
}

// Import is an import statement.
type Import struct {
	Span  position.Span
	Names []*Alias
}

func (i *Import) statementNode()         {}
func (i *Import) GetSpan() position.Span { return i.Span }
func (i *Import) String() string {
	parts := make([]string, len(i.Names))
	for k, a := range i.Names {
		parts[k] = a.String()
	}
	return "import " + strings.Join(parts, ", ")
}

// ImportFrom is a from-import. Level counts leading dots for relative
// imports; Module is "" for a purely relative import like "from . import x".
type ImportFrom struct {
	Span   position.Span
	Module string
	Names  []*Alias // a single Alias with Name "*" for star imports
	Level  int
}

func (i *ImportFrom) statementNode()         {}
func (i *ImportFrom) GetSpan() position.Span { return i.Span }
func (i *ImportFrom) String() string {
	parts := make([]string, len(i.Names))
	for k, a := range i.Names {
		parts[k] = a.String()
	}
	return "from " + strings.Repeat(".", i.Level) + i.Module +
		" import " + strings.Join(parts, ", ")
}

// Global is a global declaration.
type Global struct {
	Span  position.Span
	Names []string
}

func (g *Global) statementNode()         {}
func (g *Global) GetSpan() position.Span { return g.Span }
func (g *Global) String() string         { return "global " + strings.Join(g.Names, ", ") }

// Nonlocal is a nonlocal declaration.
type Nonlocal struct {
	Span  position.Span
	Names []string
}

func (n *Nonlocal) statementNode()         {}
func (n *Nonlocal) GetSpan() position.Span { return n.Span }
func (n *Nonlocal) String() string         { return "nonlocal " + strings.Join(n.Names, ", ") }

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Span  position.Span
	Value Expression
}

func (e *ExprStmt) statementNode()         {}
func (e *ExprStmt) GetSpan() position.Span { return e.Span }
func (e *ExprStmt) String() string         { return e.Value.String() }

// Pass is a pass statement.
type Pass struct {
	Span position.Span
}

func (p *Pass) statementNode()         {}
func (p *Pass) GetSpan() position.Span { return p.Span }
func (p *Pass) String() string         { return "pass" }

// Break is a break statement.
type Break struct {
	Span position.Span
}

func (b *Break) statementNode()         {}
func (b *Break) GetSpan() position.Span { return b.Span }
func (b *Break) String() string         { return "break" }

// Continue is a continue statement.
type Continue struct {
	Span position.Span
}

func (c *Continue) statementNode()         {}
func (c *Continue) GetSpan() position.Span { return c.Span }
func (c *Continue) String() string         { return "continue" }

func joinExprs(exprs []Expression, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
