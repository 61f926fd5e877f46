package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// Operator is a binary arithmetic or bitwise operator, also used by
// augmented assignments.
type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	MatMult
	Div
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
)

var operatorNames = [...]string{
	Add: "+", Sub: "-", Mult: "*", MatMult: "@", Div: "/", FloorDiv: "//",
	Mod: "%", Pow: "**", LShift: "<<", RShift: ">>", BitOr: "|",
	BitXor: "^", BitAnd: "&",
}

func (op Operator) String() string { return operatorNames[op] }

// UnaryOperator is a unary prefix operator.
type UnaryOperator int

const (
	UAdd UnaryOperator = iota
	USub
	Invert
	Not
)

var unaryNames = [...]string{UAdd: "+", USub: "-", Invert: "~", Not: "not "}

func (op UnaryOperator) String() string { return unaryNames[op] }

// BoolOperator is a short-circuit boolean operator.
type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

func (op BoolOperator) String() string {
	if op == And {
		return "and"
	}
	return "or"
}

// CmpOp is one comparison operator in a (possibly chained) comparison.
type CmpOp int

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpNames = [...]string{
	Eq: "==", NotEq: "!=", Lt: "<", LtE: "<=", Gt: ">", GtE: ">=",
	Is: "is", IsNot: "is not", In: "in", NotIn: "not in",
}

func (op CmpOp) String() string { return cmpNames[op] }

// BoolOp is an n-ary and/or chain: all values share one operator.
type BoolOp struct {
	Span   position.Span
	Op     BoolOperator
	Values []Expression
}

func (b *BoolOp) expressionNode()        {}
func (b *BoolOp) GetSpan() position.Span { return b.Span }
func (b *BoolOp) String() string {
	return "(" + joinExprs(b.Values, " "+b.Op.String()+" ") + ")"
}

// NamedExpr is a walrus assignment expression: (name := value).
type NamedExpr struct {
	Span   position.Span
	Target *Name
	Value  Expression
}

func (n *NamedExpr) expressionNode()        {}
func (n *NamedExpr) GetSpan() position.Span { return n.Span }
func (n *NamedExpr) String() string {
	return "(" + n.Target.String() + " := " + n.Value.String() + ")"
}

// BinOp is a binary operation.
type BinOp struct {
	Span  position.Span
	Left  Expression
	Op    Operator
	Right Expression
}

func (b *BinOp) expressionNode()        {}
func (b *BinOp) GetSpan() position.Span { return b.Span }
func (b *BinOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// UnaryOp is a unary prefix operation.
type UnaryOp struct {
	Span    position.Span
	Op      UnaryOperator
	Operand Expression
}

func (u *UnaryOp) expressionNode()        {}
func (u *UnaryOp) GetSpan() position.Span { return u.Span }
func (u *UnaryOp) String() string {
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

// Lambda is an anonymous function expression.
type Lambda struct {
	Span   position.Span
	Params *Parameters
	Body   Expression
}

func (l *Lambda) expressionNode()        {}
func (l *Lambda) GetSpan() position.Span { return l.Span }
func (l *Lambda) String() string {
	params := l.Params.String()
	if params == "" {
		return "(lambda: " + l.Body.String() + ")"
	}
	return "(lambda " + params + ": " + l.Body.String() + ")"
}

// IfExp is a conditional expression: body if cond else alternative.
type IfExp struct {
	Span position.Span
	Cond Expression
	Body Expression
	Else Expression
}

func (i *IfExp) expressionNode()        {}
func (i *IfExp) GetSpan() position.Span { return i.Span }
func (i *IfExp) String() string {
	return "(" + i.Body.String() + " if " + i.Cond.String() + " else " + i.Else.String() + ")"
}

// Dict is a dictionary display. A nil key marks a **mapping expansion for
// the value at the same index.
type Dict struct {
	Span   position.Span
	Keys   []Expression
	Values []Expression
}

func (d *Dict) expressionNode()        {}
func (d *Dict) GetSpan() position.Span { return d.Span }
func (d *Dict) String() string {
	parts := make([]string, len(d.Values))
	for i := range d.Values {
		if d.Keys[i] == nil {
			parts[i] = "**" + d.Values[i].String()
		} else {
			parts[i] = d.Keys[i].String() + ": " + d.Values[i].String()
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set is a set display.
type Set struct {
	Span position.Span
	Elts []Expression
}

func (s *Set) expressionNode()        {}
func (s *Set) GetSpan() position.Span { return s.Span }
func (s *Set) String() string         { return "{" + joinExprs(s.Elts, ", ") + "}" }

// Comprehension is one for clause of a comprehension, with its filters.
type Comprehension struct {
	Span    position.Span
	Target  Expression
	Iter    Expression
	Ifs     []Expression
	IsAsync bool
}

func (c *Comprehension) GetSpan() position.Span { return c.Span }
func (c *Comprehension) String() string {
	var b strings.Builder
	if c.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("for ")
	b.WriteString(c.Target.String())
	b.WriteString(" in ")
	b.WriteString(c.Iter.String())
	for _, cond := range c.Ifs {
		b.WriteString(" if ")
		b.WriteString(cond.String())
	}
	return b.String()
}

func joinGenerators(gens []*Comprehension) string {
	parts := make([]string, len(gens))
	for i, g := range gens {
		parts[i] = g.String()
	}
	return strings.Join(parts, " ")
}

// ListComp is a list comprehension.
type ListComp struct {
	Span       position.Span
	Elt        Expression
	Generators []*Comprehension
}

func (l *ListComp) expressionNode()        {}
func (l *ListComp) GetSpan() position.Span { return l.Span }
func (l *ListComp) String() string {
	return "[" + l.Elt.String() + " " + joinGenerators(l.Generators) + "]"
}

// SetComp is a set comprehension.
type SetComp struct {
	Span       position.Span
	Elt        Expression
	Generators []*Comprehension
}

func (s *SetComp) expressionNode()        {}
func (s *SetComp) GetSpan() position.Span { return s.Span }
func (s *SetComp) String() string {
	return "{" + s.Elt.String() + " " + joinGenerators(s.Generators) + "}"
}

// DictComp is a dictionary comprehension.
type DictComp struct {
	Span       position.Span
	Key        Expression
	Value      Expression
	Generators []*Comprehension
}

func (d *DictComp) expressionNode()        {}
func (d *DictComp) GetSpan() position.Span { return d.Span }
func (d *DictComp) String() string {
	return "{" + d.Key.String() + ": " + d.Value.String() + " " +
		joinGenerators(d.Generators) + "}"
}

// GeneratorExp is a generator expression.
type GeneratorExp struct {
	Span       position.Span
	Elt        Expression
	Generators []*Comprehension
}

func (g *GeneratorExp) expressionNode()        {}
func (g *GeneratorExp) GetSpan() position.Span { return g.Span }
func (g *GeneratorExp) String() string {
	return "(" + g.Elt.String() + " " + joinGenerators(g.Generators) + ")"
}

// Await is an await expression.
type Await struct {
	Span  position.Span
	Value Expression
}

func (a *Await) expressionNode()        {}
func (a *Await) GetSpan() position.Span { return a.Span }
func (a *Await) String() string         { return "(await " + a.Value.String() + ")" }

// Yield is a yield expression, with or without a value.
type Yield struct {
	Span  position.Span
	Value Expression // nil for a bare yield
}

func (y *Yield) expressionNode()        {}
func (y *Yield) GetSpan() position.Span { return y.Span }
func (y *Yield) String() string {
	if y.Value == nil {
		return "(yield)"
	}
	return "(yield " + y.Value.String() + ")"
}

// YieldFrom is a yield from expression.
type YieldFrom struct {
	Span  position.Span
	Value Expression
}

func (y *YieldFrom) expressionNode()        {}
func (y *YieldFrom) GetSpan() position.Span { return y.Span }
func (y *YieldFrom) String() string         { return "(yield from " + y.Value.String() + ")" }

// Compare is a chained comparison: one left operand, then parallel operator
// and comparator lists. a < b <= c has Ops [Lt, LtE] and Comparators [b, c].
type Compare struct {
	Span        position.Span
	Left        Expression
	Ops         []CmpOp
	Comparators []Expression
}

func (c *Compare) expressionNode()        {}
func (c *Compare) GetSpan() position.Span { return c.Span }
func (c *Compare) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(c.Left.String())
	for i, op := range c.Ops {
		b.WriteString(" " + op.String() + " ")
		b.WriteString(c.Comparators[i].String())
	}
	b.WriteByte(')')
	return b.String()
}

// Call is a function call. Starred positional arguments appear in Args as
// Starred nodes; **kwargs appear in Keywords with an empty name.
type Call struct {
	Span     position.Span
	Func     Expression
	Args     []Expression
	Keywords []*Keyword
}

func (c *Call) expressionNode()        {}
func (c *Call) GetSpan() position.Span { return c.Span }
func (c *Call) String() string {
	var parts []string
	for _, arg := range c.Args {
		parts = append(parts, arg.String())
	}
	for _, kw := range c.Keywords {
		parts = append(parts, kw.String())
	}
	return c.Func.String() + "(" + strings.Join(parts, ", ") + ")"
}

// FormattedValue is one expression field of an f-string. Conversion holds
// 'r', 's', 'a', or 0; FormatSpec is the raw spec text after ':'.
type FormattedValue struct {
	Span       position.Span
	Value      Expression
	Conversion byte
	FormatSpec string
}

func (f *FormattedValue) expressionNode()        {}
func (f *FormattedValue) GetSpan() position.Span { return f.Span }
func (f *FormattedValue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(f.Value.String())
	if f.Conversion != 0 {
		b.WriteByte('!')
		b.WriteByte(f.Conversion)
	}
	if f.FormatSpec != "" {
		b.WriteByte(':')
		b.WriteString(f.FormatSpec)
	}
	b.WriteByte('}')
	return b.String()
}

// JoinedStr is an f-string: alternating string Constants and
// FormattedValues, in source order.
type JoinedStr struct {
	Span  position.Span
	Parts []Expression
}

func (j *JoinedStr) expressionNode()        {}
func (j *JoinedStr) GetSpan() position.Span { return j.Span }
func (j *JoinedStr) String() string {
	var b strings.Builder
	b.WriteString(`f"`)
	for _, part := range j.Parts {
		if c, ok := part.(*Constant); ok && c.Kind == ConstStr {
			b.WriteString(c.Str)
			continue
		}
		b.WriteString(part.String())
	}
	b.WriteByte('"')
	return b.String()
}

// ConstKind discriminates the payload of a Constant.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstImag
	ConstStr
	ConstBytes
	ConstEllipsis
)

var constKindNames = [...]string{
	ConstNone: "None", ConstBool: "Bool", ConstInt: "Int",
	ConstFloat: "Float", ConstImag: "Imag", ConstStr: "Str",
	ConstBytes: "Bytes", ConstEllipsis: "Ellipsis",
}

func (k ConstKind) String() string { return constKindNames[k] }

// Constant is a literal value. Exactly the payload field named by Kind is
// meaningful.
type Constant struct {
	Span  position.Span
	Kind  ConstKind
	Bool  bool
	Int   *big.Int
	Float float64 // ConstFloat value, or ConstImag magnitude
	Str   string
	Bytes []byte
}

func (c *Constant) expressionNode()        {}
func (c *Constant) GetSpan() position.Span { return c.Span }
func (c *Constant) String() string {
	switch c.Kind {
	case ConstNone:
		return "None"
	case ConstBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case ConstInt:
		return c.Int.String()
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstImag:
		return strconv.FormatFloat(c.Float, 'g', -1, 64) + "j"
	case ConstStr:
		return fmt.Sprintf("%q", c.Str)
	case ConstBytes:
		return fmt.Sprintf("b%q", c.Bytes)
	case ConstEllipsis:
		return "..."
	}
	return "<constant>"
}

// Attribute is an attribute access: value.attr.
type Attribute struct {
	Span  position.Span
	Value Expression
	Attr  string
}

func (a *Attribute) expressionNode()        {}
func (a *Attribute) GetSpan() position.Span { return a.Span }
func (a *Attribute) String() string         { return a.Value.String() + "." + a.Attr }

// Slice is a slice expression inside a subscript: lower:upper:step, any of
// which may be nil.
type Slice struct {
	Span  position.Span
	Lower Expression
	Upper Expression
	Step  Expression
}

func (s *Slice) expressionNode()        {}
func (s *Slice) GetSpan() position.Span { return s.Span }
func (s *Slice) String() string {
	var b strings.Builder
	if s.Lower != nil {
		b.WriteString(s.Lower.String())
	}
	b.WriteByte(':')
	if s.Upper != nil {
		b.WriteString(s.Upper.String())
	}
	if s.Step != nil {
		b.WriteByte(':')
		b.WriteString(s.Step.String())
	}
	return b.String()
}

// Subscript is an indexing expression: value[index]. Slices and slice
// tuples appear as the Index.
type Subscript struct {
	Span  position.Span
	Value Expression
	Index Expression
}

func (s *Subscript) expressionNode()        {}
func (s *Subscript) GetSpan() position.Span { return s.Span }
func (s *Subscript) String() string {
	return s.Value.String() + "[" + s.Index.String() + "]"
}

// Starred is a *value unpacking expression.
type Starred struct {
	Span  position.Span
	Value Expression
}

func (s *Starred) expressionNode()        {}
func (s *Starred) GetSpan() position.Span { return s.Span }
func (s *Starred) String() string         { return "*" + s.Value.String() }

// Name is an identifier reference.
type Name struct {
	Span position.Span
	ID   string
}

func (n *Name) expressionNode()        {}
func (n *Name) GetSpan() position.Span { return n.Span }
func (n *Name) String() string         { return n.ID }

// List is a list display.
type List struct {
	Span position.Span
	Elts []Expression
}

func (l *List) expressionNode()        {}
func (l *List) GetSpan() position.Span { return l.Span }
func (l *List) String() string         { return "[" + joinExprs(l.Elts, ", ") + "]" }

// Tuple is a tuple display or an unparenthesized expression list.
type Tuple struct {
	Span position.Span
	Elts []Expression
}

func (t *Tuple) expressionNode()        {}
func (t *Tuple) GetSpan() position.Span { return t.Span }
func (t *Tuple) String() string {
	if len(t.Elts) == 1 {
		return "(" + t.Elts[0].String() + ",)"
	}
	return "(" + joinExprs(t.Elts, ", ") + ")"
}
