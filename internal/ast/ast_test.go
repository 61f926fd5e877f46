package ast

import (
	"math/big"
	"strings"
	"testing"
)

func name(id string) *Name        { return &Name{ID: id} }
func intConst(v int64) *Constant  { return &Constant{Kind: ConstInt, Int: big.NewInt(v)} }
func strConst(s string) *Constant { return &Constant{Kind: ConstStr, Str: s} }

func TestStatementRendering(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{
			name: "assignment",
			stmt: &Assign{Targets: []Expression{name("x")}, Value: intConst(1)},
			want: "x = 1",
		},
		{
			name: "chained assignment",
			stmt: &Assign{Targets: []Expression{name("a"), name("b")}, Value: intConst(1)},
			want: "a = b = 1",
		},
		{
			name: "augmented assignment",
			stmt: &AugAssign{Target: name("x"), Op: Add, Value: intConst(1)},
			want: "x += 1",
		},
		{
			name: "annotated assignment",
			stmt: &AnnAssign{Target: name("x"), Annotation: name("int"), Value: intConst(0)},
			want: "x: int = 0",
		},
		{
			name: "bare return",
			stmt: &Return{},
			want: "return",
		},
		{
			name: "raise from",
			stmt: &Raise{Exc: name("err"), Cause: name("cause")},
			want: "raise err from cause",
		},
		{
			name: "relative import",
			stmt: &ImportFrom{Module: "pkg", Level: 2, Names: []*Alias{{Name: "thing", AsName: "t"}}},
			want: "from ..pkg import thing as t",
		},
		{
			name: "function header",
			stmt: &FunctionDef{
				Name: "f",
				Params: &Parameters{
					Pos:    []*Param{{Name: "a"}, {Name: "b", Default: intConst(1)}},
					VarArg: &Param{Name: "rest"},
					KwArg:  &Param{Name: "kw"},
				},
				Returns: name("int"),
			},
			want: "def f(a, b = 1, *rest, **kw) -> int: ...",
		},
		{
			name: "async for",
			stmt: &For{Target: name("x"), Iter: name("xs"), IsAsync: true},
			want: "async for x in xs: ...",
		},
		{
			name: "global",
			stmt: &Global{Names: []string{"a", "b"}},
			want: "global a, b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpressionRendering(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "binary op",
			expr: &BinOp{Left: name("a"), Op: FloorDiv, Right: intConst(2)},
			want: "(a // 2)",
		},
		{
			name: "chained comparison",
			expr: &Compare{
				Left:        intConst(1),
				Ops:         []CmpOp{Lt, LtE},
				Comparators: []Expression{name("x"), intConst(10)},
			},
			want: "(1 < x <= 10)",
		},
		{
			name: "not in",
			expr: &Compare{Left: name("x"), Ops: []CmpOp{NotIn}, Comparators: []Expression{name("xs")}},
			want: "(x not in xs)",
		},
		{
			name: "call with star args",
			expr: &Call{
				Func:     name("f"),
				Args:     []Expression{intConst(1), &Starred{Value: name("rest")}},
				Keywords: []*Keyword{{Name: "k", Value: intConst(2)}, {Value: name("kw")}},
			},
			want: "f(1, *rest, k=2, **kw)",
		},
		{
			name: "dict with expansion",
			expr: &Dict{
				Keys:   []Expression{strConst("a"), nil},
				Values: []Expression{intConst(1), name("rest")},
			},
			want: `{"a": 1, **rest}`,
		},
		{
			name: "list comprehension",
			expr: &ListComp{
				Elt: name("x"),
				Generators: []*Comprehension{{
					Target: name("x"),
					Iter:   name("xs"),
					Ifs:    []Expression{name("x")},
				}},
			},
			want: "[x for x in xs if x]",
		},
		{
			name: "slice",
			expr: &Subscript{Value: name("xs"), Index: &Slice{Lower: intConst(1), Step: intConst(2)}},
			want: "xs[1::2]",
		},
		{
			name: "single element tuple",
			expr: &Tuple{Elts: []Expression{intConst(1)}},
			want: "(1,)",
		},
		{
			name: "lambda",
			expr: &Lambda{Params: &Parameters{Pos: []*Param{{Name: "x"}}}, Body: name("x")},
			want: "(lambda x: x)",
		},
		{
			name: "walrus",
			expr: &NamedExpr{Target: name("n"), Value: &Call{Func: name("f")}},
			want: "(n := f())",
		},
		{
			name: "conditional expression",
			expr: &IfExp{Cond: name("c"), Body: intConst(1), Else: intConst(2)},
			want: "(1 if c else 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatternRendering(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    string
	}{
		{"wildcard", &MatchAs{}, "_"},
		{"capture", &MatchAs{Name: "x"}, "x"},
		{"as binding", &MatchAs{Pattern: &MatchValue{Value: intConst(1)}, Name: "x"}, "1 as x"},
		{
			"or alternatives",
			&MatchOr{Patterns: []Pattern{
				&MatchValue{Value: intConst(1)},
				&MatchValue{Value: intConst(2)},
			}},
			"1 | 2",
		},
		{
			"sequence with star",
			&MatchSequence{Patterns: []Pattern{
				&MatchAs{Name: "head"},
				&MatchStar{Name: "tail"},
			}},
			"[head, *tail]",
		},
		{
			"mapping with rest",
			&MatchMapping{
				Keys:     []Expression{strConst("k")},
				Patterns: []Pattern{&MatchAs{Name: "v"}},
				Rest:     "rest",
			},
			`{"k": v, **rest}`,
		},
		{
			"class pattern",
			&MatchClass{
				Cls:         name("Point"),
				Patterns:    []Pattern{&MatchAs{Name: "x"}},
				KwdNames:    []string{"y"},
				KwdPatterns: []Pattern{&MatchAs{Name: "py"}},
			},
			"Point(x, y=py)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pattern.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	stmt := &Assign{
		Targets: []Expression{name("x")},
		Value:   &BinOp{Left: intConst(1), Op: Add, Right: intConst(2)},
	}
	out := Dump(stmt)

	for _, want := range []string{"Assign", "BinOp", `"x"`, "Op: +"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Span") {
		t.Errorf("Dump output should omit spans:\n%s", out)
	}
}

func TestDumpNilFields(t *testing.T) {
	out := Dump(&Return{})
	if !strings.Contains(out, "Value: nil") {
		t.Errorf("Dump output = %s, want nil Value", out)
	}
}
