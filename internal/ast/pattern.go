package ast

import (
	"strings"

	"github.com/Hayden-Liles/Cheetah/internal/position"
)

// MatchValue matches against the value of an expression, typically a
// literal or a dotted name.
type MatchValue struct {
	Span  position.Span
	Value Expression
}

func (m *MatchValue) patternNode()           {}
func (m *MatchValue) GetSpan() position.Span { return m.Span }
func (m *MatchValue) String() string         { return m.Value.String() }

// MatchSingleton matches None, True, or False by identity.
type MatchSingleton struct {
	Span  position.Span
	Value *Constant // ConstNone or ConstBool
}

func (m *MatchSingleton) patternNode()           {}
func (m *MatchSingleton) GetSpan() position.Span { return m.Span }
func (m *MatchSingleton) String() string         { return m.Value.String() }

// MatchSequence matches a fixed or starred sequence of subpatterns. At most
// one element is a MatchStar.
type MatchSequence struct {
	Span     position.Span
	Patterns []Pattern
}

func (m *MatchSequence) patternNode()           {}
func (m *MatchSequence) GetSpan() position.Span { return m.Span }
func (m *MatchSequence) String() string {
	parts := make([]string, len(m.Patterns))
	for i, p := range m.Patterns {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MatchStar captures the rest of a sequence. An empty Name is the
// non-binding *_ form.
type MatchStar struct {
	Span position.Span
	Name string
}

func (m *MatchStar) patternNode()           {}
func (m *MatchStar) GetSpan() position.Span { return m.Span }
func (m *MatchStar) String() string {
	if m.Name == "" {
		return "*_"
	}
	return "*" + m.Name
}

// MatchMapping matches mapping keys against subpatterns. Rest names the
// **rest capture, "" when absent.
type MatchMapping struct {
	Span     position.Span
	Keys     []Expression
	Patterns []Pattern
	Rest     string
}

func (m *MatchMapping) patternNode()           {}
func (m *MatchMapping) GetSpan() position.Span { return m.Span }
func (m *MatchMapping) String() string {
	var parts []string
	for i := range m.Keys {
		parts = append(parts, m.Keys[i].String()+": "+m.Patterns[i].String())
	}
	if m.Rest != "" {
		parts = append(parts, "**"+m.Rest)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MatchClass matches an instance of a class with positional and keyword
// subpatterns. KwdNames and KwdPatterns are parallel.
type MatchClass struct {
	Span        position.Span
	Cls         Expression
	Patterns    []Pattern
	KwdNames    []string
	KwdPatterns []Pattern
}

func (m *MatchClass) patternNode()           {}
func (m *MatchClass) GetSpan() position.Span { return m.Span }
func (m *MatchClass) String() string {
	var parts []string
	for _, p := range m.Patterns {
		parts = append(parts, p.String())
	}
	for i, name := range m.KwdNames {
		parts = append(parts, name+"="+m.KwdPatterns[i].String())
	}
	return m.Cls.String() + "(" + strings.Join(parts, ", ") + ")"
}

// MatchAs is a capture or wildcard pattern. A nil Pattern with an empty
// Name is the wildcard _; a nil Pattern with a Name is a bare capture.
type MatchAs struct {
	Span    position.Span
	Pattern Pattern // nil for a bare capture or wildcard
	Name    string  // "" for the wildcard
}

func (m *MatchAs) patternNode()           {}
func (m *MatchAs) GetSpan() position.Span { return m.Span }
func (m *MatchAs) String() string {
	if m.Pattern == nil {
		if m.Name == "" {
			return "_"
		}
		return m.Name
	}
	return m.Pattern.String() + " as " + m.Name
}

// MatchOr tries alternatives left to right: p1 | p2 | p3.
type MatchOr struct {
	Span     position.Span
	Patterns []Pattern
}

func (m *MatchOr) patternNode()           {}
func (m *MatchOr) GetSpan() position.Span { return m.Span }
func (m *MatchOr) String() string {
	parts := make([]string, len(m.Patterns))
	for i, p := range m.Patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, " | ")
}
