package position

import "testing"

func pos(line, column, offset int) Position {
	return Position{Filename: "test.ch", Line: line, Column: column, Offset: offset}
}

func TestPositionValidity(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"origin", pos(1, 1, 0), true},
		{"mid file", pos(10, 42, 300), true},
		{"zero line", pos(0, 1, 0), false},
		{"zero column", pos(1, 0, 0), false},
		{"negative offset", pos(1, 1, -1), false},
		{"zero value", Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Filename: "/src/pkg/main.ch", Line: 3, Column: 7, Offset: 20}
	if got := p.String(); got != "main.ch:3:7" {
		t.Errorf("String() = %q", got)
	}
	anon := Position{Line: 3, Column: 7}
	if got := anon.String(); got != "3:7" {
		t.Errorf("String() = %q", got)
	}
}

func TestPositionOrdering(t *testing.T) {
	a := pos(1, 5, 4)
	b := pos(2, 1, 6)
	if !a.Before(b) || a.After(b) {
		t.Error("a should order before b")
	}
	if !b.After(a) {
		t.Error("b should order after a")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a position does not order against itself")
	}
}

func TestSpanValidity(t *testing.T) {
	valid := NewSpan(pos(1, 1, 0), pos(1, 6, 5))
	if !valid.IsValid() {
		t.Error("span should be valid")
	}

	backwards := NewSpan(pos(1, 6, 5), pos(1, 1, 0))
	if backwards.IsValid() {
		t.Error("start after end should be invalid")
	}

	crossFile := Span{
		Start: pos(1, 1, 0),
		End:   Position{Filename: "other.ch", Line: 1, Column: 2, Offset: 1},
	}
	if crossFile.IsValid() {
		t.Error("span across files should be invalid")
	}
}

func TestSpanString(t *testing.T) {
	oneLine := NewSpan(pos(2, 3, 10), pos(2, 8, 15))
	if got := oneLine.String(); got != "test.ch:2:3-8" {
		t.Errorf("String() = %q", got)
	}
	multiLine := NewSpan(pos(2, 3, 10), pos(4, 1, 30))
	if got := multiLine.String(); got != "test.ch:2:3-4:1" {
		t.Errorf("String() = %q", got)
	}
}

func TestSpanContains(t *testing.T) {
	s := NewSpan(pos(1, 1, 0), pos(1, 6, 5))
	if !s.Contains(pos(1, 3, 2)) {
		t.Error("span should contain an interior position")
	}
	if !s.Contains(pos(1, 1, 0)) {
		t.Error("start is inclusive")
	}
	if s.Contains(pos(1, 6, 5)) {
		t.Error("end is exclusive")
	}
	if s.Contains(Position{Filename: "other.ch", Line: 1, Column: 3, Offset: 2}) {
		t.Error("span should not contain positions from other files")
	}
}

func TestSpanUnion(t *testing.T) {
	a := NewSpan(pos(1, 1, 0), pos(1, 6, 5))
	b := NewSpan(pos(2, 1, 10), pos(2, 4, 13))

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Errorf("union = %s", u)
	}
	// Union is symmetric.
	if a.Union(b) != b.Union(a) {
		t.Error("union should not depend on argument order")
	}
	// An invalid span contributes nothing.
	if got := a.Union(Span{}); got != a {
		t.Errorf("union with zero span = %s", got)
	}
}

func TestSpanLength(t *testing.T) {
	s := NewSpan(pos(1, 1, 0), pos(1, 6, 5))
	if got := s.Length(); got != 5 {
		t.Errorf("Length() = %d, want 5", got)
	}
	if got := (Span{}).Length(); got != 0 {
		t.Errorf("Length() of zero span = %d, want 0", got)
	}
}
