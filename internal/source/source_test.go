package source

import "testing"

func TestLine(t *testing.T) {
	f := NewFile("test.ch", "first\nsecond\r\nthird")
	tests := []struct {
		n    int
		want string
	}{
		{1, "first"},
		{2, "second"}, // carriage return stripped
		{3, "third"},
		{0, ""},
		{4, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := f.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLineCount(t *testing.T) {
	if got := NewFile("test.ch", "a\nb\nc").LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	// A trailing newline opens one final empty line.
	if got := NewFile("test.ch", "a\n").LineCount(); got != 2 {
		t.Errorf("LineCount() = %d, want 2", got)
	}
	if got := NewFile("test.ch", "").LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
}
