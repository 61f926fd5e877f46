// Package source provides an in-memory handle to a source file. The front
// end itself never touches the file system; callers read the file and hand
// the contents here so diagnostics can quote the offending lines.
package source

import "strings"

// File is an already-read source file.
type File struct {
	Filename string
	Contents string
	lines    []string
}

// NewFile creates a file handle and caches its line slices.
func NewFile(filename, contents string) *File {
	return &File{
		Filename: filename,
		Contents: contents,
		lines:    strings.Split(contents, "\n"),
	}
}

// Line returns the given 1-based line without its trailing newline, or the
// empty string when the line number is out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return strings.TrimSuffix(f.lines[n-1], "\r")
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lines)
}
