// Package langver checks source files against the language version they
// declare. A file may open with a directive comment such as
//
//	# requires-cheetah: >= 1.2, < 2.0
//
// within its first lines. When the running front end does not satisfy the
// constraint, the mismatch is reported as a finding for the caller to
// render; it never aborts the pipeline on its own.
package langver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the language version this front end implements.
const Version = "1.4.0"

// scanLimit bounds the directive search so a directive buried in the
// middle of a large file is not honored by accident.
const scanLimit = 10

const directivePrefix = "# requires-cheetah:"

var current = semver.MustParse(Version)

// Directive is a requires-cheetah comment found in a source file.
type Directive struct {
	Constraint string
	Line       int
	Column     int // 1-based column of the constraint text
}

// Violation reports a directive the front end cannot satisfy, or one it
// cannot parse.
type Violation struct {
	Directive Directive
	Message   string
}

// Find scans the first lines of src for a requires-cheetah directive.
func Find(src string) (Directive, bool) {
	lines := strings.Split(src, "\n")
	if len(lines) > scanLimit {
		lines = lines[:scanLimit]
	}
	for i, line := range lines {
		trimmed := strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(trimmed, directivePrefix) {
			continue
		}
		rest := trimmed[len(directivePrefix):]
		constraint := strings.TrimSpace(rest)
		if constraint == "" {
			continue
		}
		column := len(directivePrefix) + strings.Index(rest, constraint) + 1
		return Directive{
			Constraint: constraint,
			Line:       i + 1,
			Column:     column,
		}, true
	}
	return Directive{}, false
}

// Check validates src's directive, if any, against the running version.
// It returns nil when no directive is present or the constraint is
// satisfied.
func Check(src string) *Violation {
	d, ok := Find(src)
	if !ok {
		return nil
	}
	constraint, err := semver.NewConstraint(d.Constraint)
	if err != nil {
		return &Violation{
			Directive: d,
			Message:   fmt.Sprintf("invalid version constraint %q", d.Constraint),
		}
	}
	if !constraint.Check(current) {
		return &Violation{
			Directive: d,
			Message: fmt.Sprintf("cheetah %s does not satisfy the required version %q",
				Version, d.Constraint),
		}
	}
	return nil
}
