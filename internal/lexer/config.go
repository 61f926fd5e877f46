package lexer

// Config controls indentation handling. Zero values are not useful; build
// configs from DefaultConfig.
type Config struct {
	// TabWidth is the number of columns a tab expands to when measuring
	// indentation width.
	TabWidth int

	// IndentSize is the expected indentation step. Only consulted when
	// EnforceIndentSize is set.
	IndentSize int

	// EnforceIndentSize reports indentation widths that are not a multiple
	// of IndentSize as errors.
	EnforceIndentSize bool
}

// DefaultConfig returns the standard lexer configuration: tabs expand to 8
// columns and indentation width is unconstrained beyond the usual
// strictly-increasing stack discipline. Mixing tabs and spaces within one
// line's indentation is always an error; there is no knob for that.
func DefaultConfig() Config {
	return Config{
		TabWidth:          8,
		IndentSize:        4,
		EnforceIndentSize: false,
	}
}
