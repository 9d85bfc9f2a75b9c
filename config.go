package pqmfmt

import "github.com/fukuyori/pqm-formatter/printer"

// Mode selects the printer's overall layout policy (spec §3.3).
type Mode = printer.Mode

const (
	ModeDefault  = printer.ModeDefault
	ModeCompact  = printer.ModeCompact
	ModeExpanded = printer.ModeExpanded
)

// Config holds the formatter's closed list of output-affecting options
// (spec §3.3): mode, indent_unit, indent_char, and line_length. No other
// setting changes Format's output.
type Config struct {
	Mode       Mode
	IndentChar byte
	IndentUnit int
	LineLength int
}

// DefaultConfig is spec.md §3.3's Default config: four-space indent, a
// 100-column soft bound, fit-driven collapse/expand.
func DefaultConfig() Config {
	return fromOptions(printer.DefaultOptions())
}

// CompactConfig collapses every construct whose flat form fits within
// LineLength and carries no line comment.
func CompactConfig() Config {
	return fromOptions(printer.CompactOptions())
}

// ExpandedConfig always breaks container constructs open.
func ExpandedConfig() Config {
	return fromOptions(printer.ExpandedOptions())
}

func fromOptions(o printer.Options) Config {
	return Config{Mode: o.Mode, IndentChar: o.IndentChar, IndentUnit: o.IndentWidth, LineLength: o.LineLength}
}

func (c Config) toOptions() printer.Options {
	return printer.Options{Mode: c.Mode, IndentChar: c.IndentChar, IndentWidth: c.IndentUnit, LineLength: c.LineLength}
}

// WithIndentUnit returns a copy of c with IndentUnit set to n (spaces per
// indent level; ignored when IndentChar is '\t').
func (c Config) WithIndentUnit(n int) Config {
	c.IndentUnit = n
	return c
}

// WithIndentChar returns a copy of c with IndentChar set to ch, which must
// be ' ' or '\t'.
func (c Config) WithIndentChar(ch byte) Config {
	c.IndentChar = ch
	return c
}

// WithLineLength returns a copy of c with LineLength set to n.
func (c Config) WithLineLength(n int) Config {
	c.LineLength = n
	return c
}

// WithMode returns a copy of c with Mode set to m.
func (c Config) WithMode(m Mode) Config {
	c.Mode = m
	return c
}
