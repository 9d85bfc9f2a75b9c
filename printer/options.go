package printer

// Mode selects the printer's overall layout policy (spec §4.3).
type Mode int

const (
	// ModeDefault collapses a construct onto one line when it fits within
	// LineLength and expands it onto multiple lines otherwise. A `let` always
	// expands, and so does a record or list with a non-simple field or item.
	ModeDefault Mode = iota
	// ModeCompact prefers the collapsed form for every construct, including
	// `let`, and only breaks one open when the collapsed form would exceed
	// LineLength or an attached line comment makes collapsing impossible.
	ModeCompact
	// ModeExpanded always breaks container constructs onto multiple lines,
	// even when the collapsed form would fit.
	ModeExpanded
)

// Options configures layout decisions: indentation, the soft line-length
// bound, and the collapse/expand policy.
type Options struct {
	Mode       Mode
	IndentChar byte // ' ' or '\t'
	IndentWidth int // spaces per indent level; ignored when IndentChar == '\t'
	LineLength int
}

// DefaultOptions mirrors spec §3.3's Default config: four-space indent, a
// 100-column soft bound, and the fit-driven Default mode.
func DefaultOptions() Options {
	return Options{Mode: ModeDefault, IndentChar: ' ', IndentWidth: 4, LineLength: 100}
}

// CompactOptions collapses every construct whose flat form fits within
// LineLength and carries no line comment.
func CompactOptions() Options {
	return Options{Mode: ModeCompact, IndentChar: ' ', IndentWidth: 4, LineLength: 100}
}

// ExpandedOptions always breaks containers open, one entry per line.
func ExpandedOptions() Options {
	return Options{Mode: ModeExpanded, IndentChar: ' ', IndentWidth: 4, LineLength: 100}
}
