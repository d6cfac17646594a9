package diagfmt

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the current width of f in columns, clamped to fit
// PrettyOpts.Width's uint8 range, or 0 (unlimited) when f is not a terminal
// or its size cannot be read.
func TerminalWidth(f *os.File) uint8 {
	if !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return 0
	}
	if cols > 255 {
		return 255
	}
	return uint8(cols)
}
