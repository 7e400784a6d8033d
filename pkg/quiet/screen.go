package quiet

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Screen is where the reporter draws its frames. Every render clears the
// screen and prints one complete frame.
type Screen interface {
	Clear()
	Print(frame string)
}

// ClearMode controls when TerminalScreen emits the clear sequence.
type ClearMode string

const (
	ClearAuto   ClearMode = "auto"   // clear only when writing to a terminal
	ClearAlways ClearMode = "always" // always clear
	ClearNever  ClearMode = "never"  // never clear; frames are appended
)

// ParseClearMode validates a clear mode name. The empty string means auto.
func ParseClearMode(s string) (ClearMode, error) {
	switch ClearMode(s) {
	case "", ClearAuto:
		return ClearAuto, nil
	case ClearAlways, ClearNever:
		return ClearMode(s), nil
	default:
		return "", fmt.Errorf("unknown clear mode %q (expected auto, always, never)", s)
	}
}

// clearSequence moves the cursor home and erases to the end of the display.
const clearSequence = "\x1b[1;1H\x1b[0J"

// TerminalScreen draws frames on a plain writer, typically stdout.
type TerminalScreen struct {
	out   io.Writer
	clear bool
}

// NewTerminalScreen creates a screen writing to out.
func NewTerminalScreen(out io.Writer, mode ClearMode) *TerminalScreen {
	s := &TerminalScreen{out: out}
	switch mode {
	case ClearAlways:
		s.clear = true
	case ClearNever:
	default:
		s.clear = IsTerminal(out)
	}
	return s
}

// Clear erases the previous frame.
func (s *TerminalScreen) Clear() {
	if s.clear {
		fmt.Fprint(s.out, clearSequence)
	}
}

// Print writes frame followed by a newline.
func (s *TerminalScreen) Print(frame string) {
	fmt.Fprintln(s.out, frame)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
