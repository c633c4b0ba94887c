package term

import (
	"io"
	"os"

	xterm "golang.org/x/term"
)

// Environment variables to control console output.
//
// Precedence (highest first):
//  1. NO_COLOR    -> no color, no progress bars
//  2. FORCE_TTY   -> color and progress bars
//  3. FORCE_COLOR -> color, progress bars follow TTY detection
const (
	EnvNoColor    = "NO_COLOR"
	EnvForceColor = "FORCE_COLOR"
	EnvForceTTY   = "FORCE_TTY"
)

// OutputMode tells what a writer is able to render.
//
// Color: ANSI styling is allowed.
// Control: sequences that redraw the current line (progress bars) are allowed.
type OutputMode struct {
	Color   bool
	Control bool
}

// ModeProvider is implemented by writers that know their own output mode.
type ModeProvider interface {
	TUIMode() OutputMode
}

// Resolve resolves the effective output mode for the given writer.
// Writers that are neither a ModeProvider nor an *os.File are treated as
// non-TTY.
func Resolve(out io.Writer) OutputMode {
	if p, ok := out.(ModeProvider); ok && p != nil {
		return p.TUIMode()
	}
	if f, ok := out.(*os.File); ok {
		return resolveFile(f)
	}
	return resolveFile(nil)
}

// Interactive reports whether progress bars can be drawn on out
func Interactive(out io.Writer) bool {
	return Resolve(out).Control
}

func resolveFile(out *os.File) OutputMode {
	if os.Getenv(EnvNoColor) != "" {
		return OutputMode{}
	}
	if os.Getenv(EnvForceTTY) != "" {
		return OutputMode{Color: true, Control: true}
	}

	isTTY := out != nil && xterm.IsTerminal(int(out.Fd()))
	if os.Getenv(EnvForceColor) != "" {
		return OutputMode{Color: true, Control: isTTY}
	}
	return OutputMode{Color: isTTY, Control: isTTY}
}
