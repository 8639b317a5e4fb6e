package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Color detection for the text handler. pirouette mostly runs unattended
// from cron or a systemd timer with stderr captured to a journal or mail,
// where ANSI escapes are pure noise, so color is strictly opt-in by
// environment: a real terminal, no NO_COLOR, and a TERM that is not dumb.

// IsTTY reports whether w is backed by a terminal. Anything without an
// Fd() method (buffers, pipes wrapped in io.Writer) is not a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether log output to w may use ANSI color codes.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

// supportsColor separates the environment checks from terminal detection
// so the former can be tested without a real TTY.
func supportsColor(_ io.Writer, isTTY bool) bool {
	// https://no-color.org: presence alone disables color, even when empty.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
