// Package ui prints colored status lines for the shipwright CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
)

// Out receives every status line. Commands point it at their own writer.
var Out io.Writer = color.Output

// SetOutput redirects status lines and returns a func restoring the previous
// writer.
func SetOutput(w io.Writer) func() {
	prev := Out
	Out = w
	return func() { Out = prev }
}

// DisableColor turns off ANSI escapes for every printer.
func DisableColor() {
	color.NoColor = true
}

// Success prints a green line with a checkmark.
func Success(format string, args ...any) {
	Green.Fprintf(Out, "✓ "+format+"\n", args...)
}

// Error prints a red line with an X.
func Error(format string, args ...any) {
	Red.Fprintf(Out, "✗ "+format+"\n", args...)
}

// Warning prints a yellow line.
func Warning(format string, args ...any) {
	Yellow.Fprintf(Out, "⚠ "+format+"\n", args...)
}

// Info prints a blue line.
func Info(format string, args ...any) {
	Blue.Fprintf(Out, format+"\n", args...)
}

// Step prints a numbered step.
func Step(n int, format string, args ...any) {
	Cyan.Fprintf(Out, "[%d] ", n)
	fmt.Fprintf(Out, format+"\n", args...)
}

// Header prints a bold line.
func Header(format string, args ...any) {
	Bold.Fprintf(Out, format+"\n", args...)
}

// Ship reports a finished artifact set.
func Ship(format string, args ...any) {
	Green.Fprintf(Out, "🚢 "+format+"\n", args...)
}

// Package reports a single written file.
func Package(format string, args ...any) {
	Blue.Fprintf(Out, "📦 "+format+"\n", args...)
}

// Fatal prints an error to stderr and exits.
func Fatal(format string, args ...any) {
	Red.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
	os.Exit(1)
}
