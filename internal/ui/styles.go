// Package ui holds the terminal styling for msiforge output.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Text styles
var (
	// ErrorStyle paints the machine-stable error tag.
	ErrorStyle = color.New(color.FgHiRed, color.Bold)

	// HelpStyle subdues hint lines.
	HelpStyle = color.New(color.Faint)
)

// Emoji icons
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
	IconPackage = "📦"
	IconTool    = "🔧"
	IconTrash   = "🗑️ "
	IconSearch  = "🔍"
	IconHint    = "💡"
	IconWatch   = "👀"
)

// colorEnabled reports whether styled output should be forced onto stderr.
// The color package keys its default off stdout, but diagnostics go to
// stderr, so the decision is made here against that stream.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// ErrorTag formats the stable error prefix written before every failure
// message, colored only when standard error is an interactive terminal.
func ErrorTag(code int, kind string) string {
	tag := fmt.Sprintf("Error[%d] (%s)", code, kind)
	if !colorEnabled() {
		return tag
	}
	ErrorStyle.EnableColor()
	return ErrorStyle.Sprint(tag)
}

// Hint renders a suggestion line in subdued text.
func Hint(text string) string {
	if !colorEnabled() {
		return text
	}
	HelpStyle.EnableColor()
	return HelpStyle.Sprint(text)
}
