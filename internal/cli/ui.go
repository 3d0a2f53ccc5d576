package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output for command results. Logs go to stderr through the
// logger; everything here is the result a user or script reads on stdout.

var (
	colorCyan   = lipgloss.Color("36")  // package names
	colorGreen  = lipgloss.Color("35")  // fetched
	colorYellow = lipgloss.Color("220") // missing config file
	colorRed    = lipgloss.Color("167") // failed command
	colorBlue   = lipgloss.Color("75")  // registry and tarball URLs
	colorWhite  = lipgloss.Color("255") // versions, paths
	colorGray   = lipgloss.Color("245") // field labels
	colorDim    = lipgloss.Color("240") // error codes, arrows
)

var (
	// StyleTitle renders a package name or a config section heading.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink renders registry and tarball URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders error codes and decorations.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders versions, paths and other field values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning renders non-fatal notices.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, StyleTitle.Render(title))
}

// printFile prints the directory a package was extracted into.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints one field of a resolved package or config section,
// with labels padded so values line up.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printKeyLink prints a labeled URL.
func printKeyLink(w io.Writer, key, url string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleLink.Render(url))
}
