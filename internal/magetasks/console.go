package magetasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1))
)

// PrintH1Header prints a top-level header with a rule above and below.
func PrintH1Header(title string) {
	width := 80
	rule := strings.Repeat("=", width)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println(headerStyle.Render(strings.Repeat(" ", max(0, (width-len(title))/2)) + title))
	fmt.Println(rule)
	fmt.Println()
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Println()
	fmt.Println(headerStyle.Render("=== " + title + " ==="))
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

// PrintWarning prints a warning message.
func PrintWarning(msg string) {
	fmt.Println(warningStyle.Render("! " + msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("✕ " + msg))
}
