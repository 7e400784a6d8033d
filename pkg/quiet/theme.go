package quiet

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors and glyphs used to draw the reporter.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	// Block styles paint a background behind glyphs and section headings.
	SuccessBlock lipgloss.Style
	WarningBlock lipgloss.Style
	ErrorBlock   lipgloss.Style

	Glyphs Glyphs
}

// Glyphs are the raw tokens drawn in the results grid, one per test.
type Glyphs struct {
	Pass    string
	Fail    string
	Pending string
}

func block(bg string) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color("0"))
}

// DefaultTheme uses the basic ANSI palette.
func DefaultTheme() Theme {
	return Theme{
		Name:         "default",
		Primary:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		Muted:        lipgloss.NewStyle().Faint(true),
		SuccessBlock: block("2"),
		WarningBlock: block("3"),
		ErrorBlock:   block("1"),
		Glyphs: Glyphs{
			Pass:    " ✓ ",
			Fail:    " ✕ ",
			Pending: " ○ ",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:         "orca",
		Primary:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		SuccessBlock: block("108"),
		WarningBlock: block("179"),
		ErrorBlock:   block("167"),
		Glyphs: Glyphs{
			Pass:    " ✓ ",
			Fail:    " ✕ ",
			Pending: " ○ ",
		},
	}
}

// MonoTheme returns a monochrome theme. Glyphs stay distinguishable without color.
func MonoTheme() Theme {
	return Theme{
		Name:         "mono",
		Primary:      lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle(),
		Warning:      lipgloss.NewStyle(),
		Error:        lipgloss.NewStyle(),
		Muted:        lipgloss.NewStyle(),
		SuccessBlock: lipgloss.NewStyle(),
		WarningBlock: lipgloss.NewStyle(),
		ErrorBlock:   lipgloss.NewStyle(),
		Glyphs: Glyphs{
			Pass:    " + ",
			Fail:    " x ",
			Pending: " - ",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// glyphFor maps a test status to its styled grid token.
func (t Theme) glyphFor(s Status) string {
	switch s {
	case StatusPassed:
		return t.SuccessBlock.Render(t.Glyphs.Pass)
	case StatusFailed:
		return t.ErrorBlock.Render(t.Glyphs.Fail)
	default:
		return t.WarningBlock.Render(t.Glyphs.Pending)
	}
}
