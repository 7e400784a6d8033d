// Package tui shows reporter frames in a full-screen bubbletea program with
// a spinner while tests run and a scrollable view of the final frame.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/quiet/pkg/quiet"
)

type frameMsg string

type doneMsg struct{}

// Screen is a quiet.Screen backed by a bubbletea program.
type Screen struct {
	program *tea.Program
	exited  chan struct{}
	err     error
}

var _ quiet.Screen = (*Screen)(nil)

// Start launches the program. Cancelling ctx stops it.
func Start(ctx context.Context, title string, opts ...tea.ProgramOption) *Screen {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	s := &Screen{
		program: tea.NewProgram(newModel(title), opts...),
		exited:  make(chan struct{}),
	}
	go func() {
		_, s.err = s.program.Run()
		close(s.exited)
	}()
	return s
}

// Clear is a no-op: the program repaints its whole view for every frame.
func (s *Screen) Clear() {}

// Print replaces the displayed frame.
func (s *Screen) Print(frame string) {
	s.program.Send(frameMsg(frame))
}

// Done marks the run complete. The program keeps showing the final frame
// until the user quits.
func (s *Screen) Done() {
	s.program.Send(doneMsg{})
}

// Exited is closed when the program stops.
func (s *Screen) Exited() <-chan struct{} {
	return s.exited
}

// Wait blocks until the program stops and returns its error.
func (s *Screen) Wait() error {
	<-s.exited
	return s.err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	title    string
	spinner  spinner.Model
	viewport viewport.Model
	frame    string
	ready    bool
	done     bool
}

func newModel(title string) model {
	return model{
		title:    title,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			if m.done {
				return m, tea.Quit
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		// header and footer take one line each
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.ready = true
		m.setFrame(m.frame)
	case frameMsg:
		m.setFrame(string(msg))
	case doneMsg:
		m.done = true
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setFrame shows frame, keeping the summary lines at the bottom in view
// while the run is in progress.
func (m *model) setFrame(frame string) {
	m.frame = frame
	m.viewport.SetContent(frame)
	if !m.done {
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	var header string
	if m.done {
		header = headerStyle.Render(m.title + " complete")
	} else {
		header = m.spinner.View() + " " + headerStyle.Render(m.title)
	}

	if !m.ready {
		return header + "\n" + m.frame
	}

	footer := fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
	if m.done {
		footer += "  q to quit, arrows to scroll"
	} else {
		footer += "  ctrl+c to interrupt"
	}
	return header + "\n" + m.viewport.View() + "\n" + footerStyle.Render(footer)
}
